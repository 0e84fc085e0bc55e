package services

import (
	"context"

	"go-gin-ticket-gate/internal/model"

	"github.com/stretchr/testify/mock"
)

type CheckInServiceMock struct {
	mock.Mock
}

func NewCheckInServiceMock() *CheckInServiceMock {
	return &CheckInServiceMock{}
}

func (m *CheckInServiceMock) CheckIn(ctx context.Context, ref model.TicketRef) (*model.CheckInResult, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckInResult), args.Error(1)
}

func (m *CheckInServiceMock) Scan(ctx context.Context, payload string) (*model.CheckInResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckInResult), args.Error(1)
}

func (m *CheckInServiceMock) Lookup(ctx context.Context, ref model.TicketRef) (*model.Ticket, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}
