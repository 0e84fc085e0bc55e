package services

import (
	"context"

	"go-gin-ticket-gate/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type TicketServiceMock struct {
	mock.Mock
}

func NewTicketServiceMock() *TicketServiceMock {
	return &TicketServiceMock{}
}

func (m *TicketServiceMock) Issue(ctx context.Context, eventID uuid.UUID, ticket *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, eventID, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Ticket, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) GetByTicketID(ctx context.Context, eventID uuid.UUID, ticketID string) (*model.Ticket, error) {
	args := m.Called(ctx, eventID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) DeleteByTicketID(ctx context.Context, eventID uuid.UUID, ticketID string) error {
	args := m.Called(ctx, eventID, ticketID)
	return args.Error(0)
}

func (m *TicketServiceMock) OverrideStatus(ctx context.Context, eventID uuid.UUID, ticketID string, status model.TicketStatus) (*model.Ticket, error) {
	args := m.Called(ctx, eventID, ticketID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) QRCode(ctx context.Context, eventID uuid.UUID, ticketID string) (string, error) {
	args := m.Called(ctx, eventID, ticketID)
	return args.String(0), args.Error(1)
}
