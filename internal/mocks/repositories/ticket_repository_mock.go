package repositories

import (
	"context"
	"time"

	"go-gin-ticket-gate/internal/model"

	"github.com/stretchr/testify/mock"
)

type TicketRepositoryMock struct {
	mock.Mock
}

func NewTicketRepositoryMock() *TicketRepositoryMock {
	return &TicketRepositoryMock{}
}

func (m *TicketRepositoryMock) CreateIfNameAvailable(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) FindByTicketID(ctx context.Context, eventID int, ticketID string) (*model.Ticket, error) {
	args := m.Called(ctx, eventID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) FindByRef(ctx context.Context, ref model.TicketRef) (*model.Ticket, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) MarkUsed(ctx context.Context, ref model.TicketRef, at time.Time) (*model.Ticket, error) {
	args := m.Called(ctx, ref, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) SetStatus(ctx context.Context, eventID int, ticketID string, status model.TicketStatus) (*model.Ticket, error) {
	args := m.Called(ctx, eventID, ticketID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) Delete(ctx context.Context, eventID int, ticketID string) error {
	args := m.Called(ctx, eventID, ticketID)
	return args.Error(0)
}

func (m *TicketRepositoryMock) Attendance(ctx context.Context, eventID int) (int, []string, error) {
	args := m.Called(ctx, eventID)
	var ids []string
	if args.Get(1) != nil {
		ids = args.Get(1).([]string)
	}
	return args.Int(0), ids, args.Error(2)
}
