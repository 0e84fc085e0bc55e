package queues

import (
	"context"

	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/queue"

	"github.com/stretchr/testify/mock"
)

type CheckInQueueMock struct {
	mock.Mock
}

func NewCheckInQueueMock() *CheckInQueueMock {
	return &CheckInQueueMock{}
}

func (m *CheckInQueueMock) PublishCheckIn(ctx context.Context, event *model.CheckInEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *CheckInQueueMock) SubscribeCheckIns(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}
