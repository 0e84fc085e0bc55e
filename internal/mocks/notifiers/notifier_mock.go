package notifiers

import (
	"context"

	"go-gin-ticket-gate/internal/model"

	"github.com/stretchr/testify/mock"
)

type NotifierMock struct {
	mock.Mock
}

func NewNotifierMock() *NotifierMock {
	return &NotifierMock{}
}

func (m *NotifierMock) NotifyCheckIn(ctx context.Context, event *model.CheckInEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
