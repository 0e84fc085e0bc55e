package caches

import (
	"context"

	"go-gin-ticket-gate/internal/cache"

	"github.com/stretchr/testify/mock"
)

type AttendanceCacheMock struct {
	mock.Mock
}

func NewAttendanceCacheMock() *AttendanceCacheMock {
	return &AttendanceCacheMock{}
}

func (m *AttendanceCacheMock) BeginWarmUp(ctx context.Context, eventKey string) (string, error) {
	args := m.Called(ctx, eventKey)
	return args.String(0), args.Error(1)
}

func (m *AttendanceCacheMock) WarmUp(ctx context.Context, eventKey string, token string, issued int, checkedInTicketIDs []string) (bool, error) {
	args := m.Called(ctx, eventKey, token, issued, checkedInTicketIDs)
	return args.Bool(0), args.Error(1)
}

func (m *AttendanceCacheMock) GetStats(ctx context.Context, eventKey string) (cache.AttendanceStats, error) {
	args := m.Called(ctx, eventKey)
	return args.Get(0).(cache.AttendanceStats), args.Error(1)
}

func (m *AttendanceCacheMock) IncrIssued(ctx context.Context, eventKey string) error {
	args := m.Called(ctx, eventKey)
	return args.Error(0)
}

func (m *AttendanceCacheMock) RecordCheckIn(ctx context.Context, eventKey string, ticketID string) (bool, error) {
	args := m.Called(ctx, eventKey, ticketID)
	return args.Bool(0), args.Error(1)
}

func (m *AttendanceCacheMock) Invalidate(ctx context.Context, eventKey string) error {
	args := m.Called(ctx, eventKey)
	return args.Error(0)
}
