package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-gin-ticket-gate/internal/mocks/caches"
	"go-gin-ticket-gate/internal/mocks/notifiers"
	"go-gin-ticket-gate/internal/mocks/queues"
	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/notify"
	"go-gin-ticket-gate/internal/queue"
	"go-gin-ticket-gate/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var _ notify.Notifier = (*notifiers.NotifierMock)(nil)

func testCheckInEvent() *model.CheckInEvent {
	return &model.CheckInEvent{
		AttendanceKey: "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11",
		TicketID:      "t-1",
		Name:          "Taro Yamada",
		ProcessedAt:   time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC),
	}
}

// deliver 透過 mock queue 投遞一筆訊息，回傳 ack / nack 結果
func deliver(t *testing.T, w worker.CheckInWorker, q *queues.CheckInQueueMock, event *model.CheckInEvent) (acked bool, requeued bool) {
	t.Helper()
	ch := make(chan queue.Delivery, 1)
	done := make(chan struct{})
	ch <- queue.Delivery{
		Data: event,
		Ack:  func() { acked = true; close(done) },
		Nack: func(requeue bool) { requeued = requeue; close(done) },
	}
	close(ch)
	q.On("SubscribeCheckIns", mock.Anything).Return((<-chan queue.Delivery)(ch), nil)

	require.NoError(t, w.Start(context.Background()))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("超時！Worker 沒有在時間內處理訊息")
	}
	return acked, requeued
}

func TestCheckInWorker_RecordsAndNotifies(t *testing.T) {
	attendance := caches.NewAttendanceCacheMock()
	notifier := notifiers.NewNotifierMock()
	q := queues.NewCheckInQueueMock()
	event := testCheckInEvent()
	attendance.On("RecordCheckIn", mock.Anything, event.AttendanceKey, "t-1").Return(true, nil)
	notifier.On("NotifyCheckIn", mock.Anything, event).Return(nil)

	acked, _ := deliver(t, worker.NewCheckInWorker(attendance, notifier, q), q, event)

	assert.True(t, acked)
	attendance.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCheckInWorker_CacheFailureRequeues(t *testing.T) {
	attendance := caches.NewAttendanceCacheMock()
	notifier := notifiers.NewNotifierMock()
	q := queues.NewCheckInQueueMock()
	event := testCheckInEvent()
	attendance.On("RecordCheckIn", mock.Anything, event.AttendanceKey, "t-1").Return(false, errors.New("redis down"))

	acked, requeued := deliver(t, worker.NewCheckInWorker(attendance, notifier, q), q, event)

	assert.False(t, acked)
	assert.True(t, requeued)
	notifier.AssertNotCalled(t, "NotifyCheckIn", mock.Anything, mock.Anything)
}

func TestCheckInWorker_NotifyFailureStillAcks(t *testing.T) {
	attendance := caches.NewAttendanceCacheMock()
	notifier := notifiers.NewNotifierMock()
	q := queues.NewCheckInQueueMock()
	event := testCheckInEvent()
	attendance.On("RecordCheckIn", mock.Anything, event.AttendanceKey, "t-1").Return(false, nil)
	notifier.On("NotifyCheckIn", mock.Anything, event).Return(errors.New("pubnub 403"))

	acked, _ := deliver(t, worker.NewCheckInWorker(attendance, notifier, q), q, event)

	assert.True(t, acked)
}

func TestCheckInWorker_SubscribeError(t *testing.T) {
	q := queues.NewCheckInQueueMock()
	q.On("SubscribeCheckIns", mock.Anything).Return(nil, errors.New("no group"))

	err := worker.NewCheckInWorker(caches.NewAttendanceCacheMock(), notify.NopNotifier{}, q).Start(context.Background())

	assert.Error(t, err)
}

// 使用記憶體 queue 走完整個流程
func TestCheckInWorker_WithMemoryQueue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewCheckInQueue(10)
	called := make(chan string, 1)
	attendance := caches.NewAttendanceCacheMock()
	attendance.On("RecordCheckIn", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { called <- args.String(2) }).
		Return(true, nil)

	w := worker.NewCheckInWorker(attendance, notify.NopNotifier{}, q)
	require.NoError(t, w.Start(ctx))
	require.NoError(t, q.PublishCheckIn(ctx, testCheckInEvent()))

	select {
	case ticketID := <-called:
		assert.Equal(t, "t-1", ticketID)
	case <-time.After(time.Second):
		t.Error("超時！Worker 沒有在時間內處理入場事件")
	}
}
