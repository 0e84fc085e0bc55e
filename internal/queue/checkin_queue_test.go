package queue_test

import (
	"context"
	"testing"
	"time"

	"go-gin-ticket-gate/config"
	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckInEvent(ticketID string) *model.CheckInEvent {
	return &model.CheckInEvent{
		AttendanceKey: "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11",
		TicketID:      ticketID,
		Name:          "山田太郎",
		BandName:      "The Rockers",
		ProcessedAt:   time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC),
	}
}

func TestMemoryCheckInQueue_PublishAndSubscribe(t *testing.T) {
	q := queue.NewCheckInQueue(4)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	event := newCheckInEvent("t-1")
	require.NoError(t, q.PublishCheckIn(ctx, event))

	delCh, err := q.SubscribeCheckIns(ctx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		assert.Equal(t, event, d.Data)
		d.Ack()
	case <-ctx.Done():
		t.Fatal("timeout 未收到訊息")
	}
}

func TestMemoryCheckInQueue_NackRequeue_redelivers(t *testing.T) {
	q := queue.NewCheckInQueueWithRetryDelay(4, 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, q.PublishCheckIn(ctx, newCheckInEvent("t-requeue")))

	delCh, err := q.SubscribeCheckIns(ctx)
	require.NoError(t, err)

	first := <-delCh
	require.NotNil(t, first.Data)
	first.Nack(true)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		assert.Equal(t, "t-requeue", d.Data.TicketID)
	case <-ctx.Done():
		t.Fatal("Nack(true) 後應再次投遞")
	}
}

func TestMemoryCheckInQueue_NackRequeue_waitsRetryDelay(t *testing.T) {
	retryDelay := 300 * time.Millisecond
	q := queue.NewCheckInQueueWithRetryDelay(4, retryDelay)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, q.PublishCheckIn(ctx, newCheckInEvent("t-retry")))

	delCh, err := q.SubscribeCheckIns(ctx)
	require.NoError(t, err)

	nackedAt := time.Now()
	(<-delCh).Nack(true)

	// 等待期間不應立即重送
	select {
	case d := <-delCh:
		t.Fatalf("retry delay 之前不應再投遞: %+v", d.Data)
	case <-time.After(retryDelay / 3):
	}

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		assert.Equal(t, "t-retry", d.Data.TicketID)
		assert.GreaterOrEqual(t, time.Since(nackedAt), retryDelay)
	case <-ctx.Done():
		t.Fatal("retry delay 後應再次投遞")
	}
}

func TestMemoryCheckInQueue_NackDiscard(t *testing.T) {
	q := queue.NewCheckInQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.PublishCheckIn(ctx, newCheckInEvent("t-discard")))

	delCh, err := q.SubscribeCheckIns(ctx)
	require.NoError(t, err)

	(<-delCh).Nack(false)

	select {
	case d := <-delCh:
		t.Fatalf("Nack(false) 後不應再投遞: %+v", d.Data)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestMemoryCheckInQueue_PublishBlockedRespectsContext(t *testing.T) {
	q := queue.NewCheckInQueue(1)
	require.NoError(t, q.PublishCheckIn(context.Background(), newCheckInEvent("t-1")))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := q.PublishCheckIn(ctx, newCheckInEvent("t-2"))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryCheckInQueue_Subscribe_ctxCancel_closesChannel(t *testing.T) {
	q := queue.NewCheckInQueue(1)
	ctx, cancel := context.WithCancel(context.Background())

	delCh, err := q.SubscribeCheckIns(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-delCh:
		assert.False(t, ok, "context 取消後 channel 應關閉")
	case <-time.After(time.Second):
		t.Fatal("channel 未在時限內關閉")
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		q, closer, err := queue.New(ctx, config.QueueConfig{Driver: queue.DriverMemory}, nil, "")
		require.NoError(t, err)
		assert.IsType(t, &queue.MemoryCheckInQueue{}, q)
		assert.NoError(t, closer.Close())
	})

	t.Run("redis_without_client", func(t *testing.T) {
		_, _, err := queue.New(ctx, config.QueueConfig{Driver: queue.DriverRedis}, nil, "")
		assert.Error(t, err)
	})

	t.Run("kafka", func(t *testing.T) {
		cfg := config.QueueConfig{
			Driver: queue.DriverKafka,
			Kafka:  config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "ticket-checkins", GroupID: "test"},
		}
		q, closer, err := queue.New(ctx, cfg, nil, "")
		require.NoError(t, err)
		assert.IsType(t, &queue.KafkaCheckInQueue{}, q)
		_ = closer.Close()
	})

	t.Run("unknown_driver", func(t *testing.T) {
		_, _, err := queue.New(ctx, config.QueueConfig{Driver: "nats"}, nil, "")
		assert.Error(t, err)
	})
}
