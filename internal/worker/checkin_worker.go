package worker

import (
	"context"
	"fmt"

	"go-gin-ticket-gate/internal/cache"
	"go-gin-ticket-gate/internal/metrics"
	"go-gin-ticket-gate/internal/notify"
	"go-gin-ticket-gate/internal/queue"
	"go-gin-ticket-gate/pkg/logger"

	"go.uber.org/zap"
)

type CheckInWorker interface {
	// 訂閱入場隊列
	Start(ctx context.Context) error
}

type CheckInWorkerImpl struct {
	attendance cache.AttendanceCache
	notifier   notify.Notifier
	queue      queue.CheckInQueue
}

func NewCheckInWorker(attendance cache.AttendanceCache, notifier notify.Notifier, queue queue.CheckInQueue) CheckInWorker {
	return &CheckInWorkerImpl{
		attendance: attendance,
		notifier:   notifier,
		queue:      queue,
	}
}

func (w *CheckInWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeCheckIns(ctx)
	if err != nil {
		return fmt.Errorf("subscribe check-ins: %w", err)
	}

	go func() {
		for msg := range msgs {
			w.handle(ctx, msg)
		}
		logger.WithComponent("worker").Info("check-in worker stopped")
	}()
	return nil
}

func (w *CheckInWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	event := msg.Data
	log := logger.WithComponent("worker").With(
		zap.String("event_id", event.AttendanceKey),
		zap.String("ticket_id", event.TicketID),
	)

	// seen set 讓重送的訊息不會重複計數
	if _, err := w.attendance.RecordCheckIn(ctx, event.AttendanceKey, event.TicketID); err != nil {
		log.Warn("record check-in failed, requeue", zap.Error(err))
		msg.Nack(true)
		return
	}

	// 推播失敗不重試
	if err := w.notifier.NotifyCheckIn(ctx, event); err != nil {
		metrics.Notifications.WithLabelValues(metrics.ResultFailed).Inc()
		log.Warn("notify check-in failed", zap.Error(err))
	} else {
		metrics.Notifications.WithLabelValues(metrics.ResultSent).Inc()
	}

	msg.Ack()
}
