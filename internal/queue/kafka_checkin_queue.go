package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go-gin-ticket-gate/config"
	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaCheckInQueue 以 attendance key 當 message key，同一場活動的入場事件落在同一個 partition
type KafkaCheckInQueue struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

func NewKafkaCheckInQueue(cfg config.KafkaConfig) *KafkaCheckInQueue {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            5,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		StartOffset: kafka.FirstOffset,
		Dialer: &kafka.Dialer{
			Timeout: 10 * time.Second,
		},
	})

	return &KafkaCheckInQueue{writer: w, reader: r}
}

func (q *KafkaCheckInQueue) PublishCheckIn(ctx context.Context, event *model.CheckInEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal check-in: %w", err)
	}
	return q.write(ctx, []byte(event.AttendanceKey), payload)
}

func (q *KafkaCheckInQueue) write(ctx context.Context, key, value []byte) error {
	if err := q.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value}); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (q *KafkaCheckInQueue) SubscribeCheckIns(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			msg, err := q.reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
					return
				}
				logger.WithComponent("mq").Error("kafka fetch failed", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}

			var event model.CheckInEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.WithComponent("mq").Warn("unmarshal check-in failed",
					zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset), zap.Error(err))
				q.commit(ctx, msg)
				continue
			}

			d := q.newDelivery(ctx, msg, &event)
			select {
			case out <- d:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (q *KafkaCheckInQueue) newDelivery(ctx context.Context, msg kafka.Message, event *model.CheckInEvent) Delivery {
	return Delivery{
		Data: event,
		Ack: func() {
			q.commit(ctx, msg)
		},
		Nack: func(requeue bool) {
			if requeue {
				// Kafka 沒有單筆 requeue，重新寫回 topic 後再 commit 原 offset
				if err := q.write(ctx, msg.Key, msg.Value); err != nil {
					logger.WithComponent("mq").Error("kafka requeue failed, leaving offset uncommitted",
						zap.Int64("offset", msg.Offset), zap.Error(err))
					return
				}
			}
			q.commit(ctx, msg)
		},
	}
}

func (q *KafkaCheckInQueue) commit(ctx context.Context, msg kafka.Message) {
	if err := q.reader.CommitMessages(ctx, msg); err != nil {
		logger.WithComponent("mq").Error("kafka commit failed",
			zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset), zap.Error(err))
	}
}

func (q *KafkaCheckInQueue) Close() error {
	return errors.Join(q.reader.Close(), q.writer.Close())
}
