package queue

import (
	"context"
	"fmt"
	"io"

	"go-gin-ticket-gate/config"

	"github.com/redis/go-redis/v9"
)

const memoryBufferSize = 1024

// New 依設定建立 CheckInQueue，回傳的 io.Closer 在關機時呼叫
func New(ctx context.Context, cfg config.QueueConfig, rdb *redis.Client, consumerID string) (CheckInQueue, io.Closer, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewCheckInQueue(memoryBufferSize), nopCloser{}, nil
	case DriverRedis, "":
		if rdb == nil {
			return nil, nil, fmt.Errorf("queue driver %q requires redis client", DriverRedis)
		}
		q, err := NewRedisStreamCheckInQueue(ctx, rdb, consumerID, nil)
		if err != nil {
			return nil, nil, err
		}
		return q, nopCloser{}, nil
	case DriverKafka:
		q := NewKafkaCheckInQueue(cfg.Kafka)
		return q, q, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
