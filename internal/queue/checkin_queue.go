package queue

import (
	"context"
	"fmt"
	"time"

	"go-gin-ticket-gate/internal/model"
)

type Delivery struct {
	Data *model.CheckInEvent
	Ack  func()
	Nack func(requeue bool)
}

type CheckInQueue interface {
	// 發送入場事件到隊列
	PublishCheckIn(ctx context.Context, event *model.CheckInEvent) error
	// 訂閱入場事件
	SubscribeCheckIns(ctx context.Context) (<-chan Delivery, error)
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverKafka  = "kafka"
)

// DefaultRetryDelay Nack(true) 後重新投遞前的等待時間
const DefaultRetryDelay = 500 * time.Millisecond

type MemoryCheckInQueue struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch         chan *model.CheckInEvent
	retryDelay time.Duration
}

func NewCheckInQueue(bufferSize int) CheckInQueue {
	return NewCheckInQueueWithRetryDelay(bufferSize, DefaultRetryDelay)
}

func NewCheckInQueueWithRetryDelay(bufferSize int, retryDelay time.Duration) CheckInQueue {
	return &MemoryCheckInQueue{
		ch:         make(chan *model.CheckInEvent, bufferSize),
		retryDelay: retryDelay,
	}
}

func (q *MemoryCheckInQueue) PublishCheckIn(ctx context.Context, event *model.CheckInEvent) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish check-in: %w", ctx.Err())
	}
}

func (q *MemoryCheckInQueue) SubscribeCheckIns(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: event,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.requeue(event)
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// requeue 延遲後重新放回隊列，避免 Redis 掛掉時 worker 空轉
// 不阻塞 worker；buffer 滿時丟棄，統計會在下次預熱時修正
func (q *MemoryCheckInQueue) requeue(event *model.CheckInEvent) {
	time.AfterFunc(q.retryDelay, func() {
		select {
		case q.ch <- event:
		default:
		}
	})
}
