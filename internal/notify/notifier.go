// Package notify 把入場事件推播給場館看板。
package notify

import (
	"context"
	"fmt"
	"time"

	"go-gin-ticket-gate/config"
	"go-gin-ticket-gate/internal/model"

	pubnub "github.com/pubnub/go/v7"
)

type Notifier interface {
	NotifyCheckIn(ctx context.Context, event *model.CheckInEvent) error
}

const channelPrefix = "entrance-"

// ChannelName 每場活動一個頻道，舊格式票券共用 entrance-legacy
func ChannelName(attendanceKey string) string {
	return channelPrefix + attendanceKey
}

type publishFunc func(channel string, message map[string]any) error

type PubNubNotifier struct {
	publish publishFunc
}

func NewPubNubNotifier(cfg config.PubNubConfig) *PubNubNotifier {
	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.UserID))
	pnConfig.PublishKey = cfg.PublishKey
	pnConfig.SubscribeKey = cfg.SubscribeKey
	pnConfig.SecretKey = cfg.SecretKey
	pn := pubnub.NewPubNub(pnConfig)

	return &PubNubNotifier{
		publish: func(channel string, message map[string]any) error {
			_, status, err := pn.Publish().
				Channel(channel).
				Message(message).
				Execute()
			if err != nil {
				return err
			}
			if status.Error != nil {
				return status.Error
			}
			return nil
		},
	}
}

func (n *PubNubNotifier) NotifyCheckIn(ctx context.Context, event *model.CheckInEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.publish(ChannelName(event.AttendanceKey), Message(event)); err != nil {
		return fmt.Errorf("pubnub publish: %w", err)
	}
	return nil
}

// Message 推播內容
func Message(event *model.CheckInEvent) map[string]any {
	return map[string]any{
		"type":         "checked_in",
		"ticket_id":    event.TicketID,
		"name":         event.Name,
		"band_name":    event.BandName,
		"processed_at": event.ProcessedAt.UTC().Format(time.RFC3339),
	}
}

// NopNotifier 沒有設定 PubNub 金鑰時使用
type NopNotifier struct{}

func (NopNotifier) NotifyCheckIn(context.Context, *model.CheckInEvent) error { return nil }

func New(cfg config.PubNubConfig) Notifier {
	if !cfg.Enabled() {
		return NopNotifier{}
	}
	return NewPubNubNotifier(cfg)
}
