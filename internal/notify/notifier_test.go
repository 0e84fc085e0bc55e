package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-gin-ticket-gate/config"
	"go-gin-ticket-gate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() *model.CheckInEvent {
	return &model.CheckInEvent{
		AttendanceKey: "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11",
		TicketID:      "t-1",
		Name:          "山田太郎",
		BandName:      "The Rockers",
		ProcessedAt:   time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC),
	}
}

func TestPubNubNotifier_NotifyCheckIn(t *testing.T) {
	var gotChannel string
	var gotMessage map[string]any
	n := &PubNubNotifier{publish: func(channel string, message map[string]any) error {
		gotChannel = channel
		gotMessage = message
		return nil
	}}

	err := n.NotifyCheckIn(context.Background(), testEvent())

	require.NoError(t, err)
	assert.Equal(t, "entrance-a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11", gotChannel)
	assert.Equal(t, "checked_in", gotMessage["type"])
	assert.Equal(t, "t-1", gotMessage["ticket_id"])
	assert.Equal(t, "2026-05-01T19:00:00Z", gotMessage["processed_at"])
}

func TestPubNubNotifier_PublishError(t *testing.T) {
	publishErr := errors.New("403 forbidden")
	n := &PubNubNotifier{publish: func(string, map[string]any) error { return publishErr }}

	err := n.NotifyCheckIn(context.Background(), testEvent())

	require.Error(t, err)
	assert.ErrorIs(t, err, publishErr)
}

func TestPubNubNotifier_CanceledContext(t *testing.T) {
	called := false
	n := &PubNubNotifier{publish: func(string, map[string]any) error { called = true; return nil }}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.NotifyCheckIn(ctx, testEvent())

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestNew(t *testing.T) {
	assert.IsType(t, NopNotifier{}, New(config.PubNubConfig{}))
	assert.IsType(t, &PubNubNotifier{}, New(config.PubNubConfig{
		PublishKey: "pub-c-test", SubscribeKey: "sub-c-test", UserID: "ticket-gate-server",
	}))
}

func TestChannelName_Legacy(t *testing.T) {
	assert.Equal(t, "entrance-legacy", ChannelName(model.LegacyAttendanceKey))
}
