package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"go-gin-ticket-gate/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketStatus_IsValid(t *testing.T) {
	assert.True(t, model.TicketStatusUnused.IsValid())
	assert.True(t, model.TicketStatusUsed.IsValid())
	assert.False(t, model.TicketStatus("used").IsValid())
	assert.False(t, model.TicketStatus("").IsValid())
}

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, model.TicketStatusUnused.CanTransitionTo(model.TicketStatusUsed))
	assert.False(t, model.TicketStatusUsed.CanTransitionTo(model.TicketStatusUnused))
	assert.False(t, model.TicketStatusUsed.CanTransitionTo(model.TicketStatusUsed))
}

func TestTicket_EffectiveStatus(t *testing.T) {
	tests := []struct {
		name   string
		ticket model.Ticket
		want   model.TicketStatus
	}{
		{"status only", model.Ticket{Status: model.TicketStatusUsed}, model.TicketStatusUsed},
		{"deprecated state only", model.Ticket{State: model.TicketStatusUsed}, model.TicketStatusUsed},
		{"status wins over state", model.Ticket{Status: model.TicketStatusUnused, State: model.TicketStatusUsed}, model.TicketStatusUnused},
		{"neither defaults to unused", model.Ticket{}, model.TicketStatusUnused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ticket.EffectiveStatus())
		})
	}
}

func TestTicket_RefAndAttendanceKey(t *testing.T) {
	eventID := uuid.New()
	ticket := &model.Ticket{TicketID: "t-1", EventUUID: eventID, PartitionKey: "SpringShow"}

	assert.Equal(t, model.TicketRef{PartitionKey: "SpringShow", EventID: eventID, TicketID: "t-1"}, ticket.Ref())
	assert.Equal(t, eventID.String(), ticket.AttendanceKey())

	legacy := &model.Ticket{TicketID: "abc", Legacy: true}
	assert.Equal(t, model.LegacyTicketRef("abc"), legacy.Ref())
	assert.Equal(t, model.LegacyAttendanceKey, legacy.AttendanceKey())
}

func TestTicket_StatusRoundTripsLiteral(t *testing.T) {
	ticket := model.Ticket{TicketID: "t-1", Name: "Taro", Status: model.TicketStatusUsed}

	data, err := json.Marshal(ticket)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"済"`)

	var decoded model.Ticket
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, model.TicketStatusUsed, decoded.Status)
}

func TestEvent_PriceIsJSONNumber(t *testing.T) {
	event := model.Event{Title: "Spring Show", Price: decimal.RequireFromString("2500")}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":2500`)
}

func TestNewCheckInEvent(t *testing.T) {
	at := time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)
	eventID := uuid.New()
	ticket := &model.Ticket{TicketID: "t-1", EventUUID: eventID, Name: "Taro", BandName: "The Band", ProcessedAt: &at}

	evt := model.NewCheckInEvent(ticket)

	assert.Equal(t, eventID.String(), evt.AttendanceKey)
	assert.Equal(t, "t-1", evt.TicketID)
	assert.Equal(t, at, evt.ProcessedAt)
}
