package qrpayload_test

import (
	"bytes"
	"testing"

	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/qrpayload"
	apperrors "go-gin-ticket-gate/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEventID = uuid.MustParse("a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11")

func TestBuildURL(t *testing.T) {
	t.Run("NewFormat", func(t *testing.T) {
		ref := model.TicketRef{PartitionKey: "SpringShow", EventID: testEventID, TicketID: "t-1"}

		got := qrpayload.BuildURL("https://tickets.example.com/", ref)

		assert.Equal(t, "https://tickets.example.com/ticket/SpringShow/a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11/t-1", got)
	})

	t.Run("LegacyFormat", func(t *testing.T) {
		got := qrpayload.BuildURL("https://tickets.example.com", model.LegacyTicketRef("abc123"))

		assert.Equal(t, "https://tickets.example.com/ticket/abc123", got)
	})
}

func TestParse(t *testing.T) {
	t.Run("NewFormat", func(t *testing.T) {
		ref, err := qrpayload.Parse("https://tickets.example.com/ticket/SpringShow/a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11/t-1")

		require.NoError(t, err)
		assert.False(t, ref.Legacy)
		assert.Equal(t, "SpringShow", ref.PartitionKey)
		assert.Equal(t, testEventID, ref.EventID)
		assert.Equal(t, "t-1", ref.TicketID)
	})

	t.Run("LegacyFormat", func(t *testing.T) {
		ref, err := qrpayload.Parse("https://tickets.example.com/ticket/abc123")

		require.NoError(t, err)
		assert.Equal(t, model.LegacyTicketRef("abc123"), ref)
	})

	t.Run("BarePathAndTrailingSlash", func(t *testing.T) {
		ref, err := qrpayload.Parse("/ticket/abc123/")

		require.NoError(t, err)
		assert.Equal(t, model.LegacyTicketRef("abc123"), ref)
	})

	t.Run("RoundTripJapanesePartitionKey", func(t *testing.T) {
		want := model.TicketRef{PartitionKey: "春のライブ", EventID: testEventID, TicketID: "t-9"}

		ref, err := qrpayload.Parse(qrpayload.BuildURL("https://tickets.example.com", want))

		require.NoError(t, err)
		assert.Equal(t, want, ref)
	})

	malformed := map[string]string{
		"three segments":   "https://tickets.example.com/ticket/SpringShow/t-1",
		"five segments":    "https://tickets.example.com/ticket/a/b/c/d",
		"wrong prefix":     "https://tickets.example.com/tickets/abc123",
		"no ticket id":     "https://tickets.example.com/ticket",
		"empty segment":    "https://tickets.example.com/ticket//a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11/t-1",
		"invalid event id": "https://tickets.example.com/ticket/SpringShow/not-a-uuid/t-1",
		"empty payload":    "   ",
		"not a url":        "://bad",
	}
	for name, raw := range malformed {
		t.Run("Malformed/"+name, func(t *testing.T) {
			_, err := qrpayload.Parse(raw)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrMalformedReference)
		})
	}
}

func TestPNG(t *testing.T) {
	png, err := qrpayload.PNG("https://tickets.example.com/ticket/abc123", 0)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
