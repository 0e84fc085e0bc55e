package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketRef 足以唯一定位一張票券的參照
// 新格式：partition key + event id + ticket id；舊格式：只有 ticket id
type TicketRef struct {
	PartitionKey string
	EventID      uuid.UUID
	TicketID     string
	Legacy       bool
}

func LegacyTicketRef(ticketID string) TicketRef {
	return TicketRef{TicketID: ticketID, Legacy: true}
}

type CheckInOutcome string

const (
	CheckInAccepted CheckInOutcome = "accepted"
	CheckInRejected CheckInOutcome = "rejected"
)

type RejectReason string

const RejectAlreadyUsed RejectReason = "already_used"

// CheckInResult 入場判定結果，Rejected 時仍帶回票券供現場顯示
type CheckInResult struct {
	Outcome CheckInOutcome `json:"outcome"`
	Reason  RejectReason   `json:"reason,omitempty"`
	Ticket  *Ticket        `json:"ticket"`
}

// CheckInEvent 入場成功後送進 queue 的訊息
type CheckInEvent struct {
	AttendanceKey string    `json:"attendance_key"`
	TicketID      string    `json:"ticket_id"`
	Name          string    `json:"name"`
	BandName      string    `json:"band_name"`
	ProcessedAt   time.Time `json:"processed_at"`
}

func NewCheckInEvent(t *Ticket) *CheckInEvent {
	processedAt := time.Now().UTC()
	if t.ProcessedAt != nil {
		processedAt = *t.ProcessedAt
	}
	return &CheckInEvent{
		AttendanceKey: t.AttendanceKey(),
		TicketID:      t.TicketID,
		Name:          t.Name,
		BandName:      t.BandName,
		ProcessedAt:   processedAt,
	}
}
