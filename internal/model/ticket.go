package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus 票券狀態，值為原樣保存的字面值
type TicketStatus string

const (
	TicketStatusUnused TicketStatus = "未"
	TicketStatusUsed   TicketStatus = "済"
)

// IsValid 驗證狀態是否有效
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusUnused, TicketStatusUsed:
		return true
	}
	return false
}

// CanTransitionTo 一般流程只允許 未 -> 済，済 為終止狀態
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	return s == TicketStatusUnused && target == TicketStatusUsed
}

// Ticket 票券模型
// Status 為空字串代表欄位不存在；State 是舊版欄位，寫入時一律清空
type Ticket struct {
	ID           int          `json:"-" db:"id"`
	TicketID     string       `json:"id" db:"ticket_id"`
	EventID      int          `json:"-" db:"event_id"`
	EventUUID    uuid.UUID    `json:"eventId,omitempty" db:"-"`
	PartitionKey string       `json:"partitionKey,omitempty" db:"partition_key"`
	Name         string       `json:"name" db:"name"`
	BandName     string       `json:"bandName" db:"band_name"`
	CreatedBy    string       `json:"createdBy" db:"created_by"`
	Status       TicketStatus `json:"status" db:"status"`
	State        TicketStatus `json:"state,omitempty" db:"state"`
	ProcessedAt  *time.Time   `json:"processedAt,omitempty" db:"processed_at"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time   `json:"-" db:"deleted_at"`

	// Legacy 為 true 表示來自舊版扁平集合，沒有所屬活動
	Legacy bool `json:"legacy,omitempty" db:"-"`
}

// EffectiveStatus status 優先，其次舊欄位 state，都沒有時視為未使用
func (t *Ticket) EffectiveStatus() TicketStatus {
	if t.Status != "" {
		return t.Status
	}
	if t.State != "" {
		return t.State
	}
	return TicketStatusUnused
}

// Ref 回傳可以重新定位此票券的參照
func (t *Ticket) Ref() TicketRef {
	if t.Legacy {
		return LegacyTicketRef(t.TicketID)
	}
	return TicketRef{
		PartitionKey: t.PartitionKey,
		EventID:      t.EventUUID,
		TicketID:     t.TicketID,
	}
}

// AttendanceKey 入場統計使用的 key，舊版票券統一歸在 legacy
func (t *Ticket) AttendanceKey() string {
	if t.Legacy {
		return LegacyAttendanceKey
	}
	return t.EventUUID.String()
}

const LegacyAttendanceKey = "legacy"
