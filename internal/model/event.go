package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// price 以 JSON number 輸出
	decimal.MarshalJSONWithoutQuotes = true
}

const DefaultEventStatus = "active"

type Event struct {
	ID           int             `json:"-" db:"id"`
	EventID      uuid.UUID       `json:"id" db:"event_id"`
	PartitionKey string          `json:"partitionKey" db:"partition_key"`
	Title        string          `json:"title" db:"title"`
	Dates        []string        `json:"dates" db:"dates"`
	Location     string          `json:"location" db:"location"`
	Price        decimal.Decimal `json:"price" db:"price"`
	OneDrink     bool            `json:"oneDrink" db:"one_drink"`
	CreatedBy    string          `json:"createdBy" db:"created_by"`
	Status       string          `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// UpdateEventParams 活動建立後只允許修改地點、票價、是否含飲料
type UpdateEventParams struct {
	Location *string
	Price    *decimal.Decimal
	OneDrink *bool
}

func (p UpdateEventParams) IsEmpty() bool {
	return p.Location == nil && p.Price == nil && p.OneDrink == nil
}

// EventStats 入場統計
type EventStats struct {
	Issued    int `json:"issued"`
	CheckedIn int `json:"checkedIn"`
}
