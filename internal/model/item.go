package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRecord is one planned expenditure. The ID is assigned once at creation
// and never reassigned; OverallScore stays absent until a caller computes it.
type ItemRecord struct {
	ID            uuid.UUID
	Date          time.Time
	Product       string
	Description   string
	Location      string
	Reference     string
	Cost          decimal.Decimal
	Urgency       int
	Value         int
	PriceComp     int
	Effect        int
	Justification string
	Recurrence    string
	OverallScore  decimal.NullDecimal
}
