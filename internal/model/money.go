package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType classifies a money ledger entry.
type EntryType string

const (
	EntryIncome   EntryType = "income"
	EntryExpense  EntryType = "expense"
	EntryTransfer EntryType = "transfer"
)

// MoneyRecord is one ledger entry. LinkedItemID optionally ties the entry to
// the item it paid for.
type MoneyRecord struct {
	ID                  uuid.UUID
	Date                time.Time
	EntryType           EntryType
	SourceOrDestination string
	Amount              decimal.Decimal
	Notes               string
	LinkedItemID        uuid.NullUUID
}
