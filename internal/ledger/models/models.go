// Package models defines the ledger types persisted per identity.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction says which way money moved.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

func (d Direction) IsValid() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// Transaction is one ledger entry. Amount is always positive; Direction
// carries the sign.
type Transaction struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Direction Direction       `json:"direction"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
}

// TransactionInput is what a caller supplies when recording an entry. The
// service stamps the id and the date.
type TransactionInput struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Direction Direction       `json:"direction"`
	Category  string          `json:"category"`
}

// RecordVersion guards the on-disk ledger layout.
const RecordVersion = 1

// Record is the serialized form of one identity's ledger. Transactions are
// ordered newest first.
type Record struct {
	SchemaVersion int           `json:"schema_version"`
	Transactions  []Transaction `json:"transactions"`
}

// CategoryAggregate is one slice of the spending-by-category summary.
type CategoryAggregate struct {
	Key     string          `json:"key"`
	Name    string          `json:"name"`
	Color   string          `json:"color"`
	Total   decimal.Decimal `json:"total"`
	Percent int             `json:"percent"`
}

// MonthSummary totals a whole ledger by direction. The timestamps point at
// the most recent entry of each direction and are zero when there is none.
type MonthSummary struct {
	Income         decimal.Decimal `json:"income"`
	Outgoing       decimal.Decimal `json:"outgoing"`
	Balance        decimal.Decimal `json:"balance"`
	LastIncomeAt   time.Time       `json:"last_income_at,omitempty"`
	LastOutgoingAt time.Time       `json:"last_outgoing_at,omitempty"`
}
