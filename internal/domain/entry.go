package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindPayable    EntryKind = "pagar"
	EntryKindReceivable EntryKind = "receber"
)

// Valid reports whether the kind is one of the closed set.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindPayable, EntryKindReceivable:
		return true
	}
	return false
}

type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pendente"
	EntryStatusPaid     EntryStatus = "pago"
	EntryStatusReceived EntryStatus = "recebido"
)

func (s EntryStatus) Valid() bool {
	switch s {
	case EntryStatusPending, EntryStatusPaid, EntryStatusReceived:
		return true
	}
	return false
}

// Entry represents a single payable or receivable record owned by a user.
type Entry struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Kind        EntryKind
	Status      EntryStatus
	CreatedAt   time.Time
	OwnerID     int64
}
