package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a transaction as money in or money out.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// TransactionRecord is a single ledger transaction as supplied by the
// Ledger collaborator. The engine never mutates these.
type TransactionRecord struct {
	ID       string
	OwnerID  string
	Kind     TransactionKind
	Amount   decimal.Decimal // always positive
	Category string
	Date     time.Time // calendar date, no time-of-day
	Notes    string
}

// SignedAmount returns the amount negated for expenses.
func (t TransactionRecord) SignedAmount() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
