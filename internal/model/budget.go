package model

import "github.com/shopspring/decimal"

// BudgetRecord is a per-category spending limit as supplied by the Ledger
// collaborator.
type BudgetRecord struct {
	ID             string
	OwnerID        string
	Category       string
	Amount         decimal.Decimal // the limit
	SpentAmount    decimal.Decimal
	AlertThreshold int // percent of the limit that triggers an alert, 0-100
}

// Remaining returns the unspent portion of the budget, never negative.
func (b BudgetRecord) Remaining() decimal.Decimal {
	remaining := b.Amount.Sub(b.SpentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// SpentPercent returns how much of the budget is consumed, as a percentage.
func (b BudgetRecord) SpentPercent() float64 {
	if b.Amount.IsZero() {
		return 0
	}
	return b.SpentAmount.Div(b.Amount).InexactFloat64() * 100
}

// IsExceeded reports whether spending has passed the limit.
func (b BudgetRecord) IsExceeded() bool {
	return b.SpentAmount.GreaterThan(b.Amount)
}

// IsNearLimit reports whether spending has reached the alert threshold.
func (b BudgetRecord) IsNearLimit() bool {
	return b.SpentPercent() >= float64(b.AlertThreshold)
}
