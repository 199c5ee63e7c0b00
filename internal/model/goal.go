package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle state of a financial goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
	GoalCancelled GoalStatus = "cancelled"
)

// GoalRecord is a savings goal as supplied by the Ledger collaborator.
// The engine uses goals only for pacing and achievability checks.
type GoalRecord struct {
	ID            string
	OwnerID       string
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	StartDate     time.Time
	TargetDate    *time.Time // nil = open-ended
	Status        GoalStatus
}

// Remaining returns the amount still needed to reach the target, never negative.
func (g GoalRecord) Remaining() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// ProgressPercent returns completion as a percentage in [0,100].
func (g GoalRecord) ProgressPercent() float64 {
	if g.TargetAmount.IsZero() {
		return 0
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).InexactFloat64() * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// DaysRemaining returns the days until the target date. The second return
// is false when there is no target date or it has already passed.
func (g GoalRecord) DaysRemaining(now time.Time) (int, bool) {
	if g.TargetDate == nil {
		return 0, false
	}
	days := int(g.TargetDate.Sub(now).Hours() / 24)
	if days <= 0 {
		return 0, false
	}
	return days, true
}
