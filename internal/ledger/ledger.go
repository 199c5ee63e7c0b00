// Package ledger supplies transaction, goal and budget records to the
// analysis engine. The engine only sees the Ledger interface; the concrete
// implementations read month-partitioned CSV files or serve from memory.
package ledger

import (
	"time"

	"github.com/finsight-dev/finsight/internal/model"
)

// TransactionFilter narrows a transaction query. Zero values match all.
type TransactionFilter struct {
	Kind     model.TransactionKind
	Category string
}

// Ledger is the external data collaborator consumed by the engine.
type Ledger interface {
	// Transactions returns the owner's transactions with dates in
	// [start, end], filtered and sorted by date then ID.
	Transactions(ownerID string, start, end time.Time, filter TransactionFilter) ([]model.TransactionRecord, error)

	// Goals returns the owner's goals. An empty status matches all.
	Goals(ownerID string, status model.GoalStatus) ([]model.GoalRecord, error)

	// Budgets returns the owner's budgets.
	Budgets(ownerID string) ([]model.BudgetRecord, error)
}

func matches(t model.TransactionRecord, ownerID string, start, end time.Time, filter TransactionFilter) bool {
	if t.OwnerID != ownerID {
		return false
	}
	if t.Date.Before(start) || t.Date.After(end) {
		return false
	}
	if filter.Kind != "" && t.Kind != filter.Kind {
		return false
	}
	if filter.Category != "" && t.Category != filter.Category {
		return false
	}
	return true
}
