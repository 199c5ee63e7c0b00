package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/finsight-dev/finsight/internal/model"
)

// Memory is an in-memory Ledger, used in tests and as a seedable fixture.
type Memory struct {
	mu      sync.RWMutex
	txs     []model.TransactionRecord
	goals   []model.GoalRecord
	budgets []model.BudgetRecord
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{}
}

// AddTransactions appends transactions to the ledger.
func (m *Memory) AddTransactions(txs ...model.TransactionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, txs...)
}

// AddGoals appends goals to the ledger.
func (m *Memory) AddGoals(goals ...model.GoalRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals = append(m.goals, goals...)
}

// AddBudgets appends budgets to the ledger.
func (m *Memory) AddBudgets(budgets ...model.BudgetRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets = append(m.budgets, budgets...)
}

func (m *Memory) Transactions(ownerID string, start, end time.Time, filter TransactionFilter) ([]model.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.TransactionRecord
	for _, t := range m.txs {
		if matches(t, ownerID, start, end, filter) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) Goals(ownerID string, status model.GoalStatus) ([]model.GoalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.GoalRecord
	for _, g := range m.goals {
		if g.OwnerID != ownerID {
			continue
		}
		if status != "" && g.Status != status {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (m *Memory) Budgets(ownerID string) ([]model.BudgetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.BudgetRecord
	for _, b := range m.budgets {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}
