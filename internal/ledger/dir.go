package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/finsight-dev/finsight/internal/model"
)

// Dir is a Ledger over a directory of CSV files laid out as
// <root>/<YYYY>/<MM>/transactions.csv with goals.csv and budgets.csv at the
// root. Missing files read as empty.
type Dir struct {
	root string
}

// NewDir returns a Dir ledger rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// MonthPath returns the transactions.csv path for a month.
func (d *Dir) MonthPath(year int, month time.Month) string {
	return filepath.Join(d.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "transactions.csv")
}

// GoalsPath returns the goals.csv path.
func (d *Dir) GoalsPath() string {
	return filepath.Join(d.root, "goals.csv")
}

// BudgetsPath returns the budgets.csv path.
func (d *Dir) BudgetsPath() string {
	return filepath.Join(d.root, "budgets.csv")
}

// Transactions stitches the month files covering [start, end] together and
// filters the rows.
func (d *Dir) Transactions(ownerID string, start, end time.Time, filter TransactionFilter) ([]model.TransactionRecord, error) {
	if end.Before(start) {
		return nil, nil
	}

	var out []model.TransactionRecord
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(last) {
		txs, err := d.readMonth(cursor.Year(), cursor.Month())
		if err != nil {
			return nil, err
		}
		for _, t := range txs {
			if matches(t, ownerID, start, end, filter) {
				out = append(out, t)
			}
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Goals reads goals.csv, filtering by owner and optional status.
func (d *Dir) Goals(ownerID string, status model.GoalStatus) ([]model.GoalRecord, error) {
	f, err := os.Open(d.GoalsPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening goals file: %w", err)
	}
	defer f.Close()

	goals, err := ReadGoals(f)
	if err != nil {
		return nil, err
	}

	var out []model.GoalRecord
	for _, g := range goals {
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

// Budgets reads budgets.csv, filtering by owner.
func (d *Dir) Budgets(ownerID string) ([]model.BudgetRecord, error) {
	f, err := os.Open(d.BudgetsPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening budgets file: %w", err)
	}
	defer f.Close()

	budgets, err := ReadBudgets(f)
	if err != nil {
		return nil, err
	}

	var out []model.BudgetRecord
	for _, b := range budgets {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

// SaveMonth writes a month's transactions, creating directories as needed.
func (d *Dir) SaveMonth(year int, month time.Month, txs []model.TransactionRecord) error {
	path := d.MonthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating month directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating transactions file: %w", err)
	}
	defer f.Close()
	return WriteTransactions(f, txs)
}

// SaveGoals writes goals.csv at the root.
func (d *Dir) SaveGoals(goals []model.GoalRecord) error {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}
	f, err := os.Create(d.GoalsPath())
	if err != nil {
		return fmt.Errorf("creating goals file: %w", err)
	}
	defer f.Close()
	return WriteGoals(f, goals)
}

// SaveBudgets writes budgets.csv at the root.
func (d *Dir) SaveBudgets(budgets []model.BudgetRecord) error {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}
	f, err := os.Create(d.BudgetsPath())
	if err != nil {
		return fmt.Errorf("creating budgets file: %w", err)
	}
	defer f.Close()
	return WriteBudgets(f, budgets)
}

func (d *Dir) readMonth(year int, month time.Month) ([]model.TransactionRecord, error) {
	f, err := os.Open(d.MonthPath(year, month))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions file: %w", err)
	}
	defer f.Close()

	txs, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("%04d/%02d: %w", year, month, err)
	}
	return txs, nil
}
