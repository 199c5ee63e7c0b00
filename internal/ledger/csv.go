package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

const dateFormat = "2006-01-02"

// TransactionHeader is the CSV header for transactions.csv.
const TransactionHeader = "id,owner_id,kind,amount,category,date,notes"

const (
	txNumFields = 7
	colTxID     = 0
	colTxOwner  = 1
	colTxKind   = 2
	colTxAmount = 3
	colTxCat    = 4
	colTxDate   = 5
	colTxNotes  = 6
)

// GoalHeader is the CSV header for goals.csv.
const GoalHeader = "id,owner_id,name,target_amount,current_amount,start_date,target_date,status"

const (
	goalNumFields  = 8
	colGoalID      = 0
	colGoalOwner   = 1
	colGoalName    = 2
	colGoalTarget  = 3
	colGoalCurrent = 4
	colGoalStart   = 5
	colGoalDate    = 6
	colGoalStatus  = 7
)

// BudgetHeader is the CSV header for budgets.csv.
const BudgetHeader = "id,owner_id,category,amount,spent_amount,alert_threshold"

const (
	budgetNumFields = 6
	colBudgetID     = 0
	colBudgetOwner  = 1
	colBudgetCat    = 2
	colBudgetAmount = 3
	colBudgetSpent  = 4
	colBudgetAlert  = 5
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.TransactionRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = txNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txs []model.TransactionRecord
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// WriteTransactions writes transactions to a writer (including header).
func WriteTransactions(w io.Writer, txs []model.TransactionRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TransactionHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txs {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a transaction to a CSV row.
func MarshalTransaction(t model.TransactionRecord) []string {
	row := make([]string, txNumFields)
	row[colTxID] = t.ID
	row[colTxOwner] = t.OwnerID
	row[colTxKind] = string(t.Kind)
	row[colTxAmount] = t.Amount.StringFixed(2)
	row[colTxCat] = t.Category
	row[colTxDate] = t.Date.Format(dateFormat)
	row[colTxNotes] = t.Notes
	return row
}

// UnmarshalTransaction converts a CSV row to a transaction.
func UnmarshalTransaction(record []string) (model.TransactionRecord, error) {
	if len(record) != txNumFields {
		return model.TransactionRecord{}, fmt.Errorf("expected %d fields, got %d", txNumFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colTxAmount])
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing amount %q: %w", record[colTxAmount], err)
	}

	date, err := time.Parse(dateFormat, record[colTxDate])
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing date %q: %w", record[colTxDate], err)
	}

	return model.TransactionRecord{
		ID:       record[colTxID],
		OwnerID:  record[colTxOwner],
		Kind:     model.TransactionKind(record[colTxKind]),
		Amount:   amount,
		Category: record[colTxCat],
		Date:     date,
		Notes:    record[colTxNotes],
	}, nil
}

// ReadGoals reads all goals from a goals.csv reader.
func ReadGoals(r io.Reader) ([]model.GoalRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = goalNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading goals CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var goals []model.GoalRecord
	for i, rec := range records[1:] {
		g, err := UnmarshalGoal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// WriteGoals writes goals to a writer (including header).
func WriteGoals(w io.Writer, goals []model.GoalRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(GoalHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, g := range goals {
		if err := cw.Write(MarshalGoal(g)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalGoal converts a goal to a CSV row.
func MarshalGoal(g model.GoalRecord) []string {
	row := make([]string, goalNumFields)
	row[colGoalID] = g.ID
	row[colGoalOwner] = g.OwnerID
	row[colGoalName] = g.Name
	row[colGoalTarget] = g.TargetAmount.StringFixed(2)
	row[colGoalCurrent] = g.CurrentAmount.StringFixed(2)
	row[colGoalStart] = g.StartDate.Format(dateFormat)
	if g.TargetDate != nil {
		row[colGoalDate] = g.TargetDate.Format(dateFormat)
	}
	row[colGoalStatus] = string(g.Status)
	return row
}

// UnmarshalGoal converts a CSV row to a goal.
func UnmarshalGoal(record []string) (model.GoalRecord, error) {
	if len(record) != goalNumFields {
		return model.GoalRecord{}, fmt.Errorf("expected %d fields, got %d", goalNumFields, len(record))
	}

	target, err := decimal.NewFromString(record[colGoalTarget])
	if err != nil {
		return model.GoalRecord{}, fmt.Errorf("parsing target_amount %q: %w", record[colGoalTarget], err)
	}

	current, err := decimal.NewFromString(record[colGoalCurrent])
	if err != nil {
		return model.GoalRecord{}, fmt.Errorf("parsing current_amount %q: %w", record[colGoalCurrent], err)
	}

	start, err := time.Parse(dateFormat, record[colGoalStart])
	if err != nil {
		return model.GoalRecord{}, fmt.Errorf("parsing start_date %q: %w", record[colGoalStart], err)
	}

	var targetDate *time.Time
	if record[colGoalDate] != "" {
		d, err := time.Parse(dateFormat, record[colGoalDate])
		if err != nil {
			return model.GoalRecord{}, fmt.Errorf("parsing target_date %q: %w", record[colGoalDate], err)
		}
		targetDate = &d
	}

	return model.GoalRecord{
		ID:            record[colGoalID],
		OwnerID:       record[colGoalOwner],
		Name:          record[colGoalName],
		TargetAmount:  target,
		CurrentAmount: current,
		StartDate:     start,
		TargetDate:    targetDate,
		Status:        model.GoalStatus(record[colGoalStatus]),
	}, nil
}

// ReadBudgets reads all budgets from a budgets.csv reader.
func ReadBudgets(r io.Reader) ([]model.BudgetRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = budgetNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading budgets CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var budgets []model.BudgetRecord
	for i, rec := range records[1:] {
		b, err := UnmarshalBudget(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

// WriteBudgets writes budgets to a writer (including header).
func WriteBudgets(w io.Writer, budgets []model.BudgetRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(BudgetHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, b := range budgets {
		if err := cw.Write(MarshalBudget(b)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalBudget converts a budget to a CSV row.
func MarshalBudget(b model.BudgetRecord) []string {
	row := make([]string, budgetNumFields)
	row[colBudgetID] = b.ID
	row[colBudgetOwner] = b.OwnerID
	row[colBudgetCat] = b.Category
	row[colBudgetAmount] = b.Amount.StringFixed(2)
	row[colBudgetSpent] = b.SpentAmount.StringFixed(2)
	row[colBudgetAlert] = strconv.Itoa(b.AlertThreshold)
	return row
}

// UnmarshalBudget converts a CSV row to a budget.
func UnmarshalBudget(record []string) (model.BudgetRecord, error) {
	if len(record) != budgetNumFields {
		return model.BudgetRecord{}, fmt.Errorf("expected %d fields, got %d", budgetNumFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colBudgetAmount])
	if err != nil {
		return model.BudgetRecord{}, fmt.Errorf("parsing amount %q: %w", record[colBudgetAmount], err)
	}

	spent, err := decimal.NewFromString(record[colBudgetSpent])
	if err != nil {
		return model.BudgetRecord{}, fmt.Errorf("parsing spent_amount %q: %w", record[colBudgetSpent], err)
	}

	alert, err := strconv.Atoi(record[colBudgetAlert])
	if err != nil {
		return model.BudgetRecord{}, fmt.Errorf("parsing alert_threshold %q: %w", record[colBudgetAlert], err)
	}

	return model.BudgetRecord{
		ID:             record[colBudgetID],
		OwnerID:        record[colBudgetOwner],
		Category:       record[colBudgetCat],
		Amount:         amount,
		SpentAmount:    spent,
		AlertThreshold: alert,
	}, nil
}
