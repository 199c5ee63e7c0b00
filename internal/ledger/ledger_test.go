package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(id, owner string, kind model.TransactionKind, amount, category string, d time.Time) model.TransactionRecord {
	return model.TransactionRecord{ID: id, OwnerID: owner, Kind: kind, Amount: dec(amount), Category: category, Date: d}
}

func TestTransactionRoundTrip(t *testing.T) {
	original := tx("tx-1", "user-1", model.KindExpense, "123.45", "Dining", date(2025, 1, 15))
	original.Notes = "team lunch"

	row := MarshalTransaction(original)
	parsed, err := UnmarshalTransaction(row)
	require.NoError(t, err)
	assert.Equal(t, original.ID, parsed.ID)
	assert.True(t, parsed.Amount.Equal(original.Amount))
	assert.Equal(t, original.Date, parsed.Date)
	assert.Equal(t, original.Notes, parsed.Notes)
}

func TestUnmarshalTransaction_BadAmount(t *testing.T) {
	row := []string{"tx-1", "user-1", "expense", "not-a-number", "Dining", "2025-01-15", ""}
	_, err := UnmarshalTransaction(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestGoalRoundTrip_OptionalTargetDate(t *testing.T) {
	target := date(2025, 12, 31)
	withDate := model.GoalRecord{
		ID: "g1", OwnerID: "user-1", Name: "Emergency fund",
		TargetAmount: dec("10000.00"), CurrentAmount: dec("2500.00"),
		StartDate: date(2025, 1, 1), TargetDate: &target, Status: model.GoalActive,
	}
	withoutDate := withDate
	withoutDate.ID = "g2"
	withoutDate.TargetDate = nil

	parsed, err := UnmarshalGoal(MarshalGoal(withDate))
	require.NoError(t, err)
	require.NotNil(t, parsed.TargetDate)
	assert.Equal(t, target, *parsed.TargetDate)

	parsed, err = UnmarshalGoal(MarshalGoal(withoutDate))
	require.NoError(t, err)
	assert.Nil(t, parsed.TargetDate)
}

func TestDir_MonthStitching(t *testing.T) {
	dir := NewDir(t.TempDir())

	require.NoError(t, dir.SaveMonth(2025, time.January, []model.TransactionRecord{
		tx("tx-1", "user-1", model.KindIncome, "5000.00", "Salary", date(2025, 1, 5)),
		tx("tx-2", "user-1", model.KindExpense, "300.00", "Dining", date(2025, 1, 20)),
		tx("tx-3", "other", model.KindExpense, "999.00", "Dining", date(2025, 1, 21)),
	}))
	require.NoError(t, dir.SaveMonth(2025, time.February, []model.TransactionRecord{
		tx("tx-4", "user-1", model.KindExpense, "450.00", "Rent", date(2025, 2, 1)),
	}))

	txs, err := dir.Transactions("user-1", date(2025, 1, 1), date(2025, 2, 28), TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "tx-1", txs[0].ID)
	assert.Equal(t, "tx-4", txs[2].ID)
}

func TestDir_DateRangeBoundaries(t *testing.T) {
	dir := NewDir(t.TempDir())
	require.NoError(t, dir.SaveMonth(2025, time.January, []model.TransactionRecord{
		tx("tx-1", "user-1", model.KindExpense, "10.00", "A", date(2025, 1, 10)),
		tx("tx-2", "user-1", model.KindExpense, "10.00", "A", date(2025, 1, 20)),
	}))

	txs, err := dir.Transactions("user-1", date(2025, 1, 10), date(2025, 1, 10), TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "tx-1", txs[0].ID)
}

func TestDir_KindFilter(t *testing.T) {
	dir := NewDir(t.TempDir())
	require.NoError(t, dir.SaveMonth(2025, time.January, []model.TransactionRecord{
		tx("tx-1", "user-1", model.KindIncome, "5000.00", "Salary", date(2025, 1, 5)),
		tx("tx-2", "user-1", model.KindExpense, "300.00", "Dining", date(2025, 1, 20)),
	}))

	txs, err := dir.Transactions("user-1", date(2025, 1, 1), date(2025, 1, 31), TransactionFilter{Kind: model.KindExpense})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "tx-2", txs[0].ID)
}

func TestDir_MissingFilesReadEmpty(t *testing.T) {
	dir := NewDir(filepath.Join(t.TempDir(), "nothing-here"))

	txs, err := dir.Transactions("user-1", date(2025, 1, 1), date(2025, 3, 31), TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)

	goals, err := dir.Goals("user-1", "")
	require.NoError(t, err)
	assert.Empty(t, goals)

	budgets, err := dir.Budgets("user-1")
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestDir_GoalsAndBudgets(t *testing.T) {
	dir := NewDir(t.TempDir())
	target := date(2025, 12, 31)

	require.NoError(t, dir.SaveGoals([]model.GoalRecord{
		{ID: "g1", OwnerID: "user-1", Name: "Fund", TargetAmount: dec("1000.00"), CurrentAmount: dec("100.00"), StartDate: date(2025, 1, 1), TargetDate: &target, Status: model.GoalActive},
		{ID: "g2", OwnerID: "user-1", Name: "Done", TargetAmount: dec("500.00"), CurrentAmount: dec("500.00"), StartDate: date(2024, 1, 1), Status: model.GoalCompleted},
	}))
	require.NoError(t, dir.SaveBudgets([]model.BudgetRecord{
		{ID: "b1", OwnerID: "user-1", Category: "Dining", Amount: dec("800.00"), SpentAmount: dec("200.00"), AlertThreshold: 80},
	}))

	active, err := dir.Goals("user-1", model.GoalActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "g1", active[0].ID)

	all, err := dir.Goals("user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	budgets, err := dir.Budgets("user-1")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, 80, budgets[0].AlertThreshold)
}

func TestDir_CorruptFileSurfacesRowError(t *testing.T) {
	root := t.TempDir()
	dir := NewDir(root)
	path := dir.MonthPath(2025, time.January)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(TransactionHeader+"\ntx-1,user-1,expense,abc,Dining,2025-01-15,\n"), 0o644))

	_, err := dir.Transactions("user-1", date(2025, 1, 1), date(2025, 1, 31), TransactionFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestMemory_FiltersAndSorts(t *testing.T) {
	mem := NewMemory()
	mem.AddTransactions(
		tx("tx-2", "user-1", model.KindExpense, "20.00", "B", date(2025, 1, 10)),
		tx("tx-1", "user-1", model.KindExpense, "10.00", "A", date(2025, 1, 5)),
		tx("tx-3", "other", model.KindExpense, "30.00", "A", date(2025, 1, 6)),
	)

	txs, err := mem.Transactions("user-1", date(2025, 1, 1), date(2025, 1, 31), TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "tx-1", txs[0].ID)

	filtered, err := mem.Transactions("user-1", date(2025, 1, 1), date(2025, 1, 31), TransactionFilter{Category: "A"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "tx-1", filtered[0].ID)
}
