package recommend

import (
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

// threeMonths builds 3 months of R$5000 income and R$3000 expenses with
// Dining at R$1200/month (40% of expenses).
func threeMonths() []model.TransactionRecord {
	var txs []model.TransactionRecord
	for m := time.January; m <= time.March; m++ {
		txs = append(txs,
			model.TransactionRecord{Kind: model.KindIncome, Amount: dec("5000.00"), Category: "Salary", Date: date(2025, m, 5)},
			model.TransactionRecord{Kind: model.KindExpense, Amount: dec("1200.00"), Category: "Dining", Date: date(2025, m, 10)},
			model.TransactionRecord{Kind: model.KindExpense, Amount: dec("1000.00"), Category: "Rent", Date: date(2025, m, 1)},
			model.TransactionRecord{Kind: model.KindExpense, Amount: dec("800.00"), Category: "Transport", Date: date(2025, m, 15)},
		)
	}
	return txs
}

func findByCategory(recs []model.Recommendation, category string) (model.Recommendation, bool) {
	for _, r := range recs {
		if r.Category == category {
			return r, true
		}
	}
	return model.Recommendation{}, false
}

func TestGenerate_SpendingConcentration(t *testing.T) {
	recs := Generate(threeMonths(), nil, nil, 10, date(2025, 4, 1))

	rec, ok := findByCategory(recs, "Otimização de Gastos")
	require.True(t, ok)
	assert.Equal(t, model.PriorityHigh, rec.Priority)
	assert.Contains(t, rec.Title, "Dining")
	// 15% of the R$1200 monthly Dining spend.
	assert.True(t, rec.PotentialImpact.Equal(dec("180.00")), "got %s", rec.PotentialImpact)
	assert.Contains(t, rec.Description, "R$ 180.00 por mês")
	assert.Equal(t, 0.82, rec.AIConfidence)
	assert.Equal(t, 75.0, rec.SuccessProbability)
}

func TestGenerate_NoExpensesNoSpendingRecs(t *testing.T) {
	txs := []model.TransactionRecord{
		{Kind: model.KindIncome, Amount: dec("5000.00"), Category: "Salary", Date: date(2025, 1, 5)},
	}

	recs := Generate(txs, nil, nil, 10, date(2025, 2, 1))
	_, ok := findByCategory(recs, "Otimização de Gastos")
	assert.False(t, ok)
}

func TestGenerate_GoalPacing(t *testing.T) {
	target := date(2025, 8, 1) // 4 months out
	goals := []model.GoalRecord{{
		ID:            "g1",
		Name:          "Casa própria",
		TargetAmount:  dec("50000.00"),
		CurrentAmount: dec("10000.00"),
		TargetDate:    &target,
		Status:        model.GoalActive,
	}}

	// Monthly savings 2000; months needed = 40000/2000 = 20 > 4.
	recs := Generate(threeMonths(), goals, nil, 10, date(2025, 4, 1))
	rec, ok := findByCategory(recs, "Metas Financeiras")
	require.True(t, ok)
	assert.Equal(t, model.PriorityHigh, rec.Priority)
	assert.Equal(t, []string{"g1"}, rec.RelatedGoals)
	// 40000/4 - 2000 = 8000 additional per month.
	assert.True(t, rec.PotentialImpact.Equal(dec("8000.00")), "got %s", rec.PotentialImpact)
}

func TestGenerate_GoalPacing_NegativeSavingsGuarded(t *testing.T) {
	target := date(2025, 8, 1)
	goals := []model.GoalRecord{{
		ID:           "g1",
		Name:         "Meta",
		TargetAmount: dec("50000.00"),
		TargetDate:   &target,
		Status:       model.GoalActive,
	}}
	txs := []model.TransactionRecord{
		{Kind: model.KindExpense, Amount: dec("3000.00"), Category: "Rent", Date: date(2025, 1, 1)},
	}

	recs := Generate(txs, goals, nil, 10, date(2025, 4, 1))
	_, ok := findByCategory(recs, "Metas Financeiras")
	assert.False(t, ok)
}

func TestGenerate_SavingsRateShortfall(t *testing.T) {
	// Savings rate is 40% here, so no shortfall rec.
	recs := Generate(threeMonths(), nil, nil, 10, date(2025, 4, 1))
	_, ok := findByCategory(recs, "Poupança")
	assert.False(t, ok)

	// Push expenses up so the rate drops below 20%.
	txs := append(threeMonths(), model.TransactionRecord{
		Kind: model.KindExpense, Amount: dec("5000.00"), Category: "Travel", Date: date(2025, 3, 20),
	})
	recs = Generate(txs, nil, nil, 10, date(2025, 4, 1))
	rec, ok := findByCategory(recs, "Poupança")
	require.True(t, ok)
	assert.Equal(t, model.PriorityHigh, rec.Priority)
	assert.Equal(t, 0.88, rec.AIConfidence)
	// Target 3000, current 1000, shortfall 2000 over 3 months.
	assert.True(t, rec.PotentialImpact.Round(2).Equal(dec("666.67")), "got %s", rec.PotentialImpact)
}

func TestGenerate_BudgetThreshold(t *testing.T) {
	budgets := []model.BudgetRecord{
		{ID: "b1", Category: "Dining", Amount: dec("1000.00"), SpentAmount: dec("1200.00"), AlertThreshold: 80},
		{ID: "b2", Category: "Transport", Amount: dec("500.00"), SpentAmount: dec("450.00"), AlertThreshold: 80},
		{ID: "b3", Category: "Leisure", Amount: dec("500.00"), SpentAmount: dec("100.00"), AlertThreshold: 80},
	}

	recs := Generate(nil, nil, budgets, 10, date(2025, 4, 1))
	require.Len(t, recs, 2)

	// Exceeded budget outranks near-limit.
	assert.Equal(t, model.PriorityUrgent, recs[0].Priority)
	assert.Contains(t, recs[0].Title, "Dining")
	assert.True(t, recs[0].PotentialImpact.IsZero()) // nothing left

	assert.Equal(t, model.PriorityHigh, recs[1].Priority)
	assert.Contains(t, recs[1].Title, "Transport")
	assert.True(t, recs[1].PotentialImpact.Equal(dec("50.00")))
}

func TestGenerate_SortAndTruncate(t *testing.T) {
	budgets := []model.BudgetRecord{
		{ID: "b1", Category: "Dining", Amount: dec("1000.00"), SpentAmount: dec("1200.00"), AlertThreshold: 80},
	}
	txs := append(threeMonths(), model.TransactionRecord{
		Kind: model.KindExpense, Amount: dec("5000.00"), Category: "Travel", Date: date(2025, 3, 20),
	})

	recs := Generate(txs, nil, budgets, 2, date(2025, 4, 1))
	require.Len(t, recs, 2)
	assert.Equal(t, model.PriorityUrgent, recs[0].Priority)
	// Ties on priority break by confidence descending.
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Priority.Rank() == recs[i].Priority.Rank() {
			assert.GreaterOrEqual(t, recs[i-1].AIConfidence, recs[i].AIConfidence)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	txs := threeMonths()
	first := Generate(txs, nil, nil, 5, date(2025, 4, 1))
	second := Generate(txs, nil, nil, 5, date(2025, 4, 1))

	require.Equal(t, len(first), len(second))
	for i := range first {
		// IDs are random; everything else must match.
		first[i].ID = ""
		second[i].ID = ""
		assert.Equal(t, first[i], second[i])
	}
}
