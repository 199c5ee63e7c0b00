package patterns

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finsight-dev/finsight/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expense(amount, category string, d time.Time) model.TransactionRecord {
	return model.TransactionRecord{Kind: model.KindExpense, Amount: dec(amount), Category: category, Date: d}
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil)
	assert.Equal(t, "N/A", a.Temporal.PeakSpendingDay)
	assert.Equal(t, "N/A", a.Temporal.LowestSpendingDay)
	assert.Equal(t, "insufficient_data", a.Temporal.MonthPattern)
	assert.Zero(t, a.ImpulseScore)
}

func TestAnalyze_NoExpenses(t *testing.T) {
	txs := []model.TransactionRecord{
		{Kind: model.KindIncome, Amount: dec("5000.00"), Category: "Salary", Date: date(2025, 1, 5)},
	}
	a := Analyze(txs)
	assert.Equal(t, "N/A", a.Temporal.PeakSpendingDay)
	assert.Equal(t, "no_expenses", a.Temporal.MonthPattern)
}

func TestAnalyze_PeakAndLowestDay(t *testing.T) {
	// 2025-01-06 is a Monday, 2025-01-10 a Friday.
	txs := []model.TransactionRecord{
		expense("500.00", "Dining", date(2025, 1, 10)),
		expense("300.00", "Dining", date(2025, 1, 17)),
		expense("50.00", "Transport", date(2025, 1, 6)),
	}

	a := Analyze(txs)
	assert.Equal(t, "Friday", a.Temporal.PeakSpendingDay)
	assert.Equal(t, "Monday", a.Temporal.LowestSpendingDay)
	assert.Equal(t, "stable", a.Temporal.MonthPattern)
}

func TestAnalyze_PeakDayTieIsDeterministic(t *testing.T) {
	// Equal totals on Sunday (Jan 5) and Monday (Jan 6): the earlier
	// weekday in Sunday..Saturday order wins both peak and lowest.
	txs := []model.TransactionRecord{
		expense("100.00", "A", date(2025, 1, 5)),
		expense("100.00", "B", date(2025, 1, 6)),
	}

	a := Analyze(txs)
	assert.Equal(t, "Sunday", a.Temporal.PeakSpendingDay)
	assert.Equal(t, "Sunday", a.Temporal.LowestSpendingDay)
}

func TestCategoryCorrelations(t *testing.T) {
	var txs []model.TransactionRecord
	// Dining and Transport co-occur on 3 of 4 days.
	for day := 1; day <= 3; day++ {
		txs = append(txs,
			expense("50.00", "Dining", date(2025, 1, day)),
			expense("20.00", "Transport", date(2025, 1, day)),
		)
	}
	txs = append(txs, expense("30.00", "Dining", date(2025, 1, 4)))

	a := Analyze(txs)
	assert.Len(t, a.Correlations, 1)
	corr := a.Correlations[0]
	assert.Equal(t, [2]string{"Dining", "Transport"}, corr.Categories)
	assert.Equal(t, 0.75, corr.Correlation)
	assert.Contains(t, corr.Insight, "Dining")
}

func TestCategoryCorrelations_BelowThreshold(t *testing.T) {
	txs := []model.TransactionRecord{
		expense("50.00", "Dining", date(2025, 1, 1)),
		expense("20.00", "Transport", date(2025, 1, 1)),
		expense("50.00", "Dining", date(2025, 1, 2)),
		expense("20.00", "Transport", date(2025, 1, 2)),
	}

	a := Analyze(txs)
	assert.Empty(t, a.Correlations)
}

func TestImpulseScore(t *testing.T) {
	txs := []model.TransactionRecord{
		expense("50.00", "Coffee", date(2025, 1, 1)),
		expense("30.00", "Snacks", date(2025, 1, 2)),
		expense("500.00", "Rent", date(2025, 1, 3)),
	}

	a := Analyze(txs)
	assert.Equal(t, 66.7, a.ImpulseScore)
	assert.Contains(t, a.Insights, "Você tem tendência a fazer compras impulsivas de menor valor")
}

func TestAnalyzeWithThreshold_CustomThreshold(t *testing.T) {
	txs := []model.TransactionRecord{
		expense("50.00", "Coffee", date(2025, 1, 1)),
		expense("30.00", "Snacks", date(2025, 1, 2)),
		expense("500.00", "Rent", date(2025, 1, 3)),
	}

	// Raising the threshold pulls the rent payment into the impulse bucket.
	a := AnalyzeWithThreshold(txs, dec("1000"))
	assert.Equal(t, 100.0, a.ImpulseScore)

	a = AnalyzeWithThreshold(txs, dec("10"))
	assert.Zero(t, a.ImpulseScore)
}

func TestImpulseScore_PlannedPurchases(t *testing.T) {
	txs := []model.TransactionRecord{
		expense("500.00", "Rent", date(2025, 1, 3)),
		expense("300.00", "Utilities", date(2025, 1, 4)),
	}

	a := Analyze(txs)
	assert.Zero(t, a.ImpulseScore)
	assert.Contains(t, a.Insights, "Suas compras são geralmente planejadas e de maior valor")
}

func TestSpendingByWeekday_Averages(t *testing.T) {
	txs := []model.TransactionRecord{
		expense("100.00", "Dining", date(2025, 1, 10)), // Friday
		expense("200.00", "Dining", date(2025, 1, 17)), // Friday
	}

	a := Analyze(txs)
	assert.True(t, a.SpendingByWeekday["Friday"].Equal(dec("150.00")))
}

func TestSpendingByTime_ZeroBuckets(t *testing.T) {
	a := Analyze([]model.TransactionRecord{expense("10.00", "Coffee", date(2025, 1, 1))})
	assert.True(t, a.SpendingByTime["morning"].IsZero())
	assert.True(t, a.SpendingByTime["afternoon"].IsZero())
	assert.True(t, a.SpendingByTime["evening"].IsZero())
}
