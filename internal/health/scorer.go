// Package health converts a window of transactions and goals into a
// 0..100 financial health score with label, risk level and trend tags.
package health

import (
	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/stats"
)

// Trend tags for the score.
const (
	TrendPositive = "Positive"
	TrendNegative = "Negative"
	TrendStable   = "Stable"
)

// Net amounts below this mark the trend as negative.
var negativeTrendThreshold = decimal.NewFromInt(-1000)

// Expected transaction volume used by the consistency component.
const expectedTxPerMonth = 5

// Score is the full scorer output.
type Score struct {
	Value        int
	Label        string
	RiskLevel    string
	Trend        string
	ExpenseRatio decimal.Decimal
	SavingsRate  decimal.Decimal
}

// Compute scores the given window. windowDays sizes the consistency
// expectation; the transactions are assumed to already cover that window.
func Compute(txs []model.TransactionRecord, goals []model.GoalRecord, windowDays int) Score {
	income, expenses := stats.SumByKind(txs)
	net := income.Sub(expenses)

	var ratio, savingsRate decimal.Decimal
	if income.IsPositive() {
		ratio = expenses.Div(income)
		savingsRate = net.Div(income)
	}

	value := 50
	value += ratioComponent(income, ratio)
	value += savingsComponent(income, savingsRate)
	value += consistencyComponent(len(txs), windowDays)
	value += DiversityBonus(distinctExpenseCategories(txs))

	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	label, risk := labelFor(value)
	return Score{
		Value:        value,
		Label:        label,
		RiskLevel:    risk,
		Trend:        trendFor(net),
		ExpenseRatio: ratio,
		SavingsRate:  savingsRate,
	}
}

func ratioComponent(income, ratio decimal.Decimal) int {
	if !income.IsPositive() {
		return -30
	}
	switch {
	case ratio.LessThan(decimal.NewFromFloat(0.5)):
		return 30
	case ratio.LessThan(decimal.NewFromFloat(0.7)):
		return 20
	case ratio.LessThan(decimal.NewFromFloat(0.9)):
		return 10
	case ratio.GreaterThan(decimal.NewFromFloat(1.2)):
		return -20
	}
	return 0
}

func savingsComponent(income, rate decimal.Decimal) int {
	if !income.IsPositive() {
		return -15
	}
	switch {
	case rate.GreaterThan(decimal.NewFromFloat(0.2)):
		return 25
	case rate.GreaterThan(decimal.NewFromFloat(0.1)):
		return 15
	case rate.IsPositive():
		return 5
	}
	return -15
}

func consistencyComponent(txCount, windowDays int) int {
	expected := windowDays * expectedTxPerMonth / 30
	if expected <= 0 {
		return 0
	}
	if txCount >= expected {
		return 15
	}
	return txCount * 15 / expected
}

// DiversityBonus maps the count of distinct expense categories to a small
// fixed bonus. The lookup is deterministic on purpose.
func DiversityBonus(distinct int) int {
	switch {
	case distinct >= 8:
		return 10
	case distinct >= 6:
		return 8
	case distinct >= 4:
		return 6
	case distinct >= 2:
		return 4
	case distinct == 1:
		return 2
	}
	return 0
}

func distinctExpenseCategories(txs []model.TransactionRecord) int {
	seen := make(map[string]struct{})
	for _, t := range txs {
		if t.Kind == model.KindExpense {
			seen[t.Category] = struct{}{}
		}
	}
	return len(seen)
}

func labelFor(value int) (label, risk string) {
	switch {
	case value >= 80:
		return "Excellent", "Very Low"
	case value >= 60:
		return "Good", "Low"
	case value >= 40:
		return "Fair", "Medium"
	}
	return "Needs Attention", "High"
}

func trendFor(net decimal.Decimal) string {
	if net.IsPositive() {
		return TrendPositive
	}
	if net.LessThan(negativeTrendThreshold) {
		return TrendNegative
	}
	return TrendStable
}
