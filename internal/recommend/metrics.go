package recommend

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/stats"
)

// AdvancedMetrics are portfolio-style indicators computed over a trailing
// window (typically 180 days).
type AdvancedMetrics struct {
	SavingsRate          float64 // percentage
	IdealSavingsRate     float64
	LiquidityScore       int // 0-100
	DiversificationScore int // 0-100
	StabilityIndex       float64 // [0,1], share of positive months
	ExpenseVolatility    float64 // percentage, capped at 100
	IncomeConsistency    float64 // [0,1]
}

// ComputeMetrics derives all advanced metrics from the window.
func ComputeMetrics(txs []model.TransactionRecord) AdvancedMetrics {
	income, expenses := stats.SumByKind(txs)

	savingsRate := 0.0
	if income.IsPositive() {
		savingsRate = income.Sub(expenses).Div(income).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return AdvancedMetrics{
		SavingsRate:          round2(savingsRate),
		IdealSavingsRate:     20.0,
		LiquidityScore:       liquidityScore(savingsRate, income, expenses),
		DiversificationScore: diversificationScore(txs),
		StabilityIndex:       round2(stabilityIndex(txs)),
		ExpenseVolatility:    round2(expenseVolatility(txs)),
		IncomeConsistency:    round2(incomeConsistency(txs)),
	}
}

func liquidityScore(savingsRate float64, income, expenses decimal.Decimal) int {
	score := 50

	switch {
	case savingsRate >= 20:
		score += 30
	case savingsRate >= 10:
		score += 20
	case savingsRate >= 5:
		score += 10
	}

	if income.IsPositive() {
		ratio := expenses.Div(income).InexactFloat64()
		switch {
		case ratio < 0.5:
			score += 20
		case ratio < 0.7:
			score += 15
		case ratio < 0.8:
			score += 10
		case ratio < 0.9:
			score += 5
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func diversificationScore(txs []model.TransactionRecord) int {
	categories := make(map[string]struct{})
	for _, t := range txs {
		if t.Kind == model.KindExpense {
			categories[t.Category] = struct{}{}
		}
	}
	if len(categories) == 0 {
		return 50
	}
	switch {
	case len(categories) >= 8:
		return 85
	case len(categories) >= 6:
		return 75
	case len(categories) >= 4:
		return 65
	case len(categories) >= 2:
		return 55
	}
	return 40
}

// stabilityIndex is the share of months closing positive.
func stabilityIndex(txs []model.TransactionRecord) float64 {
	if len(txs) == 0 {
		return 0.5
	}
	monthly := stats.GroupByPeriod(txs, stats.Monthly)
	positive := 0
	for _, net := range monthly {
		if net.IsPositive() {
			positive++
		}
	}
	stability := float64(positive) / float64(len(monthly))
	if stability > 1 {
		return 1
	}
	if stability < 0 {
		return 0
	}
	return stability
}

func expenseVolatility(txs []model.TransactionRecord) float64 {
	monthly := monthlyTotals(txs, model.KindExpense)
	if len(monthly) < 2 {
		return 0
	}
	cv := stats.CoefficientOfVariation(monthly).InexactFloat64()
	volatility := cv * 100
	if volatility > 100 {
		return 100
	}
	return volatility
}

func incomeConsistency(txs []model.TransactionRecord) float64 {
	monthly := monthlyTotals(txs, model.KindIncome)
	if len(monthly) < 2 {
		return 0.5
	}
	cv := stats.CoefficientOfVariation(monthly).InexactFloat64()
	consistency := 1 - cv
	if consistency < 0 {
		return 0
	}
	if consistency > 1 {
		return 1
	}
	return consistency
}

func monthlyTotals(txs []model.TransactionRecord, kind model.TransactionKind) []decimal.Decimal {
	buckets := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		key := stats.PeriodKey(t.Date, stats.Monthly)
		buckets[key] = buckets[key].Add(t.Amount)
	}
	totals := make([]decimal.Decimal, 0, len(buckets))
	for _, v := range buckets {
		totals = append(totals, v)
	}
	return totals
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
