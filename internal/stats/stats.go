// Package stats provides pure aggregation helpers over transaction
// collections. All functions are deterministic and order-independent, and
// zero denominators yield zero rather than failing.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

// Granularity selects the bucket size for period grouping.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// SumByKind totals income and expense amounts separately.
func SumByKind(txs []model.TransactionRecord) (income, expenses decimal.Decimal) {
	for _, t := range txs {
		switch t.Kind {
		case model.KindIncome:
			income = income.Add(t.Amount)
		case model.KindExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return income, expenses
}

// Net returns total income minus total expenses.
func Net(txs []model.TransactionRecord) decimal.Decimal {
	income, expenses := SumByKind(txs)
	return income.Sub(expenses)
}

// GroupByCategory totals amounts per category for transactions of one kind.
func GroupByCategory(txs []model.TransactionRecord, kind model.TransactionKind) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	return totals
}

// GroupByPeriod totals signed net amounts per period bucket.
func GroupByPeriod(txs []model.TransactionRecord, g Granularity) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		key := PeriodKey(t.Date, g)
		totals[key] = totals[key].Add(t.SignedAmount())
	}
	return totals
}

// PeriodKey formats the bucket label for a date at the given granularity.
func PeriodKey(d time.Time, g Granularity) string {
	switch g {
	case Daily:
		return d.Format("2006-01-02")
	case Weekly:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case Yearly:
		return d.Format("2006")
	default: // Monthly
		return d.Format("2006-01")
	}
}

// Mean returns the average of values, or zero for an empty slice.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// Variance returns the population variance of values, or zero when there
// are fewer than two values.
func Variance(values []decimal.Decimal) decimal.Decimal {
	if len(values) < 2 {
		return decimal.Zero
	}
	mean := Mean(values)
	sum := decimal.Zero
	for _, v := range values {
		diff := v.Sub(mean)
		sum = sum.Add(diff.Mul(diff))
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []decimal.Decimal) decimal.Decimal {
	variance := Variance(values)
	if variance.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
}

// CoefficientOfVariation returns stddev divided by mean, or zero when the
// mean is zero.
func CoefficientOfVariation(values []decimal.Decimal) decimal.Decimal {
	mean := Mean(values)
	if mean.IsZero() {
		return decimal.Zero
	}
	return StdDev(values).Div(mean)
}
