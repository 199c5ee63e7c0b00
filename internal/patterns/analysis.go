// Package patterns detects behavioral spending patterns: temporal habits,
// category correlations, impulse tendency, seasonal peaks and anomalies.
package patterns

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

// DefaultImpulseThreshold is the purchase size under which an expense
// counts toward the impulse score.
var DefaultImpulseThreshold = decimal.NewFromInt(100)

// Correlation pairs need at least this many shared calendar days.
const minCoOccurrenceDays = 3

// TemporalPatterns describes weekday spending habits.
type TemporalPatterns struct {
	PeakSpendingDay   string
	LowestSpendingDay string
	MonthPattern      string
}

// CategoryCorrelation is a pair of categories spent on the same days.
type CategoryCorrelation struct {
	Categories  [2]string
	Correlation float64
	Insight     string
}

// Analysis is the full pattern analysis output.
type Analysis struct {
	Temporal          TemporalPatterns
	Correlations      []CategoryCorrelation
	ImpulseScore      float64
	SpendingByWeekday map[string]decimal.Decimal
	SpendingByTime    map[string]decimal.Decimal
	Insights          []string
}

// Analyze computes all behavioral patterns over the given window using the
// default impulse threshold.
func Analyze(txs []model.TransactionRecord) Analysis {
	return AnalyzeWithThreshold(txs, DefaultImpulseThreshold)
}

// AnalyzeWithThreshold is Analyze with a configurable impulse threshold.
func AnalyzeWithThreshold(txs []model.TransactionRecord, impulseThreshold decimal.Decimal) Analysis {
	a := Analysis{
		Temporal:          temporalPatterns(txs),
		Correlations:      categoryCorrelations(txs),
		ImpulseScore:      impulseScore(txs, impulseThreshold),
		SpendingByWeekday: spendingByWeekday(txs),
		SpendingByTime:    spendingByTime(),
	}
	a.Insights = behavioralInsights(a.Temporal, a.ImpulseScore)
	return a
}

func temporalPatterns(txs []model.TransactionRecord) TemporalPatterns {
	if len(txs) == 0 {
		return TemporalPatterns{PeakSpendingDay: "N/A", LowestSpendingDay: "N/A", MonthPattern: "insufficient_data"}
	}

	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Kind == model.KindExpense {
			day := t.Date.Weekday().String()
			totals[day] = totals[day].Add(t.Amount)
		}
	}
	if len(totals) == 0 {
		return TemporalPatterns{PeakSpendingDay: "N/A", LowestSpendingDay: "N/A", MonthPattern: "no_expenses"}
	}

	// Fixed Sunday..Saturday scan keeps ties deterministic.
	var peak, lowest string
	for wd := 0; wd < 7; wd++ {
		day := weekdayName(wd)
		total, ok := totals[day]
		if !ok {
			continue
		}
		if peak == "" || total.GreaterThan(totals[peak]) {
			peak = day
		}
		if lowest == "" || total.LessThan(totals[lowest]) {
			lowest = day
		}
	}

	return TemporalPatterns{PeakSpendingDay: peak, LowestSpendingDay: lowest, MonthPattern: "stable"}
}

func weekdayName(wd int) string {
	names := [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	return names[wd]
}

func categoryCorrelations(txs []model.TransactionRecord) []CategoryCorrelation {
	dayCategories := make(map[string]map[string]struct{})
	categorySet := make(map[string]struct{})
	for _, t := range txs {
		if t.Kind != model.KindExpense {
			continue
		}
		day := t.Date.Format("2006-01-02")
		if dayCategories[day] == nil {
			dayCategories[day] = make(map[string]struct{})
		}
		dayCategories[day][t.Category] = struct{}{}
		categorySet[t.Category] = struct{}{}
	}
	if len(dayCategories) == 0 {
		return nil
	}

	categories := make([]string, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var correlations []CategoryCorrelation
	for i, first := range categories {
		for _, second := range categories[i+1:] {
			days := 0
			for _, cats := range dayCategories {
				_, hasFirst := cats[first]
				_, hasSecond := cats[second]
				if hasFirst && hasSecond {
					days++
				}
			}
			if days < minCoOccurrenceDays {
				continue
			}
			correlations = append(correlations, CategoryCorrelation{
				Categories:  [2]string{first, second},
				Correlation: round2(float64(days) / float64(len(dayCategories))),
				Insight:     fmt.Sprintf("Gastos com %s frequentemente acompanham %s", first, second),
			})
		}
	}

	sort.SliceStable(correlations, func(i, j int) bool {
		if correlations[i].Correlation != correlations[j].Correlation {
			return correlations[i].Correlation > correlations[j].Correlation
		}
		return correlations[i].Categories[0] < correlations[j].Categories[0]
	})
	if len(correlations) > 3 {
		correlations = correlations[:3]
	}
	return correlations
}

func impulseScore(txs []model.TransactionRecord, threshold decimal.Decimal) float64 {
	var expenses, small int
	for _, t := range txs {
		if t.Kind != model.KindExpense {
			continue
		}
		expenses++
		if t.Amount.LessThan(threshold) {
			small++
		}
	}
	if expenses == 0 {
		return 0
	}
	return round1(float64(small) / float64(expenses) * 100)
}

func spendingByWeekday(txs []model.TransactionRecord) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, t := range txs {
		if t.Kind != model.KindExpense {
			continue
		}
		day := t.Date.Weekday().String()
		totals[day] = totals[day].Add(t.Amount)
		counts[day]++
	}

	averages := make(map[string]decimal.Decimal, len(totals))
	for day, total := range totals {
		averages[day] = total.Div(decimal.NewFromInt(int64(counts[day])))
	}
	return averages
}

// Time-of-day buckets are emitted with zero values: the ledger carries
// calendar dates only.
func spendingByTime() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"morning":   decimal.Zero,
		"afternoon": decimal.Zero,
		"evening":   decimal.Zero,
	}
}

func behavioralInsights(temporal TemporalPatterns, impulse float64) []string {
	var insights []string
	if temporal.PeakSpendingDay != "N/A" && temporal.PeakSpendingDay != "" {
		insights = append(insights, fmt.Sprintf("Você tende a gastar mais às %ss", temporal.PeakSpendingDay))
	}
	if impulse > 40 {
		insights = append(insights, "Você tem tendência a fazer compras impulsivas de menor valor")
	} else if impulse < 20 {
		insights = append(insights, "Suas compras são geralmente planejadas e de maior valor")
	}
	return insights
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
