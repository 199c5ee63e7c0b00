package patterns

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

// Months whose spend exceeds the category average by this factor are peaks.
var seasonalPeakFactor = decimal.NewFromFloat(1.3)

// A category needs this many distinct months of spend to be considered.
const minSeasonalMonths = 3

// SeasonalPattern describes a category with recurring spending peaks.
type SeasonalPattern struct {
	Category         string
	PatternType      string // "Yearly" or "Quarterly"
	PeakMonths       []string
	AverageVariation float64 // percentage
	NextPeakDate     time.Time
	Recommendation   string
}

// DetectSeasonal finds categories with recurring monthly peaks. The caller
// supplies transactions covering the lookback window (about two years) and
// the reference time used to place the next peak.
func DetectSeasonal(txs []model.TransactionRecord, now time.Time) []SeasonalPattern {
	monthly := make(map[string]map[time.Month]decimal.Decimal)
	for _, t := range txs {
		if t.Kind != model.KindExpense {
			continue
		}
		if monthly[t.Category] == nil {
			monthly[t.Category] = make(map[time.Month]decimal.Decimal)
		}
		monthly[t.Category][t.Date.Month()] = monthly[t.Category][t.Date.Month()].Add(t.Amount)
	}

	categories := make([]string, 0, len(monthly))
	for c := range monthly {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var patterns []SeasonalPattern
	for _, category := range categories {
		data := monthly[category]
		if len(data) < minSeasonalMonths {
			continue
		}

		sum := decimal.Zero
		max := decimal.Zero
		for _, amount := range data {
			sum = sum.Add(amount)
			if amount.GreaterThan(max) {
				max = amount
			}
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(data))))

		var peaks []time.Month
		for m := time.January; m <= time.December; m++ {
			if amount, ok := data[m]; ok && amount.GreaterThan(avg.Mul(seasonalPeakFactor)) {
				peaks = append(peaks, m)
			}
		}
		if len(peaks) == 0 {
			continue
		}

		patternType := "Yearly"
		if len(peaks) > 3 {
			patternType = "Quarterly"
		}

		variation := round2(max.Div(avg).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).InexactFloat64())
		reserve := max.Sub(avg)

		patterns = append(patterns, SeasonalPattern{
			Category:         category,
			PatternType:      patternType,
			PeakMonths:       monthNames(peaks),
			AverageVariation: variation,
			NextPeakDate:     nextPeakDate(peaks, now),
			Recommendation:   seasonalRecommendation(category, peaks, reserve),
		})
	}
	return patterns
}

// nextPeakDate returns the first of the nearest future peak month, wrapping
// to next year when every peak month has already passed.
func nextPeakDate(peaks []time.Month, now time.Time) time.Time {
	year := now.Year()
	next := time.Month(0)
	for _, m := range peaks {
		if m > now.Month() {
			next = m
			break
		}
	}
	if next == 0 {
		next = peaks[0]
		year++
	}
	return time.Date(year, next, 1, 0, 0, 0, 0, time.UTC)
}

func seasonalRecommendation(category string, peaks []time.Month, reserve decimal.Decimal) string {
	names := monthNames(peaks)
	if len(names) > 2 {
		names = names[:2]
	}
	return fmt.Sprintf("Reserve R$ %s adicionais para %s (%s)",
		reserve.Round(0).String(), strings.Join(names, " e "), category)
}

func monthNames(months []time.Month) []string {
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.String()
	}
	return names
}
