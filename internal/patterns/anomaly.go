package patterns

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

// Amounts above baseline max by this factor are flagged as anomalous.
var anomalyFactor = decimal.NewFromFloat(1.5)

// Baseline is the historical spending range for one category.
type Baseline struct {
	Min         decimal.Decimal
	Max         decimal.Decimal
	Avg         decimal.Decimal
	SampleCount int
}

// Anomaly is a recent transaction flagged against its category baseline.
type Anomaly struct {
	TransactionID string
	Category      string
	Amount        decimal.Decimal
	ExpectedMin   decimal.Decimal
	ExpectedMax   decimal.Decimal
	Score         float64
	DetectedAt    string // transaction date, "2006-01-02"
	IsRecurring   bool
	Suggestion    string
}

// Baselines computes the per-category spending range from a historical
// window. The window must precede and never overlap the recent one.
func Baselines(historical []model.TransactionRecord) map[string]Baseline {
	baselines := make(map[string]Baseline)
	for _, t := range historical {
		if t.Kind != model.KindExpense {
			continue
		}
		b, ok := baselines[t.Category]
		if !ok {
			baselines[t.Category] = Baseline{Min: t.Amount, Max: t.Amount, Avg: t.Amount, SampleCount: 1}
			continue
		}
		if t.Amount.LessThan(b.Min) {
			b.Min = t.Amount
		}
		if t.Amount.GreaterThan(b.Max) {
			b.Max = t.Amount
		}
		// Avg holds the running sum until finalized below.
		b.Avg = b.Avg.Add(t.Amount)
		b.SampleCount++
		baselines[t.Category] = b
	}
	for category, b := range baselines {
		b.Avg = b.Avg.Div(decimal.NewFromInt(int64(b.SampleCount)))
		baselines[category] = b
	}
	return baselines
}

// DetectAnomalies flags recent expenses that exceed their category baseline.
// Categories without a baseline are skipped so first occurrences never flag.
func DetectAnomalies(recent, historical []model.TransactionRecord) []Anomaly {
	baselines := Baselines(historical)

	var anomalies []Anomaly
	for _, t := range recent {
		if t.Kind != model.KindExpense {
			continue
		}
		b, ok := baselines[t.Category]
		if !ok {
			continue
		}
		if !t.Amount.GreaterThan(b.Max.Mul(anomalyFactor)) {
			continue
		}

		score := t.Amount.Sub(b.Max).Div(b.Max).InexactFloat64()
		if score > 1 {
			score = 1
		}
		score = round2(score)

		anomalies = append(anomalies, Anomaly{
			TransactionID: t.ID,
			Category:      t.Category,
			Amount:        t.Amount,
			ExpectedMin:   b.Min,
			ExpectedMax:   b.Max,
			Score:         score,
			DetectedAt:    t.Date.Format("2006-01-02"),
			IsRecurring:   false,
			Suggestion:    anomalySuggestion(t.Category, t.Amount, b.Avg),
		})
	}
	return anomalies
}

func anomalySuggestion(category string, amount, avg decimal.Decimal) string {
	percentage := amount.Div(avg).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("Este gasto está %s%% acima do seu padrão habitual em %s. Foi planejado?",
		percentage.Round(0).String(), category)
}
