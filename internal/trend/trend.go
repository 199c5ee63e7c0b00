// Package trend fits a linear trend over periodic net-amount aggregates and
// projects future periods with a confidence estimate.
package trend

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/stats"
)

// Direction tags.
const (
	DirectionUp     = "up"
	DirectionDown   = "down"
	DirectionStable = "stable"
)

// DataPoint is one periodic aggregate in a trend series.
type DataPoint struct {
	Period             string
	PeriodStart        time.Time
	Income             decimal.Decimal
	Expenses           decimal.Decimal
	Net                decimal.Decimal
	TransactionCount   int
	AverageTransaction decimal.Decimal
}

// Analysis is the fitted trend with its forecast.
type Analysis struct {
	Direction  string
	Confidence float64
	Forecast   []DataPoint
	Insights   []string
}

// MonthlySeries aggregates transactions into trailing monthly data points
// ending at the month containing end. Months without activity produce zero
// points so the series length is always months.
func MonthlySeries(txs []model.TransactionRecord, months int, end time.Time) []DataPoint {
	type bucket struct {
		income, expenses decimal.Decimal
		count            int
	}
	buckets := make(map[string]*bucket)
	for _, t := range txs {
		key := stats.PeriodKey(t.Date, stats.Monthly)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		switch t.Kind {
		case model.KindIncome:
			b.income = b.income.Add(t.Amount)
		case model.KindExpense:
			b.expenses = b.expenses.Add(t.Amount)
		}
		b.count++
	}

	points := make([]DataPoint, 0, months)
	first := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		start := first.AddDate(0, i, 0)
		key := stats.PeriodKey(start, stats.Monthly)
		p := DataPoint{Period: key, PeriodStart: start}
		if b, ok := buckets[key]; ok {
			p.Income = b.income
			p.Expenses = b.expenses
			p.Net = b.income.Sub(b.expenses)
			p.TransactionCount = b.count
			if b.count > 0 {
				p.AverageTransaction = b.income.Add(b.expenses).Div(decimal.NewFromInt(int64(b.count)))
			}
		}
		points = append(points, p)
	}
	return points
}

// Analyze fits the series and projects forecastPeriods further points.
// Fewer than two points is an ErrInsufficientData condition.
func Analyze(points []DataPoint, forecastPeriods int) (Analysis, error) {
	if len(points) < 2 {
		return Analysis{}, fmt.Errorf("trend needs at least 2 data points, got %d: %w",
			len(points), model.ErrInsufficientData)
	}

	direction := direction(points)
	confidence := confidence(points)
	forecast := forecast(points, forecastPeriods)

	return Analysis{
		Direction:  direction,
		Confidence: confidence,
		Forecast:   forecast,
		Insights:   insights(points, direction, confidence),
	}, nil
}

func direction(points []DataPoint) string {
	first := points[0].Net
	last := points[len(points)-1].Net
	if last.GreaterThan(first.Mul(decimal.NewFromFloat(1.05))) {
		return DirectionUp
	}
	if last.LessThan(first.Mul(decimal.NewFromFloat(0.95))) {
		return DirectionDown
	}
	return DirectionStable
}

// confidence shrinks with the normalized variance of the series. Short
// series cap at 0.5.
func confidence(points []DataPoint) float64 {
	if len(points) < 3 {
		return 0.5
	}
	values := make([]decimal.Decimal, len(points))
	for i, p := range points {
		values[i] = p.Net
	}
	mean := stats.Mean(values).InexactFloat64()
	variance := stats.Variance(values).InexactFloat64()

	c := 1.0 - variance/(mean*mean+1)
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return math.Round(c*100) / 100
}

// forecast projects the ordinary least-squares line fitted over index->net.
// Forecast points carry only the projected net amount.
func forecast(points []DataPoint, periods int) []DataPoint {
	n := float64(len(points))
	var sumX, sumY, sumXY, sumX2 float64
	for i, p := range points {
		x := float64(i)
		y := p.Net.InexactFloat64()
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	out := make([]DataPoint, 0, periods)
	for i := 0; i < periods; i++ {
		x := float64(len(points) + i)
		out = append(out, DataPoint{
			Period: fmt.Sprintf("Forecast-%d", i+1),
			Net:    decimal.NewFromFloat(slope*x + intercept),
		})
	}
	return out
}

func insights(points []DataPoint, direction string, confidence float64) []string {
	var out []string

	switch direction {
	case DirectionUp:
		out = append(out, "Tendência geral positiva de crescimento")
	case DirectionDown:
		out = append(out, "Tendência geral negativa de declínio")
	default:
		out = append(out, "Tendência estável sem mudanças significativas")
	}

	switch {
	case confidence > 0.7:
		out = append(out, "Análise de alta confiança")
	case confidence > 0.4:
		out = append(out, "Análise de confiança moderada")
	default:
		out = append(out, "Análise de baixa confiança - mais dados necessários")
	}

	first := points[0].Net
	last := points[len(points)-1].Net
	if !first.IsZero() {
		growth := last.Sub(first).Div(first.Abs()).Mul(decimal.NewFromInt(100))
		out = append(out, fmt.Sprintf("Crescimento médio de %s%% no período", growth.Round(1).String()))
	}
	return out
}
