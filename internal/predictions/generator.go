package predictions

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finsight-dev/finsight/internal/health"
	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/model"
)

// Minimum data points per prediction type. Types below their gate are
// skipped rather than failing the batch.
const (
	minSavingsTxs = 5
	minExpenses   = 3
	minIncomes    = 2
)

// Trailing window the generators read from.
const generationWindowDays = 90

// Generator builds predictions from ledger history and persists them.
type Generator struct {
	ledger ledger.Ledger
	store  Store
	log    *logrus.Logger
}

// NewGenerator wires a generator.
func NewGenerator(l ledger.Ledger, store Store, log *logrus.Logger) *Generator {
	return &Generator{ledger: l, store: store, log: log}
}

// Generate builds one prediction per requested type over a 90-day trailing
// window ending at now. Types lacking their minimum data are skipped.
func (g *Generator) Generate(ownerID string, types []model.PredictionType, horizonDays int, now time.Time) ([]model.Prediction, error) {
	start := now.AddDate(0, 0, -generationWindowDays)
	txs, err := g.ledger.Transactions(ownerID, start, now, ledger.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading transactions for %s: %w", ownerID, err)
	}

	var out []model.Prediction
	for _, ptype := range types {
		var p *model.Prediction
		switch ptype {
		case model.SavingsProjection:
			p = savingsProjection(ownerID, txs, horizonDays, now)
		case model.ExpenseForecast:
			p = expenseForecast(ownerID, txs, horizonDays, now)
		case model.IncomePrediction:
			p = incomePrediction(ownerID, txs, horizonDays, now)
		case model.FinancialHealth:
			p = financialHealth(ownerID, txs, now)
		default:
			g.log.WithFields(logrus.Fields{"owner": ownerID, "type": ptype}).
				Warn("skipping unsupported prediction type")
			continue
		}
		if p == nil {
			g.log.WithFields(logrus.Fields{"owner": ownerID, "type": ptype}).
				Info("insufficient data, prediction skipped")
			continue
		}

		if err := g.store.Create(p, now); err != nil {
			return nil, fmt.Errorf("storing %s prediction: %w", ptype, err)
		}
		out = append(out, *p)
	}

	g.log.WithFields(logrus.Fields{"owner": ownerID, "count": len(out)}).
		Info("predictions generated")
	return out, nil
}

func savingsProjection(ownerID string, txs []model.TransactionRecord, horizonDays int, now time.Time) *model.Prediction {
	if len(txs) < minSavingsTxs {
		return nil
	}

	var net decimal.Decimal
	for _, t := range txs {
		net = net.Add(t.SignedAmount())
	}
	monthlyNet := net.Div(decimal.NewFromInt(3))
	projected := monthlyNet.Mul(decimal.NewFromInt(int64(horizonDays))).Div(decimal.NewFromInt(30))

	confidence := clamp(float64(len(txs))/50, 0.3, 0.9)
	predictionFor := now.AddDate(0, 0, horizonDays)
	expires := predictionFor

	return &model.Prediction{
		ID:      model.NewPredictionID(),
		OwnerID: ownerID,
		Type:    model.SavingsProjection,
		Title:   fmt.Sprintf("Projeção de Poupança - %d dias", horizonDays),
		Description: fmt.Sprintf(
			"Com base no seu padrão atual de %s/mês, você pode economizar %s nos próximos %d dias",
			monthlyNet.StringFixed(2), projected.StringFixed(2), horizonDays),
		ConfidenceScore: confidence,
		PredictedValue:  projected,
		PredictionFor:   &predictionFor,
		ExpiresAt:       &expires,
		Metadata: map[string]string{
			model.MetaMonthlyAverage:  monthlyNet.StringFixed(2),
			model.MetaTimeHorizonDays: fmt.Sprintf("%d", horizonDays),
			model.MetaDataPoints:      fmt.Sprintf("%d", len(txs)),
		},
	}
}

func expenseForecast(ownerID string, txs []model.TransactionRecord, horizonDays int, now time.Time) *model.Prediction {
	var total decimal.Decimal
	count := 0
	for _, t := range txs {
		if t.Kind == model.KindExpense {
			total = total.Add(t.Amount)
			count++
		}
	}
	if count < minExpenses {
		return nil
	}

	monthly := total.Div(decimal.NewFromInt(3))

	// Holiday season raises projected spend.
	seasonal := decimal.NewFromInt(1)
	if now.Month() == time.November || now.Month() == time.December {
		seasonal = decimal.NewFromFloat(1.15)
	}

	projected := monthly.Mul(decimal.NewFromInt(int64(horizonDays))).Div(decimal.NewFromInt(30)).Mul(seasonal)
	confidence := clamp(float64(count)/30, 0.4, 0.85)
	predictionFor := now.AddDate(0, 0, horizonDays)
	expires := predictionFor

	return &model.Prediction{
		ID:      model.NewPredictionID(),
		OwnerID: ownerID,
		Type:    model.ExpenseForecast,
		Title:   fmt.Sprintf("Previsão de Gastos - %d dias", horizonDays),
		Description: fmt.Sprintf(
			"Baseado no histórico, você pode gastar cerca de %s nos próximos %d dias",
			projected.StringFixed(2), horizonDays),
		ConfidenceScore: confidence,
		PredictedValue:  projected,
		PredictionFor:   &predictionFor,
		ExpiresAt:       &expires,
		Metadata: map[string]string{
			model.MetaMonthlyAverage:  monthly.StringFixed(2),
			model.MetaSeasonalFactor:  seasonal.String(),
			model.MetaTimeHorizonDays: fmt.Sprintf("%d", horizonDays),
		},
	}
}

func incomePrediction(ownerID string, txs []model.TransactionRecord, horizonDays int, now time.Time) *model.Prediction {
	var total decimal.Decimal
	count := 0
	for _, t := range txs {
		if t.Kind == model.KindIncome {
			total = total.Add(t.Amount)
			count++
		}
	}
	if count < minIncomes {
		return nil
	}

	monthly := total.Div(decimal.NewFromInt(3))
	projected := monthly.Mul(decimal.NewFromInt(int64(horizonDays))).Div(decimal.NewFromInt(30))
	confidence := clamp(float64(count)/10, 0.6, 0.95)
	predictionFor := now.AddDate(0, 0, horizonDays)
	expires := predictionFor

	return &model.Prediction{
		ID:      model.NewPredictionID(),
		OwnerID: ownerID,
		Type:    model.IncomePrediction,
		Title:   fmt.Sprintf("Previsão de Receita - %d dias", horizonDays),
		Description: fmt.Sprintf(
			"Com base no padrão de receitas, você deve receber cerca de %s nos próximos %d dias",
			projected.StringFixed(2), horizonDays),
		ConfidenceScore: confidence,
		PredictedValue:  projected,
		PredictionFor:   &predictionFor,
		ExpiresAt:       &expires,
		Metadata: map[string]string{
			model.MetaMonthlyAverage:  monthly.StringFixed(2),
			model.MetaTimeHorizonDays: fmt.Sprintf("%d", horizonDays),
		},
	}
}

func financialHealth(ownerID string, txs []model.TransactionRecord, now time.Time) *model.Prediction {
	score := health.Compute(txs, nil, generationWindowDays)
	expires := now.AddDate(0, 0, 30)

	return &model.Prediction{
		ID:      model.NewPredictionID(),
		OwnerID: ownerID,
		Type:    model.FinancialHealth,
		Title:   fmt.Sprintf("Score de Saúde Financeira: %d/100", score.Value),
		Description: fmt.Sprintf("Sua saúde financeira está classificada como %s. Tendência: %s",
			score.Label, score.Trend),
		ConfidenceScore: 0.8,
		PredictedValue:  decimal.NewFromInt(int64(score.Value)),
		ExpiresAt:       &expires,
		Metadata: map[string]string{
			model.MetaHealthLabel:  score.Label,
			model.MetaRiskLevel:    score.RiskLevel,
			model.MetaTrend:        score.Trend,
			model.MetaSavingsRate:  score.SavingsRate.StringFixed(4),
			model.MetaExpenseRatio: score.ExpenseRatio.StringFixed(4),
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
