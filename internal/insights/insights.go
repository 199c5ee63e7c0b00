// Package insights aggregates the analytics packages into one per-owner
// snapshot: health score, active predictions, spending patterns,
// recommendations and a three-scenario savings projection.
package insights

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finsight-dev/finsight/internal/cache"
	"github.com/finsight-dev/finsight/internal/health"
	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/patterns"
	"github.com/finsight-dev/finsight/internal/predictions"
	"github.com/finsight-dev/finsight/internal/recommend"
)

const (
	anomalyRecentDays  = 30
	maxRecommendations = 5
)

// Windows carries the configurable analysis windows and thresholds.
type Windows struct {
	HealthDays       int
	PatternDays      int
	SeasonalDays     int
	ImpulseThreshold decimal.Decimal
}

// DefaultWindows matches the shipped configuration defaults.
func DefaultWindows() Windows {
	return Windows{
		HealthDays:       180,
		PatternDays:      90,
		SeasonalDays:     730,
		ImpulseThreshold: patterns.DefaultImpulseThreshold,
	}
}

// SavingsScenario projects accumulated savings over two horizons.
type SavingsScenario struct {
	SixMonths decimal.Decimal
	OneYear   decimal.Decimal
}

// SavingsProjection holds the three standard scenarios.
type SavingsProjection struct {
	Conservative SavingsScenario
	Moderate     SavingsScenario
	Optimistic   SavingsScenario
}

// Insights is the aggregate returned to callers.
type Insights struct {
	HealthScore       health.Score
	Predictions       []model.Prediction
	Patterns          patterns.Analysis
	Seasonal          []patterns.SeasonalPattern
	Anomalies         []patterns.Anomaly
	Metrics           recommend.AdvancedMetrics
	Recommendations   []model.Recommendation
	SavingsProjection SavingsProjection
	GeneratedAt       time.Time
}

// Service assembles insights from the ledger and the prediction store.
type Service struct {
	ledger  ledger.Ledger
	store   predictions.Store
	cache   cache.Cache
	ttl     time.Duration
	windows Windows
	log     *logrus.Logger
}

// NewService wires an insights service. The cache may be cache.Noop.
func NewService(l ledger.Ledger, store predictions.Store, c cache.Cache, ttl time.Duration, w Windows, log *logrus.Logger) *Service {
	return &Service{ledger: l, store: store, cache: c, ttl: ttl, windows: w, log: log}
}

// Get assembles the insight snapshot for an owner at the given reference
// time. Results are cached per owner for the configured TTL.
func (s *Service) Get(ownerID string, now time.Time) (Insights, error) {
	key := "insights:" + ownerID
	if cached, ok := s.cache.Get(key); ok {
		if ins, ok := cached.(Insights); ok {
			s.log.WithField("owner", ownerID).Debug("insights served from cache")
			return ins, nil
		}
	}

	healthTxs, err := s.ledger.Transactions(ownerID, now.AddDate(0, 0, -s.windows.HealthDays), now, ledger.TransactionFilter{})
	if err != nil {
		return Insights{}, fmt.Errorf("loading health window for %s: %w", ownerID, err)
	}
	recentTxs, err := s.ledger.Transactions(ownerID, now.AddDate(0, 0, -s.windows.PatternDays), now, ledger.TransactionFilter{})
	if err != nil {
		return Insights{}, fmt.Errorf("loading analysis window for %s: %w", ownerID, err)
	}
	goals, err := s.ledger.Goals(ownerID, model.GoalActive)
	if err != nil {
		return Insights{}, fmt.Errorf("loading goals for %s: %w", ownerID, err)
	}
	budgets, err := s.ledger.Budgets(ownerID)
	if err != nil {
		return Insights{}, fmt.Errorf("loading budgets for %s: %w", ownerID, err)
	}
	seasonalTxs, err := s.ledger.Transactions(ownerID, now.AddDate(0, 0, -s.windows.SeasonalDays), now, ledger.TransactionFilter{})
	if err != nil {
		return Insights{}, fmt.Errorf("loading seasonal window for %s: %w", ownerID, err)
	}
	active, err := s.store.ListActive(ownerID, "", now)
	if err != nil {
		return Insights{}, fmt.Errorf("loading active predictions for %s: %w", ownerID, err)
	}

	recentCut := now.AddDate(0, 0, -anomalyRecentDays)
	var anomalyRecent, anomalyHistory []model.TransactionRecord
	for _, t := range healthTxs {
		if t.Date.Before(recentCut) {
			anomalyHistory = append(anomalyHistory, t)
		} else {
			anomalyRecent = append(anomalyRecent, t)
		}
	}

	ins := Insights{
		HealthScore:       health.Compute(healthTxs, goals, s.windows.HealthDays),
		Predictions:       active,
		Patterns:          patterns.AnalyzeWithThreshold(recentTxs, s.windows.ImpulseThreshold),
		Seasonal:          patterns.DetectSeasonal(seasonalTxs, now),
		Anomalies:         patterns.DetectAnomalies(anomalyRecent, anomalyHistory),
		Metrics:           recommend.ComputeMetrics(healthTxs),
		Recommendations:   recommend.Generate(recentTxs, goals, budgets, maxRecommendations, now),
		SavingsProjection: projectSavings(recentTxs),
		GeneratedAt:       now,
	}

	s.cache.Set(key, ins, s.ttl)
	s.log.WithFields(logrus.Fields{
		"owner":           ownerID,
		"predictions":     len(ins.Predictions),
		"recommendations": len(ins.Recommendations),
	}).Info("insights assembled")
	return ins, nil
}

// Invalidate drops the cached snapshot for an owner, for callers that just
// mutated the underlying ledger.
func (s *Service) Invalidate(ownerID string) {
	s.cache.Invalidate("insights:" + ownerID)
}

// projectSavings extrapolates the trailing-window monthly net, floored at
// zero, across conservative/moderate/optimistic scenarios.
func projectSavings(txs []model.TransactionRecord) SavingsProjection {
	var net decimal.Decimal
	for _, t := range txs {
		net = net.Add(t.SignedAmount())
	}

	monthly := decimal.Zero
	if net.IsPositive() {
		monthly = net.Div(decimal.NewFromInt(3))
	}

	scenario := func(factor string) SavingsScenario {
		f := decimal.RequireFromString(factor)
		return SavingsScenario{
			SixMonths: monthly.Mul(decimal.NewFromInt(6)).Mul(f).Round(2),
			OneYear:   monthly.Mul(decimal.NewFromInt(12)).Mul(f).Round(2),
		}
	}

	return SavingsProjection{
		Conservative: scenario("0.8"),
		Moderate:     scenario("1"),
		Optimistic:   scenario("1.2"),
	}
}
