package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PredictionType identifies which generator produced a prediction.
type PredictionType string

const (
	SavingsProjection PredictionType = "savings-projection"
	ExpenseForecast   PredictionType = "expense-forecast"
	IncomePrediction  PredictionType = "income-prediction"
	FinancialHealth   PredictionType = "financial-health"
)

// PredictionStatus is the lifecycle state of a stored prediction.
// Transitions: active -> archived (sweep or explicit), active -> dismissed
// (user action). There is no transition out of archived or dismissed.
type PredictionStatus string

const (
	PredictionActive    PredictionStatus = "active"
	PredictionArchived  PredictionStatus = "archived"
	PredictionDismissed PredictionStatus = "dismissed"
)

// Recognized metadata keys, per prediction type. Metadata is a typed
// key-value map with a fixed vocabulary, not an open blob.
const (
	MetaMonthlyAverage  = "monthly_average"   // savings/expense/income types
	MetaTimeHorizonDays = "time_horizon_days" // savings/expense/income types
	MetaDataPoints      = "data_points"       // savings-projection
	MetaSeasonalFactor  = "seasonal_factor"   // expense-forecast
	MetaHealthLabel     = "label"             // financial-health
	MetaRiskLevel       = "risk_level"        // financial-health
	MetaTrend           = "trend"             // financial-health
	MetaSavingsRate     = "savings_rate"      // financial-health
	MetaExpenseRatio    = "expense_ratio"     // financial-health
)

// Prediction is a generated, persisted analysis artifact.
type Prediction struct {
	ID              string
	OwnerID         string
	Type            PredictionType
	Title           string
	Description     string
	ConfidenceScore float64         // [0,1]
	PredictedValue  decimal.Decimal // zero = no value
	PredictionFor   *time.Time      // the date the prediction is about
	ExpiresAt       *time.Time      // nil = never expires
	Status          PredictionStatus
	Metadata        map[string]string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsStale reports whether an active prediction has outlived its expiry.
// Stale predictions are excluded from active queries even before a sweep
// archives them.
func (p Prediction) IsStale(now time.Time) bool {
	return p.Status == PredictionActive && p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

// IsActive reports whether the prediction is active and not stale.
func (p Prediction) IsActive(now time.Time) bool {
	return p.Status == PredictionActive && !p.IsStale(now)
}
