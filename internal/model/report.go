package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlowPrediction is the next-month forecast attached to a report.
type CashFlowPrediction struct {
	Month             string // "YYYY-MM"
	PredictedIncome   decimal.Decimal
	PredictedExpenses decimal.Decimal
	PredictedBalance  decimal.Decimal
	Confidence        float64
	RiskFactors       []string
}

// GoalProgress summarizes one goal inside a report.
type GoalProgress struct {
	GoalID   string
	GoalName string
	Progress float64 // percentage
	OnTrack  bool
	Status   GoalStatus
}

// MonthlyReport is the assembled periodic report.
type MonthlyReport struct {
	ReportID            string
	ReferenceMonth      string // "YYYY-MM"
	GeneratedAt         time.Time
	ExecutiveSummary    string
	HealthScore         int
	HealthScoreChange   int
	IncomeTotal         decimal.Decimal
	ExpenseTotal        decimal.Decimal
	SavingsTotal        decimal.Decimal
	SavingsRate         float64 // percentage
	KeyInsights         []string
	Achievements        []string
	AreasForImprovement []string
	NextMonth           CashFlowPrediction
	TopRecommendations  []Recommendation
	GoalsProgress       []GoalProgress
}
