package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scenario describes a "what-if" adjustment to historical averages.
// Adjustments are percentages: IncomeAdjustment 10 means income grows 10%.
type Scenario struct {
	Name              string
	IncomeAdjustment  decimal.Decimal
	ExpenseAdjustment decimal.Decimal
	SavingsIncrease   decimal.Decimal
	HorizonMonths     int
}

// Validate rejects scenarios that cannot be simulated.
func (s Scenario) Validate() error {
	if s.HorizonMonths <= 0 {
		return fmt.Errorf("%w: horizon must be at least 1 month, got %d", ErrInvalidScenario, s.HorizonMonths)
	}
	hundred := decimal.NewFromInt(100)
	if s.IncomeAdjustment.LessThanOrEqual(hundred.Neg()) {
		return fmt.Errorf("%w: income adjustment %s%% would make projected income non-positive", ErrInvalidScenario, s.IncomeAdjustment)
	}
	if s.ExpenseAdjustment.LessThan(hundred.Neg()) {
		return fmt.Errorf("%w: expense adjustment %s%% would make projected expenses negative", ErrInvalidScenario, s.ExpenseAdjustment)
	}
	return nil
}

// MonthPoint is one month in a simulated trajectory.
type MonthPoint struct {
	Month    int
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Savings  decimal.Decimal
	Balance  decimal.Decimal
}

// Comparison relates a scenario trajectory to the baseline.
type Comparison struct {
	BalanceDifference     decimal.Decimal
	PercentageImprovement float64
	BetterOutcome         bool
}

// SimulationResult is the output of running a scenario.
type SimulationResult struct {
	ScenarioName          string
	FinalBalance          decimal.Decimal
	TotalSavings          decimal.Decimal
	MonthlyAverageBalance decimal.Decimal
	GoalsAchievable       []string
	Timeline              []MonthPoint
	ComparisonToBaseline  Comparison
}
