// Package simulate projects baseline and what-if trajectories from
// historical monthly averages.
package simulate

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/stats"
)

// Averages are the historical monthly rates a simulation starts from.
type Averages struct {
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
}

// MonthlySavings is the baseline monthly net.
func (a Averages) MonthlySavings() decimal.Decimal {
	return a.MonthlyIncome.Sub(a.MonthlyExpenses)
}

// HistoricalAverages converts a transaction window into monthly averages.
// months is the window length the transactions cover.
func HistoricalAverages(txs []model.TransactionRecord, months int) Averages {
	if months <= 0 {
		return Averages{}
	}
	income, expenses := stats.SumByKind(txs)
	div := decimal.NewFromInt(int64(months))
	return Averages{
		MonthlyIncome:   income.Div(div),
		MonthlyExpenses: expenses.Div(div),
	}
}

// Run projects the baseline and scenario trajectories and compares them.
// The scenario is validated before any computation.
func Run(avg Averages, scenario model.Scenario, goals []model.GoalRecord) (model.SimulationResult, error) {
	if err := scenario.Validate(); err != nil {
		return model.SimulationResult{}, err
	}

	hundred := decimal.NewFromInt(100)
	incomeMul := decimal.NewFromInt(1).Add(scenario.IncomeAdjustment.Div(hundred))
	expenseMul := decimal.NewFromInt(1).Add(scenario.ExpenseAdjustment.Div(hundred))
	savingsMul := decimal.NewFromInt(1).Add(scenario.SavingsIncrease.Div(hundred))

	baseline := project(avg.MonthlyIncome, avg.MonthlyExpenses, decimal.NewFromInt(1), scenario.HorizonMonths)
	adjusted := project(
		avg.MonthlyIncome.Mul(incomeMul),
		avg.MonthlyExpenses.Mul(expenseMul),
		savingsMul,
		scenario.HorizonMonths,
	)

	baselineFinal := finalBalance(baseline)
	adjustedFinal := finalBalance(adjusted)

	var achievable []string
	for _, g := range goals {
		if g.Status != model.GoalActive {
			continue
		}
		if adjustedFinal.GreaterThanOrEqual(g.Remaining()) {
			achievable = append(achievable, g.Name)
		}
	}

	diff := adjustedFinal.Sub(baselineFinal)
	improvement := 0.0
	if !baselineFinal.IsZero() {
		improvement = diff.Div(baselineFinal).Mul(hundred).InexactFloat64()
		improvement = math.Round(improvement*100) / 100
	}

	months := decimal.NewFromInt(int64(scenario.HorizonMonths))
	return model.SimulationResult{
		ScenarioName:          scenario.Name,
		FinalBalance:          adjustedFinal,
		TotalSavings:          adjustedFinal,
		MonthlyAverageBalance: adjustedFinal.Div(months),
		GoalsAchievable:       achievable,
		Timeline:              adjusted,
		ComparisonToBaseline: model.Comparison{
			BalanceDifference:     diff,
			PercentageImprovement: improvement,
			BetterOutcome:         diff.IsPositive(),
		},
	}, nil
}

func project(monthlyIncome, monthlyExpenses, savingsMul decimal.Decimal, months int) []model.MonthPoint {
	timeline := make([]model.MonthPoint, 0, months)
	balance := decimal.Zero
	savings := monthlyIncome.Sub(monthlyExpenses).Mul(savingsMul)
	for month := 1; month <= months; month++ {
		balance = balance.Add(savings)
		timeline = append(timeline, model.MonthPoint{
			Month:    month,
			Income:   monthlyIncome,
			Expenses: monthlyExpenses,
			Savings:  savings,
			Balance:  balance,
		})
	}
	return timeline
}

func finalBalance(timeline []model.MonthPoint) decimal.Decimal {
	if len(timeline) == 0 {
		return decimal.Zero
	}
	return timeline[len(timeline)-1].Balance
}
