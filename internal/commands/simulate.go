package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/simulate"
)

const historicalWindowMonths = 6

func newSimulateCommand() *cobra.Command {
	var configPath string
	var owner string
	var name string
	var incomeAdj string
	var expenseAdj string
	var savingsIncrease string
	var months int

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a what-if scenario against historical averages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := parseScenario(name, incomeAdj, expenseAdj, savingsIncrease, months)
			if err != nil {
				return err
			}

			e, err := newEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			now := time.Now().UTC()
			txs, err := e.ledger.Transactions(owner, now.AddDate(0, -historicalWindowMonths, 0), now, ledger.TransactionFilter{})
			if err != nil {
				return fmt.Errorf("loading transaction history: %w", err)
			}
			goals, err := e.ledger.Goals(owner, model.GoalActive)
			if err != nil {
				return fmt.Errorf("loading goals: %w", err)
			}

			avg := simulate.HistoricalAverages(txs, historicalWindowMonths)
			result, err := simulate.Run(avg, scenario, goals)
			if err != nil {
				return err
			}
			return printYAML(result)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finsight.yaml", "path to finsight.yaml")
	cmd.Flags().StringVar(&owner, "owner", "", "owner ID (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&name, "name", "scenario", "scenario name")
	cmd.Flags().StringVar(&incomeAdj, "income-adjustment", "0", "income change in percent, e.g. 10 or -5")
	cmd.Flags().StringVar(&expenseAdj, "expense-adjustment", "0", "expense change in percent")
	cmd.Flags().StringVar(&savingsIncrease, "savings-increase", "0", "extra savings effort in percent")
	cmd.Flags().IntVar(&months, "months", 12, "projection horizon in months")

	return cmd
}

func parseScenario(name, incomeAdj, expenseAdj, savingsIncrease string, months int) (model.Scenario, error) {
	income, err := decimal.NewFromString(incomeAdj)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("invalid income adjustment %q: %w", incomeAdj, err)
	}
	expense, err := decimal.NewFromString(expenseAdj)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("invalid expense adjustment %q: %w", expenseAdj, err)
	}
	savings, err := decimal.NewFromString(savingsIncrease)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("invalid savings increase %q: %w", savingsIncrease, err)
	}

	return model.Scenario{
		Name:              name,
		IncomeAdjustment:  income,
		ExpenseAdjustment: expense,
		SavingsIncrease:   savings,
		HorizonMonths:     months,
	}, nil
}
