package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/predictions"
	"github.com/finsight-dev/finsight/internal/recommend"
)

func newPredictCommand() *cobra.Command {
	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Prediction lifecycle operations",
	}
	predictCmd.AddCommand(newPredictGenerateCommand())
	predictCmd.AddCommand(newPredictListCommand())
	predictCmd.AddCommand(newPredictSweepCommand())
	predictCmd.AddCommand(newPredictArchiveCommand())
	predictCmd.AddCommand(newPredictDismissCommand())
	predictCmd.AddCommand(newPredictStatsCommand())
	return predictCmd
}

func newPredictGenerateCommand() *cobra.Command {
	var configPath string
	var owner string
	var typeNames []string
	var horizon int
	var withRecommendations bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate predictions from ledger history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parsePredictionTypes(typeNames)
			if err != nil {
				return err
			}

			e, err := newEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			if horizon == 0 {
				horizon = e.cfg.Analysis.HorizonDays
			}

			now := time.Now().UTC()
			gen := predictions.NewGenerator(e.ledger, e.store, e.log)
			preds, err := gen.Generate(owner, types, horizon, now)
			if err != nil {
				return err
			}
			if !withRecommendations {
				return printYAML(preds)
			}

			recs, err := ownerRecommendations(e, owner, now)
			if err != nil {
				return err
			}
			return printYAML(struct {
				Predictions     []model.Prediction
				Recommendations []model.Recommendation
			}{preds, recs})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finsight.yaml", "path to finsight.yaml")
	cmd.Flags().StringVar(&owner, "owner", "", "owner ID (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringSliceVar(&typeNames, "types", nil, "prediction types (default: all)")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "projection horizon in days (default: from config)")
	cmd.Flags().BoolVar(&withRecommendations, "with-recommendations", false, "include recommendations in the output")

	return cmd
}

func ownerRecommendations(e *env, owner string, now time.Time) ([]model.Recommendation, error) {
	start := now.AddDate(0, 0, -e.cfg.Analysis.PatternWindowDays)
	txs, err := e.ledger.Transactions(owner, start, now, ledger.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	goals, err := e.ledger.Goals(owner, model.GoalActive)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	budgets, err := e.ledger.Budgets(owner)
	if err != nil {
		return nil, fmt.Errorf("loading budgets: %w", err)
	}
	return recommend.Generate(txs, goals, budgets, 5, now), nil
}

func newPredictListCommand() *cobra.Command {
	var configPath string
	var owner string
	var status string
	var typeName string
	var activeOnly bool
	var minConfidence float64
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			if minConfidence > 0 {
				preds, err := e.store.ListHighConfidence(owner, minConfidence, limit, time.Now().UTC())
				if err != nil {
					return err
				}
				return printYAML(preds)
			}

			if activeOnly {
				preds, err := e.store.ListActive(owner, model.PredictionType(typeName), time.Now().UTC())
				if err != nil {
					return err
				}
				return printYAML(preds)
			}

			preds, err := e.store.ListByOwner(owner, model.PredictionStatus(status), model.PredictionType(typeName))
			if err != nil {
				return err
			}
			return printYAML(preds)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finsight.yaml", "path to finsight.yaml")
	cmd.Flags().StringVar(&owner, "owner", "", "owner ID (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, archived, dismissed)")
	cmd.Flags().StringVar(&typeName, "type", "", "filter by prediction type")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active, unexpired predictions")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "only active predictions at or above this confidence")
	cmd.Flags().IntVar(&limit, "limit", 10, "result cap for --min-confidence queries")

	return cmd
}

func newPredictSweepCommand() *cobra.Command {
	var configPath string
	var owner string
	var watch bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Archive expired predictions and purge old ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			sweeper := predictions.NewSweeper(e.store, e.cfg.Sweep.RetentionDays, e.cfg.Sweep.BatchSize, e.log)

			if watch {
				stop := make(chan struct{})
				go func() {
					sig := make(chan os.Signal, 1)
					signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
					<-sig
					close(stop)
				}()
				return sweeper.Schedule(e.cfg.Sweep.Schedule, owner, stop)
			}

			archived, err := sweeper.Sweep(owner, time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Printf("Archived %d expired predictions\n", archived)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finsight.yaml", "path to finsight.yaml")
	cmd.Flags().StringVar(&owner, "owner", "", "owner ID (default: all owners)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running on the configured cron schedule")

	return cmd
}

func newPredictArchiveCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "archive <prediction-id>",
		Short: "Archive a prediction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.Archive(args[0], time.Now().UTC()); err != nil {
				return err
			}
			fmt.Printf("Archived %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finsight.yaml", "path to finsight.yaml")
	return cmd
}

func newPredictDismissCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "dismiss <prediction-id>",
		Short: "Dismiss a prediction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.Dismiss(args[0], time.Now().UTC()); err != nil {
				return err
			}
			fmt.Printf("Dismissed %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finsight.yaml", "path to finsight.yaml")
	return cmd
}

func newPredictStatsCommand() *cobra.Command {
	var configPath string
	var owner string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show prediction statistics for an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			stats, err := e.store.Statistics(owner)
			if err != nil {
				return err
			}
			return printYAML(stats)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finsight.yaml", "path to finsight.yaml")
	cmd.Flags().StringVar(&owner, "owner", "", "owner ID (required)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func parsePredictionTypes(names []string) ([]model.PredictionType, error) {
	if len(names) == 0 {
		return []model.PredictionType{
			model.SavingsProjection,
			model.ExpenseForecast,
			model.IncomePrediction,
			model.FinancialHealth,
		}, nil
	}

	var types []model.PredictionType
	for _, name := range names {
		switch t := model.PredictionType(name); t {
		case model.SavingsProjection, model.ExpenseForecast, model.IncomePrediction, model.FinancialHealth:
			types = append(types, t)
		default:
			return nil, fmt.Errorf("unknown prediction type %q", name)
		}
	}
	return types, nil
}
