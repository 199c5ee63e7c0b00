package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/config"
	"github.com/finsight-dev/finsight/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var ledgerRoot string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finsight project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, ledgerRoot)
		},
	}

	cmd.Flags().StringVar(&ledgerRoot, "ledger-root", "ledger", "directory for CSV ledger data, relative to the project")

	return cmd
}

func runInit(dir, ledgerRoot string) error {
	root := filepath.Join(dir, ledgerRoot)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	// Write finsight.yaml.
	cfg := config.Default(root)
	cfg.Store.DSN = filepath.Join(dir, "predictions.db")
	if err := config.Save(filepath.Join(dir, "finsight.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed header-only goal and budget files so the layout is discoverable.
	d := ledger.NewDir(root)
	if err := d.SaveGoals(nil); err != nil {
		return fmt.Errorf("writing goals file: %w", err)
	}
	if err := d.SaveBudgets(nil); err != nil {
		return fmt.Errorf("writing budgets file: %w", err)
	}

	fmt.Printf("Initialized finsight project at %s\n", dir)
	return nil
}
