package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/report"
)

func newReportCommand() *cobra.Command {
	var configPath string
	var owner string
	var month string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the monthly financial report for an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()

			ref := now.AddDate(0, -1, 0) // default to the last full month
			if month != "" {
				parsed, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid month %q, want YYYY-MM: %w", month, err)
				}
				ref = parsed
			}

			e, err := newEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			asm := report.NewAssembler(e.ledger, e.log)
			rep, err := asm.Generate(owner, ref.Year(), ref.Month(), now)
			if err != nil {
				return err
			}
			return printYAML(rep)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finsight.yaml", "path to finsight.yaml")
	cmd.Flags().StringVar(&owner, "owner", "", "owner ID (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&month, "month", "", "reference month as YYYY-MM (default: previous month)")

	return cmd
}
