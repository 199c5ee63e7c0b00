package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/insights"
)

func newInsightsCommand() *cobra.Command {
	var configPath string
	var owner string

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show the aggregated financial insight snapshot for an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			svc := insights.NewService(e.ledger, e.store, e.cache, e.cacheTTL(), e.analysisWindows(), e.log)
			ins, err := svc.Get(owner, time.Now().UTC())
			if err != nil {
				return err
			}
			return printYAML(ins)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finsight.yaml", "path to finsight.yaml")
	cmd.Flags().StringVar(&owner, "owner", "", "owner ID (required)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
