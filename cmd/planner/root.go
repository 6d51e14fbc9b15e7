package main

import (
	"github.com/rpgo/wealth-planner/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "Project TFSA, RRSP and taxable savings over a lifetime",
		Long: `planner simulates a Canadian household's savings year by year:
income, spending, contributions to TFSA, RRSP and unregistered accounts,
investment returns, federal and Ontario tax, and retirement withdrawals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSimulateCmd(), newTaxCmd(), newExampleConfigCmd())
	return root
}

func newExampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config",
		Short: "Print the built-in configuration as a starting point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
			return err
		},
	}
}
