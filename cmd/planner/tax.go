package main

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/internal/tax"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTaxCmd() *cobra.Command {
	var (
		adjustment float64
		configFile string
	)
	cmd := &cobra.Command{
		Use:   "tax INCOME",
		Short: "Show federal, provincial and combined tax on an income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			income, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("%w: income %q is not a number", domain.ErrInvalidInput, args[0])
			}
			cfg, err := loadConfiguration(configFile, "")
			if err != nil {
				return err
			}
			calc, err := tax.NewCalculator(tax.BracketsFromConfig(cfg.Tax.Federal), tax.BracketsFromConfig(cfg.Tax.Provincial))
			if err != nil {
				return err
			}

			adj := decimal.NewFromFloat(adjustment)
			federal, err := calc.FederalTax(income, adj)
			if err != nil {
				return err
			}
			provincial, err := calc.ProvincialTax(income, adj)
			if err != nil {
				return err
			}
			combined, err := calc.CombinedTax(income, adj)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Income:     %s\n", money.Format(income))
			fmt.Fprintf(out, "Federal:    %s\n", money.Format(federal))
			fmt.Fprintf(out, "Provincial: %s\n", money.Format(provincial))
			fmt.Fprintf(out, "Combined:   %s\n", money.Format(combined))
			if income.IsPositive() {
				fmt.Fprintf(out, "Average:    %s\n", money.FormatPercent(combined.Div(income)))
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&adjustment, "adjustment", "a", 1, "inflation factor applied to bracket thresholds")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file providing the tax brackets")
	return cmd
}
