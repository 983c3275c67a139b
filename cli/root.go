// Package cli holds the loan-payoff command tree: "serve" runs the HTTP API
// and "project" prints a payoff projection to the terminal.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func NewRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "loan-payoff",
		Short: "Loan amortization and payoff projections.",
		Long: `loan-payoff projects when a balance will be cleared at a given monthly
payment, builds the month-by-month amortization schedule and flags payments
that never cover the interest.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./loan-payoff.yaml)")

	cmd.AddCommand(newServeCmd(&cfgFile))
	cmd.AddCommand(newProjectCmd())

	return cmd
}

func Execute() error {
	return NewRootCmd().Execute()
}
