package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"loan-payoff/domain"
	"loan-payoff/repository"
	"loan-payoff/service"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
)

type projectOptions struct {
	balance float64
	rate    float64
	payment float64
	start   string
	months  int
}

func newProjectCmd() *cobra.Command {
	var opts projectOptions

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print the payoff projection and amortization schedule",
		Example: `  loan-payoff project --balance 1000 --rate 12 --payment 200 --start 2025-01-01
  loan-payoff project --balance 250000 --rate 5.5 --payment 1500 --months 12`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projections := service.NewProjectionService(repository.NewMockCache(), time.Minute)
			p, err := projections.Project(cmd.Context(), domain.ProjectionInput{
				CurrentBalance: opts.balance,
				InterestRate:   opts.rate,
				MonthlyPayment: opts.payment,
				StartDate:      opts.start,
				Months:         opts.months,
			})
			if err != nil {
				return err
			}
			printProjection(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.balance, "balance", 0, "current balance")
	cmd.Flags().Float64Var(&opts.rate, "rate", 0, "annual interest rate in percent")
	cmd.Flags().Float64Var(&opts.payment, "payment", 0, "monthly payment")
	cmd.Flags().StringVar(&opts.start, "start", "", "start date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&opts.months, "months", 0, "rows to print (0 prints the whole schedule)")
	_ = cmd.MarkFlagRequired("balance")
	_ = cmd.MarkFlagRequired("payment")

	return cmd
}

func printProjection(out io.Writer, p domain.Projection) {
	fmt.Fprintf(out, "Balance %s at %s%% with %s a month\n",
		money(p.CurrentBalance),
		strconv.FormatFloat(p.InterestRate, 'f', -1, 64),
		money(p.MonthlyPayment))

	if !p.Validation.IsValid {
		fmt.Fprintln(out, p.Validation.Message)
	}

	if len(p.Schedule) > 0 {
		fmt.Fprintln(out, scheduleTable(p.Schedule).Render())
	}

	if p.ProjectedPayoffDate == nil {
		fmt.Fprintln(out, "Payoff date: never")
	} else {
		fmt.Fprintf(out, "Payoff date: %s (%s)\n",
			*p.ProjectedPayoffDate,
			english.Plural(p.MonthsToPayoff, "month", "months"))
	}
	fmt.Fprintf(out, "Total interest: %s\n", money(p.TotalInterestToPay))
}

func scheduleTable(schedule []domain.MonthlyEntry) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Month", "Date", "Payment", "Interest", "Principal", "Balance").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2:
				return amountStyle
			default:
				return cellStyle
			}
		})

	for _, e := range schedule {
		t.Row(
			strconv.Itoa(e.Month),
			e.Date,
			money(e.Payment),
			money(e.Interest),
			money(e.Principal),
			money(e.Balance),
		)
	}
	return t
}

func money(v float64) string {
	return "£" + humanize.FormatFloat("#,###.##", v)
}
