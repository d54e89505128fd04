package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/daftar/internal/engine"
	"github.com/roach88/daftar/internal/report"
	"github.com/roach88/daftar/internal/sale"
)

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	*RootOptions
	Range    rangeFlags
	Category string
}

// summaryView is the JSON shape of a summary report.
type summaryView struct {
	Status      report.Status          `json:"status"`
	From        string                 `json:"from,omitempty"`
	To          string                 `json:"to,omitempty"`
	Category    string                 `json:"category,omitempty"`
	Rows        []report.CustomerTotal `json:"rows"`
	GrandTotal  int64                  `json:"grand_total"`
	RecordCount int                    `json:"record_count"`
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total sales per customer",
		Long: `Show each customer's purchase count and total, largest total first.

Dates are Jalali and inclusive. A date that cannot be read is ignored with
a warning, leaving that side of the range open.

Examples:
  daftar summary
  daftar summary --from 1403/01/01 --to 1403/06/31
  daftar summary --category vpn --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, opts)
		},
	}

	opts.Range.register(cmd)
	cmd.Flags().StringVar(&opts.Category, "category", "", "only this category (value or slug)")
	return cmd
}

func runSummary(cmd *cobra.Command, opts *SummaryOptions) error {
	category, err := sale.ParseCategory(opts.Category)
	if err != nil {
		return storeError("invalid category", err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	q := opts.query(opts.Range, category)
	runner := engine.NewRunner(st, engine.WithLogger(opts.Log))
	s, err := runner.Summary(cmd.Context(), q)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to build summary", err)
	}

	view := summaryView{
		Status:      s.Status,
		From:        q.From,
		To:          q.To,
		Category:    string(q.Category),
		Rows:        s.Rows,
		GrandTotal:  s.GrandTotal,
		RecordCount: s.RecordCount,
	}
	symbol := opts.Config.CurrencySymbol
	return opts.formatter(cmd).Render(view, func(w io.Writer) {
		switch s.Status {
		case report.StatusNoRecords:
			fmt.Fprintln(w, "No records found for this period.")
			return
		case report.StatusNoValidRecords:
			fmt.Fprintln(w, "No valid records found for this period.")
			return
		}
		rows := make([][]string, len(s.Rows))
		for i, row := range s.Rows {
			rows[i] = []string{fmt.Sprint(i + 1), row.Name, fmt.Sprint(row.Count), formatAmount(symbol, row.Total)}
		}
		renderTable(w, []string{"#", "Customer", "Purchases", "Total"}, rows)
		fmt.Fprintf(w, "Customers: %d  Records: %d  Grand total: %s\n",
			len(s.Rows), s.RecordCount, formatAmount(symbol, s.GrandTotal))
	})
}
