package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/daftar/internal/report"
	"github.com/roach88/daftar/internal/sale"
	"github.com/roach88/daftar/internal/store"
)

// NewCustomerCommand creates the customer command group.
func NewCustomerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Look up customers and their contacts",
	}
	cmd.AddCommand(newCustomerListCommand(rootOpts))
	cmd.AddCommand(newCustomerShowCommand(rootOpts))
	cmd.AddCommand(newCustomerSearchCommand(rootOpts))
	return cmd
}

// CustomerSearchOptions holds flags for customer search.
type CustomerSearchOptions struct {
	*RootOptions
	Limit int
}

func newCustomerSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CustomerSearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find customers by part of their name",
		Long: `Find customers whose name contains the term, ignoring case. Handy for
reusing a returning customer's exact name and contact.

Examples:
  daftar customer search sara
  daftar customer search سارا --limit 5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Limit < 1 {
				return NewExitError(ExitCommandError, "--limit must be at least 1")
			}
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			matches, err := st.SearchCustomers(cmd.Context(), args[0], opts.Limit)
			if err != nil {
				return storeError("failed to search customers", err)
			}

			views := make([]customerView, len(matches))
			rows := make([][]string, len(matches))
			loc := opts.location()
			for i, c := range matches {
				views[i] = newCustomerView(c, loc)
				rows[i] = []string{c.Name, c.Contact}
			}
			return opts.formatter(cmd).Render(views, func(w io.Writer) {
				if len(matches) == 0 {
					fmt.Fprintf(w, "No customers match %q.\n", sale.NormalizeName(args[0]))
					return
				}
				renderTable(w, []string{"Name", "Contact"}, rows)
			})
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", store.DefaultSearchLimit, "maximum number of matches")
	return cmd
}

func newCustomerListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List customers by name",
		Long: `List every customer with the contact from their latest sale.

Examples:
  daftar customer list
  daftar customer list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			customers, err := st.ReadAllCustomers(cmd.Context())
			if err != nil {
				return storeError("failed to read customers", err)
			}

			loc := rootOpts.location()
			views := make([]customerView, len(customers))
			rows := make([][]string, len(customers))
			for i, c := range customers {
				views[i] = newCustomerView(c, loc)
				rows[i] = []string{c.Name, c.Contact, formatDate(c.LastUpdated, loc)}
			}
			return rootOpts.formatter(cmd).Render(views, func(w io.Writer) {
				if len(customers) == 0 {
					fmt.Fprintln(w, "No customers yet.")
					return
				}
				renderTable(w, []string{"Name", "Contact", "Last updated"}, rows)
			})
		},
	}
}

// customerDetail is the JSON shape of customer show.
type customerDetail struct {
	customerView
	Purchases int        `json:"purchases"`
	Total     int64      `json:"total"`
	Sales     []saleView `json:"sales"`
}

func newCustomerShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a customer's contact and purchases",
		Long: `Show one customer's contact and every sale recorded under their name.

Examples:
  daftar customer show "Sara Ahmadi"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := sale.NormalizeName(args[0])

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			c, err := st.ReadCustomer(ctx, name)
			if err != nil {
				return storeError(fmt.Sprintf("customer %q", name), err)
			}
			all, err := st.ReadAllSales(ctx)
			if err != nil {
				return storeError("failed to read sales", err)
			}

			loc := rootOpts.location()
			detail := customerDetail{customerView: newCustomerView(c, loc), Sales: []saleView{}}
			var records []sale.Record
			for _, r := range all {
				if r.CustomerName == name {
					records = append(records, r)
					detail.Sales = append(detail.Sales, newSaleView(r, loc))
				}
			}
			if agg, ok := report.Aggregate(records).Get(name); ok {
				detail.Purchases = agg.Count
				detail.Total = agg.Total
			}

			symbol := rootOpts.Config.CurrencySymbol
			return rootOpts.formatter(cmd).Render(detail, func(w io.Writer) {
				fmt.Fprintf(w, "%s\nContact: %s\nLast updated: %s\nPurchases: %d, total %s\n",
					c.Name, c.Contact, detail.LocalDate, detail.Purchases, formatAmount(symbol, detail.Total))
				if len(records) == 0 {
					return
				}
				rows := make([][]string, len(records))
				for i, r := range records {
					rows[i] = []string{fmt.Sprint(r.ID), formatDate(r.Date, loc), formatAmount(symbol, r.RoundedAmount()), categoryLabel(r.Category), r.Note}
				}
				renderTable(w, []string{"ID", "Date", "Amount", "Category", "Note"}, rows)
			})
		},
	}
}
