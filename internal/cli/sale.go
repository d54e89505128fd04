package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/daftar/internal/report"
	"github.com/roach88/daftar/internal/sale"
)

// NewSaleCommand creates the sale command group.
func NewSaleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record and manage sales",
	}
	cmd.AddCommand(newSaleAddCommand(rootOpts))
	cmd.AddCommand(newSaleListCommand(rootOpts))
	cmd.AddCommand(newSaleEditCommand(rootOpts))
	cmd.AddCommand(newSaleDeleteCommand(rootOpts))
	return cmd
}

// SaleAddOptions holds flags for sale add.
type SaleAddOptions struct {
	*RootOptions
	Contact  string
	Note     string
	Category string
}

func newSaleAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaleAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <customer> <amount>",
		Short: "Record a sale",
		Long: `Record a sale for a customer. The customer's contact is replaced by the
one given here.

Examples:
  daftar sale add "Sara Ahmadi" 150,000 --contact 09121234567 --category vpn
  daftar sale add "Sara Ahmadi" ۲۵۰۰۰ --note "charger"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaleAdd(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Contact, "contact", "", "phone number or other contact")
	cmd.Flags().StringVar(&opts.Note, "note", "", "free-form note")
	cmd.Flags().StringVar(&opts.Category, "category", "", "category value or slug (media, vpn, account, accessories, social-media, device-unlock, other)")
	return cmd
}

func runSaleAdd(cmd *cobra.Command, opts *SaleAddOptions, name, amountArg string) error {
	amount, err := sale.ParseAmount(amountArg)
	if err != nil {
		return storeError(fmt.Sprintf("invalid amount %q", amountArg), err)
	}
	category, err := sale.ParseCategory(opts.Category)
	if err != nil {
		return storeError("invalid category", err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.AddSale(cmd.Context(), sale.NewSale{
		CustomerName: name,
		Contact:      opts.Contact,
		Amount:       amount,
		Note:         opts.Note,
		Category:     category,
	})
	if err != nil {
		return storeError("failed to record sale", err)
	}

	loc := opts.location()
	return opts.formatter(cmd).Render(newSaleView(rec, loc), func(w io.Writer) {
		fmt.Fprintf(w, "Recorded sale #%d: %s, %s on %s\n",
			rec.ID, rec.CustomerName, formatAmount(opts.Config.CurrencySymbol, rec.RoundedAmount()), formatDate(rec.Date, loc))
	})
}

// SaleListOptions holds flags for sale list.
type SaleListOptions struct {
	*RootOptions
	Range    rangeFlags
	Category string
}

func newSaleListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaleListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sales",
		Long: `List sales in the order they were recorded.

Examples:
  daftar sale list
  daftar sale list --from 1403/01/01 --to 1403/01/31 --category vpn`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaleList(cmd, opts)
		},
	}

	opts.Range.register(cmd)
	cmd.Flags().StringVar(&opts.Category, "category", "", "only this category (value or slug)")
	return cmd
}

func runSaleList(cmd *cobra.Command, opts *SaleListOptions) error {
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
	from, to := q.Range()
	records, err := st.ReadSalesByDateRange(cmd.Context(), from, to)
	if err != nil {
		return storeError("failed to read sales", err)
	}
	records = report.Filter(records, q)

	loc := opts.location()
	views := make([]saleView, len(records))
	rows := make([][]string, len(records))
	for i, r := range records {
		views[i] = newSaleView(r, loc)
		rows[i] = []string{
			fmt.Sprint(r.ID),
			formatDate(r.Date, loc),
			r.CustomerName,
			r.Contact,
			formatAmount(opts.Config.CurrencySymbol, r.RoundedAmount()),
			categoryLabel(r.Category),
			r.Note,
		}
	}

	return opts.formatter(cmd).Render(views, func(w io.Writer) {
		if len(records) == 0 {
			fmt.Fprintln(w, "No sales recorded.")
			return
		}
		renderTable(w, []string{"ID", "Date", "Customer", "Contact", "Amount", "Category", "Note"}, rows)
	})
}

// SaleEditOptions holds flags for sale edit.
type SaleEditOptions struct {
	*RootOptions
	Amount   string
	Category string
}

func newSaleEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaleEditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a sale's amount or category",
		Long: `Change the amount or category of a recorded sale. Other fields are fixed.

Examples:
  daftar sale edit 12 --amount 180000
  daftar sale edit 12 --category other`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaleEdit(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&opts.Category, "category", "", "new category (value or slug, empty string clears it)")
	return cmd
}

func runSaleEdit(cmd *cobra.Command, opts *SaleEditOptions, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	amountSet := cmd.Flags().Changed("amount")
	categorySet := cmd.Flags().Changed("category")
	if !amountSet && !categorySet {
		return NewExitError(ExitCommandError, "nothing to change: pass --amount or --category")
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if amountSet {
		amount, err := sale.ParseAmount(opts.Amount)
		if err != nil {
			return storeError(fmt.Sprintf("invalid amount %q", opts.Amount), err)
		}
		if err := st.UpdateSaleAmount(ctx, id, amount); err != nil {
			return storeError(fmt.Sprintf("failed to update sale %d", id), err)
		}
	}
	if categorySet {
		category, err := sale.ParseCategory(opts.Category)
		if err != nil {
			return storeError("invalid category", err)
		}
		if err := st.UpdateSaleCategory(ctx, id, category); err != nil {
			return storeError(fmt.Sprintf("failed to update sale %d", id), err)
		}
	}

	rec, err := st.ReadSale(ctx, id)
	if err != nil {
		return storeError(fmt.Sprintf("failed to read sale %d", id), err)
	}
	opts.Log.WithFields(logrus.Fields{"id": id, "amount": amountSet, "category": categorySet}).Debug("sale updated")

	return opts.formatter(cmd).Render(newSaleView(rec, opts.location()), func(w io.Writer) {
		fmt.Fprintf(w, "Updated sale #%d: %s, %s\n",
			rec.ID, formatAmount(opts.Config.CurrencySymbol, rec.RoundedAmount()), categoryLabel(rec.Category))
	})
}

func newSaleDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a sale",
		Long: `Delete one recorded sale. The customer's contact is kept.

Examples:
  daftar sale delete 12`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteSale(cmd.Context(), id); err != nil {
				return storeError(fmt.Sprintf("failed to delete sale %d", id), err)
			}
			return rootOpts.formatter(cmd).Render(map[string]int64{"deleted": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted sale #%d\n", id)
			})
		},
	}
}
