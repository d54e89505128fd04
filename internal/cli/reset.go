package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	Yes       bool
	Customers bool
}

type resetView struct {
	SalesDeleted     int64 `json:"sales_deleted"`
	CustomersDeleted int64 `json:"customers_deleted"`
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every recorded sale",
		Long: `Delete all sales. Customers and reminders are kept unless --customers is
given. This cannot be undone, so take a backup first.

Examples:
  daftar backup export ./before-reset && daftar reset --yes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm deletion")
	cmd.Flags().BoolVar(&opts.Customers, "customers", false, "also delete customers")
	return cmd
}

func runReset(cmd *cobra.Command, opts *ResetOptions) error {
	if !opts.Yes {
		return NewExitError(ExitCommandError, "refusing to delete all sales without --yes")
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	var view resetView
	if view.SalesDeleted, err = st.ClearSales(ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to delete sales", err)
	}
	if opts.Customers {
		if view.CustomersDeleted, err = st.ClearCustomers(ctx); err != nil {
			return WrapExitError(ExitFailure, "failed to delete customers", err)
		}
	}
	opts.Log.WithFields(logrus.Fields{
		"sales":     view.SalesDeleted,
		"customers": view.CustomersDeleted,
	}).Info("ledger reset")

	return opts.formatter(cmd).Render(view, func(w io.Writer) {
		fmt.Fprintf(w, "Deleted %d sales", view.SalesDeleted)
		if opts.Customers {
			fmt.Fprintf(w, " and %d customers", view.CustomersDeleted)
		}
		fmt.Fprintln(w)
	})
}
