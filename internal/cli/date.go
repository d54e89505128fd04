package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/daftar/internal/jalali"
)

type dateView struct {
	Local     string `json:"local"`
	Canonical string `json:"canonical"`
}

// NewDateCommand creates the date conversion commands.
func NewDateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "date",
		Short: "Convert between Jalali and Gregorian dates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "to-canonical <jalali-date>",
		Short: "Convert YYYY/MM/DD (Jalali) to YYYY-MM-DD (Gregorian)",
		Long: `Convert a Jalali date to its Gregorian day. Persian and Arabic-Indic
digits are accepted.

Examples:
  daftar date to-canonical 1403/01/01
  daftar date to-canonical ۱۴۰۲/۱۲/۲۹`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			canonical := jalali.ToCanonical(args[0])
			if canonical == "" {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid Jalali date %q: expected YYYY/MM/DD", args[0]))
			}
			local := jalali.ToLocalString(canonical)
			return rootOpts.formatter(cmd).Render(dateView{Local: local, Canonical: canonical}, func(w io.Writer) {
				fmt.Fprintln(w, canonical)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "to-local <gregorian-date>",
		Short: "Convert YYYY-MM-DD (Gregorian) to YYYY/MM/DD (Jalali)",
		Long: `Convert a Gregorian date, or an RFC 3339 timestamp taken in UTC, to its
Jalali day.

Examples:
  daftar date to-local 2024-03-20
  daftar date to-local 2024-03-20T08:30:00Z`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			local := jalali.ToLocalString(args[0])
			if local == "" {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", args[0]))
			}
			canonical := jalali.ToCanonical(local)
			return rootOpts.formatter(cmd).Render(dateView{Local: local, Canonical: canonical}, func(w io.Writer) {
				fmt.Fprintln(w, local)
			})
		},
	})

	return cmd
}
