package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/daftar/internal/sale"
)

// NewReminderCommand creates the reminder command group.
func NewReminderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminder",
		Short: "Track upcoming expenses",
	}
	cmd.AddCommand(newReminderAddCommand(rootOpts))
	cmd.AddCommand(newReminderListCommand(rootOpts))
	cmd.AddCommand(newReminderDeleteCommand(rootOpts))
	cmd.AddCommand(newReminderDueCommand(rootOpts))
	return cmd
}

// ReminderAddOptions holds flags for reminder add.
type ReminderAddOptions struct {
	*RootOptions
	Description string
}

func newReminderAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReminderAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <title> <amount> <due-date>",
		Short: "Add an expense reminder",
		Long: `Add a reminder for an expense due on a Jalali date. The reminder stays due
until the end of that day.

Examples:
  daftar reminder add "Shop rent" 12,000,000 1403/02/01
  daftar reminder add "Supplier" ۳۵۰۰۰۰۰ ۱۴۰۳/۰۱/۲۵ --description "cables"`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReminderAdd(cmd, opts, args[0], args[1], args[2])
		},
	}

	cmd.Flags().StringVar(&opts.Description, "description", "", "details")
	return cmd
}

func runReminderAdd(cmd *cobra.Command, opts *ReminderAddOptions, title, amountArg, dueArg string) error {
	amount, err := sale.ParseAmount(amountArg)
	if err != nil {
		return storeError(fmt.Sprintf("invalid amount %q", amountArg), err)
	}
	loc := opts.location()
	day, err := parseLocalDay(dueArg, loc)
	if err != nil {
		return err
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.AddReminder(cmd.Context(), sale.Reminder{
		Title:       title,
		Amount:      sale.Round(amount),
		DueDate:     sale.EndOfDay(day),
		Description: opts.Description,
	})
	if err != nil {
		return storeError("failed to add reminder", err)
	}

	now := opts.Now().In(loc)
	return opts.formatter(cmd).Render(newReminderView(r, now), func(w io.Writer) {
		fmt.Fprintf(w, "Added reminder #%d: %s, %s due %s\n",
			r.ID, r.Title, formatAmount(opts.Config.CurrencySymbol, r.Amount), formatDate(r.DueDate, loc))
	})
}

func newReminderListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reminders by due date",
		Long: `List every reminder, earliest due date first.

Examples:
  daftar reminder list`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			reminders, err := st.ReadAllReminders(cmd.Context())
			if err != nil {
				return storeError("failed to read reminders", err)
			}
			return renderReminders(cmd, rootOpts, reminders, "No reminders.")
		},
	}
}

// ReminderDueOptions holds flags for reminder due.
type ReminderDueOptions struct {
	*RootOptions
	Window int
}

func newReminderDueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReminderDueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Show reminders due soon",
		Long: `Show reminders due within the window, overdue ones included. The window
defaults to reminder_window_days from the configuration.

Examples:
  daftar reminder due
  daftar reminder due --window 14`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			window := opts.Config.ReminderWindowDays
			if cmd.Flags().Changed("window") {
				if opts.Window < 0 {
					return NewExitError(ExitCommandError, "--window must not be negative")
				}
				window = opts.Window
			}

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			now := opts.Now().In(opts.location())
			reminders, err := st.ReadDueReminders(cmd.Context(), now, window)
			if err != nil {
				return storeError("failed to read reminders", err)
			}
			return renderReminders(cmd, opts.RootOptions, reminders, fmt.Sprintf("Nothing due in the next %d days.", window))
		},
	}

	cmd.Flags().IntVar(&opts.Window, "window", 0, "days ahead to include (default from config)")
	return cmd
}

func renderReminders(cmd *cobra.Command, opts *RootOptions, reminders []sale.Reminder, empty string) error {
	loc := opts.location()
	now := opts.Now().In(loc)

	views := make([]reminderView, len(reminders))
	rows := make([][]string, len(reminders))
	for i, r := range reminders {
		views[i] = newReminderView(r, now)
		rows[i] = []string{
			fmt.Sprint(r.ID),
			r.Title,
			formatAmount(opts.Config.CurrencySymbol, r.Amount),
			formatDate(r.DueDate, loc),
			dueLabel(views[i].DaysUntilDue),
			r.Description,
		}
	}
	return opts.formatter(cmd).Render(views, func(w io.Writer) {
		if len(reminders) == 0 {
			fmt.Fprintln(w, empty)
			return
		}
		renderTable(w, []string{"ID", "Title", "Amount", "Due", "When", "Description"}, rows)
	})
}

func dueLabel(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", days)
}

func newReminderDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Long: `Delete a reminder once the expense is paid.

Examples:
  daftar reminder delete 3`,
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

			if err := st.DeleteReminder(cmd.Context(), id); err != nil {
				return storeError(fmt.Sprintf("failed to delete reminder %d", id), err)
			}
			return rootOpts.formatter(cmd).Render(map[string]int64{"deleted": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted reminder #%d\n", id)
			})
		},
	}
}
