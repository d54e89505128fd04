package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/daftar/internal/config"
	"github.com/roach88/daftar/internal/report"
	"github.com/roach88/daftar/internal/store"
)

// RootOptions holds global flags and the resolved configuration shared by
// all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	ConfigPath string
	EnvFile    string

	// Config is filled in by the root command before any subcommand runs.
	Config config.Config
	// Log writes diagnostics to stderr.
	Log *logrus.Logger

	// Now, Rand and NewID are replaced in tests.
	Now       func() time.Time
	Rand      report.Source
	NewID     func() string
	LookupEnv func(string) (string, bool)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the daftar CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

// Execute runs the CLI with args and returns the process exit code.
// Failures are reported in the selected output format: a JSON error
// envelope on stdout, or a one-line message on stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	f := &OutputFormatter{Format: opts.Format, Writer: stderr, Verbose: opts.Verbose}
	if f.Format == "json" {
		f.Writer = stdout
	}
	var details interface{}
	if opts.Verbose {
		details = fmt.Sprintf("%+v", err)
	}
	if ferr := f.Error(errorCode(code), err.Error(), details); ferr != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return code
}

// errorCode names an exit code in JSON error envelopes.
func errorCode(exit int) string {
	switch exit {
	case ExitCommandError:
		return "E002"
	default:
		return "E001"
	}
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daftar",
		Short: "daftar - a small shop's sales ledger",
		Long: `Record sales, see who your best customers are and run a spend-based lottery.

Dates are entered and shown in the Jalali calendar (YYYY/MM/DD).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config: daftar.db)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file with DAFTAR_* settings")

	// Add subcommands
	cmd.AddCommand(NewSaleCommand(opts))
	cmd.AddCommand(NewCustomerCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewLotteryCommand(opts))
	cmd.AddCommand(NewReminderCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewDateCommand(opts))

	return cmd
}

// resolve loads configuration, applies flag overrides and sets up logging.
// Flags win over the config file and environment.
func (opts *RootOptions) resolve(cmd *cobra.Command) error {
	opts.Log = newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := config.Load(config.Options{
		Path:      opts.ConfigPath,
		EnvFile:   opts.EnvFile,
		LookupEnv: opts.LookupEnv,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}
	if flags.Changed("format") {
		cfg.Format = opts.Format
	}
	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}
	opts.Database = cfg.Database
	opts.Format = cfg.Format
	opts.Config = cfg

	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}

	opts.Log.WithFields(logrus.Fields{
		"db":       cfg.Database,
		"format":   cfg.Format,
		"timezone": cfg.Timezone,
	}).Debug("configuration loaded")
	return nil
}

// openStore opens the configured database.
func (opts *RootOptions) openStore() (*store.Store, error) {
	st, err := store.Open(opts.Database, store.WithClock(opts.Now), store.WithLogger(opts.Log))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// location returns the configured time zone for calendar days.
func (opts *RootOptions) location() *time.Location {
	loc, err := opts.Config.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

// formatter builds an OutputFormatter writing to cmd's streams.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
