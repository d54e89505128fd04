package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/daftar/internal/backup"
)

// NewBackupCommand creates the backup command group.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and restore the ledger as JSON files",
	}
	cmd.AddCommand(newBackupExportCommand(rootOpts))
	cmd.AddCommand(newBackupImportCommand(rootOpts))
	return cmd
}

func (opts *RootOptions) backupOptions() backup.Options {
	return backup.Options{Now: opts.Now, NewID: opts.NewID, Log: opts.Log}
}

func newBackupExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write sales, customers and reminders to a directory",
		Long: `Write one JSON file per kind of record plus a manifest with checksums.
The directory is created if needed and existing backup files are replaced.

Examples:
  daftar backup export ./backup-1403-01-15`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			manifest, err := backup.Export(cmd.Context(), st, args[0], rootOpts.backupOptions())
			if err != nil {
				return WrapExitError(ExitFailure, "backup failed", err)
			}
			return rootOpts.formatter(cmd).Render(manifest, func(w io.Writer) {
				fmt.Fprintf(w, "Backup %s written to %s\n", manifest.ID, args[0])
				for _, f := range manifest.Files {
					fmt.Fprintf(w, "  %-24s %d records\n", f.Name, f.Records)
				}
			})
		},
	}
}

// BackupImportOptions holds flags for backup import.
type BackupImportOptions struct {
	*RootOptions
	Only []string
}

type importView struct {
	Kind     backup.Kind `json:"kind"`
	Restored int         `json:"restored"`
	Failed   int         `json:"failed"`
}

func newBackupImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BackupImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Replace the ledger with a backup",
		Long: `Restore records from a backup directory. Each restored kind replaces what
is currently stored. Files are checked against manifest.json when it is
present; backups without a manifest are accepted as they are.

Examples:
  daftar backup import ./backup-1403-01-15
  daftar backup import ./old-browser-export --only sales,customers`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupImport(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "kinds to restore (sales, customers, reminders)")
	return cmd
}

func runBackupImport(cmd *cobra.Command, opts *BackupImportOptions, dir string) error {
	var kinds []backup.Kind
	for _, name := range opts.Only {
		kind, err := backup.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --only", err)
		}
		kinds = append(kinds, kind)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	f := opts.formatter(cmd)
	f.VerboseLog("restoring %s from %s", kindsLabel(kinds), dir)
	result, err := backup.Import(cmd.Context(), st, dir, kinds, opts.backupOptions())
	if err != nil {
		return WrapExitError(ExitFailure, "restore failed", err)
	}

	views := []importView{}
	for _, kind := range backup.Kinds() {
		if res, ok := result[kind]; ok {
			views = append(views, importView{Kind: kind, Restored: res.Restored, Failed: res.Failed})
		}
	}
	return f.Render(views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintf(w, "No backup files found in %s\n", dir)
			return
		}
		for _, v := range views {
			fmt.Fprintf(w, "%-10s restored %d, failed %d\n", v.Kind, v.Restored, v.Failed)
		}
	})
}

func kindsLabel(kinds []backup.Kind) string {
	if len(kinds) == 0 {
		return "every kind"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
