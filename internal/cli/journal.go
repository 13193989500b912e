package cli

import (
	"context"

	"github.com/spf13/cobra"

	"formctl/internal/store"
)

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the local log of submitted batches",
		Long: `The journal is a local SQLite log of every batch formctl submitted: the
form, the operation, the primitive ops in order and whether the service
accepted them. Enable it with: formctl config set journal true`,
	}
	cmd.AddCommand(newJournalListCmd(app))
	return cmd
}

func newJournalListCmd(app *App) *cobra.Command {
	var f store.JournalFilter

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent batches, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			path, err := store.ResolveJournalPath(app.cfg)
			if err != nil {
				return err
			}
			j, err := store.OpenJournal(ctx, path)
			if err != nil {
				return err
			}
			defer j.Close()

			recs, err := j.List(ctx, f)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, recs)
		},
	}

	cmd.Flags().StringVar(&f.FormID, "form", "", "Only batches for this form id")
	cmd.Flags().IntVar(&f.Limit, "limit", 50, "Maximum rows")
	return cmd
}
