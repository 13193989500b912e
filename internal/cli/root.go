package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"formctl/internal/format"
	"formctl/internal/formsvc"
	"formctl/internal/gforms"
	"formctl/internal/memform"
	"formctl/internal/model"
	"formctl/internal/store"
)

type App struct {
	Format   string
	Pretty   bool
	LogLevel string
	Fixture  string
	DryRun   bool

	cfg    *store.Config
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "formctl",
		Short:         "Edit form structure by section and question number",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Outline a form
  formctl sections list <form-id> --format text

  # Add a question at the end of section 2
  formctl questions add <form-id> --section 2 --title "Email" --required

  # Move section 3 before section 1 (plan only)
  formctl sections move <form-id> 3 --before 1 --dry-run

  # Work against a local form file instead of the API
  formctl --fixture form.yaml questions list f1
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return model.InvalidArgument("", "%v", err)
	})

	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("FORMCTL_FORMAT", ""), "Output format (json|edn|text; default from config, else json)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("FORMCTL_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.Fixture, "fixture", envOr("FORMCTL_FIXTURE", ""), "Use a local YAML/JSON form file instead of the Forms API; writes are saved back to it")
	cmd.PersistentFlags().BoolVar(&app.DryRun, "dry-run", false, "Plan mutations and print them without submitting")

	cmd.AddCommand(newFormCmd(app))
	cmd.AddCommand(newSectionsCmd(app))
	cmd.AddCommand(newQuestionsCmd(app))
	cmd.AddCommand(newBrowseCmd(app))
	cmd.AddCommand(newJournalCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// Execute runs the command tree against args and returns the process exit
// code. Errors are printed to stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		_ = writeErr(cmd, err)
		return ExitCode(err)
	}
	return 0
}

// init layers config under flags: a flag or FORMCTL_* variable wins, then
// config.yaml, then the built-in default.
func (app *App) init(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	app.cfg = cfg

	if app.Format == "" {
		app.Format = cfg.Format
	}
	if app.Format == "" {
		app.Format = "json"
	}
	if !format.Valid(app.Format) {
		return model.InvalidArgument("format", "unknown format %q (want one of %s)", app.Format, strings.Join(format.Formats, ", "))
	}

	if app.LogLevel == "" {
		app.LogLevel = cfg.LogLevel
	}
	level, err := parseLevel(app.LogLevel)
	if err != nil {
		return err
	}
	app.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, model.InvalidArgument("log-level", "unknown level %q", s)
	}
}

// service wires the engine to its collaborators: a fixture file or the
// Forms API, plus the journal when enabled. done releases the journal.
func (app *App) service(ctx context.Context) (*formsvc.Service, func(), error) {
	var (
		repo formsvc.Repository
		mut  formsvc.Mutator
	)
	if app.Fixture != "" {
		f, err := memform.LoadFile(app.Fixture)
		if err != nil {
			return nil, nil, fmt.Errorf("load fixture: %w", err)
		}
		repo, mut = f, f
	} else {
		c, err := gforms.New(ctx, gforms.Options{
			CredentialsFile: app.cfg.CredentialsFile,
			Endpoint:        app.cfg.Endpoint,
			Logger:          app.logger,
		})
		if err != nil {
			return nil, nil, err
		}
		repo, mut = c, c
	}

	opts := []formsvc.Option{formsvc.WithLogger(app.logger), formsvc.WithDryRun(app.DryRun)}
	done := func() {}
	if app.cfg.Journal {
		path, err := store.ResolveJournalPath(app.cfg)
		if err != nil {
			return nil, nil, err
		}
		j, err := store.OpenJournal(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		opts = append(opts, formsvc.WithJournal(j))
		done = func() {
			if err := j.Close(); err != nil {
				app.logger.Warn("close journal", "err", err)
			}
		}
	}
	return formsvc.New(repo, mut, opts...), done, nil
}

// withService runs fn against a freshly wired service.
func (app *App) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *formsvc.Service) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, done, err := app.service(ctx)
	if err != nil {
		return err
	}
	defer done()
	out, err := fn(ctx, svc)
	if err != nil {
		return err
	}
	return writeOut(cmd, app, out)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut wraps v in the {"data": ...} envelope for machine formats; text
// output renders v directly.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if strings.EqualFold(app.Format, "text") {
		return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "error:", err.Error())
	return err
}
