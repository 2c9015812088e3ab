package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/securecheck-dashboard/internal/app"
	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/logger"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/tabs/insights"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/tabs/intro"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/tabs/metrics"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/tabs/outcome"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/tabs/table"
	"github.com/j-veylop/securecheck-dashboard/internal/version"
	"github.com/j-veylop/securecheck-dashboard/internal/web"
)

// =============================================================================
// tui
// =============================================================================

func addTUIFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page-size", 0, "Rows per page on the full table tab (default: 100)")
	cmd.Flags().Bool("watch", false, "Reload when the sqlite ledger file changes")
	cmd.Flags().String("log-file", "", "Log file for the terminal dashboard")
}

func newTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal dashboard (default)",
		Long: `Start the terminal dashboard.

Tabs:
  1  Introduction
  2  Full Table
  3  Key Metrics
  4  Advanced Insights
  5  Predict Outcome

Keys: 1-5 or tab/shift+tab switch tabs, r reloads the ledger, ? toggles
help, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd)
		},
	}
	addTUIFlags(cmd)
	return cmd
}

func runTUI(cmd *cobra.Command) error {
	cfg := GetConfig(cmd.Context())

	// The alternate screen owns the terminal, so logs go to a file.
	closer, err := logger.SetupFile(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(mgr)
	state := model.GetState()
	model.SetTabs([]app.Tab{
		intro.New(state, cfg),
		table.New(state, cfg.PageSize),
		metrics.New(state),
		insights.New(state),
		outcome.New(state),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// =============================================================================
// serve
// =============================================================================

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard to a browser",
		Example: `  # Serve on the default address (:8501)
  securecheck serve

  # Serve a sqlite ledger on another port
  securecheck serve --driver sqlite --path ledger.db --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default: :8501)")
	cmd.Flags().String("session-secret", "", "Key for the session cookie (default: random per process)")
	cmd.Flags().String("intro-image", "", "Illustration shown on the introduction page")
	cmd.Flags().Int("page-size", 0, "Rows per page on the full table page (default: 100)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg := GetConfig(cmd.Context())

	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	srv, err := web.NewServer(web.Config{
		Service:       mgr,
		App:           cfg,
		Addr:          cfg.Addr,
		SessionSecret: cfg.SessionSecret,
		Logger:        logger.Logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// =============================================================================
// query
// =============================================================================

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
}

func newQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <label|index>",
		Short: "Run one catalog analysis and print the result",
		Long: `Run one analysis from the catalog and print its result table.

The analysis is chosen by its exact label or by its 1-based position as
listed by "securecheck catalog".`,
		Example: `  # Run the first analysis
  securecheck query 1

  # Run by label and print CSV
  securecheck query "Frequently searched vehicle" --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatTable, "Output format: table, json, csv, markdown")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return Formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runQuery(cmd *cobra.Command, arg string, opts *QueryOptions) error {
	if err := checkFormat(opts.Format); err != nil {
		return err
	}

	entry, err := catalog.Resolve(arg)
	if err != nil {
		return fmt.Errorf("%w (see \"securecheck catalog\")", err)
	}

	cfg := GetConfig(cmd.Context())
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	res, err := mgr.RunEntry(cmd.Context(), entry)
	if res != nil {
		if renderErr := renderResult(cmd.OutOrStdout(), res, opts.Format); renderErr != nil {
			return renderErr
		}
	}
	return err
}

// =============================================================================
// catalog
// =============================================================================

func newCatalogCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the available analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(opts.Format); err != nil {
				return err
			}
			return renderCatalog(cmd.OutOrStdout(), catalog.Entries(), opts.Format)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatTable, "Output format: table, json, csv, markdown")
	return cmd
}

// =============================================================================
// version
// =============================================================================

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
