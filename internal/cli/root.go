// Package cli provides the securecheck command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/j-veylop/securecheck-dashboard/internal/config"
	"github.com/j-veylop/securecheck-dashboard/internal/logger"
	"github.com/j-veylop/securecheck-dashboard/internal/services"
	"github.com/j-veylop/securecheck-dashboard/internal/version"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates the root command. Without a subcommand it starts the
// terminal dashboard.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "securecheck",
		Short: "SecureCheck - traffic stop ledger dashboard",
		Long: `SecureCheck is an analytics dashboard over a police check post ledger.

It browses the raw records, shows key metrics and charts, runs a fixed
catalog of analyses and fills in a stop outcome form, in the terminal or
in a browser.`,
		Version: version.GetVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if cfg.Source != "" {
				logger.Debug("using config file", "path", cfg.Source)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./securecheck.yaml)")
	flags.String("driver", "", "Ledger store driver (mysql|postgres|sqlite)")
	flags.String("host", "", "Database host")
	flags.Int("port", 0, "Database port (default: driver's standard port)")
	flags.String("user", "", "Database user")
	flags.String("password", "", "Database password")
	flags.String("database", "", "Database name")
	flags.String("path", "", "Ledger file for the sqlite driver")
	flags.Bool("notify", false, "Desktop notification when the store becomes unreachable")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.String("log-format", "", "Log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.DriverMySQL, config.DriverPostgres, config.DriverSQLite}, cobra.ShellCompDirectiveNoFileComp
	})

	addTUIFlags(rootCmd)

	rootCmd.AddCommand(newTUICommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newCatalogCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{Driver: config.DriverMySQL, PageSize: 100}
}

// newManager builds the service layer for a command.
func newManager(cfg *config.Config) (*services.Manager, error) {
	mgr, err := services.NewManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return mgr, nil
}
