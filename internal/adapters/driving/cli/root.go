// Package cli provides the docqa command-line interface.
//
// Commands are package-level cobra commands registered on rootCmd from
// their init functions. Services are injected by the composition root
// before Execute is called.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set at build time.
var version = "dev"

// DashboardFactory builds the dashboard from the effective configuration.
// flags carries the parsed command-line overrides.
type DashboardFactory func(flags *pflag.FlagSet) (driving.Dashboard, domain.ClientConfig, error)

var (
	settingsService  driving.SettingsService
	dashboardFactory DashboardFactory

	// dashboard and clientConfig are built lazily on first use so that
	// settings commands work while the stored configuration is invalid.
	dashboard    driving.Dashboard
	clientConfig domain.ClientConfig
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa is a client for a document question-answering service.

Upload PDF and text files, watch them being indexed, then ask questions
answered from their content with a choice of retrieval strategies.

Run without arguments to see the available commands, or use
"docqa tui" for the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	defaults := domain.DefaultClientConfig()

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.String("base-url", defaults.BaseURL, "service root URL")
	flags.Duration("timeout", defaults.Timeout, "per-request timeout")
	flags.Int("top-k", defaults.TopK, "sources retrieved per question")
	flags.Float64("requests-per-second", defaults.RequestsPerSecond, "outgoing request limit (0 = unlimited)")
	flags.Duration("poll-interval", defaults.PollInterval, "delay between refreshes while documents index")
	flags.String("log-file", defaults.LogFile, "rotating log file used while the TUI runs")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which long-running
// commands watch for cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the service used by the settings commands.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetDashboardFactory sets how the dashboard is built once flags are parsed.
func SetDashboardFactory(f DashboardFactory) {
	dashboardFactory = f
	dashboard = nil
}

// loadDashboard returns the dashboard, building it on first use.
func loadDashboard(cmd *cobra.Command) (driving.Dashboard, error) {
	if dashboard != nil {
		return dashboard, nil
	}
	if dashboardFactory == nil {
		return nil, errors.New("dashboard not configured")
	}

	d, cfg, err := dashboardFactory(cmd.Flags())
	if err != nil {
		return nil, err
	}
	dashboard = d
	clientConfig = cfg
	return dashboard, nil
}
