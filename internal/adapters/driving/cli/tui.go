package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
	"github.com/custodia-labs/docqa/internal/logger"
)

// runApp starts the interactive app. Tests replace it to avoid taking
// over the terminal.
var runApp = func(app *tui.App) error {
	return app.Run()
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Long: `Launch the interactive terminal dashboard for docqa.

The dashboard lists your documents and refreshes while they index,
uploads files from a folder, and answers questions with their sources.

Controls:
  ↑/k, ↓/j - Navigate documents
  a        - Ask a question
  u        - Upload files
  d        - Delete the selected document
  s        - Settings
  ?        - Toggle help
  q        - Quit

Log messages go to the configured log file while the dashboard runs.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the dashboard; logs only go to the file.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)
	if err := logger.UseFile(clientConfig.LogFile); err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() {
		_ = logger.Close()
	}()

	app, err := tui.NewApp(tui.NewPorts(d, settingsService, clientConfig.PollInterval))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := runApp(app.WithContext(cmd.Context())); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
