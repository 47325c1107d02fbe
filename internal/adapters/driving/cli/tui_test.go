package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
)

func useRunApp(t *testing.T, run func(*tui.App) error) {
	t.Helper()
	original := runApp
	runApp = run
	t.Cleanup(func() { runApp = original })
}

func TestTUICmd_Use(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
	assert.Contains(t, tuiCmd.Long, "log file")
}

func TestTUICmd_RunsApp(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	var started *tui.App
	useRunApp(t, func(app *tui.App) error {
		started = app
		return nil
	})

	_, err := execute(t, "", "tui")

	require.NoError(t, err)
	require.NotNil(t, started)
	assert.Equal(t, messages.ViewDocuments, started.CurrentView())
}

func TestTUICmd_WritesLogFile(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	logFile := filepath.Join(t.TempDir(), "docqa.log")
	SetDashboardFactory(func(*pflag.FlagSet) (driving.Dashboard, domain.ClientConfig, error) {
		cfg := domain.DefaultClientConfig()
		cfg.LogFile = logFile
		return services.NewDashboard(env.docs, env.qa, cfg), cfg, nil
	})
	useRunApp(t, func(*tui.App) error {
		logger.Info("dashboard running")
		return nil
	})

	_, err := execute(t, "", "tui")

	require.NoError(t, err)
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dashboard running")
}

func TestTUICmd_RunError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	useRunApp(t, func(*tui.App) error { return errors.New("no tty") })

	_, err := execute(t, "", "tui")

	assert.EqualError(t, err, "TUI error: no tty")
}

func TestTUICmd_Panic(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	useRunApp(t, func(*tui.App) error { panic("boom") })

	_, err := execute(t, "", "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestTUICmd_DashboardNotConfigured(t *testing.T) {
	SetDashboardFactory(nil)

	_, err := execute(t, "", "tui")

	assert.EqualError(t, err, "dashboard not configured")
}
