// Command docqa is the command-line client for the document QA service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/config"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
)

// version is set by the linker at release time.
var version = "dev"

// homeEnv overrides the settings directory, ~/.docqa by default.
const homeEnv = config.EnvPrefix + "_HOME"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A .env file in the working directory is optional.
	_ = godotenv.Load()

	store, err := file.NewConfigStore(os.Getenv(homeEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	cli.SetVersion(version)
	cli.SetSettingsService(services.NewSettingsService(store, config.Validate))
	cli.SetDashboardFactory(func(flags *pflag.FlagSet) (driving.Dashboard, domain.ClientConfig, error) {
		cfg, err := config.Load(store, flags)
		if err != nil {
			return nil, cfg, err
		}
		d := services.NewDashboard(httpapi.NewDocumentClient(cfg), httpapi.NewQAClient(cfg), cfg)
		return d, cfg, nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.ExecuteContext(ctx)
}
