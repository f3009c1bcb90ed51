// Command ballotwatch discovers state legislative candidates from public
// sources and reconciles them into one record per person and district.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ballotwatch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ballotwatch/internal/adapters/driven/fetch/web"
	"github.com/custodia-labs/ballotwatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ballotwatch/internal/adapters/driving/cli"
	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/services"
	"github.com/custodia-labs/ballotwatch/internal/sources"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	baseDir, err := file.DefaultDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	configStore, err := file.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	factory := sources.NewFactory(web.New(web.Config{}))
	discovery := services.NewDiscoveryService(
		settingsService,
		factory,
		store.CandidateStore(),
		store.RunStore(),
		filepath.Join(baseDir, "run.lock"),
	)
	scheduler := services.NewScheduler(domain.SchedulerConfigFor(*settings), store.SchedulerStore(), discovery)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Discovery: discovery,
		Settings:  settingsService,
		Reporter:  services.NewCoverageReporter(*settings),
		Scheduler: scheduler,
		Watcher:   configStore,
	})

	return cli.Execute(context.Background())
}
