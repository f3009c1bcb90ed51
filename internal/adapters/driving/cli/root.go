package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
	"github.com/custodia-labs/ballotwatch/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// ConfigWatcher reports edits to the configuration file.
type ConfigWatcher interface {
	// Watch blocks until ctx is done, calling onChange after each reload.
	Watch(ctx context.Context, onChange func()) error
}

// Services holds the driving ports the commands call into.
type Services struct {
	Discovery driving.DiscoveryService
	Settings  driving.SettingsService
	Reporter  driving.CoverageReporter
	Scheduler driving.Scheduler
	Watcher   ConfigWatcher
}

var (
	discoveryService driving.DiscoveryService
	settingsService  driving.SettingsService
	reportRenderer   driving.CoverageReporter
	scheduler        driving.Scheduler
	configWatcher    ConfigWatcher

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ballotwatch",
	Short: "Discover and reconcile state legislative candidates",
	Long: `ballotwatch gathers candidate records from public sources such as
Ballotpedia and the state party websites, reconciles them into one record per
person and district, and reports coverage and conflicts for review.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
}

// SetServices wires the driving ports used by the commands.
func SetServices(s Services) {
	discoveryService = s.Discovery
	settingsService = s.Settings
	reportRenderer = s.Reporter
	scheduler = s.Scheduler
	configWatcher = s.Watcher
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
