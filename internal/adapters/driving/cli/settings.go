package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage discovery settings",
	Long: `View and configure discovery settings.

Settings live in ~/.ballotwatch/config.toml and can also be edited by hand.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Long: `Set a configuration key, for example:

  ballotwatch settings set discovery.similarity_threshold 0.9
  ballotwatch settings set discovery.sources ballotpedia,scdp
  ballotwatch settings set sources.scgop.requests_per_minute 10

Keys ending in sources, urls or feeds take a comma-separated list.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsFrequencyCmd = &cobra.Command{
	Use:   "frequency <weekly|daily|manual>",
	Short: "Set how often scheduled discovery runs",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsFrequency,
}

var settingsEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable discovery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return setDiscoveryEnabled(cmd, true)
	},
}

var settingsDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable discovery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return setDiscoveryEnabled(cmd, false)
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsFrequencyCmd)
	settingsCmd.AddCommand(settingsEnableCmd)
	settingsCmd.AddCommand(settingsDisableCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Discovery]")
	cmd.Printf("  Enabled: %t\n", settings.Enabled)
	cmd.Printf("  Frequency: %s\n", settings.Frequency.Description())
	cmd.Printf("  State: %s\n", settings.State)
	cmd.Printf("  Election year: %d\n", settings.ElectionYear)
	cmd.Printf("  Similarity threshold: %.2f\n", settings.SimilarityThreshold)
	cmd.Printf("  Requests per minute: %d\n", settings.RequestsPerMinute)
	cmd.Printf("  Run timeout: %s\n", settings.RunTimeout)
	cmd.Println()

	cmd.Println("[Chambers]")
	for _, c := range settings.Bounds.Chambers() {
		cmd.Printf("  %s: %d districts\n", c, settings.Bounds[c])
	}
	cmd.Println()

	cmd.Println("[Sources]")
	enabled := make(map[string]bool, len(settings.EnabledSources))
	for _, name := range settings.EnabledSources {
		enabled[name] = true
	}
	names := make([]string, 0, len(settings.Sources))
	for name := range settings.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		src := settings.Sources[name]
		state := "disabled"
		if enabled[name] {
			state = "enabled"
		}
		cmd.Printf("  %s (%s, %s): priority %d, %d req/min\n",
			name, src.Kind, state, src.Priority, settings.RateFor(src))
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	value := parseSettingValue(key, args[1])
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %v\n", key, value)

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

// parseSettingValue converts command-line text to the type the config
// store should hold for the key.
func parseSettingValue(key, raw string) any {
	if isListKey(key) {
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func isListKey(key string) bool {
	for _, suffix := range []string{"sources", "urls", "feeds"} {
		if strings.HasSuffix(key, "."+suffix) {
			return true
		}
	}
	return false
}

func runSettingsFrequency(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	freq := domain.Frequency(strings.ToLower(args[0]))
	if err := settingsService.SetFrequency(freq); err != nil {
		return fmt.Errorf("failed to set frequency: %w", err)
	}
	cmd.Printf("Discovery frequency set to: %s\n", freq.Description())
	return nil
}

func setDiscoveryEnabled(cmd *cobra.Command, enabled bool) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetEnabled(enabled); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	if enabled {
		cmd.Println("Discovery enabled.")
	} else {
		cmd.Println("Discovery disabled.")
	}
	return nil
}
