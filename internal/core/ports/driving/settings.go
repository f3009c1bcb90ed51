package driving

import "github.com/custodia-labs/ballotwatch/internal/core/domain"

// SettingsService manages discovery settings.
type SettingsService interface {
	// Get retrieves the current discovery settings, defaults filled in.
	Get() (*domain.DiscoverySettings, error)

	// Set updates a single configuration key and persists it.
	Set(key string, value any) error

	// SetFrequency updates the discovery frequency.
	SetFrequency(freq domain.Frequency) error

	// SetEnabled switches discovery on or off.
	SetEnabled(enabled bool) error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.DiscoverySettings

	// Reload re-reads the configuration from storage.
	Reload() error
}
