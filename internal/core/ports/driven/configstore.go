package driven

// ConfigStore holds the flat, dotted-key settings that SettingsService
// turns into domain.DiscoverySettings. Keys look like
// "discovery.frequency" or "sources.scdp.urls".
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" when unset or not a string.
	GetString(key string) string

	// GetInt returns the value as an int. Floats are truncated; anything
	// else reads as 0.
	GetInt(key string) int

	// GetFloat returns the value as a float64. Integers are widened.
	GetFloat(key string) float64

	// GetBool returns the value as a bool, or false.
	GetBool(key string) bool

	// GetStringSlice returns the value as a list of strings, or nil.
	// Non-string elements are dropped.
	GetStringSlice(key string) []string

	// Set stores a value. File-backed stores write it through at once.
	Set(key string, value any) error

	// Save writes the current values to the backing file.
	Save() error

	// Load replaces the current values with the backing file's contents.
	Load() error

	// Path returns where the settings live.
	Path() string
}
