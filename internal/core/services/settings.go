package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyEnabled      = "discovery.enabled"
	keyFrequency    = "discovery.frequency"
	keyState        = "discovery.state"
	keySources      = "discovery.sources"
	keyThreshold    = "discovery.similarity_threshold"
	keyRPM          = "discovery.requests_per_minute"
	keyRunTimeout   = "discovery.run_timeout_minutes"
	keyElectionYear = "discovery.election_year"
	keyHouseBound   = "chambers.house"
	keySenateBound  = "chambers.senate"
)

// Per-source key suffixes, read as "sources.<name>.<suffix>".
const (
	sourceKeyKind     = "kind"
	sourceKeyPriority = "priority"
	sourceKeyRPM      = "requests_per_minute"
	sourceKeyParty    = "party"
	sourceKeyURLs     = "urls"
	sourceKeyFeeds    = "feeds"
	sourceKeyHouseURL = "house_url"
	sourceKeySenate   = "senate_url"
	sourceKeyHeading  = "section_heading"
)

// SettingsService manages discovery settings.
type SettingsService struct {
	configStore driven.ConfigStore
	now         func() time.Time
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		now:         time.Now,
	}
}

// Get retrieves the current discovery settings.
func (s *SettingsService) Get() (*domain.DiscoverySettings, error) {
	defaults := s.GetDefaults()

	year := s.getInt(keyElectionYear, defaults.ElectionYear)
	settings := &domain.DiscoverySettings{
		Enabled:             s.getBool(keyEnabled, defaults.Enabled),
		Frequency:           s.getFrequency(defaults.Frequency),
		State:               s.getString(keyState, defaults.State),
		EnabledSources:      s.getStringSlice(keySources, defaults.EnabledSources),
		SimilarityThreshold: s.getFloat(keyThreshold, defaults.SimilarityThreshold),
		RequestsPerMinute:   s.getInt(keyRPM, defaults.RequestsPerMinute),
		RunTimeout:          time.Duration(s.getInt(keyRunTimeout, int(defaults.RunTimeout/time.Minute))) * time.Minute,
		ElectionYear:        year,
		Bounds: domain.ChamberBounds{
			domain.ChamberHouse:  s.getInt(keyHouseBound, defaults.Bounds[domain.ChamberHouse]),
			domain.ChamberSenate: s.getInt(keySenateBound, defaults.Bounds[domain.ChamberSenate]),
		},
		Sources: domain.DefaultSources(year),
	}

	for _, name := range settings.EnabledSources {
		src, ok := settings.Sources[name]
		if !ok {
			src = domain.SourceSettings{Name: name, Priority: domain.UnrankedPriority}
		}
		settings.Sources[name] = s.overlaySource(src)
	}

	return settings, nil
}

// Set updates a single configuration key and persists it.
func (s *SettingsService) Set(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetFrequency updates the discovery frequency.
func (s *SettingsService) SetFrequency(freq domain.Frequency) error {
	if !freq.IsValid() {
		return fmt.Errorf("%w: frequency %q", domain.ErrInvalidInput, freq)
	}
	return s.Set(keyFrequency, freq.String())
}

// SetEnabled switches discovery on or off.
func (s *SettingsService) SetEnabled(enabled bool) error {
	return s.Set(keyEnabled, enabled)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.DiscoverySettings {
	year := domain.NextElectionYear(s.now())
	return domain.DiscoverySettings{
		Enabled:             true,
		Frequency:           domain.FrequencyWeekly,
		State:               domain.DefaultState,
		EnabledSources:      domain.DefaultSourceOrder(),
		SimilarityThreshold: domain.DefaultSimilarityThreshold,
		RequestsPerMinute:   domain.DefaultRequestsPerMinute,
		RunTimeout:          domain.DefaultRunTimeout,
		ElectionYear:        year,
		Bounds:              domain.DefaultChamberBounds(),
		Sources:             domain.DefaultSources(year),
	}
}

// Reload re-reads the configuration from storage.
func (s *SettingsService) Reload() error {
	return s.configStore.Load()
}

// overlaySource applies "sources.<name>.*" keys over the built-in settings.
func (s *SettingsService) overlaySource(src domain.SourceSettings) domain.SourceSettings {
	key := func(suffix string) string { return "sources." + src.Name + "." + suffix }

	if kind := s.configStore.GetString(key(sourceKeyKind)); kind != "" {
		src.Kind = domain.SourceKind(kind)
	}
	if _, exists := s.configStore.Get(key(sourceKeyPriority)); exists {
		src.Priority = s.configStore.GetInt(key(sourceKeyPriority))
	}
	src.RequestsPerMinute = s.getInt(key(sourceKeyRPM), src.RequestsPerMinute)
	if party := s.configStore.GetString(key(sourceKeyParty)); party != "" {
		src.Party = domain.ParseParty(party)
	}
	src.URLs = s.getStringSlice(key(sourceKeyURLs), src.URLs)
	src.Feeds = s.getStringSlice(key(sourceKeyFeeds), src.Feeds)
	src.SectionHeading = s.getString(key(sourceKeyHeading), src.SectionHeading)

	house := s.configStore.GetString(key(sourceKeyHouseURL))
	senate := s.configStore.GetString(key(sourceKeySenate))
	if house != "" || senate != "" {
		templates := make(map[domain.Chamber]string, 2)
		for c, t := range src.URLTemplates {
			templates[c] = t
		}
		if house != "" {
			templates[domain.ChamberHouse] = house
		}
		if senate != "" {
			templates[domain.ChamberSenate] = senate
		}
		src.URLTemplates = templates
	}
	return src
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getFrequency(defaultVal domain.Frequency) domain.Frequency {
	val := s.configStore.GetString(keyFrequency)
	if val == "" {
		return defaultVal
	}
	freq := domain.Frequency(val)
	if !freq.IsValid() {
		return defaultVal
	}
	return freq
}
