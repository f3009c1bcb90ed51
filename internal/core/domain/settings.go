package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Frequency is how often scheduled discovery runs.
type Frequency string

// Available frequencies.
const (
	// FrequencyWeekly runs discovery once a week.
	FrequencyWeekly Frequency = "weekly"

	// FrequencyDaily runs discovery once a day.
	FrequencyDaily Frequency = "daily"

	// FrequencyManual never schedules discovery; runs are triggered by hand.
	FrequencyManual Frequency = "manual"
)

// IsValid returns true if the frequency is recognised.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyDaily, FrequencyManual:
		return true
	default:
		return false
	}
}

// Interval returns the scheduling interval, zero for manual.
func (f Frequency) Interval() time.Duration {
	switch f {
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyDaily:
		return 24 * time.Hour
	default:
		return 0
	}
}

// String returns the string representation.
func (f Frequency) String() string {
	return string(f)
}

// Description returns a human-readable description of the frequency.
func (f Frequency) Description() string {
	switch f {
	case FrequencyWeekly:
		return "Weekly"
	case FrequencyDaily:
		return "Daily"
	case FrequencyManual:
		return "Manual only"
	default:
		return unknownDescription
	}
}

// SourceKind identifies which adapter implementation serves a source.
type SourceKind string

// Adapter implementations.
const (
	// SourceKindDirectory is a one-page-per-district directory site.
	SourceKindDirectory SourceKind = "directory"

	// SourceKindPartyRoster is a party's own roster and news pages.
	SourceKindPartyRoster SourceKind = "party_roster"
)

// SourceSettings configures one source adapter.
type SourceSettings struct {
	// Name is the stable source identifier, e.g. "ballotpedia".
	Name string

	// Kind selects the adapter implementation.
	Kind SourceKind

	// Priority ranks the source; lower is more authoritative.
	Priority int

	// RequestsPerMinute caps the source's request rate.
	// Zero means use the discovery-wide default.
	RequestsPerMinute int

	// Party is the fixed affiliation of a party roster source.
	Party Party

	// URLs are the fixed pages of a party roster source.
	URLs []string

	// Feeds are RSS or Atom news feeds of a party roster source.
	Feeds []string

	// URLTemplates maps each chamber to a per-district URL template
	// of a directory source. Templates use {n} and {nnn} placeholders.
	URLTemplates map[Chamber]string

	// SectionHeading is the heading token marking the upcoming election
	// section on directory pages.
	SectionHeading string
}

// DiscoverySettings holds the discovery configuration surface.
type DiscoverySettings struct {
	// Enabled is the master switch for discovery.
	Enabled bool

	// Frequency controls scheduled runs.
	Frequency Frequency

	// State is the state code, e.g. "SC".
	State string

	// EnabledSources lists the source names to run.
	EnabledSources []string

	// SimilarityThreshold is the fuzzy name match threshold.
	SimilarityThreshold float64

	// RequestsPerMinute is the default per-source request ceiling.
	RequestsPerMinute int

	// RunTimeout bounds a whole run. Zero means no bound.
	RunTimeout time.Duration

	// ElectionYear is the upcoming election year.
	ElectionYear int

	// Bounds holds the district count per chamber.
	Bounds ChamberBounds

	// Sources holds the settings of every known source.
	Sources map[string]SourceSettings
}

// Defaults for discovery settings.
const (
	DefaultSimilarityThreshold = 0.85
	DefaultRequestsPerMinute   = 30
	DefaultRunTimeout          = 60 * time.Minute
	DefaultState               = "SC"
)

// NextElectionYear returns the next even year on or after now.
func NextElectionYear(now time.Time) int {
	y := now.Year()
	if y%2 != 0 {
		y++
	}
	return y
}

// ActiveSources returns the settings of enabled sources in the order listed.
// Unknown names are skipped.
func (s DiscoverySettings) ActiveSources() []SourceSettings {
	out := make([]SourceSettings, 0, len(s.EnabledSources))
	for _, name := range s.EnabledSources {
		if src, ok := s.Sources[name]; ok {
			out = append(out, src)
		}
	}
	return out
}

// Priorities maps every known source name to its priority.
func (s DiscoverySettings) Priorities() map[string]int {
	p := make(map[string]int, len(s.Sources))
	for name, src := range s.Sources {
		p[name] = src.Priority
	}
	return p
}

// RateFor returns the request ceiling for a source.
func (s DiscoverySettings) RateFor(src SourceSettings) int {
	if src.RequestsPerMinute > 0 {
		return src.RequestsPerMinute
	}
	if s.RequestsPerMinute > 0 {
		return s.RequestsPerMinute
	}
	return DefaultRequestsPerMinute
}

// Validate rejects configurations no run could succeed with.
// It runs before any network activity.
func (s DiscoverySettings) Validate() error {
	if s.State == "" {
		return fmt.Errorf("%w: state is empty", ErrInvalidInput)
	}
	if s.SimilarityThreshold <= 0 || s.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold %.2f outside (0, 1]", ErrInvalidInput, s.SimilarityThreshold)
	}
	if s.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: negative requests per minute", ErrInvalidInput)
	}
	if !s.Frequency.IsValid() {
		return fmt.Errorf("%w: frequency %q", ErrInvalidInput, s.Frequency)
	}
	if err := s.Bounds.Validate(); err != nil {
		return err
	}
	if len(s.ActiveSources()) == 0 {
		return ErrNoSources
	}
	return nil
}
