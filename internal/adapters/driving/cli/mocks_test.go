package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
)

type mockDiscoveryService struct {
	outcome  *driving.RunOutcome
	probe    *domain.AggregationResult
	stored   []*domain.StoredCandidate
	runs     []domain.DiscoveryRun
	err      error
	lockErr  error
	lastOpts driving.RunOptions
	lastID   string
	locked   map[string]bool
}

func (m *mockDiscoveryService) Run(_ context.Context, opts driving.RunOptions) (*driving.RunOutcome, error) {
	m.lastOpts = opts
	return m.outcome, m.err
}

func (m *mockDiscoveryService) ProbeDistrict(_ context.Context, districtID string) (*domain.AggregationResult, error) {
	m.lastID = districtID
	return m.probe, m.err
}

func (m *mockDiscoveryService) Candidates(_ context.Context, districtID string) ([]*domain.StoredCandidate, error) {
	m.lastID = districtID
	return m.stored, m.err
}

func (m *mockDiscoveryService) SetLocked(_ context.Context, name, districtID string, locked bool) error {
	if m.lockErr != nil {
		return m.lockErr
	}
	if m.locked == nil {
		m.locked = make(map[string]bool)
	}
	m.locked[name+"|"+districtID] = locked
	return nil
}

func (m *mockDiscoveryService) Runs(_ context.Context, _ int) ([]domain.DiscoveryRun, error) {
	return m.runs, m.err
}

type mockReporter struct {
	unicode bool
}

func (m *mockReporter) SetUnicode(on bool) { m.unicode = on }

func (m *mockReporter) Build(_ *domain.AggregationResult, _ *domain.SyncSummary) *domain.CoverageReport {
	return &domain.CoverageReport{}
}

func (m *mockReporter) RenderText(r *domain.CoverageReport) string {
	return "TEXT REPORT " + r.State + "\n"
}

func (m *mockReporter) RenderMarkdown(r *domain.CoverageReport) string {
	return "## MARKDOWN " + r.State + "\n"
}

func (m *mockReporter) Summary(r *domain.CoverageReport) string {
	return "SUMMARY " + r.State
}

func (m *mockReporter) RenderJSON(r *domain.CoverageReport) ([]byte, error) {
	return []byte(`{"state":"` + r.State + `"}`), nil
}

type mockSettingsService struct {
	settings    domain.DiscoverySettings
	validateErr error
	set         map[string]any
	frequency   domain.Frequency
	enabled     *bool
	reloads     int
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DiscoverySettings{
			Enabled:             true,
			Frequency:           domain.FrequencyWeekly,
			State:               "SC",
			EnabledSources:      []string{domain.SourceBallotpedia, domain.SourceSCDP},
			SimilarityThreshold: 0.85,
			RequestsPerMinute:   30,
			RunTimeout:          time.Hour,
			ElectionYear:        2026,
			Bounds:              domain.DefaultChamberBounds(),
			Sources:             domain.DefaultSources(2026),
		},
		set: make(map[string]any),
	}
}

func (m *mockSettingsService) Get() (*domain.DiscoverySettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key string, value any) error {
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) SetFrequency(freq domain.Frequency) error {
	if !freq.IsValid() {
		return domain.ErrInvalidInput
	}
	m.frequency = freq
	return nil
}

func (m *mockSettingsService) SetEnabled(enabled bool) error {
	m.enabled = &enabled
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.DiscoverySettings { return m.settings }

func (m *mockSettingsService) Reload() error {
	m.reloads++
	return nil
}

// setupServices installs mocks and returns a cleanup func.
func setupServices(t *testing.T, discovery *mockDiscoveryService, settings *mockSettingsService) *mockReporter {
	t.Helper()

	old := Services{
		Discovery: discoveryService,
		Settings:  settingsService,
		Reporter:  reportRenderer,
		Scheduler: scheduler,
		Watcher:   configWatcher,
	}
	reporter := &mockReporter{}
	s := Services{Reporter: reporter}
	if discovery != nil {
		s.Discovery = discovery
	}
	if settings != nil {
		s.Settings = settings
	}
	SetServices(s)

	oldTerminal := isTerminal
	isTerminal = func() bool { return false }

	t.Cleanup(func() {
		SetServices(old)
		isTerminal = oldTerminal
	})
	return reporter
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return buf.String(), err
}
