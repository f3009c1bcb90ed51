package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
	"github.com/custodia-labs/ballotwatch/internal/logger"
)

// Ensure DiscoveryService implements the interface.
var _ driving.DiscoveryService = (*DiscoveryService)(nil)

// DiscoveryService runs the discovery pipeline: aggregate, sync, report, record.
type DiscoveryService struct {
	settings   driving.SettingsService
	factory    driven.SourceAdapterFactory
	candidates driven.CandidateStore
	runs       driven.RunStore
	lockPath   string

	now   func() time.Time
	newID func() string
}

// NewDiscoveryService creates a discovery service.
// runs may be nil, in which case runs are not recorded. lockPath names the
// file used to keep runs from overlapping across processes.
func NewDiscoveryService(
	settings driving.SettingsService,
	factory driven.SourceAdapterFactory,
	candidates driven.CandidateStore,
	runs driven.RunStore,
	lockPath string,
) *DiscoveryService {
	return &DiscoveryService{
		settings:   settings,
		factory:    factory,
		candidates: candidates,
		runs:       runs,
		lockPath:   lockPath,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Run executes one discovery run.
func (s *DiscoveryService) Run(ctx context.Context, opts driving.RunOptions) (*driving.RunOutcome, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}
	if !settings.Enabled && !opts.Force {
		return nil, domain.ErrDiscoveryDisabled
	}

	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	trigger := opts.Trigger
	if trigger == "" {
		trigger = "manual"
	}
	run := &domain.DiscoveryRun{
		ID:        s.newID(),
		StartedAt: s.now(),
		Trigger:   trigger,
	}
	logger.Section("Discovery run " + run.ID)

	adapters, err := s.factory.CreateAll(*settings)
	if err != nil {
		return nil, s.fail(ctx, run, fmt.Errorf("create adapters: %w", err))
	}

	agg := NewAggregator(adapters, *settings)
	result, err := agg.AggregateAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, run, err)
	}

	outcome := &driving.RunOutcome{Run: run, Result: result}
	if opts.Sync {
		summary, err := NewCandidateSync(s.candidates, agg.Deduplicator()).Sync(ctx, result.Candidates)
		if err != nil {
			return nil, s.fail(ctx, run, fmt.Errorf("sync: %w", err))
		}
		outcome.Sync = summary
		run.Sync = summary
	}

	outcome.Report = NewCoverageReporter(*settings).Build(result, outcome.Sync)

	run.CompletedAt = s.now()
	run.Status = domain.StatusFor(result)
	run.TotalRaw = result.TotalRaw
	run.TotalDeduplicated = result.TotalDeduplicated
	run.ConflictCount = len(result.Conflicts)
	run.Coverage = outcome.Report.CoveragePercentage()
	run.SourceStats = result.SourceStats
	run.SourceErrors = result.SourceErrors()
	s.record(ctx, run)

	logger.Info("run %s %s in %s", run.ID, run.Status, run.Duration().Round(time.Millisecond))
	return outcome, nil
}

// ProbeDistrict aggregates one district without persisting anything.
func (s *DiscoveryService) ProbeDistrict(ctx context.Context, districtID string) (*domain.AggregationResult, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}
	adapters, err := s.factory.CreateAll(*settings)
	if err != nil {
		return nil, fmt.Errorf("create adapters: %w", err)
	}
	return NewAggregator(adapters, *settings).AggregateDistrict(ctx, districtID)
}

// Candidates lists stored candidates, optionally for one district.
// The district may be given in any form ParseDistrictID accepts.
func (s *DiscoveryService) Candidates(ctx context.Context, districtID string) ([]*domain.StoredCandidate, error) {
	if districtID != "" {
		id, err := domain.CanonicalDistrictID(districtID)
		if err != nil {
			return nil, err
		}
		districtID = id
	}
	return s.candidates.List(ctx, districtID)
}

// SetLocked locks or unlocks a stored candidate.
func (s *DiscoveryService) SetLocked(ctx context.Context, name, districtID string, locked bool) error {
	id, err := domain.CanonicalDistrictID(districtID)
	if err != nil {
		return err
	}
	return s.candidates.SetLocked(ctx, domain.KeyOf(name, id), locked)
}

// Runs lists recent runs, most recent first.
func (s *DiscoveryService) Runs(ctx context.Context, limit int) ([]domain.DiscoveryRun, error) {
	if s.runs == nil {
		return []domain.DiscoveryRun{}, nil
	}
	return s.runs.ListRuns(ctx, limit)
}

// loadSettings reads and validates settings. Invalid configuration is
// rejected here, before any network activity.
func (s *DiscoveryService) loadSettings() (*domain.DiscoverySettings, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// lock takes the run lock. The returned func releases it.
func (s *DiscoveryService) lock() (func(), error) {
	if s.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0700); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(s.lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrRunInProgress
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			logger.Warn("release run lock: %v", err)
		}
	}, nil
}

func (s *DiscoveryService) fail(ctx context.Context, run *domain.DiscoveryRun, err error) error {
	run.CompletedAt = s.now()
	run.Status = domain.RunStatusFailed
	run.Error = err.Error()
	s.record(ctx, run)
	logger.Error("run %s failed: %v", run.ID, err)
	return err
}

func (s *DiscoveryService) record(ctx context.Context, run *domain.DiscoveryRun) {
	if s.runs == nil {
		return
	}
	// A cancelled run is still worth recording.
	if err := s.runs.SaveRun(context.WithoutCancel(ctx), run); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("record run %s: %v", run.ID, err)
	}
}
