package domain

import "time"

// TaskIDCandidateDiscovery is the only scheduled task: a full discovery run
// followed by sync.
const TaskIDCandidateDiscovery = "candidate-discovery"

// ScheduledTask is the persisted state of a recurring task.
type ScheduledTask struct {
	ID       string
	Name     string
	Interval time.Duration
	Enabled  bool

	// LastRun and LastSuccess are zero until the task first runs.
	LastRun     time.Time
	LastSuccess time.Time
	NextRun     time.Time

	// LastError holds the failure message of the latest run, empty on success.
	LastError string
}

// Due reports whether an enabled task should run at now.
// A NextRun in the past means the daemon was down when it fell due.
func (t *ScheduledTask) Due(now time.Time) bool {
	return t.Enabled && !t.NextRun.After(now)
}

// TaskResult records one execution of a task.
type TaskResult struct {
	TaskID    string
	StartedAt time.Time
	EndedAt   time.Time
	Success   bool
	Error     string

	// ItemsProcessed is the deduplicated candidate count of a discovery run.
	ItemsProcessed int
}

// Duration returns how long the execution took.
func (r TaskResult) Duration() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// SchedulerConfig is what the scheduler needs from settings.
type SchedulerConfig struct {
	Enabled     bool
	TaskConfigs map[string]TaskConfig
}

// TaskConfig schedules one task. A zero Interval means never.
type TaskConfig struct {
	Enabled  bool
	Interval time.Duration
}

// GetTaskConfig returns the task's config, or the zero TaskConfig.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	return c.TaskConfigs[taskID]
}

// SchedulerConfigFor derives the scheduler configuration from discovery
// settings. Manual frequency or disabled discovery leaves the discovery
// task disabled.
func SchedulerConfigFor(settings DiscoverySettings) SchedulerConfig {
	interval := settings.Frequency.Interval()
	enabled := settings.Enabled && interval > 0
	return SchedulerConfig{
		Enabled: enabled,
		TaskConfigs: map[string]TaskConfig{
			TaskIDCandidateDiscovery: {
				Enabled:  enabled,
				Interval: interval,
			},
		},
	}
}
