// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceAdapter: Discovers candidates from one public source
//   - SourceAdapterFactory: Creates adapters from settings
//   - PageFetcher: Retrieves public web pages
//   - CandidateStore: Reconciled candidate persistence
//   - ConfigStore: Application configuration
//   - SchedulerStore: Scheduler task state and history
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run history. Without it, runs are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or source package
package driven
