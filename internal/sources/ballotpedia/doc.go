// Package ballotpedia implements the directory source adapter.
//
// A directory site publishes one page per district. The adapter fetches each
// page through a rate-limited, retrying fetcher, isolates the section for the
// upcoming election, and extracts bold-name-then-party pairs from it:
//
//	## 2026
//	### General election
//	- **Jane Doe** (Democratic Party) Incumbent
//	- **John Roe** (Republican Party) Filed
//
// Only the election section is read, so mentions in historical sections are
// ignored. Party claims carry MEDIUM confidence.
package ballotpedia
