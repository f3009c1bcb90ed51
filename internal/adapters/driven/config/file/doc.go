// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.ballotwatch/config.toml,
//     with change notification for the schedule daemon
package file
