// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - Harvester: visits one account's profile, repositories and commits
//   - RunOrchestrator: search, per-account harvest, dedup, persistence, output
//   - SettingsService: stored settings merged with defaults
//   - HistoryService: past runs and their records
//
// Services do not import adapters; main wires them together.
package services
