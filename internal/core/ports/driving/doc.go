// Package driving defines the interfaces that drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI calls them; core services implement them.
//
//   - Harvester: per-account contact harvesting
//   - Runner: a complete search-and-harvest run
//   - SettingsService: reading and storing settings
//   - HistoryService: browsing earlier runs
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or service package
package driving
