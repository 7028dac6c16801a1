// Package domain defines the core business entities for ghharvest.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Account: a searchable identity on GitHub and its public profile fields
//   - Repository: a repository listed for an account
//   - Commit: a commit with author and committer identities
//   - Finding: one deduplicated, provenance-tagged contact for an account
//   - Record: a Finding enriched with account metadata for output
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
