package domain

import "time"

// SourceKind identifies where a finding came from.
type SourceKind string

const (
	// SourceProfile covers the declared profile email and the bio.
	SourceProfile SourceKind = "profile"

	// SourceHomepage covers the profile blog field and repository homepages.
	SourceHomepage SourceKind = "homepage"

	// SourceCommit covers commit author and committer identities.
	SourceCommit SourceKind = "commit"
)

// Finding is one contact address found for an account.
// Within a harvest, findings are unique by Email.
type Finding struct {
	Email      string     `json:"email"`
	Source     SourceKind `json:"source"`
	Repository string     `json:"repo,omitempty"`
	CommitSHA  string     `json:"commit_sha,omitempty"`
}

// HarvestResult is the outcome of harvesting a single account.
type HarvestResult struct {
	Login       string
	DisplayName string
	Location    string
	Findings    []Finding
}

// Record is a Finding enriched with account metadata for output.
type Record struct {
	Finding
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	CollectedAt time.Time `json:"collected_at"`
}

// UnknownCategory groups records whose account has no location.
const UnknownCategory = "Unknown"

// RunSummary reports the outcome of a harvest run.
type RunSummary struct {
	RunID             string
	Query             string
	AccountsFound     int
	AccountsProcessed int
	AccountsFailed    int
	Records           int
	NewRecords        int
	UniqueEmails      int
	Interrupted       bool
	StartedAt         time.Time
	FinishedAt        time.Time
}

// RunInfo describes a previously completed run.
type RunInfo struct {
	ID         string
	Query      string
	Records    int
	StartedAt  time.Time
	FinishedAt time.Time
}
