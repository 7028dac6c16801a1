package services

import (
	"strings"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// RunState holds the records of one run, unique by (username, email).
// It is owned by a single run and is not safe for concurrent use.
type RunState struct {
	pairs   map[recordKey]struct{}
	emails  map[string]struct{}
	records []domain.Record
}

type recordKey struct {
	username string
	email    string
}

// NewRunState creates an empty run state.
func NewRunState() *RunState {
	return &RunState{
		pairs:  make(map[recordKey]struct{}),
		emails: make(map[string]struct{}),
	}
}

// Add appends r unless a record for the same username and email exists.
// It reports whether r was added.
func (s *RunState) Add(r domain.Record) bool {
	key := recordKey{
		username: strings.ToLower(r.Username),
		email:    strings.ToLower(r.Email),
	}
	if _, ok := s.pairs[key]; ok {
		return false
	}
	s.pairs[key] = struct{}{}
	s.emails[key.email] = struct{}{}
	s.records = append(s.records, r)
	return true
}

// Records returns the records in insertion order.
func (s *RunState) Records() []domain.Record {
	return s.records
}

// Len returns the number of records.
func (s *RunState) Len() int {
	return len(s.records)
}

// UniqueEmails returns the number of distinct addresses across all records.
func (s *RunState) UniqueEmails() int {
	return len(s.emails)
}
