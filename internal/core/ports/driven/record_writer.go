package driven

import "github.com/custodia-labs/ghharvest/internal/core/domain"

// RecordWriter renders the records of a run to an output format.
type RecordWriter interface {
	// Name identifies the format in logs.
	Name() string

	// Write renders records. Writers deduplicate as their format requires.
	Write(records []domain.Record) error
}
