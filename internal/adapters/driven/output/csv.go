package output

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"time"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
)

// CSVFile is the tabular record file.
const CSVFile = "emails.csv"

// CSVHeader is the column layout of emails.csv.
var CSVHeader = []string{"username", "email", "source", "repo", "commit_sha", "collected_at"}

// Ensure CSVWriter implements the interface.
var _ driven.RecordWriter = (*CSVWriter)(nil)

// CSVWriter writes records as CSV with a header row.
// An empty record set still produces the header.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer for dir/emails.csv.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{path: filepath.Join(dir, CSVFile)}
}

// Name returns the file name.
func (w *CSVWriter) Name() string { return CSVFile }

// Write replaces the file with records.
func (w *CSVWriter) Write(records []domain.Record) error {
	return writeFile(w.path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(CSVHeader); err != nil {
			return err
		}
		for _, r := range records {
			row := []string{
				r.Username,
				r.Email,
				string(r.Source),
				r.Repository,
				r.CommitSHA,
				formatTime(r.CollectedAt),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
