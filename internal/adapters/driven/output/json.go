package output

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
)

// JSONFile is the structured record file.
const JSONFile = "emails.json"

// Ensure JSONWriter implements the interface.
var _ driven.RecordWriter = (*JSONWriter)(nil)

// JSONWriter writes records as an indented JSON array.
type JSONWriter struct {
	path string
}

// NewJSONWriter creates a writer for dir/emails.json.
func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{path: filepath.Join(dir, JSONFile)}
}

// Name returns the file name.
func (w *JSONWriter) Name() string { return JSONFile }

// Write replaces the file with records.
func (w *JSONWriter) Write(records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	return writeFile(w.path, func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(records)
	})
}
