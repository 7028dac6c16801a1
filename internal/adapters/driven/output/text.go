package output

import (
	"bufio"
	"io"
	"path/filepath"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
)

// TextFile is the plain address list.
const TextFile = "emails.txt"

// Ensure TextWriter implements the interface.
var _ driven.RecordWriter = (*TextWriter)(nil)

// TextWriter writes one unique address per line.
type TextWriter struct {
	path string
}

// NewTextWriter creates a writer for dir/emails.txt.
func NewTextWriter(dir string) *TextWriter {
	return &TextWriter{path: filepath.Join(dir, TextFile)}
}

// Name returns the file name.
func (w *TextWriter) Name() string { return TextFile }

// Write replaces the file with the addresses of records.
func (w *TextWriter) Write(records []domain.Record) error {
	return writeFile(w.path, func(out io.Writer) error {
		return writeLines(out, uniqueEmails(records))
	})
}

func writeLines(out io.Writer, lines []string) error {
	bw := bufio.NewWriter(out)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
