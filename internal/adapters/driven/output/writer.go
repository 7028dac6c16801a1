package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
)

// Format names a record writer.
type Format string

// Supported formats.
const (
	FormatText     Format = "txt"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatCategory Format = "category"
)

// AllFormats lists every format in the order files are written.
var AllFormats = []Format{FormatText, FormatJSON, FormatCSV, FormatCategory}

// NewWriters creates one writer per format, all writing into dir.
func NewWriters(dir string, formats []Format) ([]driven.RecordWriter, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: output directory is required", domain.ErrInvalidInput)
	}

	writers := make([]driven.RecordWriter, 0, len(formats))
	for _, f := range formats {
		switch f {
		case FormatText:
			writers = append(writers, NewTextWriter(dir))
		case FormatCSV:
			writers = append(writers, NewCSVWriter(dir))
		case FormatJSON:
			writers = append(writers, NewJSONWriter(dir))
		case FormatCategory:
			writers = append(writers, NewCategoryWriter(dir))
		default:
			return nil, fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidInput, f)
		}
	}
	return writers, nil
}

// ParseFormats parses a comma-separated format list. An empty string
// selects every format.
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" {
		return AllFormats, nil
	}

	var formats []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		switch f {
		case FormatText, FormatCSV, FormatJSON, FormatCategory:
			formats = append(formats, f)
		default:
			return nil, fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidInput, f)
		}
	}
	return formats, nil
}

// writeFile replaces path with the content produced by fill. The content is
// written to a temporary file in the same directory and renamed into place,
// so readers never see a partially written file.
func writeFile(path string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := fill(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// uniqueEmails returns the addresses of records in first-seen order,
// compared case-insensitively.
func uniqueEmails(records []domain.Record) []string {
	seen := make(map[string]struct{}, len(records))
	emails := make([]string, 0, len(records))
	for _, r := range records {
		if r.Email == "" {
			continue
		}
		key := strings.ToLower(r.Email)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		emails = append(emails, r.Email)
	}
	return emails
}
