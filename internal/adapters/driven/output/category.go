package output

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
)

// CategoryDir holds one file per category.
const CategoryDir = "by_category"

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// Ensure CategoryWriter implements the interface.
var _ driven.RecordWriter = (*CategoryWriter)(nil)

// CategoryWriter writes the unique addresses of each category to
// by_category/<category>.txt.
type CategoryWriter struct {
	dir string
}

// NewCategoryWriter creates a writer for dir/by_category.
func NewCategoryWriter(dir string) *CategoryWriter {
	return &CategoryWriter{dir: filepath.Join(dir, CategoryDir)}
}

// Name returns the directory name.
func (w *CategoryWriter) Name() string { return CategoryDir }

// Write replaces the file of every category present in records.
// Files of categories absent from this run are left alone.
func (w *CategoryWriter) Write(records []domain.Record) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	var order []string
	groups := make(map[string][]domain.Record)
	for _, r := range records {
		name := CategoryFileName(r.Category)
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], r)
	}

	for _, name := range order {
		emails := uniqueEmails(groups[name])
		err := writeFile(filepath.Join(w.dir, name), func(out io.Writer) error {
			return writeLines(out, emails)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CategoryFileName maps a category to a safe file name, for example
// "San Francisco, CA" becomes "San_Francisco_CA.txt".
func CategoryFileName(category string) string {
	name := unsafeFileChars.ReplaceAllString(strings.TrimSpace(category), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = domain.UnknownCategory
	}
	return name + ".txt"
}
