// Package classify maps file names to sort categories by extension.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sdejongh/sortnorris/pkg/models"
)

// defaultExtensions is the built-in extension table. Keys are lower-case
// and carry no leading dot.
var defaultExtensions = map[string]models.Category{
	"jpg":  models.CategoryImages,
	"jpeg": models.CategoryImages,
	"png":  models.CategoryImages,
	"gif":  models.CategoryImages,
	"svg":  models.CategoryImages,
	"bmp":  models.CategoryImages,
	"webp": models.CategoryImages,

	"mp3":  models.CategoryMusic,
	"wav":  models.CategoryMusic,
	"aac":  models.CategoryMusic,
	"flac": models.CategoryMusic,
	"ogg":  models.CategoryMusic,

	"mp4": models.CategoryVideos,
	"avi": models.CategoryVideos,
	"mkv": models.CategoryVideos,
	"mov": models.CategoryVideos,
	"wmv": models.CategoryVideos,

	"pdf":  models.CategoryDocuments,
	"doc":  models.CategoryDocuments,
	"docx": models.CategoryDocuments,
	"xls":  models.CategoryDocuments,
	"xlsx": models.CategoryDocuments,
	"ppt":  models.CategoryDocuments,
	"pptx": models.CategoryDocuments,
	"txt":  models.CategoryDocuments,
}

// Table is an immutable extension to category mapping.
// A Table is safe for concurrent use.
type Table struct {
	byExt map[string]models.Category
}

var defaultTable = &Table{byExt: defaultExtensions}

// Default returns the built-in table
func Default() *Table {
	return defaultTable
}

// New returns a table holding the built-in mappings overlaid with extra.
// Extra keys are normalized to lower case; a leading dot is accepted.
func New(extra map[string]models.Category) (*Table, error) {
	byExt := make(map[string]models.Category, len(defaultExtensions)+len(extra))
	for ext, category := range defaultExtensions {
		byExt[ext] = category
	}

	for raw, category := range extra {
		ext := strings.ToLower(strings.TrimPrefix(raw, "."))
		if ext == "" || strings.ContainsAny(ext, `./\`) {
			return nil, &models.ValidationError{
				Field:   "extensions",
				Message: fmt.Sprintf("invalid extension %q", raw),
			}
		}
		if !category.Valid() {
			return nil, &models.ValidationError{
				Field:   "extensions." + ext,
				Message: fmt.Sprintf("unknown category %q", category),
			}
		}
		byExt[ext] = category
	}

	return &Table{byExt: byExt}, nil
}

// Classify returns the category for fileName and whether it was recognized
func (t *Table) Classify(fileName string) (models.Category, bool) {
	ext := Extension(fileName)
	if ext == "" {
		return "", false
	}
	category, ok := t.byExt[strings.ToLower(ext)]
	return category, ok
}

// Extensions lists the extensions mapped to category, sorted
func (t *Table) Extensions(category models.Category) []string {
	var exts []string
	for ext, c := range t.byExt {
		if c == category {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// Len returns the number of mapped extensions
func (t *Table) Len() int {
	return len(t.byExt)
}

// Classify classifies fileName against the built-in table
func Classify(fileName string) (models.Category, bool) {
	return defaultTable.Classify(fileName)
}

// Extension returns the text after the last dot of fileName, with its
// original case. It returns "" when there is no dot or the dot is the
// final character. A leading dot counts, so ".gitignore" yields "gitignore".
func Extension(fileName string) string {
	idx := strings.LastIndexByte(fileName, '.')
	if idx < 0 || idx == len(fileName)-1 {
		return ""
	}
	return fileName[idx+1:]
}
