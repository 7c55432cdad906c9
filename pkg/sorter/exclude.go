package sorter

import (
	"path/filepath"
	"strings"
)

// shouldExclude checks a root entry name against glob patterns.
// Matching is case-insensitive so "*.part" also covers "movie.PART".
// Patterns were validated by models.SortOperation.Validate.
func shouldExclude(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	lower := strings.ToLower(name)
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := filepath.Match(strings.ToLower(pattern), lower); ok {
			return true
		}
	}
	return false
}
