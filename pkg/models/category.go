package models

import "strings"

// Category is one of the fixed buckets files are sorted into.
// The value doubles as the name of the category subdirectory.
type Category string

const (
	// CategoryDocuments holds text, office and PDF files
	CategoryDocuments Category = "Documents"
	// CategoryImages holds raster and vector images
	CategoryImages Category = "Images"
	// CategoryMusic holds audio files
	CategoryMusic Category = "Music"
	// CategoryVideos holds video files
	CategoryVideos Category = "Videos"
)

// Categories returns the closed set of categories in canonical order
func Categories() []Category {
	return []Category{
		CategoryDocuments,
		CategoryImages,
		CategoryMusic,
		CategoryVideos,
	}
}

// Valid reports whether c is one of the four known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryDocuments, CategoryImages, CategoryMusic, CategoryVideos:
		return true
	default:
		return false
	}
}

// ParseCategory resolves a category name case-insensitively
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}
