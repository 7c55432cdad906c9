package classify

import (
	"strings"
	"testing"

	"github.com/sdejongh/sortnorris/pkg/models"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"Simple", "notes.txt", "txt"},
		{"Uppercase", "photo.JPG", "JPG"},
		{"MultipleDots", "archive.tar.gz", "gz"},
		{"Dotfile", ".gitignore", "gitignore"},
		{"NoDot", "README", ""},
		{"TrailingDot", "draft.", ""},
		{"OnlyDot", ".", ""},
		{"Empty", "", ""},
		{"Spaces", "my song.flac", "flac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extension(tt.fileName); got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestClassifyDefaultTable(t *testing.T) {
	tests := []struct {
		fileName string
		want     models.Category
		ok       bool
	}{
		{"photo.JPG", models.CategoryImages, true},
		{"photo.jpg", models.CategoryImages, true},
		{"photo.Jpg", models.CategoryImages, true},
		{"logo.svg", models.CategoryImages, true},
		{"notes.txt", models.CategoryDocuments, true},
		{"budget.XLSX", models.CategoryDocuments, true},
		{"song.flac", models.CategoryMusic, true},
		{"clip.mkv", models.CategoryVideos, true},
		{"archive.tar.gz", "", false},
		{".gitignore", "", false},
		{"README", "", false},
		{"txt", "", false},
		{"draft.", "", false},
		{"my.photo.png", models.CategoryImages, true},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			got, ok := Classify(tt.fileName)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tt.fileName, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	names := []string{
		"a.jpg", "b.mp3", "c.mp4", "d.pdf", "e.gz", "f", ".hidden", "g.tar.xz", "h.DocX",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			ext := Extension(name)
			upper := strings.TrimSuffix(name, ext) + strings.ToUpper(ext)

			c1, ok1 := Classify(name)
			c2, ok2 := Classify(upper)
			if c1 != c2 || ok1 != ok2 {
				t.Errorf("Classify(%q) = (%q, %v) but Classify(%q) = (%q, %v)", name, c1, ok1, upper, c2, ok2)
			}

			// Deterministic across calls
			c3, ok3 := Classify(name)
			if c1 != c3 || ok1 != ok3 {
				t.Errorf("Classify(%q) not deterministic", name)
			}
		})
	}
}

func TestDefaultTableContents(t *testing.T) {
	table := Default()

	if table.Len() != 25 {
		t.Errorf("Len() = %d, want 25", table.Len())
	}

	want := map[models.Category]int{
		models.CategoryDocuments: 8,
		models.CategoryImages:    7,
		models.CategoryMusic:     5,
		models.CategoryVideos:    5,
	}
	total := 0
	for category, count := range want {
		exts := table.Extensions(category)
		if len(exts) != count {
			t.Errorf("Extensions(%s) = %v, want %d entries", category, exts, count)
		}
		total += len(exts)
	}
	if total != table.Len() {
		t.Errorf("extension counts %d inconsistent with Len %d", total, table.Len())
	}
}

func TestNew(t *testing.T) {
	t.Run("AddsExtensions", func(t *testing.T) {
		table, err := New(map[string]models.Category{
			"gz":    models.CategoryDocuments,
			".OPUS": models.CategoryMusic,
		})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		if c, ok := table.Classify("archive.tar.gz"); !ok || c != models.CategoryDocuments {
			t.Errorf("Classify(archive.tar.gz) = (%q, %v), want Documents", c, ok)
		}
		if c, ok := table.Classify("voice.opus"); !ok || c != models.CategoryMusic {
			t.Errorf("Classify(voice.opus) = (%q, %v), want Music", c, ok)
		}
		if c, ok := table.Classify("photo.png"); !ok || c != models.CategoryImages {
			t.Errorf("built-in mapping lost: Classify(photo.png) = (%q, %v)", c, ok)
		}
	})

	t.Run("OverridesBuiltin", func(t *testing.T) {
		table, err := New(map[string]models.Category{"svg": models.CategoryDocuments})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if c, _ := table.Classify("diagram.svg"); c != models.CategoryDocuments {
			t.Errorf("Classify(diagram.svg) = %q, want Documents", c)
		}
	})

	t.Run("DefaultUntouched", func(t *testing.T) {
		if _, err := New(map[string]models.Category{"gz": models.CategoryDocuments}); err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, ok := Classify("archive.tar.gz"); ok {
			t.Error("New() must not mutate the default table")
		}
	})

	t.Run("RejectsBadExtension", func(t *testing.T) {
		for _, ext := range []string{"", ".", "tar.gz", "a/b", `a\b`} {
			if _, err := New(map[string]models.Category{ext: models.CategoryDocuments}); err == nil {
				t.Errorf("New() should reject extension %q", ext)
			}
		}
	})

	t.Run("RejectsUnknownCategory", func(t *testing.T) {
		_, err := New(map[string]models.Category{"zip": "Archives"})
		if err == nil {
			t.Fatal("New() should reject unknown category")
		}
		if _, ok := err.(*models.ValidationError); !ok {
			t.Errorf("New() error type = %T, want *models.ValidationError", err)
		}
	})
}
