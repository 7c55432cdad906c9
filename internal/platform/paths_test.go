package platform

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	got := NormalizePath(filepath.Join("a", "b", "..", "c") + string(filepath.Separator))
	if want := filepath.Join("a", "c"); got != want {
		t.Errorf("NormalizePath() = %s, want %s", got, want)
	}
}

func TestIsUNCPath(t *testing.T) {
	want := runtime.GOOS == "windows"
	if got := IsUNCPath(`\\server\share`); got != want {
		t.Errorf("IsUNCPath() = %v, want %v", got, want)
	}
	if IsUNCPath("/home/user") {
		t.Error("IsUNCPath(/home/user) should be false")
	}
}

func TestIsFilesystemRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"//", true},
		{"/home", false},
		{"/home/user/Downloads", false},
	}
	for _, tt := range tests {
		if got := IsFilesystemRoot(tt.path); got != tt.want {
			t.Errorf("IsFilesystemRoot(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestValidatePath(t *testing.T) {
	var pathErr *PathError
	if err := ValidatePath("  "); !errors.As(err, &pathErr) {
		t.Errorf("ValidatePath(blank) = %v, want *PathError", err)
	}
	if err := ValidatePath(t.TempDir()); err != nil {
		t.Errorf("ValidatePath(tempdir) = %v", err)
	}
}
