package source

import (
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "base")
	outside := filepath.Join(root, "other", "File.java")

	tests := []struct {
		name, path, want string
	}{
		{"inside", filepath.Join(base, "nested", "File.java"), "nested/File.java"},
		{"dot segments", filepath.Join(base, "a", "..", "B.java"), "B.java"},
		{"outside falls back to absolute", outside, cleanPath(outside)},
		{"base itself", base, "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativePath(tt.path, base)
			if err != nil {
				t.Fatalf("RelativePath(%q): %v", tt.path, err)
			}
			if got != tt.want {
				t.Fatalf("RelativePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestAbsolutePathIsSlashed(t *testing.T) {
	got, err := AbsolutePath(filepath.Join("x", "..", "y", "Z.java"))
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(filepath.FromSlash(got)) || filepath.Base(got) != "Z.java" || filepath.Base(filepath.Dir(got)) != "y" {
		t.Fatalf("unexpected absolute path %q", got)
	}
}
