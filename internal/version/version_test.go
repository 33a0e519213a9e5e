package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withPlainColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b[") {
		t.Error("Version must stay plain; it keys the result cache")
	}
}

func TestColored(t *testing.T) {
	withPlainColor(t)
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct {
		in   string
		want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"1.2", "1.2"},
		{"dev", "dev"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(); got != tt.want {
			t.Errorf("Colored() with %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLong(t *testing.T) {
	withPlainColor(t)
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := Long(); got != "recast 1.2.3\n" {
		t.Fatalf("Long() = %q", got)
	}

	GitCommit, BuildDate = "abc123", "2024-01-15T10:30:00Z"
	want := "recast 1.2.3\ncommit: abc123\nbuilt:  2024-01-15T10:30:00Z\n"
	if got := Long(); got != want {
		t.Fatalf("Long() = %q, want %q", got, want)
	}
}

func TestReadPrefersLinkerValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version, GitCommit, BuildDate = " 2.0.0 ", "deadbeef", "2025-03-01"
	info := Read()
	if info.Version != "2.0.0" || info.GitCommit != "deadbeef" || info.BuildDate != "2025-03-01" {
		t.Fatalf("unexpected info %+v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") && info.GoVersion != "devel" {
		t.Errorf("go version = %q", info.GoVersion)
	}

	Version = ""
	if got := Read().Version; got != "dev" {
		t.Errorf("empty version reads as %q", got)
	}
}
