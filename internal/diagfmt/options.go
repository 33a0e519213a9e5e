package diagfmt

import (
	"fmt"
	"slices"
	"strings"
)

// PathMode selects how file paths are printed next to diagnostics.
type PathMode uint8

const (
	// PathModeAuto prints short paths as stored and shortens long absolute
	// ones to relative, or to the base name when outside the base dir.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "unknown"
}

// ParsePathMode accepts the names printed by String.
func ParsePathMode(s string) (PathMode, error) {
	if i := slices.Index(pathModeNames[:], strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return PathMode(i), nil
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected %s)", s, strings.Join(pathModeNames[:], "|"))
}

type PrettyOpts struct {
	Color bool
	// Context is the number of source lines shown around the primary line.
	Context     int8
	PathMode    PathMode
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

type JSONOpts struct {
	IncludePositions bool // 1-based line/col next to byte offsets
	PathMode         PathMode
	// Max cuts the output; the remainder is counted in Report.Truncated.
	Max             int
	IncludeNotes    bool
	IncludeFixes    bool
	IncludePreviews bool
}

type DiffOpts struct {
	Color    bool
	Context  int
	PathMode PathMode
}
