package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic. Values are ordered, so
// severities compare with < and >=.
type Severity uint8

const (
	// SevInfo marks findings a recipe can fix on its own.
	SevInfo Severity = iota
	// SevWarning marks findings that need a human, and degraded runs.
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the names printed by String in any case, plus the
// short forms "warn" and "err".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return SevInfo, nil
	case "WARNING", "WARN":
		return SevWarning, nil
	case "ERROR", "ERR":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q (expected info|warning|error)", s)
}

// AtLeast keeps the diagnostics whose severity is min or higher.
func AtLeast(items []Diagnostic, min Severity) []Diagnostic {
	if min == SevInfo {
		return items
	}
	out := make([]Diagnostic, 0, len(items))
	for _, d := range items {
		if d.Severity >= min {
			out = append(out, d)
		}
	}
	return out
}
