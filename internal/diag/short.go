package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"recast/internal/source"
)

// shortLine is one row of `check --format short`: a diagnostic or one of its notes.
type shortLine struct {
	label     string
	code      string
	path      string
	line, col uint32
	msg       string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.msg)
}

func compareShort(a, b shortLine) int {
	return cmp.Or(
		strings.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		strings.Compare(a.label, b.label),
		strings.Compare(a.code, b.code),
		strings.Compare(a.msg, b.msg),
	)
}

// FormatShortDiagnostics renders one line per diagnostic, ordered by location.
// Paths are relative to the file set's base dir with forward slashes, so the
// output is stable across machines. Notes get their own "note" lines when
// includeNotes is set. Diagnostics without a known file are left out.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	for _, d := range diags {
		code := d.Code.ID()
		if l, ok := locate(fs, d.Primary); ok {
			l.label, l.code, l.msg = strings.ToLower(d.Severity.String()), code, oneLine(d.Message)
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := locate(fs, n.Span); ok {
				l.label, l.code, l.msg = "note", code, oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, compareShort)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func locate(fs *source.FileSet, span source.Span) (shortLine, bool) {
	file := fs.Get(span.File)
	if file == nil {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(span)
	p := file.FormatPath(source.PathRelative, fs.BaseDir())
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return shortLine{path: p, line: start.Line, col: start.Col}, true
}

var newlines = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func oneLine(msg string) string {
	return strings.TrimSpace(newlines.Replace(msg))
}
