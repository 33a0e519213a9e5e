package diagfmt

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"
	"strings"

	"recast/internal/diag"
	"recast/internal/source"
)

// Report is the document written by `check --format json`.
type Report struct {
	Diagnostics []ReportEntry `json:"diagnostics"`
	Count       int           `json:"count"`
	// Truncated is how many diagnostics were cut by JSONOpts.Max.
	Truncated int `json:"truncated,omitempty"`
}

// ReportSpan is a byte range, with 1-based line/col when positions are on.
type ReportSpan struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type ReportNote struct {
	Message  string     `json:"message"`
	Location ReportSpan `json:"location"`
}

type ReportEdit struct {
	Location    ReportSpan `json:"location"`
	NewText     string     `json:"new_text"`
	OldText     string     `json:"old_text,omitempty"`
	BeforeLines []string   `json:"before_lines,omitempty"`
	AfterLines  []string   `json:"after_lines,omitempty"`
}

type ReportFix struct {
	ID            string       `json:"id,omitempty"`
	Title         string       `json:"title"`
	Kind          string       `json:"kind"`
	Applicability string       `json:"applicability"`
	IsPreferred   bool         `json:"is_preferred,omitempty"`
	Edits         []ReportEdit `json:"edits,omitempty"`
}

type ReportEntry struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location ReportSpan   `json:"location"`
	Notes    []ReportNote `json:"notes,omitempty"`
	Fixes    []ReportFix  `json:"fixes,omitempty"`
}

type reportBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b reportBuilder) span(s source.Span) ReportSpan {
	out := ReportSpan{StartByte: s.Start, EndByte: s.End}
	f := fileOf(b.fs, s)
	if f == nil {
		return out
	}
	out.File = formatPath(f, b.fs, b.opts.PathMode)
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(s)
		out.StartLine, out.StartCol = start.Line, start.Col
		out.EndLine, out.EndCol = end.Line, end.Col
	}
	return out
}

func (b reportBuilder) entry(d diag.Diagnostic) ReportEntry {
	e := ReportEntry{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: b.span(d.Primary),
	}
	if b.opts.IncludeNotes {
		for _, n := range d.Notes {
			e.Notes = append(e.Notes, ReportNote{Message: n.Msg, Location: b.span(n.Span)})
		}
	}
	if b.opts.IncludeFixes {
		for _, f := range sortedFixes(d.Fixes) {
			e.Fixes = append(e.Fixes, b.fix(f))
		}
	}
	return e
}

func (b reportBuilder) fix(f diag.Fix) ReportFix {
	out := ReportFix{
		ID:            f.ID,
		Title:         f.Title,
		Kind:          f.Kind.String(),
		Applicability: f.Applicability.String(),
		IsPreferred:   f.IsPreferred,
	}
	for _, edit := range f.Edits {
		re := ReportEdit{Location: b.span(edit.Span), NewText: edit.NewText, OldText: edit.OldText}
		if b.opts.IncludePreviews {
			if p, err := buildFixEditPreview(b.fs, edit); err == nil {
				re.BeforeLines, re.AfterLines = p.before, p.after
			}
		}
		out.Edits = append(out.Edits, re)
	}
	return out
}

// sortedFixes orders preferred fixes first, then safer ones.
func sortedFixes(fixes []diag.Fix) []diag.Fix {
	if len(fixes) < 2 {
		return fixes
	}
	out := slices.Clone(fixes)
	slices.SortStableFunc(out, func(a, b diag.Fix) int {
		if a.IsPreferred != b.IsPreferred {
			if a.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Applicability, b.Applicability),
			strings.Compare(a.Title, b.Title),
			strings.Compare(a.ID, b.ID),
		)
	})
	return out
}

// BuildReport converts items without serializing them.
func BuildReport(items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) Report {
	shown := items
	if opts.Max > 0 && opts.Max < len(items) {
		shown = items[:opts.Max]
	}
	b := reportBuilder{fs: fs, opts: opts}
	r := Report{Diagnostics: make([]ReportEntry, 0, len(shown)), Truncated: len(items) - len(shown)}
	for _, d := range shown {
		r.Diagnostics = append(r.Diagnostics, b.entry(d))
	}
	r.Count = len(r.Diagnostics)
	return r
}

// JSON writes the report for items as indented JSON.
func JSON(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(items, fs, opts))
}
