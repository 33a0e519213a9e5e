package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"recast/internal/diag"
	"recast/internal/source"
)

type palette struct {
	sev      map[diag.Severity]*color.Color
	location *color.Color
	gutter   *color.Color
	note     *color.Color
	fix      *color.Color
	removed  *color.Color
	added    *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
		},
		location: mk(color.Bold),
		gutter:   mk(color.FgBlue),
		note:     mk(color.FgBlue, color.Bold),
		fix:      mk(color.FgGreen),
		removed:  mk(color.FgRed),
		added:    mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.sev[diag.SevInfo]
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	PrettyDiagnostics(w, bag.Items(), fs, opts)
}

// PrettyDiagnostics is Pretty over a plain slice.
func PrettyDiagnostics(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i := range items {
		prettyOne(w, &items[i], fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sevColor := p.severity(d.Severity)
	loc := location(fs, d.Primary, opts.PathMode)
	if loc != "" {
		fmt.Fprintf(w, "%s: ", p.location.Sprint(loc))
	}
	fmt.Fprintf(w, "%s %s: %s\n", sevColor.Sprint(d.Severity.String()), d.Code.ID(), d.Message)

	if file := fileOf(fs, d.Primary); file != nil && len(file.Content) > 0 {
		snippet(w, fs, file, d.Primary, int(opts.Context), sevColor, p)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nloc := location(fs, n.Span, opts.PathMode)
			if nloc == "" {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), nloc, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, f := range d.Fixes {
			fmt.Fprintf(w, "  %s %s (%s", p.fix.Sprintf("fix #%d:", i+1), f.Title, f.Applicability)
			if f.ID != "" {
				fmt.Fprintf(w, ", id=%s", f.ID)
			}
			fmt.Fprintln(w, ")")
			for _, e := range f.Edits {
				fmt.Fprintf(w, "    edit %s: apply=%q\n", location(fs, e.Span, opts.PathMode), e.NewText)
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixEditPreview(fs, e)
				if err != nil {
					continue
				}
				fmt.Fprintln(w, "    preview:")
				for _, line := range preview.before {
					fmt.Fprintf(w, "      %s\n", p.removed.Sprint("- "+line))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "      %s\n", p.added.Sprint("+ "+line))
				}
			}
		}
	}
}

func fileOf(fs *source.FileSet, span source.Span) *source.File {
	if fs == nil {
		return nil
	}
	return fs.Get(span.File)
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fileOf(fs, span)
	if f == nil {
		return ""
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}

// snippet prints the primary line with ctx lines around it and a caret
// line under the span. Only the first line of a multi-line span is marked.
func snippet(w io.Writer, fs *source.FileSet, f *source.File, span source.Span, ctx int, mark *color.Color, p palette) {
	start, end := fs.Resolve(span)
	lineCount := uint32(len(f.LineIdx) + 1)
	from := start.Line
	to := start.Line
	for i := 0; i < ctx && from > 1; i++ {
		from--
	}
	for i := 0; i < ctx && to < lineCount; i++ {
		to++
	}
	numWidth := len(fmt.Sprint(to))

	for ln := from; ln <= to; ln++ {
		text := f.GetLine(ln)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", numWidth, ln), text)
		if ln != start.Line {
			continue
		}
		endCol := uint32(len(text)) + 1
		if end.Line == start.Line {
			endCol = min(end.Col, endCol)
		}
		pad, underline := caret(text, start.Col, endCol)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", numWidth, ""), pad, mark.Sprint(underline))
	}
}

// caret returns the padding up to startCol and a ^~~ marker spanning to
// endCol (both 1-based byte columns). Tabs are kept so the marker lines up
// in any tab width; wide runes take two cells.
func caret(line string, startCol, endCol uint32) (string, string) {
	lineLen := uint32(len(line))
	startCol = max(startCol, 1)
	s := min(startCol-1, lineLen)
	e := max(min(endCol-1, lineLen), s)

	var pad strings.Builder
	for _, r := range line[:s] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := max(runewidth.StringWidth(line[s:e]), 1)
	return pad.String(), "^" + strings.Repeat("~", width-1)
}
