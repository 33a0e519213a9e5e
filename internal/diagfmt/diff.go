package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"recast/internal/source"
)

// Unified writes a unified diff for every file in buffers whose new content
// differs from the loaded one. Files are written in FileID order.
func Unified(w io.Writer, fs *source.FileSet, buffers map[source.FileID][]byte, opts DiffOpts) error {
	ids := make([]source.FileID, 0, len(buffers))
	for id := range buffers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ctx := opts.Context
	if ctx <= 0 {
		ctx = 3
	}
	p := newPalette(opts.Color)
	for _, id := range ids {
		f := fs.Get(id)
		if f == nil {
			continue
		}
		after := buffers[id]
		if string(after) == string(f.Content) {
			continue
		}
		path := formatPath(f, fs, opts.PathMode)
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        diffLines(f.Content),
			B:        diffLines(after),
			FromFile: "a/" + path,
			ToFile:   "b/" + path,
			Context:  ctx,
		})
		if err != nil {
			return fmt.Errorf("diff %s: %w", path, err)
		}
		if err := writeColoredDiff(w, text, p); err != nil {
			return err
		}
	}
	return nil
}

// diffLines splits content into newline-terminated lines. A final line
// without a terminator gets one, like difflib.SplitLines does, but a file
// ending in a newline does not gain an empty last line.
func diffLines(content []byte) []string {
	lines := strings.SplitAfter(string(content), "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}
	return lines
}

func writeColoredDiff(w io.Writer, text string, p palette) error {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			line = p.location.Sprint(line)
		case strings.HasPrefix(line, "@@"):
			line = p.gutter.Sprint(line)
		case strings.HasPrefix(line, "-"):
			line = p.removed.Sprint(line)
		case strings.HasPrefix(line, "+"):
			line = p.added.Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return sc.Err()
}
