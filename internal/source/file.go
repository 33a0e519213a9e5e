package source

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
)

// File is one loaded compilation unit. Content is kept byte-for-byte as read
// so that rewritten output only differs where an edit was applied.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n' in Content.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

func newlineOffsets(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// Position converts a byte offset into a line and column.
func (f *File) Position(off uint32) LineCol {
	// number of newlines strictly before off
	line, _ := slices.BinarySearch(f.LineIdx, off)
	var start uint32
	if line > 0 {
		start = f.LineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - start + 1}
}

// Slice returns the bytes covered by span, or nil when it is out of range.
func (f *File) Slice(span Span) []byte {
	if f == nil || span.Start > span.End || int(span.End) > len(f.Content) {
		return nil
	}
	return f.Content[span.Start:span.End]
}

// LineStart returns the offset of the first byte of the line containing off.
func (f *File) LineStart(off uint32) uint32 {
	return off + 1 - f.Position(off).Col
}

// Indent returns the leading blanks of the line containing off.
func (f *File) Indent(off uint32) string {
	line := f.Content[f.LineStart(off):]
	n := len(line) - len(bytes.TrimLeft(line, " \t"))
	return string(line[:n])
}

// GetLine returns line n (1-based) without its terminator, or "" past the end.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end {
		return ""
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte{'\r'}))
}

// FormatPath renders the file's path in style. baseDir is only used by
// PathRelative and defaults to the working directory.
func (f *File) FormatPath(style PathStyle, baseDir string) string {
	var (
		out string
		err error
	)
	switch style {
	case PathAbsolute:
		out, err = AbsolutePath(f.Path)
	case PathRelative:
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		out, err = RelativePath(f.Path, baseDir)
	case PathBase:
		return filepath.Base(f.Path)
	default:
		return f.Path
	}
	if err != nil {
		return f.Path
	}
	return out
}
