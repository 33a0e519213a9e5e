package fix

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"recast/internal/diag"
	"recast/internal/source"
)

// fileBuffer is the working copy of one file. applied keeps every accepted
// edit in original coordinates, sorted by start, so later edits can be
// shifted by what came before them.
type fileBuffer struct {
	file    *source.File
	data    []byte
	applied []diag.TextEdit
}

// shift maps an offset of the original file into data.
func (b *fileBuffer) shift(pos uint32) int {
	delta := 0
	for _, e := range b.applied {
		if e.Span.Start > pos {
			break
		}
		if e.Span.End <= pos {
			delta += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return int(pos) + delta
}

func (b *fileBuffer) overlaps(edits []diag.TextEdit) bool {
	for _, prev := range b.applied {
		for _, e := range edits {
			if spansConflict(prev, e) {
				return true
			}
		}
	}
	return false
}

// splice applies edits, given in original coordinates, to a copy of the
// buffer. It returns the new content or the reason the edits do not fit.
func (b *fileBuffer) splice(edits []diag.TextEdit) ([]byte, string) {
	ordered := slices.Clone(edits)
	// с конца файла, чтобы ранние смещения не сдвигались
	slices.SortStableFunc(ordered, func(x, y diag.TextEdit) int {
		return cmp.Or(cmp.Compare(y.Span.Start, x.Span.Start), cmp.Compare(y.Span.End, x.Span.End))
	})
	out := slices.Clone(b.data)
	for _, e := range ordered {
		start, end := b.shift(e.Span.Start), b.shift(e.Span.End)
		if start < 0 || end < start || end > len(out) {
			return nil, "edit span out of range"
		}
		if e.OldText != "" && string(out[start:end]) != e.OldText {
			return nil, "existing text does not match expected content"
		}
		out = slices.Concat(out[:start:start], []byte(e.NewText), out[end:])
	}
	return out, ""
}

func (b *fileBuffer) record(edits []diag.TextEdit) {
	for _, e := range edits {
		i, _ := slices.BinarySearchFunc(b.applied, e, func(x, y diag.TextEdit) int {
			return cmp.Or(cmp.Compare(x.Span.Start, y.Span.Start), cmp.Compare(x.Span.End, y.Span.End))
		})
		b.applied = slices.Insert(b.applied, i, e)
	}
}

// workspace stages fixes file by file; a fix lands in every file it touches
// or in none.
type workspace struct {
	fs     *source.FileSet
	dryRun bool
	files  map[source.FileID]*fileBuffer
}

func newWorkspace(fs *source.FileSet, dryRun bool) *workspace {
	return &workspace{fs: fs, dryRun: dryRun, files: make(map[source.FileID]*fileBuffer)}
}

func (w *workspace) buffer(id source.FileID) *fileBuffer {
	if b, ok := w.files[id]; ok {
		return b
	}
	file := w.fs.Get(id)
	if file == nil {
		return nil
	}
	return &fileBuffer{file: file, data: file.Content}
}

// stage applies the edits of one fix, returning a skip reason when it
// cannot be applied.
func (w *workspace) stage(edits []diag.TextEdit) string {
	byFile := make(map[source.FileID][]diag.TextEdit)
	for _, e := range edits {
		byFile[e.Span.File] = append(byFile[e.Span.File], e)
	}
	type staged struct {
		buf   *fileBuffer
		data  []byte
		edits []diag.TextEdit
	}
	pending := make([]staged, 0, len(byFile))
	for id, fileEdits := range byFile {
		buf := w.buffer(id)
		switch {
		case buf == nil:
			return "unknown target file"
		case !w.dryRun && buf.file.Flags&source.FileVirtual != 0:
			return "target file is virtual"
		case buf.overlaps(fileEdits):
			return fmt.Sprintf("conflicts with previously applied edits in %s", w.displayPath(id))
		}
		data, reason := buf.splice(fileEdits)
		if reason != "" {
			return reason
		}
		pending = append(pending, staged{buf: buf, data: data, edits: fileEdits})
	}
	for _, p := range pending {
		p.buf.data = p.data
		p.buf.record(p.edits)
		w.files[p.buf.file.ID] = p.buf
	}
	return ""
}

func (w *workspace) displayPath(id source.FileID) string {
	file := w.fs.Get(id)
	if file == nil {
		return ""
	}
	return file.FormatPath(source.PathAsStored, "")
}

func (w *workspace) buffers() map[source.FileID][]byte {
	out := make(map[source.FileID][]byte, len(w.files))
	for id, b := range w.files {
		out[id] = b.data
	}
	return out
}

// commit writes every touched file unless this is a dry run and reports
// the changes sorted by path.
func (w *workspace) commit() ([]FileChange, error) {
	ids := make([]source.FileID, 0, len(w.files))
	for id := range w.files {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	changes := make([]FileChange, 0, len(ids))
	for _, id := range ids {
		b := w.files[id]
		if !w.dryRun {
			if err := writeFile(b.file.Path, b.data); err != nil {
				return changes, err
			}
		}
		changes = append(changes, FileChange{
			Path:      b.file.FormatPath(source.PathRelative, w.fs.BaseDir()),
			EditCount: len(b.applied),
		})
	}
	slices.SortStableFunc(changes, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	return changes, nil
}

// spansConflict reports whether two edits overlap as half-open ranges.
// Two insertions never conflict; an insertion conflicts with a replacement
// that strictly contains its position or starts at it.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End
	switch {
	case aStart == aEnd && bStart == bEnd:
		return false
	case aStart == aEnd:
		return bStart <= aStart && aStart < bEnd
	case bStart == bEnd:
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// writeFile replaces path through a temp file and rename so readers never
// see a half-written source.
func writeFile(path string, buf []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(buf); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
