package diagfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"recast/internal/diag"
	"recast/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the whole lines touched by edit, before and
// after applying it on its own.
func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	file := fileOf(fs, edit.Span)
	if file == nil {
		return fixEditPreview{}, errors.New("edit points at an unknown file")
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, err
	}
	sp := edit.Span
	if sp.Start > sp.End || sp.End > size {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range", sp)
	}

	// extend to whole lines: from the start of the first touched line to
	// the newline ending the last one
	from := file.LineStart(sp.Start)
	to := size
	if nl := bytes.IndexByte(file.Content[sp.End:], '\n'); nl >= 0 {
		to = sp.End + uint32(nl)
	}
	block := file.Content[from:to]

	var after bytes.Buffer
	after.Write(block[:sp.Start-from])
	after.WriteString(edit.NewText)
	after.Write(block[sp.End-from:])

	return fixEditPreview{before: previewLines(block), after: previewLines(after.Bytes())}, nil
}

func previewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
