package printer

import (
	"bytes"
	"strings"

	"recast/internal/source"
	"recast/internal/tree"
)

// layout describes how members of one class body are laid out.
type layout struct {
	multiline bool
	indent    string
	eol       string
	// glued is set when the first member shares the line of '{' in a
	// multiline body; gap is the blank run between them.
	glued bool
	gap   source.Span
}

func (d *differ) layout(c *tree.ClassDecl) layout {
	body := d.file.Slice(c.BodySpan)
	l := layout{multiline: bytes.IndexByte(body, '\n') >= 0, eol: lineEnding(body)}
	braceLine := d.file.LineStart(c.BodySpan.Start)
	if len(c.Members) > 0 && l.multiline {
		first := c.Members[0].Pos().Start
		if d.file.LineStart(first) == braceLine {
			l.glued = true
			l.gap = source.Span{File: d.file.ID, Start: c.BodySpan.Start + 1, End: first}
			if strings.TrimLeft(string(d.file.Slice(l.gap)), " \t") != "" {
				l.gap.End = l.gap.Start
			}
		}
	}
	for _, m := range c.Members {
		if d.file.LineStart(m.Pos().Start) != braceLine {
			l.indent = d.file.Indent(m.Pos().Start)
			return l
		}
	}
	base := d.file.Indent(c.Span.Start)
	unit := "    "
	if strings.HasPrefix(base, "\t") {
		unit = "\t"
	}
	l.indent = base + unit
	return l
}

// lineEnding is "\r\n" when the first line break in body is one.
func lineEnding(body []byte) string {
	if i := bytes.IndexByte(body, '\n'); i > 0 && body[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// insertion renders members for insertion right after '{' or after an
// existing member.
func (l layout) insertion(members []tree.Member, afterBrace, emptyBody bool) (string, error) {
	var sb strings.Builder
	for _, m := range members {
		line, err := Render(m)
		if err != nil {
			return "", err
		}
		if l.multiline {
			sb.WriteString(l.eol)
			sb.WriteString(l.indent)
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(line)
	}
	switch {
	case afterBrace && l.glued:
		sb.WriteString(l.eol)
		sb.WriteString(l.indent)
	case !l.multiline && afterBrace && emptyBody:
		sb.WriteByte(' ')
	}
	return sb.String(), nil
}
