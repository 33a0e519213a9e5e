package printer

import (
	"fmt"
	"strings"

	"recast/internal/tree"
)

// Render prints a synthesized member on one line.
func Render(m tree.Member) (string, error) {
	var sb strings.Builder
	switch n := m.(type) {
	case *tree.Constructor:
		writeHead(&sb, n.Annotations, n.Modifiers)
		sb.WriteString(n.Name)
		writeParams(&sb, n.Params)
		sb.WriteString(" {}")
	case *tree.Method:
		writeHead(&sb, n.Annotations, n.Modifiers)
		sb.WriteString(n.ReturnType)
		sb.WriteByte(' ')
		sb.WriteString(n.Name)
		writeParams(&sb, n.Params)
		if n.HasBody {
			sb.WriteString(" {}")
		} else {
			sb.WriteByte(';')
		}
	case *tree.Field:
		writeHead(&sb, n.Annotations, n.Modifiers)
		sb.WriteString(n.Type)
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(n.Names, ", "))
		sb.WriteByte(';')
	case *tree.Initializer:
		if n.Static {
			sb.WriteString("static ")
		}
		sb.WriteString("{}")
	default:
		return "", fmt.Errorf("%w: cannot print new %s", ErrUnsupported, m.Kind())
	}
	return sb.String(), nil
}

func writeHead(sb *strings.Builder, anns []tree.Annotation, mods tree.Modifiers) {
	for _, a := range anns {
		text := a.Text
		if text == "" {
			text = "@" + a.Name
		}
		sb.WriteString(text)
		sb.WriteByte(' ')
	}
	if len(mods) > 0 {
		sb.WriteString(mods.String())
		sb.WriteByte(' ')
	}
}

func writeParams(sb *strings.Builder, params []tree.Param) {
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type)
		sb.WriteByte(' ')
		sb.WriteString(p.Name)
	}
	sb.WriteByte(')')
}

func describe(m tree.Member) string {
	switch n := m.(type) {
	case *tree.Constructor:
		return "constructor " + n.Name + "()"
	case *tree.Method:
		return "method " + n.Name + "()"
	case *tree.Field:
		return "field " + strings.Join(n.Names, ", ")
	case *tree.ClassDecl:
		return n.ClassKind.String() + " " + n.Name
	case *tree.Initializer:
		if n.Static {
			return "static initializer"
		}
		return "initializer"
	}
	return m.Kind().String()
}

func modsText(m tree.Modifiers) string {
	if len(m) == 0 {
		return "(none)"
	}
	return m.String()
}
