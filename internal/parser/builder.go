package parser

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"recast/internal/diag"
	"recast/internal/source"
	"recast/internal/tree"
)

type builder struct {
	file     *source.File
	src      []byte
	reporter diag.Reporter
	ids      int
}

func (b *builder) nextID() tree.NodeID {
	b.ids++
	id, err := safecast.Conv[uint32](b.ids)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return tree.NodeID(id)
}

func (b *builder) span(n *sitter.Node) source.Span {
	if n == nil {
		return source.Span{File: b.file.ID}
	}
	return source.Span{File: b.file.ID, Start: n.StartByte(), End: n.EndByte()}
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(b.src)
}

var classKinds = map[string]tree.ClassKind{
	"class_declaration":           tree.ClassKindClass,
	"interface_declaration":       tree.ClassKindInterface,
	"enum_declaration":            tree.ClassKindEnum,
	"record_declaration":          tree.ClassKindRecord,
	"annotation_type_declaration": tree.ClassKindAnnotation,
}

func (b *builder) typeDecl(n *sitter.Node) *tree.ClassDecl {
	kind, ok := classKinds[n.Type()]
	if !ok {
		return nil
	}
	c := &tree.ClassDecl{
		ID:        b.nextID(),
		ClassKind: kind,
		Span:      b.span(n),
		Anchor:    b.anchor(n),
	}
	nameNode := n.ChildByFieldName("name")
	c.Name = b.text(nameNode)
	c.NameSpan = b.span(nameNode)
	c.Annotations, c.Modifiers = b.modifiers(n)

	switch kind {
	case tree.ClassKindClass:
		if sup := n.ChildByFieldName("superclass"); sup != nil && sup.NamedChildCount() > 0 {
			c.Extends = b.text(sup.NamedChild(0))
		}
		c.Implements = b.typeList(n.ChildByFieldName("interfaces"))
		c.Permits = b.typeList(n.ChildByFieldName("permits"))
	case tree.ClassKindInterface:
		// interfaces extend other interfaces; the list is kept as Implements
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if ch := n.NamedChild(i); ch.Type() == "extends_interfaces" {
				c.Implements = b.typeList(ch)
			}
		}
	case tree.ClassKindEnum, tree.ClassKindRecord:
		c.Implements = b.typeList(n.ChildByFieldName("interfaces"))
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return c
	}
	c.BodySpan = b.span(body)
	b.members(c, body)
	return c
}

func (b *builder) members(c *tree.ClassDecl, body *sitter.Node) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		ch := body.NamedChild(i)
		if ch.Type() == "enum_body_declarations" {
			b.members(c, ch)
			continue
		}
		if m := b.member(ch); m != nil {
			c.Members = append(c.Members, m)
		}
	}
}

func (b *builder) member(n *sitter.Node) tree.Member {
	if _, ok := classKinds[n.Type()]; ok {
		return b.typeDecl(n)
	}
	switch n.Type() {
	case "constructor_declaration":
		k := &tree.Constructor{
			ID:       b.nextID(),
			Span:     b.span(n),
			Anchor:   b.anchor(n),
			BodySpan: b.span(n.ChildByFieldName("body")),
		}
		name := n.ChildByFieldName("name")
		k.Name = b.text(name)
		k.NameSpan = b.span(name)
		k.Annotations, k.Modifiers = b.modifiers(n)
		k.Params = b.params(n.ChildByFieldName("parameters"))
		return k
	case "method_declaration", "annotation_type_element_declaration":
		m := &tree.Method{
			ID:         b.nextID(),
			ReturnType: b.text(n.ChildByFieldName("type")),
			Span:       b.span(n),
			Anchor:     b.anchor(n),
			HasBody:    n.ChildByFieldName("body") != nil,
		}
		name := n.ChildByFieldName("name")
		m.Name = b.text(name)
		m.NameSpan = b.span(name)
		m.Annotations, m.Modifiers = b.modifiers(n)
		m.Params = b.params(n.ChildByFieldName("parameters"))
		return m
	case "field_declaration", "constant_declaration":
		f := &tree.Field{
			ID:     b.nextID(),
			Type:   b.text(n.ChildByFieldName("type")),
			Span:   b.span(n),
			Anchor: b.anchor(n),
		}
		f.Annotations, f.Modifiers = b.modifiers(n)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if d := n.NamedChild(i); d.Type() == "variable_declarator" {
				f.Names = append(f.Names, b.text(d.ChildByFieldName("name")))
			}
		}
		return f
	case "static_initializer":
		return &tree.Initializer{ID: b.nextID(), Static: true, Span: b.span(n)}
	case "block":
		return &tree.Initializer{ID: b.nextID(), Span: b.span(n)}
	}
	// enum constants, compact record constructors, stray semicolons
	return nil
}

// modifiers splits the modifiers child of n into annotations and keywords.
func (b *builder) modifiers(n *sitter.Node) ([]tree.Annotation, tree.Modifiers) {
	var mods *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if ch := n.NamedChild(i); ch.Type() == "modifiers" {
			mods = ch
			break
		}
	}
	if mods == nil {
		return nil, nil
	}
	var (
		anns []tree.Annotation
		kws  tree.Modifiers
	)
	for i := 0; i < int(mods.ChildCount()); i++ {
		ch := mods.Child(i)
		switch ch.Type() {
		case "marker_annotation", "annotation":
			anns = append(anns, tree.Annotation{
				Name: b.text(ch.ChildByFieldName("name")),
				Text: b.text(ch),
				Span: b.span(ch),
			})
		default:
			if kind, ok := tree.ParseModifier(ch.Type()); ok {
				kws = append(kws, tree.Modifier{Kind: kind, Span: b.span(ch)})
			}
		}
	}
	return anns, kws
}

// anchor is where the declaration proper starts, after any modifiers.
func (b *builder) anchor(n *sitter.Node) source.Span {
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch.Type() == "modifiers" || ch.IsExtra() {
			continue
		}
		return source.At(b.file.ID, ch.StartByte())
	}
	return source.At(b.file.ID, n.StartByte())
}

func (b *builder) params(n *sitter.Node) []tree.Param {
	if n == nil {
		return nil
	}
	var out []tree.Param
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		switch ch.Type() {
		case "formal_parameter":
			typ := b.text(ch.ChildByFieldName("type"))
			if dims := ch.ChildByFieldName("dimensions"); dims != nil {
				typ += strings.ReplaceAll(b.text(dims), " ", "")
			}
			out = append(out, tree.Param{Type: typ, Name: b.text(ch.ChildByFieldName("name")), Span: b.span(ch)})
		case "spread_parameter":
			p := tree.Param{Span: b.span(ch)}
			for j := 0; j < int(ch.NamedChildCount()); j++ {
				part := ch.NamedChild(j)
				switch part.Type() {
				case "modifiers":
				case "variable_declarator":
					p.Name = b.text(part.ChildByFieldName("name"))
				default:
					if p.Type == "" {
						p.Type = b.text(part) + "..."
					}
				}
			}
			out = append(out, p)
		}
	}
	return out
}

func (b *builder) typeList(n *sitter.Node) []string {
	if n == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() == "type_list" {
			return b.typeList(ch)
		}
		out = append(out, b.text(ch))
	}
	return out
}

// reportSyntax reports the first ERROR or MISSING node under root.
func (b *builder) reportSyntax(root *sitter.Node) {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	msg := "syntax error"
	if bad.IsMissing() {
		msg = fmt.Sprintf("syntax error: missing %s", bad.Type())
	} else if bad.Type() == "ERROR" {
		text := strings.TrimSpace(b.text(bad))
		if len(text) > 32 {
			text = text[:32] + "..."
		}
		if text != "" {
			msg = fmt.Sprintf("syntax error: unexpected %q", text)
		}
	}
	diag.ReportError(b.reporter, diag.SynParseError, b.span(bad), msg).
		WithNote(b.span(bad), "file skipped; no recipe was applied").
		Emit()
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
