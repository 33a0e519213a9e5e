package printer

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"recast/internal/diag"
	"recast/internal/source"
	"recast/internal/tree"
)

// ErrUnsupported is returned for tree changes that cannot be expressed as
// text edits, such as renames or moved members.
var ErrUnsupported = errors.New("printer: unsupported change")

// Change groups the edits made directly inside one class.
type Change struct {
	Class     tree.NodeID
	ClassName string
	ClassSpan source.Span
	NameSpan  source.Span
	Summary   string
	Edits     []diag.TextEdit
}

// Diff returns the edits turning before into after, one Change per class
// whose own header or members changed. Classes are ordered by position.
// Both trees must come from file.
func Diff(file *source.File, before, after *tree.CompilationUnit) ([]Change, error) {
	if before == after {
		return nil, nil
	}
	if file == nil || before == nil || after == nil {
		return nil, fmt.Errorf("printer: nil input")
	}
	if len(before.Types) != len(after.Types) {
		return nil, fmt.Errorf("%w: top-level types added or removed", ErrUnsupported)
	}
	d := &differ{file: file}
	for i, cur := range after.Types {
		old := before.Types[i]
		if cur == old {
			continue
		}
		if cur.ID != old.ID {
			return nil, fmt.Errorf("%w: top-level type %s replaced", ErrUnsupported, cur.Name)
		}
		if err := d.class(old, cur); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(d.changes, func(i, j int) bool {
		return d.changes[i].ClassSpan.Start < d.changes[j].ClassSpan.Start
	})
	return d.changes, nil
}

type differ struct {
	file    *source.File
	changes []Change
}

func (d *differ) class(old, cur *tree.ClassDecl) error {
	if old == cur {
		return nil
	}
	if !sameHeader(old, cur) {
		return fmt.Errorf("%w: header of %s %s", ErrUnsupported, old.ClassKind, old.Name)
	}
	var (
		edits   []diag.TextEdit
		summary []string
	)
	if !old.Modifiers.SameKinds(cur.Modifiers) {
		edits = append(edits, d.modifierEdits(old.Modifiers, cur.Modifiers, old.Anchor)...)
		summary = append(summary, fmt.Sprintf("change modifiers of %s %s from %s to %s",
			old.ClassKind, old.Name, modsText(old.Modifiers), modsText(cur.Modifiers)))
	}

	oldByID := make(map[tree.NodeID]tree.Member, len(old.Members))
	for _, m := range old.Members {
		oldByID[m.NodeID()] = m
	}
	lay := d.layout(old)
	insertAt := old.BodySpan.Start + 1
	afterBrace := true
	var pending []tree.Member

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		text, err := lay.insertion(pending, afterBrace, len(old.Members) == 0)
		if err != nil {
			return err
		}
		edit := diag.TextEdit{Span: source.At(d.file.ID, insertAt), NewText: text}
		if afterBrace && lay.glued {
			edit.Span = lay.gap
			edit.OldText = string(d.file.Slice(lay.gap))
		}
		edits = append(edits, edit)
		for _, m := range pending {
			line, _ := Render(m)
			summary = append(summary, fmt.Sprintf("insert `%s`", line))
		}
		pending = nil
		return nil
	}

	seen := make(map[tree.NodeID]bool, len(cur.Members))
	for _, m := range cur.Members {
		id := m.NodeID()
		if !id.IsValid() {
			pending = append(pending, m)
			continue
		}
		om, ok := oldByID[id]
		if !ok || seen[id] {
			return fmt.Errorf("%w: %s moved into %s", ErrUnsupported, describe(m), cur.Name)
		}
		if err := flush(); err != nil {
			return err
		}
		seen[id] = true
		insertAt = om.Pos().End
		afterBrace = false
		if om == m {
			continue
		}
		if nested, isClass := m.(*tree.ClassDecl); isClass {
			if err := d.class(om.(*tree.ClassDecl), nested); err != nil {
				return err
			}
			continue
		}
		if !sameExceptModifiers(om, m) {
			return fmt.Errorf("%w: %s changed beyond its modifiers", ErrUnsupported, describe(m))
		}
		oldMods, newMods := tree.ModifiersOf(om), tree.ModifiersOf(m)
		if oldMods.SameKinds(newMods) {
			continue
		}
		edits = append(edits, d.modifierEdits(oldMods, newMods, anchorOf(om))...)
		summary = append(summary, fmt.Sprintf("change modifiers of %s from %s to %s",
			describe(m), modsText(oldMods), modsText(newMods)))
	}
	if err := flush(); err != nil {
		return err
	}
	for _, m := range old.Members {
		if seen[m.NodeID()] {
			continue
		}
		edits = append(edits, d.deletion(m.Pos()))
		summary = append(summary, "remove "+describe(m))
	}

	if len(edits) == 0 {
		return nil
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].Span.Start < edits[j].Span.Start })
	d.changes = append(d.changes, Change{
		Class:     old.ID,
		ClassName: old.Name,
		ClassSpan: old.Span,
		NameSpan:  old.NameSpan,
		Summary:   strings.Join(summary, "; "),
		Edits:     edits,
	})
	return nil
}

// modifierEdits rewrites the keyword list old into cur. The first old
// keyword is replaced in place, the others are removed with the blanks that
// follow them. Without old keywords the new ones go in at anchor.
func (d *differ) modifierEdits(old, cur tree.Modifiers, anchor source.Span) []diag.TextEdit {
	text := cur.String()
	if len(old) == 0 {
		return []diag.TextEdit{{Span: source.At(d.file.ID, anchor.Start), NewText: text + " "}}
	}
	edits := make([]diag.TextEdit, 0, len(old))
	for i, mod := range old {
		if i == 0 && text != "" {
			edits = append(edits, diag.TextEdit{
				Span:    mod.Span,
				NewText: text,
				OldText: string(d.file.Slice(mod.Span)),
			})
			continue
		}
		sp := d.withTrailingBlanks(mod.Span)
		edits = append(edits, diag.TextEdit{Span: sp, OldText: string(d.file.Slice(sp))})
	}
	return edits
}

// deletion removes sp; when sp is alone on its line the whole line goes.
func (d *differ) deletion(sp source.Span) diag.TextEdit {
	content := d.file.Content
	start, end := sp.Start, sp.End
	lineStart := d.file.LineStart(start)
	lineEnd := end
	for lineEnd < uint32(len(content)) && (content[lineEnd] == ' ' || content[lineEnd] == '\t' || content[lineEnd] == '\r') {
		lineEnd++
	}
	onlyBlankBefore := len(bytes.TrimLeft(content[lineStart:start], " \t")) == 0
	if onlyBlankBefore && (lineEnd == uint32(len(content)) || content[lineEnd] == '\n') {
		start = lineStart
		end = lineEnd
		if end < uint32(len(content)) {
			end++
		}
	} else {
		return diag.TextEdit{Span: d.withTrailingBlanks(sp), OldText: string(d.file.Slice(d.withTrailingBlanks(sp)))}
	}
	out := source.Span{File: d.file.ID, Start: start, End: end}
	return diag.TextEdit{Span: out, OldText: string(d.file.Slice(out))}
}

func (d *differ) withTrailingBlanks(sp source.Span) source.Span {
	content := d.file.Content
	for sp.End < uint32(len(content)) && (content[sp.End] == ' ' || content[sp.End] == '\t') {
		sp.End++
	}
	return sp
}

func anchorOf(m tree.Member) source.Span {
	switch n := m.(type) {
	case *tree.Constructor:
		return n.Anchor
	case *tree.Method:
		return n.Anchor
	case *tree.Field:
		return n.Anchor
	case *tree.ClassDecl:
		return n.Anchor
	}
	return source.At(m.Pos().File, m.Pos().Start)
}

func sameHeader(a, b *tree.ClassDecl) bool {
	x, y := *a, *b
	x.Members, y.Members = nil, nil
	x.Modifiers, y.Modifiers = nil, nil
	return reflect.DeepEqual(x, y)
}

func sameExceptModifiers(a, b tree.Member) bool {
	switch x := a.(type) {
	case *tree.Constructor:
		y, ok := b.(*tree.Constructor)
		if !ok {
			return false
		}
		p, q := *x, *y
		p.Modifiers, q.Modifiers = nil, nil
		return reflect.DeepEqual(p, q)
	case *tree.Method:
		y, ok := b.(*tree.Method)
		if !ok {
			return false
		}
		p, q := *x, *y
		p.Modifiers, q.Modifiers = nil, nil
		return reflect.DeepEqual(p, q)
	case *tree.Field:
		y, ok := b.(*tree.Field)
		if !ok {
			return false
		}
		p, q := *x, *y
		p.Modifiers, q.Modifiers = nil, nil
		return reflect.DeepEqual(p, q)
	case *tree.Initializer:
		y, ok := b.(*tree.Initializer)
		return ok && *x == *y
	}
	return false
}
