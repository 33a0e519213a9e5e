package tree

import "recast/internal/source"

// ClassKind distinguishes the type declaration forms.
type ClassKind uint8

const (
	ClassKindClass ClassKind = iota
	ClassKindInterface
	ClassKindEnum
	ClassKindRecord
	ClassKindAnnotation
)

func (k ClassKind) String() string {
	switch k {
	case ClassKindInterface:
		return "interface"
	case ClassKindEnum:
		return "enum"
	case ClassKindRecord:
		return "record"
	case ClassKindAnnotation:
		return "@interface"
	default:
		return "class"
	}
}

// ClassDecl is a class, interface, enum, record or annotation type.
type ClassDecl struct {
	ID          NodeID
	ClassKind   ClassKind
	Name        string
	Annotations []Annotation
	Modifiers   Modifiers
	Extends     string
	Implements  []string
	Permits     []string
	Members     []Member
	Span        source.Span
	NameSpan    source.Span
	// Anchor is the empty span where the declaration keyword starts, right
	// after annotations and modifiers.
	Anchor   source.Span
	BodySpan source.Span // '{' .. '}' inclusive
}

func (c *ClassDecl) Kind() Kind       { return KindClass }
func (c *ClassDecl) NodeID() NodeID   { return c.ID }
func (c *ClassDecl) Pos() source.Span { return c.Span }
func (*ClassDecl) member()            {}

// WithMembers returns c when members is element-wise identical to c.Members.
func (c *ClassDecl) WithMembers(members []Member) *ClassDecl {
	if sameSlice(c.Members, members) {
		return c
	}
	cp := *c
	cp.Members = members
	return &cp
}

// WithModifiers returns a copy of c carrying mods.
func (c *ClassDecl) WithModifiers(mods Modifiers) *ClassDecl {
	if c.Modifiers.SameKinds(mods) {
		return c
	}
	cp := *c
	cp.Modifiers = mods
	return &cp
}

// ReplaceMember swaps the member at i. Siblings keep their identity.
func (c *ClassDecl) ReplaceMember(i int, m Member) *ClassDecl {
	if i < 0 || i >= len(c.Members) || c.Members[i] == m {
		return c
	}
	members := make([]Member, len(c.Members))
	copy(members, c.Members)
	members[i] = m
	return c.WithMembers(members)
}

// InsertMember inserts m before index i; i == len(Members) appends.
func (c *ClassDecl) InsertMember(i int, m Member) *ClassDecl {
	if i < 0 {
		i = 0
	}
	if i > len(c.Members) {
		i = len(c.Members)
	}
	members := make([]Member, 0, len(c.Members)+1)
	members = append(members, c.Members[:i]...)
	members = append(members, m)
	members = append(members, c.Members[i:]...)
	return c.WithMembers(members)
}

// RemoveMember drops the member at i.
func (c *ClassDecl) RemoveMember(i int) *ClassDecl {
	if i < 0 || i >= len(c.Members) {
		return c
	}
	members := make([]Member, 0, len(c.Members)-1)
	members = append(members, c.Members[:i]...)
	members = append(members, c.Members[i+1:]...)
	return c.WithMembers(members)
}

// IsAbstract reports an explicit abstract modifier.
func (c *ClassDecl) IsAbstract() bool {
	return c.Modifiers.Has(ModAbstract)
}

func (c *ClassDecl) HasSupertype() bool {
	return c.Extends != "" || len(c.Implements) > 0
}

// IsSealed reports a sealed class; its permitted subclasses call its
// constructor.
func (c *ClassDecl) IsSealed() bool {
	return c.Modifiers.Has(ModSealed) || len(c.Permits) > 0
}

// Constructors returns the explicit constructors with their member indexes.
func (c *ClassDecl) Constructors() ([]*Constructor, []int) {
	var (
		out []*Constructor
		idx []int
	)
	for i, m := range c.Members {
		if ctor, ok := m.(*Constructor); ok {
			out = append(out, ctor)
			idx = append(idx, i)
		}
	}
	return out, idx
}

// NestedClasses returns member type declarations in source order.
func (c *ClassDecl) NestedClasses() []*ClassDecl {
	var out []*ClassDecl
	for _, m := range c.Members {
		if n, ok := m.(*ClassDecl); ok {
			out = append(out, n)
		}
	}
	return out
}

// FindClass searches c and its nested classes.
func (c *ClassDecl) FindClass(id NodeID) *ClassDecl {
	if c.ID == id {
		return c
	}
	for _, n := range c.NestedClasses() {
		if found := n.FindClass(id); found != nil {
			return found
		}
	}
	return nil
}

func (c *ClassDecl) replaceClass(repl *ClassDecl) (*ClassDecl, bool) {
	if c.ID == repl.ID {
		return repl, true
	}
	found := false
	members := MapSlice(c.Members, func(_ int, m Member) Member {
		n, ok := m.(*ClassDecl)
		if found || !ok {
			return m
		}
		out, hit := n.replaceClass(repl)
		found = hit
		return out
	})
	if !found {
		return c, false
	}
	return c.WithMembers(members), true
}
