package tree

import "recast/internal/source"

// Constructor is an explicit constructor declaration.
type Constructor struct {
	ID          NodeID
	Name        string
	Annotations []Annotation
	Modifiers   Modifiers
	Params      []Param
	Span        source.Span
	NameSpan    source.Span
	Anchor      source.Span
	BodySpan    source.Span
}

func (k *Constructor) Kind() Kind       { return KindConstructor }
func (k *Constructor) NodeID() NodeID   { return k.ID }
func (k *Constructor) Pos() source.Span { return k.Span }
func (*Constructor) member()            {}

// NewConstructor synthesizes an empty no-arg constructor.
func NewConstructor(name string, mods ...ModifierKind) *Constructor {
	return &Constructor{Name: name, Modifiers: Mods(mods...)}
}

// WithModifiers returns a copy of k carrying mods. Annotations, parameters
// and the body span are kept as is.
func (k *Constructor) WithModifiers(mods Modifiers) *Constructor {
	if k.Modifiers.SameKinds(mods) {
		return k
	}
	cp := *k
	cp.Modifiers = mods
	return &cp
}

func (k *Constructor) IsNoArg() bool { return len(k.Params) == 0 }

// Method is a method declaration. Abstract and interface methods have no body.
type Method struct {
	ID          NodeID
	Name        string
	ReturnType  string
	Annotations []Annotation
	Modifiers   Modifiers
	Params      []Param
	HasBody     bool
	Span        source.Span
	NameSpan    source.Span
	Anchor      source.Span
}

func (m *Method) Kind() Kind       { return KindMethod }
func (m *Method) NodeID() NodeID   { return m.ID }
func (m *Method) Pos() source.Span { return m.Span }
func (*Method) member()            {}

func (m *Method) WithModifiers(mods Modifiers) *Method {
	if m.Modifiers.SameKinds(mods) {
		return m
	}
	cp := *m
	cp.Modifiers = mods
	return &cp
}

// IsMain reports the public static void main(String[]) entry point shape.
func (m *Method) IsMain() bool {
	if m.Name != "main" || m.ReturnType != "void" || len(m.Params) != 1 {
		return false
	}
	if !m.Modifiers.Has(ModPublic) || !m.Modifiers.Has(ModStatic) {
		return false
	}
	switch m.Params[0].Type {
	case "String[]", "String...", "java.lang.String[]", "java.lang.String...":
		return true
	}
	return false
}

// Field is a field declaration; one declaration may introduce several names.
type Field struct {
	ID          NodeID
	Type        string
	Names       []string
	Annotations []Annotation
	Modifiers   Modifiers
	Span        source.Span
	Anchor      source.Span
}

func (f *Field) Kind() Kind       { return KindField }
func (f *Field) NodeID() NodeID   { return f.ID }
func (f *Field) Pos() source.Span { return f.Span }
func (*Field) member()            {}

func (f *Field) WithModifiers(mods Modifiers) *Field {
	if f.Modifiers.SameKinds(mods) {
		return f
	}
	cp := *f
	cp.Modifiers = mods
	return &cp
}

// Initializer is an instance or static initializer block.
type Initializer struct {
	ID     NodeID
	Static bool
	Span   source.Span
}

func (b *Initializer) Kind() Kind       { return KindInitializer }
func (b *Initializer) NodeID() NodeID   { return b.ID }
func (b *Initializer) Pos() source.Span { return b.Span }
func (*Initializer) member()            {}

// IsStatic reports whether m belongs to the class rather than an instance.
// Constructors report false.
func IsStatic(m Member) bool {
	switch n := m.(type) {
	case *Method:
		return n.Modifiers.Has(ModStatic)
	case *Field:
		return n.Modifiers.Has(ModStatic)
	case *Initializer:
		return n.Static
	case *ClassDecl:
		return n.Modifiers.Has(ModStatic)
	default:
		return false
	}
}

// ModifiersOf returns the keyword list of m, nil for initializers.
func ModifiersOf(m Member) Modifiers {
	switch n := m.(type) {
	case *ClassDecl:
		return n.Modifiers
	case *Constructor:
		return n.Modifiers
	case *Method:
		return n.Modifiers
	case *Field:
		return n.Modifiers
	default:
		return nil
	}
}

// AnnotationsOf returns the annotations of m, nil for initializers.
func AnnotationsOf(m Member) []Annotation {
	switch n := m.(type) {
	case *ClassDecl:
		return n.Annotations
	case *Constructor:
		return n.Annotations
	case *Method:
		return n.Annotations
	case *Field:
		return n.Annotations
	default:
		return nil
	}
}
