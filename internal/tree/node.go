package tree

import "recast/internal/source"

// Kind tags every concrete node type. Code that dispatches on nodes
// switches over Kind and handles each value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindClass
	KindConstructor
	KindMethod
	KindField
	KindInitializer
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindClass:
		return "class"
	case KindConstructor:
		return "constructor"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindInitializer:
		return "initializer"
	default:
		return "invalid"
	}
}

// Node is implemented by *CompilationUnit, *ClassDecl and every Member.
type Node interface {
	Kind() Kind
	NodeID() NodeID
	Pos() source.Span
}

// Member is a declaration inside a class body. Nested classes are members
// too.
type Member interface {
	Node
	member()
}

// Param is a formal constructor or method parameter.
type Param struct {
	Type string
	Name string
	Span source.Span
}

// Annotation keeps the annotation as written. Name has no leading '@'.
type Annotation struct {
	Name string
	Text string
	Span source.Span
}

// SimpleName strips any package qualifier from the annotation name.
func (a Annotation) SimpleName() string {
	return simpleName(a.Name)
}

// Matches reports whether the annotation refers to want. Either side may be
// qualified; a simple name matches the last segment of a qualified one.
func (a Annotation) Matches(want string) bool {
	if a.Name == want {
		return true
	}
	if isQualified(a.Name) && isQualified(want) {
		return false
	}
	return simpleName(a.Name) == simpleName(want)
}

func simpleName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

func isQualified(name string) bool {
	return simpleName(name) != name
}

// AnnotatedWith reports whether any of anns matches one of names.
func AnnotatedWith(anns []Annotation, names []string) bool {
	for _, a := range anns {
		for _, n := range names {
			if a.Matches(n) {
				return true
			}
		}
	}
	return false
}
