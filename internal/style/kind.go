package style

import "strings"

// Kind enumerates the style values a rule can ask for.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindHideUtilityClassConstructor
)

func (k Kind) String() string {
	switch k {
	case KindHideUtilityClassConstructor:
		return "hide_utility_class_constructor"
	default:
		return "invalid"
	}
}

// ParseKind accepts the config table name of a style.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hide_utility_class_constructor", "hide-utility-class-constructor":
		return KindHideUtilityClassConstructor, true
	default:
		return KindInvalid, false
	}
}

// Value is a typed style entry.
type Value interface {
	StyleKind() Kind
}

// Resolver looks up the style of a given kind. A missing entry is reported
// with false; callers fall back to their own default.
type Resolver interface {
	Resolve(kind Kind) (Value, bool)
}

// Set is an immutable Resolver backed by a map.
type Set struct {
	values map[Kind]Value
}

// NewSet builds a Set; later values of the same kind win.
func NewSet(values ...Value) *Set {
	s := &Set{values: make(map[Kind]Value, len(values))}
	for _, v := range values {
		if v == nil {
			continue
		}
		s.values[v.StyleKind()] = v
	}
	return s
}

func (s *Set) Resolve(kind Kind) (Value, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[kind]
	return v, ok
}

// With returns a copy of s holding v.
func (s *Set) With(v Value) *Set {
	out := &Set{values: make(map[Kind]Value, s.Len()+1)}
	if s != nil {
		for k, val := range s.values {
			out.values[k] = val
		}
	}
	if v != nil {
		out.values[v.StyleKind()] = v
	}
	return out
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}
