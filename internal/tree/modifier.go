package tree

import (
	"strings"

	"recast/internal/source"
)

// ModifierKind is a Java modifier keyword.
type ModifierKind uint8

const (
	ModInvalid ModifierKind = iota
	ModPublic
	ModProtected
	ModPrivate
	ModStatic
	ModFinal
	ModAbstract
	ModSealed
	ModNonSealed
	ModStrictfp
	ModDefault
	ModSynchronized
	ModNative
	ModTransient
	ModVolatile
)

var modifierNames = [...]string{
	ModInvalid:      "",
	ModPublic:       "public",
	ModProtected:    "protected",
	ModPrivate:      "private",
	ModStatic:       "static",
	ModFinal:        "final",
	ModAbstract:     "abstract",
	ModSealed:       "sealed",
	ModNonSealed:    "non-sealed",
	ModStrictfp:     "strictfp",
	ModDefault:      "default",
	ModSynchronized: "synchronized",
	ModNative:       "native",
	ModTransient:    "transient",
	ModVolatile:     "volatile",
}

func (k ModifierKind) String() string {
	if int(k) < len(modifierNames) {
		return modifierNames[k]
	}
	return ""
}

// IsVisibility reports whether k is one of public/protected/private.
func (k ModifierKind) IsVisibility() bool {
	return k == ModPublic || k == ModProtected || k == ModPrivate
}

// ParseModifier maps a keyword to its kind.
func ParseModifier(word string) (ModifierKind, bool) {
	for i, name := range modifierNames {
		if name != "" && name == word {
			return ModifierKind(i), true
		}
	}
	return ModInvalid, false
}

// Modifier is a keyword occurrence. Span is empty for synthesized modifiers.
type Modifier struct {
	Kind ModifierKind
	Span source.Span
}

// Modifiers is the keyword list of a declaration in source order.
type Modifiers []Modifier

// Mods builds a synthesized modifier list.
func Mods(kinds ...ModifierKind) Modifiers {
	if len(kinds) == 0 {
		return nil
	}
	out := make(Modifiers, len(kinds))
	for i, k := range kinds {
		out[i] = Modifier{Kind: k}
	}
	return out
}

func (m Modifiers) Has(kind ModifierKind) bool {
	for _, mod := range m {
		if mod.Kind == kind {
			return true
		}
	}
	return false
}

// Kinds returns the keyword kinds without positions.
func (m Modifiers) Kinds() []ModifierKind {
	if len(m) == 0 {
		return nil
	}
	out := make([]ModifierKind, len(m))
	for i, mod := range m {
		out[i] = mod.Kind
	}
	return out
}

// SameKinds compares keyword sequences and ignores spans.
func (m Modifiers) SameKinds(other Modifiers) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i].Kind != other[i].Kind {
			return false
		}
	}
	return true
}

// Visibility returns the access keyword or ModInvalid when access is implicit.
func (m Modifiers) Visibility() ModifierKind {
	for _, mod := range m {
		if mod.Kind.IsVisibility() {
			return mod.Kind
		}
	}
	return ModInvalid
}

func (m Modifiers) String() string {
	parts := make([]string, 0, len(m))
	for _, mod := range m {
		parts = append(parts, mod.Kind.String())
	}
	return strings.Join(parts, " ")
}
