package hideutil

import (
	"fmt"

	"recast/internal/diag"
	"recast/internal/rewrite"
	"recast/internal/source"
	"recast/internal/style"
	"recast/internal/tree"
)

const (
	RecipeName  = "hide-utility-class-constructor"
	displayName = "Hide utility class constructor"
	description = "Ensures utility classes (classes containing only static methods or fields in their API) do not have a public constructor."
)

// Recipe resolves the style once per compilation unit and schedules the
// class visitor bound to it.
type Recipe struct {
	defaults style.HideUtilityClassConstructor
}

// NewRecipe takes the style used when a unit has none configured, usually
// style.DefaultHideUtilityClassConstructor.
func NewRecipe(defaults style.HideUtilityClassConstructor) *Recipe {
	return &Recipe{defaults: defaults}
}

func (r *Recipe) Name() string        { return RecipeName }
func (r *Recipe) DisplayName() string { return displayName }
func (r *Recipe) Description() string { return description }
func (r *Recipe) Tags() []string      { return []string{"RSPEC-1118"} }

func (r *Recipe) Visitor() rewrite.Visitor {
	return unitVisitor{defaults: r.defaults}
}

type unitVisitor struct {
	rewrite.BaseVisitor
	defaults style.HideUtilityClassConstructor
}

func (unitVisitor) Name() string { return RecipeName }

func (v unitVisitor) VisitUnit(ec *rewrite.Context, u *tree.CompilationUnit) (*tree.CompilationUnit, []rewrite.Deferred) {
	st := ResolveStyle(ec, u, v.defaults)
	return u, []rewrite.Deferred{{Visitor: NewVisitor(st)}}
}

// ResolveStyle picks the unit's configured style, falling back to defaults
// when none is set or the configured one is malformed. The latter is
// reported as a warning.
func ResolveStyle(ec *rewrite.Context, u *tree.CompilationUnit, defaults style.HideUtilityClassConstructor) style.HideUtilityClassConstructor {
	if u == nil || u.Styles == nil {
		return defaults
	}
	v, ok := u.Styles.Resolve(style.KindHideUtilityClassConstructor)
	if !ok {
		return defaults
	}
	st, ok := v.(style.HideUtilityClassConstructor)
	if !ok {
		malformed(ec, u, fmt.Errorf("%w: unexpected value %T", style.ErrMalformed, v), defaults)
		return defaults
	}
	if err := st.Validate(); err != nil {
		malformed(ec, u, err, defaults)
		return defaults
	}
	return st
}

func malformed(ec *rewrite.Context, u *tree.CompilationUnit, err error, defaults style.HideUtilityClassConstructor) {
	if ec == nil {
		return
	}
	diag.ReportWarning(ec.Reporter(), diag.StyMalformed, source.At(u.File, 0),
		fmt.Sprintf("%v; using %s", err, defaults.Visibility)).
		Emit()
}
