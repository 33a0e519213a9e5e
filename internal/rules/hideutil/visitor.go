package hideutil

import (
	"fmt"

	"recast/internal/diag"
	"recast/internal/rewrite"
	"recast/internal/style"
	"recast/internal/tree"
)

// Rule is the declarative form of the recipe bound to st.
func Rule(st style.HideUtilityClassConstructor) rewrite.Rule {
	return rewrite.Rule{
		Name:      RecipeName,
		Predicate: func(c *tree.ClassDecl) bool { return IsRefactorable(c, st) },
		Edit:      func(c *tree.ClassDecl) *tree.ClassDecl { return ApplyFix(c, st) },
	}
}

// NewVisitor applies the rule to every class and reports what it did, or
// could not do, through the context.
func NewVisitor(st style.HideUtilityClassConstructor) rewrite.Visitor {
	return rewrite.RuleVisitor{
		Rule: Rule(st),
		OnClass: func(ec *rewrite.Context, before, after *tree.ClassDecl) {
			report(ec, st, before, after)
		},
	}
}

func report(ec *rewrite.Context, st style.HideUtilityClassConstructor, before, after *tree.ClassDecl) {
	if before != after {
		msg := fmt.Sprintf("utility class %s should not be instantiable", before.Name)
		diag.ReportInfo(ec.Reporter(), diag.RuleHideUtilityCtor, before.NameSpan, msg).
			WithNote(before.NameSpan, fmt.Sprintf("constructor made %s", st.Visibility)).
			Emit()
		return
	}
	if !IsRefactorable(before, st) {
		return
	}
	for _, k := range constructorsWithParams(before) {
		msg := fmt.Sprintf("utility class %s declares constructor %s(%d params); remove it or make it %s by hand",
			before.Name, k.Name, len(k.Params), st.Visibility)
		diag.ReportWarning(ec.Reporter(), diag.RuleUtilityCtorWithParams, k.NameSpan, msg).
			WithNote(before.NameSpan, "class has only static members").
			Emit()
	}
}

func constructorsWithParams(c *tree.ClassDecl) []*tree.Constructor {
	ctors, _ := c.Constructors()
	var out []*tree.Constructor
	for _, k := range ctors {
		if !k.IsNoArg() {
			out = append(out, k)
		}
	}
	return out
}
