package rewrite

import "recast/internal/tree"

// Visitor has one hook per node kind. A hook returns its input unchanged
// (same pointer) when it has nothing to do. Returned Deferred steps run
// after the current traversal finishes.
type Visitor interface {
	Name() string
	VisitUnit(ec *Context, u *tree.CompilationUnit) (*tree.CompilationUnit, []Deferred)
	VisitClass(ec *Context, c *tree.ClassDecl) (*tree.ClassDecl, []Deferred)
	// VisitMember sees every non-class member; owner is nil when the walk
	// started at the member itself.
	VisitMember(ec *Context, owner *tree.ClassDecl, m tree.Member) (tree.Member, []Deferred)
}

// BaseVisitor implements every hook as a no-op. Embed it and override what
// is needed.
type BaseVisitor struct{}

func (BaseVisitor) VisitUnit(_ *Context, u *tree.CompilationUnit) (*tree.CompilationUnit, []Deferred) {
	return u, nil
}

func (BaseVisitor) VisitClass(_ *Context, c *tree.ClassDecl) (*tree.ClassDecl, []Deferred) {
	return c, nil
}

func (BaseVisitor) VisitMember(_ *Context, _ *tree.ClassDecl, m tree.Member) (tree.Member, []Deferred) {
	return m, nil
}

// Rule is a declarative class rewrite: Edit runs only when Predicate holds.
type Rule struct {
	Name      string
	Predicate func(c *tree.ClassDecl) bool
	Edit      func(c *tree.ClassDecl) *tree.ClassDecl
}

// Apply returns c itself when the predicate is false or the edit had
// nothing to change.
func (r Rule) Apply(c *tree.ClassDecl) *tree.ClassDecl {
	if c == nil || r.Predicate == nil || r.Edit == nil || !r.Predicate(c) {
		return c
	}
	out := r.Edit(c)
	if out == nil {
		return c
	}
	return out
}

// RuleVisitor applies a Rule to every class of the tree, nested ones
// included.
type RuleVisitor struct {
	BaseVisitor
	Rule Rule
	// OnClass, if set, runs for every class after the rule with the input
	// and output node.
	OnClass func(ec *Context, before, after *tree.ClassDecl)
}

func (v RuleVisitor) Name() string { return v.Rule.Name }

func (v RuleVisitor) VisitClass(ec *Context, c *tree.ClassDecl) (*tree.ClassDecl, []Deferred) {
	out := v.Rule.Apply(c)
	if v.OnClass != nil {
		v.OnClass(ec, c, out)
	}
	return out, nil
}
