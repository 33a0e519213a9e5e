package tree

import (
	"recast/internal/source"
	"recast/internal/style"
)

// CompilationUnit is the root of one parsed file.
type CompilationUnit struct {
	ID      NodeID
	File    source.FileID
	Path    string
	Package string
	Types   []*ClassDecl
	// Styles resolves formatting/policy values for rules running on this
	// unit. Nil means every rule uses its own default.
	Styles style.Resolver
	Span   source.Span
}

func (u *CompilationUnit) Kind() Kind       { return KindUnit }
func (u *CompilationUnit) NodeID() NodeID   { return u.ID }
func (u *CompilationUnit) Pos() source.Span { return u.Span }

// WithTypes returns u when types is element-wise identical to u.Types,
// otherwise a shallow copy holding types.
func (u *CompilationUnit) WithTypes(types []*ClassDecl) *CompilationUnit {
	if sameSlice(u.Types, types) {
		return u
	}
	cp := *u
	cp.Types = types
	return &cp
}

// WithStyles returns a copy of u bound to r.
func (u *CompilationUnit) WithStyles(r style.Resolver) *CompilationUnit {
	cp := *u
	cp.Styles = r
	return &cp
}

// FindClass looks a class up by id anywhere in the unit.
func (u *CompilationUnit) FindClass(id NodeID) *ClassDecl {
	if !id.IsValid() {
		return nil
	}
	for _, t := range u.Types {
		if c := t.FindClass(id); c != nil {
			return c
		}
	}
	return nil
}

// ReplaceClass swaps the class with repl.ID for repl and rebuilds every
// ancestor on the path. The second result is false when no such class exists.
func (u *CompilationUnit) ReplaceClass(repl *ClassDecl) (*CompilationUnit, bool) {
	if repl == nil || !repl.ID.IsValid() {
		return u, false
	}
	found := false
	types := MapSlice(u.Types, func(_ int, c *ClassDecl) *ClassDecl {
		if found {
			return c
		}
		out, ok := c.replaceClass(repl)
		found = ok
		return out
	})
	if !found {
		return u, false
	}
	return u.WithTypes(types), true
}

// Classes lists every class in the unit in pre-order.
func (u *CompilationUnit) Classes() []*ClassDecl {
	var out []*ClassDecl
	var visit func(c *ClassDecl)
	visit = func(c *ClassDecl) {
		out = append(out, c)
		for _, n := range c.NestedClasses() {
			visit(n)
		}
	}
	for _, t := range u.Types {
		visit(t)
	}
	return out
}
