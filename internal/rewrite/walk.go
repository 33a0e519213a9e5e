package rewrite

import (
	"fmt"

	"recast/internal/trace"
	"recast/internal/tree"
)

// Deferred is a follow-up visitor run after the current traversal. Scope
// names the class to run on; NoNodeID means the whole compilation unit.
type Deferred struct {
	Visitor Visitor
	Scope   tree.NodeID
}

type walker struct {
	ec       *Context
	v        Visitor
	deferred []Deferred
	err      error
	visited  int
	rewrites int
}

// Walk drives v over root. Unchanged subtrees come back as the same
// pointers. On cancellation the partially rebuilt tree is returned together
// with an error wrapping ErrCancelled; nodes not yet visited are left as
// they were. A nil ec behaves like a background context.
func Walk(ec *Context, v Visitor, root tree.Node) (tree.Node, []Deferred, error) {
	if isNil(root) {
		return nil, nil, ErrNilRoot
	}
	if v == nil {
		return root, nil, fmt.Errorf("rewrite: nil visitor")
	}
	w := &walker{ec: ec.orBackground(), v: v}
	out := w.node(root)
	if w.ec.tracer.Level().ShouldEmit(trace.ScopeNode) {
		trace.Point(w.ec.tracer, trace.ScopeNode, "walk:"+v.Name(),
			fmt.Sprintf("visited=%d rewritten=%d deferred=%d", w.visited, w.rewrites, len(w.deferred)), w.ec.parent)
	}
	return out, w.deferred, w.err
}

func isNil(n tree.Node) bool {
	switch x := n.(type) {
	case nil:
		return true
	case *tree.CompilationUnit:
		return x == nil
	case *tree.ClassDecl:
		return x == nil
	case *tree.Constructor:
		return x == nil
	case *tree.Method:
		return x == nil
	case *tree.Field:
		return x == nil
	case *tree.Initializer:
		return x == nil
	}
	return false
}

// stop latches the first cancellation error.
func (w *walker) stop() bool {
	if w.err != nil {
		return true
	}
	if err := w.ec.Err(); err != nil {
		w.err = err
		return true
	}
	w.visited++
	return false
}

func (w *walker) node(n tree.Node) tree.Node {
	switch n.Kind() {
	case tree.KindUnit:
		return w.unit(n.(*tree.CompilationUnit))
	case tree.KindClass:
		return w.class(n.(*tree.ClassDecl))
	case tree.KindConstructor, tree.KindMethod, tree.KindField, tree.KindInitializer:
		return w.member(nil, n.(tree.Member))
	case tree.KindInvalid:
		w.err = fmt.Errorf("rewrite: node %T has invalid kind", n)
	}
	return n
}

func (w *walker) unit(u *tree.CompilationUnit) *tree.CompilationUnit {
	if w.stop() {
		return u
	}
	types := tree.MapSlice(u.Types, func(_ int, c *tree.ClassDecl) *tree.ClassDecl {
		return w.class(c)
	})
	rebuilt := u.WithTypes(types)
	if w.err != nil {
		return rebuilt
	}
	out, more := w.v.VisitUnit(w.ec, rebuilt)
	w.schedule(more)
	if out == nil {
		return rebuilt
	}
	return out
}

func (w *walker) class(c *tree.ClassDecl) *tree.ClassDecl {
	if w.stop() {
		return c
	}
	members := tree.MapSlice(c.Members, func(_ int, m tree.Member) tree.Member {
		if nested, ok := m.(*tree.ClassDecl); ok {
			return w.class(nested)
		}
		return w.member(c, m)
	})
	rebuilt := c.WithMembers(members)
	if w.err != nil {
		return rebuilt
	}
	out, more := w.v.VisitClass(w.ec, rebuilt)
	w.schedule(more)
	if out == nil {
		return rebuilt
	}
	if out != c {
		w.rewrites++
	}
	return out
}

func (w *walker) member(owner *tree.ClassDecl, m tree.Member) tree.Member {
	if w.stop() {
		return m
	}
	if nested, ok := m.(*tree.ClassDecl); ok {
		return w.class(nested)
	}
	out, more := w.v.VisitMember(w.ec, owner, m)
	w.schedule(more)
	if out == nil {
		return m
	}
	if out != m {
		w.rewrites++
	}
	return out
}

func (w *walker) schedule(steps []Deferred) {
	for _, s := range steps {
		if s.Visitor != nil {
			w.deferred = append(w.deferred, s)
		}
	}
}
