package rewrite

import (
	"fmt"
	"strconv"

	"recast/internal/trace"
	"recast/internal/tree"
)

// MaxDeferred caps the follow-up steps one top-level visitor may cause.
const MaxDeferred = 64

// Run walks u with each visitor in order. After a visitor's own traversal
// its deferred steps run FIFO, each over the cumulative result, before the
// next top-level visitor starts. The last good tree is returned alongside
// any error. A nil ec behaves like a background context.
func Run(ec *Context, u *tree.CompilationUnit, visitors ...Visitor) (*tree.CompilationUnit, error) {
	if u == nil {
		return nil, ErrNilRoot
	}
	ec = ec.orBackground()
	cur := u
	for _, v := range visitors {
		if v == nil {
			continue
		}
		next, err := drain(ec, cur, v)
		if next != nil {
			cur = next
		}
		if err != nil {
			return cur, err
		}
	}
	return cur, nil
}

func drain(ec *Context, u *tree.CompilationUnit, v Visitor) (*tree.CompilationUnit, error) {
	span := trace.Begin(ec.tracer, trace.ScopePass, "recipe:"+v.Name(), ec.parent)
	steps := 0
	cur, err := func() (*tree.CompilationUnit, error) {
		queue := []Deferred{{Visitor: v}}
		cur := u
		for len(queue) > 0 {
			step := queue[0]
			queue = queue[1:]
			if steps > MaxDeferred {
				return cur, fmt.Errorf("%w: %s scheduled more than %d steps", ErrDeferredLimit, v.Name(), MaxDeferred)
			}
			steps++

			next, more, err := runStep(ec, cur, step)
			if next != nil {
				cur = next
			}
			if err != nil {
				return cur, err
			}
			queue = append(queue, more...)
		}
		return cur, nil
	}()
	span.WithExtra("steps", strconv.Itoa(steps)).Fail(err)
	return cur, err
}

func runStep(ec *Context, u *tree.CompilationUnit, step Deferred) (*tree.CompilationUnit, []Deferred, error) {
	if !step.Scope.IsValid() {
		out, more, err := Walk(ec, step.Visitor, u)
		cu, _ := out.(*tree.CompilationUnit)
		return cu, more, err
	}
	target := u.FindClass(step.Scope)
	if target == nil {
		trace.Point(ec.tracer, trace.ScopeNode, "skip:"+step.Visitor.Name(),
			fmt.Sprintf("scope %d no longer in tree", step.Scope), ec.parent)
		return u, nil, nil
	}
	out, more, err := Walk(ec, step.Visitor, target)
	repl, _ := out.(*tree.ClassDecl)
	if repl == nil || repl == target {
		return u, more, err
	}
	if !repl.ID.IsValid() {
		cp := *repl
		cp.ID = target.ID
		repl = &cp
	}
	next, ok := u.ReplaceClass(repl)
	if !ok {
		return u, more, fmt.Errorf("rewrite: class %d vanished during %s", step.Scope, step.Visitor.Name())
	}
	return next, more, err
}
