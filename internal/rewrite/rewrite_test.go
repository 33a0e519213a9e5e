package rewrite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recast/internal/diag"
	"recast/internal/tree"
)

func newUnit() *tree.CompilationUnit {
	inner := &tree.ClassDecl{ID: 3, Name: "Inner", Members: []tree.Member{
		&tree.Method{ID: 4, Name: "g", ReturnType: "void", Modifiers: tree.Mods(tree.ModStatic), HasBody: true},
	}}
	outer := &tree.ClassDecl{ID: 1, Name: "Outer", Members: []tree.Member{
		&tree.Field{ID: 2, Type: "int", Names: []string{"x"}},
		inner,
	}}
	other := &tree.ClassDecl{ID: 5, Name: "Other"}
	return &tree.CompilationUnit{ID: 100, Types: []*tree.ClassDecl{outer, other}}
}

// renamer appends a suffix to the class with the given name.
type renamer struct {
	BaseVisitor
	target, suffix string
	next           []Deferred
	log            *[]string
}

func (r renamer) Name() string { return "rename-" + r.target }

func (r renamer) VisitClass(_ *Context, c *tree.ClassDecl) (*tree.ClassDecl, []Deferred) {
	if r.log != nil {
		*r.log = append(*r.log, r.Name()+":"+c.Name)
	}
	if c.Name != r.target {
		return c, nil
	}
	cp := *c
	cp.Name += r.suffix
	return &cp, r.next
}

func TestWalkUnchangedReturnsSamePointer(t *testing.T) {
	u := newUnit()
	out, deferred, err := Walk(NewContext(context.Background(), nil), renamer{target: "Missing"}, u)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if out != tree.Node(u) || len(deferred) != 0 {
		t.Fatalf("expected identical tree and no deferred steps")
	}
}

func TestWalkRebuildsOnlyPathToChange(t *testing.T) {
	u := newUnit()
	out, _, err := Walk(NewContext(context.Background(), nil), renamer{target: "Inner", suffix: "2"}, u)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := out.(*tree.CompilationUnit)
	if got == u {
		t.Fatalf("unit not rebuilt")
	}
	if got.Types[1] != u.Types[1] {
		t.Errorf("untouched sibling type recopied")
	}
	outer := got.Types[0]
	if outer == u.Types[0] {
		t.Fatalf("outer class not rebuilt")
	}
	if outer.Members[0] != u.Types[0].Members[0] {
		t.Errorf("outer field recopied")
	}
	inner := outer.Members[1].(*tree.ClassDecl)
	if inner.Name != "Inner2" {
		t.Errorf("inner name = %q", inner.Name)
	}
	if inner.Members[0] != u.Types[0].Members[1].(*tree.ClassDecl).Members[0] {
		t.Errorf("inner method recopied")
	}
	if u.Types[0].Members[1].(*tree.ClassDecl).Name != "Inner" {
		t.Errorf("input tree mutated")
	}
}

func TestWalkChildrenBeforeParent(t *testing.T) {
	var log []string
	_, _, err := Walk(NewContext(context.Background(), nil), renamer{target: "-", log: &log}, newUnit())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := "rename--:Inner,rename--:Outer,rename--:Other"
	if got := strings.Join(log, ","); got != want {
		t.Fatalf("visit order = %s, want %s", got, want)
	}
}

func TestWalkNilRoot(t *testing.T) {
	ec := NewContext(context.Background(), nil)
	if _, _, err := Walk(ec, renamer{}, nil); !errors.Is(err, ErrNilRoot) {
		t.Fatalf("nil interface: err = %v", err)
	}
	var u *tree.CompilationUnit
	if _, _, err := Walk(ec, renamer{}, u); !errors.Is(err, ErrNilRoot) {
		t.Fatalf("typed nil: err = %v", err)
	}
	if _, err := Run(ec, nil, renamer{}); !errors.Is(err, ErrNilRoot) {
		t.Fatalf("Run nil: err = %v", err)
	}
}

func TestWalkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	u := newUnit()
	out, _, err := Walk(NewContext(ctx, nil), renamer{target: "Outer", suffix: "X"}, u)
	if !errors.Is(err, ErrCancelled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if out != tree.Node(u) {
		t.Fatalf("nothing should have been rewritten")
	}
}

// cancelAfter cancels the context the first time it sees the named class.
type cancelAfter struct {
	BaseVisitor
	name   string
	cancel context.CancelFunc
}

func (c cancelAfter) Name() string { return "cancel" }

func (c cancelAfter) VisitClass(_ *Context, cd *tree.ClassDecl) (*tree.ClassDecl, []Deferred) {
	if cd.Name != c.name {
		return cd, nil
	}
	c.cancel()
	cp := *cd
	cp.Name = "Seen"
	return &cp, nil
}

func TestWalkCancelledMidwayKeepsPartialTree(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	u := newUnit()
	out, _, err := Walk(NewContext(ctx, nil), cancelAfter{name: "Inner", cancel: cancel}, u)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v", err)
	}
	got := out.(*tree.CompilationUnit)
	inner := got.Types[0].Members[1].(*tree.ClassDecl)
	if inner.Name != "Seen" {
		t.Fatalf("partial rewrite lost: %q", inner.Name)
	}
	if got.Types[1] != u.Types[1] {
		t.Fatalf("class after cancellation must stay untouched")
	}
}

func TestRunDeferredFIFO(t *testing.T) {
	var log []string
	third := renamer{target: "OuterAB", suffix: "C", log: &log}
	second := renamer{target: "OuterA", suffix: "B", next: []Deferred{{Visitor: third}}, log: &log}
	first := renamer{target: "Outer", suffix: "A", next: []Deferred{{Visitor: second}}, log: &log}

	out, err := Run(NewContext(context.Background(), nil), newUnit(), first)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.Types[0].Name; got != "OuterABC" {
		t.Fatalf("cumulative name = %q", got)
	}
	// each step walks the whole unit once
	if len(log) != 9 {
		t.Fatalf("expected 9 class visits, got %d: %v", len(log), log)
	}
}

func TestRunSiblingStepsInRegistrationOrder(t *testing.T) {
	var log []string
	// appendB only matches after appendA ran
	appendA := renamer{target: "Outer1", suffix: "A", log: &log}
	appendB := renamer{target: "Outer1A", suffix: "B", log: &log}
	first := renamer{target: "Outer", suffix: "1", next: []Deferred{{Visitor: appendA}, {Visitor: appendB}}}

	out, err := Run(NewContext(context.Background(), nil), newUnit(), first)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.Types[0].Name; got != "Outer1AB" {
		t.Fatalf("name = %q, want Outer1AB", got)
	}
	if len(log) != 6 || log[0] != "rename-Outer1:Inner" || log[3] != "rename-Outer1A:Inner" {
		t.Fatalf("steps out of order: %v", log)
	}
}

// marker schedules one scoped step per class it sees.
type marker struct {
	BaseVisitor
	log *[]string
}

func (marker) Name() string { return "marker" }

func (m marker) VisitClass(_ *Context, c *tree.ClassDecl) (*tree.ClassDecl, []Deferred) {
	return c, []Deferred{{Visitor: stamp{id: c.ID, log: m.log}, Scope: c.ID}}
}

type stamp struct {
	BaseVisitor
	id  tree.NodeID
	log *[]string
}

func (stamp) Name() string { return "stamp" }

func (s stamp) VisitClass(_ *Context, c *tree.ClassDecl) (*tree.ClassDecl, []Deferred) {
	if c.ID == s.id {
		*s.log = append(*s.log, c.Name)
	}
	return c, nil
}

func TestRunStepsFromSeveralHooksKeepTraversalOrder(t *testing.T) {
	var log []string
	if _, err := Run(NewContext(context.Background(), nil), newUnit(), marker{log: &log}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// children are visited before their owner
	want := []string{"Inner", "Outer", "Other"}
	if strings.Join(log, ",") != strings.Join(want, ",") {
		t.Fatalf("stamps = %v, want %v", log, want)
	}
}

func TestNilContextDefaultsToBackground(t *testing.T) {
	out, err := Run(nil, newUnit(), renamer{target: "Other", suffix: "X"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Types[1].Name != "OtherX" {
		t.Fatalf("rename lost: %q", out.Types[1].Name)
	}
	if _, _, err := Walk(nil, renamer{target: "Outer"}, newUnit()); err != nil {
		t.Fatalf("Walk: %v", err)
	}
}

func TestRunScopedDeferred(t *testing.T) {
	scoped := renamer{target: "Inner", suffix: "S"}
	first := renamer{target: "Outer", suffix: "", next: []Deferred{{Visitor: scoped, Scope: 3}}}

	out, err := Run(NewContext(context.Background(), nil), newUnit(), first)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	inner := out.Types[0].Members[1].(*tree.ClassDecl)
	if inner.Name != "InnerS" {
		t.Fatalf("scoped step not applied: %q", inner.Name)
	}
}

func TestRunScopeGoneIsSkipped(t *testing.T) {
	scoped := renamer{target: "Inner", suffix: "S"}
	first := renamer{target: "Outer", next: []Deferred{{Visitor: scoped, Scope: 42}}}
	u := newUnit()
	out, err := Run(NewContext(context.Background(), nil), u, first)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Types[0].Members[1].(*tree.ClassDecl).Name != "Inner" {
		t.Fatalf("missing scope must not run")
	}
}

// looper schedules itself forever.
type looper struct{ BaseVisitor }

func (looper) Name() string { return "loop" }

func (l looper) VisitUnit(_ *Context, u *tree.CompilationUnit) (*tree.CompilationUnit, []Deferred) {
	return u, []Deferred{{Visitor: l}}
}

func TestRunDeferredLimit(t *testing.T) {
	u := newUnit()
	out, err := Run(NewContext(context.Background(), nil), u, looper{})
	if !errors.Is(err, ErrDeferredLimit) {
		t.Fatalf("err = %v", err)
	}
	if out != u {
		t.Fatalf("last good tree must be returned")
	}
}

func TestRuleApply(t *testing.T) {
	c := &tree.ClassDecl{ID: 1, Name: "A"}
	r := Rule{
		Name:      "add-field",
		Predicate: func(c *tree.ClassDecl) bool { return len(c.Members) == 0 },
		Edit: func(c *tree.ClassDecl) *tree.ClassDecl {
			return c.InsertMember(0, &tree.Field{Type: "int", Names: []string{"n"}})
		},
	}
	once := r.Apply(c)
	if once == c || len(once.Members) != 1 {
		t.Fatalf("rule not applied")
	}
	if twice := r.Apply(once); twice != once {
		t.Fatalf("rule must not fire when predicate is false")
	}
}

func TestContextReporter(t *testing.T) {
	bag := diag.NewBag(10)
	ec := NewContext(context.Background(), diag.BagReporter{Bag: bag})
	diag.ReportWarning(ec.Reporter(), diag.RuleUtilityCtorWithParams, tree.NewConstructor("X").Span, "x").Emit()
	if bag.Len() != 1 {
		t.Fatalf("reporter not wired, bag has %d", bag.Len())
	}
	if err := ec.Err(); err != nil {
		t.Fatalf("live context reported %v", err)
	}
}

type fakeRecipe struct {
	name string
	tags []string
}

func (f fakeRecipe) Name() string        { return f.name }
func (f fakeRecipe) DisplayName() string { return f.name }
func (f fakeRecipe) Description() string { return "" }
func (f fakeRecipe) Tags() []string      { return f.tags }
func (f fakeRecipe) Visitor() Visitor    { return renamer{} }

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(fakeRecipe{name: "b", tags: []string{"RSPEC-1118"}}, fakeRecipe{name: "a"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if err := reg.Register(fakeRecipe{name: "a"}); err == nil {
		t.Fatalf("duplicate name accepted")
	}
	all := reg.All()
	if len(all) != 2 || all[0].Name() != "a" {
		t.Fatalf("All not sorted: %v", all)
	}
	if got := reg.WithTag("rspec-1118"); len(got) != 1 || got[0].Name() != "b" {
		t.Fatalf("WithTag = %v", got)
	}
	if _, err := reg.Select([]string{"zzz"}); err == nil {
		t.Fatalf("unknown recipe accepted")
	}
	sel, err := reg.Select([]string{"b", "b"})
	if err != nil || len(sel) != 1 {
		t.Fatalf("Select = %v, %v", sel, err)
	}
}
