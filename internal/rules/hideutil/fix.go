package hideutil

import (
	"recast/internal/style"
	"recast/internal/tree"
)

// ApplyFix hides the constructor of a utility class:
//   - with no constructor, `<target> Name() {}` becomes the first member;
//   - a single no-arg constructor gets exactly the target modifiers, keeping
//     its annotations and body;
//   - with parameterised constructors nothing changes.
//
// Every other member keeps its identity, and ApplyFix(ApplyFix(c)) returns
// the same pointer as ApplyFix(c).
func ApplyFix(c *tree.ClassDecl, st style.HideUtilityClassConstructor) *tree.ClassDecl {
	if c == nil || !NeedsEdit(c, st) {
		return c
	}
	target := targetModifiers(st.Visibility)
	ctors, idx := c.Constructors()
	if len(ctors) == 0 {
		return c.InsertMember(0, tree.NewConstructor(c.Name, target.Kinds()...))
	}
	return c.ReplaceMember(idx[0], ctors[0].WithModifiers(target))
}
