package hideutil

import (
	"recast/internal/style"
	"recast/internal/tree"
)

// Shape is what the rule needs to know about a class. It is derived on
// demand and never stored on the tree.
type Shape struct {
	HasExplicitConstructor      bool
	AllMembersStatic            bool
	HasSupertype                bool
	Sealed                      bool
	IsAbstractOrInterfaceOrEnum bool
	HasStaticMember             bool
	HasMainMethod               bool
	IgnoredByAnnotation         bool
	NoArgConstructors           int
	ParamConstructors           int
}

// ShapeOf inspects the direct members of c. Constructors and nested types
// are not taken into account for AllMembersStatic.
func ShapeOf(c *tree.ClassDecl, st style.HideUtilityClassConstructor) Shape {
	s := Shape{
		AllMembersStatic:            true,
		HasSupertype:                c.HasSupertype(),
		Sealed:                      c.IsSealed(),
		IsAbstractOrInterfaceOrEnum: c.ClassKind != tree.ClassKindClass || c.IsAbstract(),
		IgnoredByAnnotation:         tree.AnnotatedWith(c.Annotations, st.IgnoreIfAnnotatedBy),
	}
	for _, m := range c.Members {
		switch n := m.(type) {
		case *tree.Constructor:
			s.HasExplicitConstructor = true
			if n.IsNoArg() {
				s.NoArgConstructors++
			} else {
				s.ParamConstructors++
			}
		case *tree.ClassDecl:
			// nested types do not make the outer class instantiable
		case *tree.Method:
			if n.IsMain() {
				s.HasMainMethod = true
			}
			s.observe(m)
		default:
			s.observe(m)
		}
	}
	return s
}

func (s *Shape) observe(m tree.Member) {
	if !tree.IsStatic(m) {
		s.AllMembersStatic = false
		return
	}
	if _, ok := m.(*tree.Initializer); !ok {
		s.HasStaticMember = true
	}
}

// Utility reports the shape of a utility class.
func (s Shape) Utility() bool {
	return !s.IsAbstractOrInterfaceOrEnum && !s.HasSupertype && !s.Sealed && s.AllMembersStatic && s.HasStaticMember
}

// IsUtilityClass reports whether c is a plain, non-abstract, non-sealed class
// without supertypes whose own fields, methods and initializers are all static and
// which declares at least one static field or method.
func IsUtilityClass(c *tree.ClassDecl) bool {
	if c == nil {
		return false
	}
	return ShapeOf(c, style.HideUtilityClassConstructor{}).Utility()
}

// IsRefactorable narrows IsUtilityClass to the classes the recipe touches:
// program entry points and classes carrying an ignore annotation are left
// alone.
func IsRefactorable(c *tree.ClassDecl, st style.HideUtilityClassConstructor) bool {
	if c == nil {
		return false
	}
	s := ShapeOf(c, st)
	return s.Utility() && !s.HasMainMethod && !s.IgnoredByAnnotation
}

// NeedsEdit is false when the constructors already satisfy st, and when a
// constructor with parameters exists, since that case is only reported.
func NeedsEdit(c *tree.ClassDecl, st style.HideUtilityClassConstructor) bool {
	ctors, _ := c.Constructors()
	switch {
	case len(ctors) == 0:
		return true
	case len(ctors) > 1:
		return false
	}
	k := ctors[0]
	if !k.IsNoArg() {
		return false
	}
	return !acceptable(k.Modifiers, st.Visibility)
}

// acceptable reports whether mods already hide the constructor enough.
// A protected constructor passes a private target; it exists for subclasses.
func acceptable(mods tree.Modifiers, target style.Visibility) bool {
	if mods.SameKinds(targetModifiers(target)) {
		return true
	}
	return target == style.VisibilityPrivate && mods.SameKinds(tree.Mods(tree.ModProtected))
}

func targetModifiers(v style.Visibility) tree.Modifiers {
	switch v {
	case style.VisibilityProtected:
		return tree.Mods(tree.ModProtected)
	case style.VisibilityPackagePrivate:
		return nil
	default:
		return tree.Mods(tree.ModPrivate)
	}
}
