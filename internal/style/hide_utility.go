package style

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks a style value that cannot be applied as written.
var ErrMalformed = errors.New("malformed style")

// Visibility is the access level a hidden constructor gets.
// The zero value is invalid.
type Visibility uint8

const (
	VisibilityInvalid Visibility = iota
	VisibilityPrivate
	VisibilityProtected
	VisibilityPackagePrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	case VisibilityPackagePrivate:
		return "package-private"
	default:
		return "invalid"
	}
}

func (v Visibility) IsValid() bool {
	return v >= VisibilityPrivate && v <= VisibilityPackagePrivate
}

// ParseVisibility is case-insensitive; "package", "package-private" and
// "package_private" all mean implicit access.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "private":
		return VisibilityPrivate, nil
	case "protected":
		return VisibilityProtected, nil
	case "package", "package-private", "package_private":
		return VisibilityPackagePrivate, nil
	default:
		return VisibilityInvalid, fmt.Errorf("%w: unknown visibility %q (must be private, protected or package-private)", ErrMalformed, s)
	}
}

// HideUtilityClassConstructor configures the hide-utility-class-constructor
// recipe.
type HideUtilityClassConstructor struct {
	Visibility Visibility
	// RawVisibility keeps the configured text for error messages.
	RawVisibility string
	// IgnoreIfAnnotatedBy lists annotations (simple or qualified) that exempt
	// a class from the rule.
	IgnoreIfAnnotatedBy []string
}

// DefaultHideUtilityClassConstructor is used when no style is configured or
// the configured one is malformed. Treat it as read-only.
var DefaultHideUtilityClassConstructor = HideUtilityClassConstructor{
	Visibility: VisibilityPrivate,
	IgnoreIfAnnotatedBy: []string{
		"lombok.experimental.UtilityClass",
		"lombok.NoArgsConstructor",
	},
}

func (HideUtilityClassConstructor) StyleKind() Kind { return KindHideUtilityClassConstructor }

// Validate reports ErrMalformed when the value cannot drive the rule.
func (s HideUtilityClassConstructor) Validate() error {
	if !s.Visibility.IsValid() {
		raw := s.RawVisibility
		if raw == "" {
			raw = s.Visibility.String()
		}
		return fmt.Errorf("%w: hide_utility_class_constructor.visibility %q", ErrMalformed, raw)
	}
	for _, name := range s.IgnoreIfAnnotatedBy {
		if strings.TrimSpace(name) == "" || strings.HasPrefix(name, "@") {
			return fmt.Errorf("%w: hide_utility_class_constructor.ignore_if_annotated_by entry %q", ErrMalformed, name)
		}
	}
	return nil
}
