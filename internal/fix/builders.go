package fix

import (
	"slices"

	"recast/internal/diag"
	"recast/internal/source"
)

// Option adjusts a fix built by this package. Nil options are ignored.
type Option func(*diag.Fix)

func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) { f.Kind = kind }
}

func WithID(id string) Option {
	return func(f *diag.Fix) { f.ID = id }
}

// Preferred marks the fix --once picks first.
func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

// WithRequiresAll marks a fix that is only valid together with the rest of
// its batch; --once and --id skip it.
func WithRequiresAll() Option {
	return func(f *diag.Fix) { f.RequiresAll = true }
}

// FromEdits wraps edits, such as the output of a tree diff, into an
// always-safe quick fix. Each edit's OldText guards the bytes it replaces.
func FromEdits(title string, edits []diag.TextEdit, opts ...Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         slices.Clone(edits),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

func single(title string, span source.Span, newText, oldText string, opts []Option) diag.Fix {
	return FromEdits(title, []diag.TextEdit{{Span: span, NewText: newText, OldText: oldText}}, opts...)
}

// InsertText inserts text at an empty span; guard, when set, must equal the
// bytes at that span (always "" for a pure insertion).
func InsertText(title string, at source.Span, text, guard string, opts ...Option) diag.Fix {
	return single(title, at, text, guard, opts)
}

// DeleteSpan removes span, which must currently read expect.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	return single(title, span, "", expect, opts)
}

// ReplaceSpan replaces span, which must currently read expect, with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return single(title, span, newText, expect, opts)
}
