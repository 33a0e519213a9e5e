// Package diag defines the diagnostic model shared by the parser, the
// rewrite rules and the driver.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     while parsing and rewriting source files.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fixes as structured text edits that the fix engine can apply.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the finding.
//   - Notes – optional secondary spans/messages.
//   - Fixes – optional Fix records.
//
// A rule that can rewrite a class reports an Info diagnostic carrying a Fix;
// a finding the rule refuses to rewrite is reported as a Warning without one.
//
// TextEdit spans are byte offsets in the original file; OldText acts as an
// optional guard that the fix engine checks before applying an edit.
//
// Rendering lives in internal/diagfmt, application of fixes in internal/fix.
package diag
