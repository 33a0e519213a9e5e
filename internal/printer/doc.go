// Package printer maps tree rewrites back onto the original text.
//
// Rather than reprinting whole files, Diff compares the tree a recipe
// started from with the tree it produced and emits the smallest text edits
// that turn one into the other: inserted members, replaced modifier
// keywords and removed members. Every byte outside those edits, comments
// and formatting included, is left as written.
package printer
