// Package rewrite runs recipes over syntax trees.
//
// A Visitor has one hook per node kind. Walk drives a visitor over a tree
// children first, rebuilding a parent only when one of its children came
// back as a different node. Hooks may schedule follow-up visitors by
// returning Deferred steps; Run consumes them in FIFO order, each step
// seeing the output of every step before it.
package rewrite
