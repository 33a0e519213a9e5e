// Package parser turns Java source into a tree.CompilationUnit using
// tree-sitter. Only declarations are modelled; method and constructor
// bodies stay as source spans.
package parser
