package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"recast/internal/diag"
	"recast/internal/source"
	"recast/internal/tree"
)

// ErrSyntax is returned when the file has syntax errors. The errors
// themselves are reported as diagnostics.
var ErrSyntax = errors.New("syntax errors")

const packageQuery = `(package_declaration [(identifier) (scoped_identifier)] @pkg)`

// Parser is safe for concurrent use; each Parse call gets its own
// tree-sitter parser.
type Parser struct {
	lang *sitter.Language
}

func New() *Parser {
	return &Parser{lang: java.GetLanguage()}
}

// Parse builds the tree for file. Syntax errors are reported to reporter
// and make Parse return ErrSyntax with a nil unit.
func (p *Parser) Parse(ctx context.Context, file *source.File, reporter diag.Reporter) (*tree.CompilationUnit, error) {
	if file == nil {
		return nil, fmt.Errorf("parse: nil file")
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	ts := sitter.NewParser()
	defer ts.Close()
	ts.SetLanguage(p.lang)

	parsed, err := ts.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Path, err)
	}
	defer parsed.Close()

	root := parsed.RootNode()
	b := &builder{file: file, src: file.Content, reporter: reporter}
	if root.HasError() {
		b.reportSyntax(root)
		return nil, fmt.Errorf("%s: %w", file.Path, ErrSyntax)
	}

	unit := &tree.CompilationUnit{
		ID:      b.nextID(),
		File:    file.ID,
		Path:    file.Path,
		Package: p.packageName(root, file.Content),
		Span:    b.span(root),
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if c := b.typeDecl(root.NamedChild(i)); c != nil {
			unit.Types = append(unit.Types, c)
		}
	}
	return unit, nil
}

func (p *Parser) packageName(root *sitter.Node, src []byte) string {
	q, err := sitter.NewQuery([]byte(packageQuery), p.lang)
	if err != nil {
		return ""
	}
	defer q.Close()
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)
	if m, ok := qc.NextMatch(); ok && len(m.Captures) > 0 {
		return m.Captures[0].Node.Content(src)
	}
	return ""
}
