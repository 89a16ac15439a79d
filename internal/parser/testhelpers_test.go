package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"propguard/internal/ast"
	"propguard/internal/diag"
	"propguard/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// parseSource разбирает строку как файл с именем name
func parseSource(t *testing.T, name, input string) (*ast.Builder, *ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(input))
	b := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(100)
	res, err := ParseFile(context.Background(), fs, fileID, b, Options{MaxErrors: 100, Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return b, b.File(res.File), bag
}

func mustClean(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
}

func firstElement(t *testing.T, b *ast.Builder) *ast.Element {
	t.Helper()
	for i, e := range b.Exprs.Slice() {
		if e.Kind == ast.ExprJSX {
			return b.Element(b.Expr(ast.ExprID(i + 1)).Element)
		}
	}
	t.Fatalf("no JSX element lowered")
	return nil
}
