package parser

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	sitter "github.com/smacker/go-tree-sitter"

	"propguard/internal/diag"
	"propguard/internal/source"
)

const snippetLimit = 24

// reportSyntaxErrors walks only the subtrees tree-sitter flagged and reports
// ERROR and missing nodes in source order.
func (l *lowerer) reportSyntaxErrors(root *sitter.Node) {
	if root == nil || !root.HasError() {
		return
	}
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case n.IsMissing():
			if !l.report(diag.SynMissingToken, l.span(n), fmt.Sprintf("missing %q", n.Type())) {
				return
			}
			continue
		case n.Type() == "ERROR":
			if !l.report(diag.SynUnexpectedToken, l.span(n), fmt.Sprintf("unexpected syntax near %q", snippet(l.text(n)))) {
				return
			}
			continue
		case !n.HasError():
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if c := n.Child(i); c != nil {
				stack = append(stack, c)
			}
		}
	}
}

// report returns false once the per-file limit is reached.
func (l *lowerer) report(code diag.Code, sp source.Span, msg string) bool {
	if l.opts.MaxErrors > 0 && l.errors >= l.opts.MaxErrors {
		return false
	}
	l.errors++
	diag.ReportError(l.reporter, code, sp, msg).Emit()
	return true
}

func snippet(s string) string {
	return runewidth.Truncate(strings.Join(strings.Fields(s), " "), snippetLimit, "...")
}
