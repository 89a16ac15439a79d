package lint

import (
	"propguard/internal/ast"
	"propguard/internal/checker"
	"propguard/internal/diag"
)

// Enabled is a rule with the settings it runs under.
type Enabled struct {
	Rule     Rule
	Severity diag.Severity
	Options  Options
}

// Runner lints files of one bound program.
type Runner struct {
	b       *ast.Builder
	checker *checker.Checker
	rules   []Enabled
}

// NewRunner creates a runner. c may be nil; rules that need type information
// then register no handlers.
func NewRunner(b *ast.Builder, c *checker.Checker, rules []Enabled) *Runner {
	return &Runner{b: b, checker: c, rules: rules}
}

// LintFile runs every enabled rule over file and returns the number of
// diagnostics reported.
func (r *Runner) LintFile(file ast.FileID, rep diag.Reporter) int {
	ctxs := make([]*Context, 0, len(r.rules))
	var idents []func(ast.IdentID, []ast.Node)
	for _, e := range r.rules {
		ctx := NewContext(e.Rule.Meta(), r.b, r.checker, file, e.Options, e.Severity, rep)
		h := e.Rule.Create(ctx)
		if h.empty() {
			continue
		}
		ctxs = append(ctxs, ctx)
		if h.JSXIdentifier != nil {
			idents = append(idents, h.JSXIdentifier)
		}
	}
	if len(idents) == 0 {
		return 0
	}

	stack := make([]ast.Node, 0, 64)
	ast.Walk(r.b, file, ast.VisitorFuncs{
		OnEnter: func(n ast.Node) bool {
			if n.Kind == ast.NodeIdent {
				id := ast.IdentID(n.ID)
				for _, fn := range idents {
					fn(id, stack)
				}
			}
			stack = append(stack, n)
			return true
		},
		OnLeave: func(ast.Node) {
			stack = stack[:len(stack)-1]
		},
	})

	n := 0
	for _, ctx := range ctxs {
		n += ctx.Reported()
	}
	return n
}
