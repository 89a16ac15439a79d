// Package lint hosts rules over the arena AST: it walks each file, hands JSX
// identifiers with their ancestor chain to the rules that asked for them and
// turns rule reports into diagnostics.
package lint

import (
	"propguard/internal/ast"
	"propguard/internal/diag"
)

// Type classifies what a rule reports.
type Type string

const (
	TypeProblem    Type = "problem"
	TypeSuggestion Type = "suggestion"
	TypeLayout     Type = "layout"
)

// Message is a report template addressed by id. Placeholders are written
// `{{ key }}`.
type Message struct {
	Template string
	Code     diag.Code
}

// Meta describes a rule.
type Meta struct {
	Name string
	// Aliases are accepted wherever the name is.
	Aliases              []string
	Type                 Type
	Description          string
	RequiresTypeChecking bool
	URL                  string
	Messages             map[string]Message
	Options              []OptionSpec
	DefaultSeverity      diag.Severity
}

// Handlers are the node callbacks a rule registers for one file. Nil fields
// are not called.
type Handlers struct {
	// JSXIdentifier receives JSX tag, closing tag and attribute name
	// identifiers in source order. ancestors is root-first and excludes the
	// identifier itself; it is only valid for the duration of the call.
	JSXIdentifier func(ident ast.IdentID, ancestors []ast.Node)
}

func (h Handlers) empty() bool {
	return h.JSXIdentifier == nil
}

// Rule creates per-file handlers.
type Rule interface {
	Meta() Meta
	Create(ctx *Context) Handlers
}
