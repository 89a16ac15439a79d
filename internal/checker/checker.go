// Package checker computes structural types for a bound program. It answers
// the queries of the deprecated-props rule: symbol at a location, alias
// targets, symbol and parameter types, call signatures and flattened members.
//
// Everything is computed lazily and memoized; a Checker is not safe for
// concurrent use.
package checker

import (
	"errors"

	"propguard/internal/ast"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// ErrNotDestructuring is returned by DestructuringAssignmentProperty when the
// identifier is not a key of an object literal used as an assignment target.
var ErrNotDestructuring = errors.New("identifier is not part of a destructuring assignment")

// ReactModule is the specifier whose exports get built-in component helpers.
const ReactModule = "react"

type instKey struct {
	sym  symbols.SymbolID
	args string
}

type propKey struct {
	obj   ast.ObjectID
	index int
}

// Checker is the type oracle of one program.
type Checker struct {
	b     *ast.Builder
	table *symbols.Table
	types *types.Interner
	bi    types.Builtins

	symTypes  map[symbols.SymbolID]types.TypeID
	symBusy   map[symbols.SymbolID]bool
	declared  map[instKey]types.TypeID
	aliasBusy map[instKey]bool
	typeExprs map[ast.TypeID]types.TypeID
	exprTypes map[ast.ExprID]types.TypeID
	exprBusy  map[ast.ExprID]bool
	patTypes  map[ast.PatternID]types.TypeID
	patBusy   map[ast.PatternID]bool
	funcTypes map[ast.FuncID]types.TypeID
	objTypes  map[ast.ObjectID]types.TypeID
	modTypes  map[ast.FileID]types.TypeID

	memberSyms map[ast.MemberID]symbols.SymbolID
	propSyms   map[propKey]symbols.SymbolID

	// contextual maps function expressions assigned to an annotated
	// declarator to the declarator's type annotation.
	contextual map[ast.FuncID]ast.TypeID
}

// New creates a checker over a lowered and bound program. A nil interner
// gets a fresh one.
func New(b *ast.Builder, table *symbols.Table, in *types.Interner) *Checker {
	if in == nil {
		in = types.NewInterner()
	}
	c := &Checker{
		b:          b,
		table:      table,
		types:      in,
		bi:         in.Builtins(),
		symTypes:   make(map[symbols.SymbolID]types.TypeID),
		symBusy:    make(map[symbols.SymbolID]bool),
		declared:   make(map[instKey]types.TypeID),
		aliasBusy:  make(map[instKey]bool),
		typeExprs:  make(map[ast.TypeID]types.TypeID),
		exprTypes:  make(map[ast.ExprID]types.TypeID),
		exprBusy:   make(map[ast.ExprID]bool),
		patTypes:   make(map[ast.PatternID]types.TypeID),
		patBusy:    make(map[ast.PatternID]bool),
		funcTypes:  make(map[ast.FuncID]types.TypeID),
		objTypes:   make(map[ast.ObjectID]types.TypeID),
		modTypes:   make(map[ast.FileID]types.TypeID),
		memberSyms: make(map[ast.MemberID]symbols.SymbolID),
		propSyms:   make(map[propKey]symbols.SymbolID),
		contextual: make(map[ast.FuncID]ast.TypeID),
	}
	c.collectContextual()
	return c
}

// Types exposes the interner holding every computed type.
func (c *Checker) Types() *types.Interner { return c.types }

// Table exposes the symbol table the checker resolves against.
func (c *Checker) Table() *symbols.Table { return c.table }

// Builder exposes the AST the checker reads.
func (c *Checker) Builder() *ast.Builder { return c.b }

// collectContextual records `const C: T = (props) => ...` so that parameters
// without annotations take their type from T.
func (c *Checker) collectContextual() {
	n := c.b.Stmts.Len()
	for i := uint32(1); i <= n; i++ {
		stmt := c.b.Stmt(ast.StmtID(i))
		if stmt == nil || stmt.Kind != ast.StmtVar {
			continue
		}
		for _, d := range stmt.Decls {
			if !d.Type.IsValid() || !d.Init.IsValid() {
				continue
			}
			if fn := c.funcOf(d.Init); fn.IsValid() {
				c.contextual[fn] = d.Type
			}
		}
	}
}

// funcOf unwraps parentheses and assertions down to a function expression.
func (c *Checker) funcOf(id ast.ExprID) ast.FuncID {
	for hops := 0; id.IsValid() && hops < 32; hops++ {
		e := c.b.Expr(id)
		switch e.Kind {
		case ast.ExprFunc:
			return e.Func
		case ast.ExprParen, ast.ExprSatisfies, ast.ExprNonNull:
			id = e.X
		default:
			return ast.NoFuncID
		}
	}
	return ast.NoFuncID
}

func (c *Checker) str(s string) types.TypeID { return c.types.StringLiteral(s) }
