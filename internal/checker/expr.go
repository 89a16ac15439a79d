package checker

import (
	"propguard/internal/ast"
	"propguard/internal/source"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// exprType infers the type of an expression. Inference is shallow: calls
// take the result of the callee's first signature and unknown forms are
// `any`.
func (c *Checker) exprType(id ast.ExprID) types.TypeID {
	if t, ok := c.exprTypes[id]; ok {
		return t
	}
	e := c.b.Expr(id)
	if e == nil || c.exprBusy[id] {
		return c.bi.Any
	}
	c.exprBusy[id] = true
	t := c.inferExpr(e)
	delete(c.exprBusy, id)
	c.exprTypes[id] = t
	return t
}

func (c *Checker) inferExpr(e *ast.Expr) types.TypeID {
	switch e.Kind {
	case ast.ExprIdent:
		ident := c.b.Ident(e.Ident)
		if ident == nil {
			return c.bi.Any
		}
		sym := c.table.LookupAt(ident.Scope, ident.Name, symbols.MeaningValue)
		if !sym.IsValid() {
			if c.b.Str(ident.Name) == "undefined" {
				return c.bi.Undefined
			}
			return c.bi.Any
		}
		return c.TypeOfSymbol(sym)

	case ast.ExprObject:
		return c.objectType(e.Object)

	case ast.ExprFunc:
		return c.funcType(e.Func)

	case ast.ExprCall:
		if name, ok := c.reactCallee(e.X); ok {
			return c.reactCall(name, e)
		}
		sigs := c.types.CallSignatures(c.exprType(e.X))
		if len(sigs) == 0 {
			return c.bi.Any
		}
		return sigs[0].Result

	case ast.ExprMember:
		m, ok := c.types.Property(c.exprType(e.X), e.Text)
		if !ok {
			return c.bi.Any
		}
		return m.Type

	case ast.ExprAs:
		if c.isConstAssertion(e.Type) {
			return c.exprType(e.X)
		}
		return c.typeFrom(e.Type, nil)

	case ast.ExprSatisfies, ast.ExprParen:
		return c.exprType(e.X)

	case ast.ExprNonNull:
		return c.types.NonNullable(c.exprType(e.X))

	case ast.ExprString:
		return c.types.StringLiteral(e.Text)

	case ast.ExprNumber:
		return c.types.Literal(types.Literal{Kind: types.LitNumber, Text: e.Text})

	case ast.ExprBool:
		if e.Text == "true" {
			return c.bi.True
		}
		return c.bi.False

	case ast.ExprNull:
		return c.bi.Null

	case ast.ExprUndefined:
		return c.bi.Undefined

	case ast.ExprTemplate:
		return c.bi.String

	case ast.ExprArray:
		if len(e.List) == 0 {
			return c.types.Intern(types.MakeArray(c.bi.Never))
		}
		elems := make([]types.TypeID, 0, len(e.List))
		for _, el := range e.List {
			elems = append(elems, c.types.Widen(c.exprType(el)))
		}
		return c.types.Intern(types.MakeArray(c.types.Union(elems...)))

	case ast.ExprAssign:
		return c.exprType(e.Y)
	}
	return c.bi.Any
}

// isConstAssertion reports `x as const`.
func (c *Checker) isConstAssertion(id ast.TypeID) bool {
	te := c.b.Type(id)
	return te != nil && te.Kind == ast.TypeRef && len(te.Name) == 1 && c.b.Name(te.Name[0]) == "const"
}

// objectType is the type of an object literal. Entries become members with
// widened value types and their own property symbols; spreads merge the
// members of the spread value, later entries winning.
func (c *Checker) objectType(id ast.ObjectID) types.TypeID {
	if t, ok := c.objTypes[id]; ok {
		return t
	}
	obj := c.b.Object(id)
	if obj == nil {
		return c.bi.Any
	}
	var span source.Span
	if e := c.b.Expr(obj.Expr); e != nil {
		span = e.Span
	}
	t := c.types.RegisterObject("", span)
	c.objTypes[id] = t

	var lists [][]types.Member
	for i, p := range obj.Props {
		if p.Kind == ast.PropSpread {
			lists = append(lists, c.types.Properties(c.exprType(p.Value)))
			continue
		}
		if p.Name == source.NoStringID {
			continue
		}
		m := types.Member{
			Name:   c.b.Str(p.Name),
			Symbol: c.objectPropSymbol(id, i),
			Span:   p.Span,
		}
		switch p.Kind {
		case ast.PropPair:
			m.Type = c.types.Widen(c.exprType(p.Value))
		case ast.PropShorthand:
			m.Type = c.shorthandType(p)
		case ast.PropMethod:
			m.Type = c.funcType(p.Func)
		}
		lists = append(lists, []types.Member{m})
	}
	c.types.SetMembers(t, types.MergeMembers(lists...), nil)
	return t
}

func (c *Checker) shorthandType(p ast.ObjectProp) types.TypeID {
	ident := c.b.Ident(p.Key)
	if ident == nil {
		return c.bi.Any
	}
	sym := c.table.LookupAt(ident.Scope, ident.Name, symbols.MeaningValue)
	if !sym.IsValid() {
		return c.bi.Any
	}
	return c.types.Widen(c.TypeOfSymbol(sym))
}
