package checker

import (
	"strings"

	"propguard/internal/ast"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// env binds type parameters to arguments while a generic declaration is
// instantiated.
type env map[symbols.SymbolID]types.TypeID

// typeFrom evaluates a type expression. Results without a substitution env
// are memoized per node.
func (c *Checker) typeFrom(id ast.TypeID, e env) types.TypeID {
	if !id.IsValid() {
		return c.bi.Any
	}
	if len(e) == 0 {
		if t, ok := c.typeExprs[id]; ok {
			return t
		}
	}
	t := c.evalType(id, e)
	if len(e) == 0 {
		c.typeExprs[id] = t
	}
	return t
}

func (c *Checker) evalType(id ast.TypeID, e env) types.TypeID {
	te := c.b.Type(id)
	if te == nil {
		return c.bi.Any
	}
	switch te.Kind {
	case ast.TypeRef:
		return c.refType(te, e)

	case ast.TypeObject:
		members, sigs := c.objectMembers(te.Members, e)
		return c.types.NewObject(members, sigs)

	case ast.TypeUnion:
		return c.types.Union(c.typeList(te.Args, e)...)

	case ast.TypeIntersection:
		return c.types.Intersection(c.typeList(te.Args, e)...)

	case ast.TypeFunc:
		return c.fnType(te.Func, e)

	case ast.TypeArray:
		return c.types.Intern(types.MakeArray(c.typeFrom(te.Elem, e)))

	case ast.TypeTuple:
		return c.types.Tuple(c.typeList(te.Args, e)...)

	case ast.TypeLiteral:
		return c.literalType(te)

	case ast.TypePredefined:
		return c.predefined(te.Text)

	case ast.TypeQuery:
		return c.TypeOfSymbol(c.AliasedSymbol(c.qualified(te.Name, symbols.MeaningValue)))

	case ast.TypeKeyof:
		return c.types.Keyof(c.typeFrom(te.Elem, e))

	case ast.TypeIndexed:
		return c.types.IndexedAccess(c.typeFrom(te.Elem, e), c.typeFrom(te.Index, e))
	}
	return c.bi.Any
}

// fnType is funcType under a substitution.
func (c *Checker) fnType(id ast.FuncID, e env) types.TypeID {
	if len(e) == 0 {
		return c.funcType(id)
	}
	return c.types.NewObject(nil, []types.Signature{c.signature(id, e)})
}

func (c *Checker) typeList(ids []ast.TypeID, e env) []types.TypeID {
	out := make([]types.TypeID, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.typeFrom(id, e))
	}
	return out
}

func (c *Checker) literalType(te *ast.TypeExpr) types.TypeID {
	switch te.Lit {
	case ast.LitString:
		return c.types.StringLiteral(te.Text)
	case ast.LitNumber:
		return c.types.Literal(types.Literal{Kind: types.LitNumber, Text: te.Text})
	case ast.LitBool:
		if te.Text == "true" {
			return c.bi.True
		}
		return c.bi.False
	case ast.LitNull:
		return c.bi.Null
	case ast.LitUndefined:
		return c.bi.Undefined
	}
	return c.bi.Any
}

func (c *Checker) predefined(text string) types.TypeID {
	switch strings.TrimSpace(text) {
	case "unknown":
		return c.bi.Unknown
	case "never":
		return c.bi.Never
	case "void":
		return c.bi.Void
	case "undefined":
		return c.bi.Undefined
	case "null":
		return c.bi.Null
	case "boolean":
		return c.bi.Boolean
	case "number":
		return c.bi.Number
	case "string":
		return c.bi.String
	case "bigint":
		return c.bi.BigInt
	case "symbol", "unique symbol":
		return c.bi.Symbol
	case "object":
		return c.bi.Object
	}
	return c.bi.Any
}

// objectMembers evaluates the body of an object type or interface. Property
// and method signatures become members carrying their JSDoc; call signatures
// are collected separately. Construct and index signatures are ignored.
func (c *Checker) objectMembers(ids []ast.MemberID, e env) ([]types.Member, []types.Signature) {
	var (
		members []types.Member
		sigs    []types.Signature
	)
	for _, id := range ids {
		m := c.b.Member(id)
		if m == nil {
			continue
		}
		switch m.Kind {
		case ast.MemberProperty, ast.MemberMethod:
			member := types.Member{
				Name:     c.b.Str(m.Name),
				Optional: m.Optional,
				Readonly: m.Readonly,
				Symbol:   c.memberSymbol(id),
				Span:     m.Span,
			}
			if m.Doc != nil {
				doc := m.Doc.Comment
				member.Doc = &doc
			}
			switch {
			case m.Kind == ast.MemberMethod:
				member.Type = c.fnType(m.Func, e)
			case m.Type.IsValid():
				member.Type = c.typeFrom(m.Type, e)
			default:
				member.Type = c.bi.Any
			}
			members = append(members, member)
		case ast.MemberCall:
			sigs = append(sigs, c.signature(m.Func, e))
		}
	}
	return types.MergeMembers(members), sigs
}

// refType evaluates a possibly qualified, possibly generic type reference.
func (c *Checker) refType(te *ast.TypeExpr, e env) types.TypeID {
	if len(te.Name) == 0 {
		return c.bi.Any
	}
	args := c.typeList(te.Args, e)
	head := c.b.Ident(te.Name[0])

	if len(te.Name) > 1 {
		sym := c.table.LookupAt(head.Scope, head.Name, symbols.MeaningAny)
		last := c.b.Name(te.Name[len(te.Name)-1])
		if len(te.Name) == 2 {
			if _, ok := c.reactExport(sym); ok || (!sym.IsValid() && c.b.Str(head.Name) == "React") {
				return c.reactType(last, args)
			}
		}
		return c.typeOfTypeSymbol(c.qualified(te.Name, symbols.MeaningType), args, e)
	}

	sym := c.table.LookupAt(head.Scope, head.Name, symbols.MeaningType)
	if !sym.IsValid() {
		return c.globalType(c.b.Str(head.Name), args)
	}
	return c.typeOfTypeSymbol(sym, args, e)
}

// typeOfTypeSymbol instantiates the declared type of a type-meaning symbol.
func (c *Checker) typeOfTypeSymbol(sym symbols.SymbolID, args []types.TypeID, e env) types.TypeID {
	s := c.table.Symbol(sym)
	if s == nil {
		return c.bi.Any
	}
	switch s.Kind {
	case symbols.SymbolTypeParam:
		if t, ok := e[sym]; ok {
			return t
		}
		return c.typeParamFallback(s, e)

	case symbols.SymbolTypeAlias, symbols.SymbolInterface, symbols.SymbolClass:
		return c.declaredType(sym, args)

	case symbols.SymbolImport, symbols.SymbolExport:
		if name, ok := c.reactExport(sym); ok {
			return c.reactType(name, args)
		}
		target := c.table.ResolveAlias(sym, symbols.MeaningType)
		if !target.IsValid() {
			return c.bi.Any
		}
		return c.typeOfTypeSymbol(target, args, nil)
	}
	return c.bi.Any
}

// typeParamFallback is the type of an unbound type parameter: its constraint
// or `unknown`.
func (c *Checker) typeParamFallback(s *symbols.Symbol, e env) types.TypeID {
	tp, ok := c.typeParamDecl(s)
	if !ok || !tp.Constraint.IsValid() {
		return c.bi.Unknown
	}
	return c.typeFrom(tp.Constraint, e)
}

func (c *Checker) typeParamDecl(s *symbols.Symbol) (ast.TypeParam, bool) {
	var params []ast.TypeParam
	switch {
	case s.Decl.Stmt.IsValid():
		params = c.b.Stmt(s.Decl.Stmt).TypeParams
	case s.Decl.Func.IsValid():
		params = c.b.Func(s.Decl.Func).TypeParams
	}
	if s.Decl.Index >= len(params) {
		return ast.TypeParam{}, false
	}
	return params[s.Decl.Index], true
}

// globalType covers the lib types the checker knows without declarations.
func (c *Checker) globalType(name string, args []types.TypeID) types.TypeID {
	arg := func(i int) types.TypeID {
		if i < len(args) {
			return args[i]
		}
		return c.bi.Unknown
	}
	switch name {
	case "Partial":
		return c.types.Partial(arg(0))
	case "Required":
		return c.types.Required(arg(0))
	case "Readonly":
		return c.types.Readonly(arg(0))
	case "Pick":
		return c.types.Pick(arg(0), arg(1))
	case "Omit":
		return c.types.Omit(arg(0), arg(1))
	case "Record":
		return c.types.Record(arg(0), arg(1))
	case "NonNullable":
		return c.types.NonNullable(arg(0))
	case "Array", "ReadonlyArray":
		return c.types.Intern(types.MakeArray(arg(0)))
	case "Exclude", "Extract":
		return c.filterUnion(arg(0), arg(1), name == "Extract")
	case "Parameters":
		sigs := c.types.CallSignatures(arg(0))
		if len(sigs) == 0 {
			return c.bi.Never
		}
		params := make([]types.TypeID, 0, len(sigs[0].Params))
		for _, p := range sigs[0].Params {
			params = append(params, p.Type)
		}
		return c.types.Tuple(params...)
	case "ReturnType":
		sigs := c.types.CallSignatures(arg(0))
		if len(sigs) == 0 {
			return c.bi.Any
		}
		return sigs[0].Result
	case "Object":
		return c.bi.Object
	case "String":
		return c.bi.String
	case "Number":
		return c.bi.Number
	case "Boolean":
		return c.bi.Boolean
	}
	return c.bi.Any
}

// filterUnion keeps (extract) or drops (exclude) the constituents of t that
// are identical to a constituent of u.
func (c *Checker) filterUnion(t, u types.TypeID, keep bool) types.TypeID {
	drop := make(map[types.TypeID]struct{})
	for _, id := range c.unionParts(u) {
		drop[id] = struct{}{}
	}
	var out []types.TypeID
	for _, id := range c.unionParts(t) {
		if _, hit := drop[id]; hit == keep {
			out = append(out, id)
		}
	}
	return c.types.Union(out...)
}

func (c *Checker) unionParts(t types.TypeID) []types.TypeID {
	if c.types.KindOf(t) == types.KindUnion {
		return c.types.Constituents(t)
	}
	return []types.TypeID{t}
}
