package checker

import (
	"strconv"

	"propguard/internal/ast"
	"propguard/internal/source"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// TypeOfSymbolAt is the type of a symbol as seen from an identifier. There is
// no control-flow narrowing, so it equals TypeOfSymbol.
func (c *Checker) TypeOfSymbolAt(sym symbols.SymbolID, _ ast.IdentID) types.TypeID {
	return c.TypeOfSymbol(sym)
}

// TypeOfSymbol is the value type of a symbol. Aliases yield the type of the
// symbol they resolve to; symbols without a value meaning are `any`.
func (c *Checker) TypeOfSymbol(sym symbols.SymbolID) types.TypeID {
	if t, ok := c.symTypes[sym]; ok {
		return t
	}
	s := c.table.Symbol(sym)
	if s == nil {
		return c.bi.Any
	}
	if c.symBusy[sym] {
		return c.bi.Any
	}
	c.symBusy[sym] = true
	t := c.symbolType(sym, s)
	delete(c.symBusy, sym)
	c.symTypes[sym] = t
	return t
}

func (c *Checker) symbolType(id symbols.SymbolID, s *symbols.Symbol) types.TypeID {
	switch s.Kind {
	case symbols.SymbolVariable, symbols.SymbolBindingElement, symbols.SymbolParam:
		return c.patternType(s.Decl.Pattern)

	case symbols.SymbolFunction:
		return c.funcType(s.Decl.Func)

	case symbols.SymbolClass:
		return c.types.RegisterObject(c.table.Name(id), s.Span)

	case symbols.SymbolDefault:
		return c.exprType(s.Decl.Expr)

	case symbols.SymbolModule:
		return c.moduleType(s.File)

	case symbols.SymbolImport, symbols.SymbolExport:
		if _, ok := c.reactExport(id); ok {
			return c.bi.Any
		}
		target := c.table.ResolveAlias(id, symbols.MeaningValue)
		if !target.IsValid() {
			return c.bi.Any
		}
		return c.TypeOfSymbol(target)

	case symbols.SymbolProperty:
		return c.propertyType(s)
	}
	return c.bi.Any
}

// propertyType recomputes the type of a property symbol from its
// declaration: a member of an object type or an object literal entry.
func (c *Checker) propertyType(s *symbols.Symbol) types.TypeID {
	switch {
	case s.Decl.Member.IsValid():
		m := c.b.Member(s.Decl.Member)
		switch m.Kind {
		case ast.MemberMethod:
			return c.funcType(m.Func)
		case ast.MemberProperty:
			if m.Type.IsValid() {
				return c.typeFrom(m.Type, nil)
			}
		}
	case s.Decl.Object.IsValid():
		obj := c.objectType(s.Decl.Object)
		if m, ok := c.types.Property(obj, c.table.Strings.MustLookup(s.Name)); ok {
			return m.Type
		}
	}
	return c.bi.Any
}

// moduleType is the namespace object of a file: one member per export, each
// carrying the exported symbol.
func (c *Checker) moduleType(file ast.FileID) types.TypeID {
	if t, ok := c.modTypes[file]; ok {
		return t
	}
	f := c.b.File(file)
	if f == nil {
		return c.bi.Any
	}
	id := c.types.RegisterObject(f.Path, f.Span)
	c.modTypes[file] = id

	var members []types.Member
	for _, name := range c.table.ExportNames(file) {
		sym := c.table.Export(file, name, symbols.MeaningValue)
		if !sym.IsValid() {
			continue
		}
		members = append(members, types.Member{
			Name:   name,
			Type:   c.TypeOfSymbol(sym),
			Symbol: sym,
			Span:   c.table.Symbol(sym).Span,
		})
	}
	c.types.SetMembers(id, members, nil)
	return id
}

// patternType is the type of the value a pattern binds or destructures.
func (c *Checker) patternType(id ast.PatternID) types.TypeID {
	if t, ok := c.patTypes[id]; ok {
		return t
	}
	pat := c.b.Pattern(id)
	if pat == nil || c.patBusy[id] {
		return c.bi.Any
	}
	c.patBusy[id] = true
	t := c.patternSource(id, pat)
	delete(c.patBusy, id)
	c.patTypes[id] = t
	return t
}

func (c *Checker) patternSource(id ast.PatternID, pat *ast.Pattern) types.TypeID {
	owner := pat.Owner
	switch owner.Kind {
	case ast.OwnerDeclarator:
		stmt := c.b.Stmt(owner.Stmt)
		if stmt == nil || owner.Decl >= len(stmt.Decls) {
			return c.bi.Any
		}
		d := stmt.Decls[owner.Decl]
		if d.Type.IsValid() {
			return c.typeFrom(d.Type, nil)
		}
		if d.Init.IsValid() {
			t := c.exprType(d.Init)
			if stmt.VarKind != ast.VarConst {
				t = c.types.Widen(t)
			}
			return t
		}
		return c.bi.Any

	case ast.OwnerParam:
		return c.paramType(owner.Func, owner.Param)

	case ast.OwnerElement:
		parent := c.patternType(owner.Parent)
		if c.isRestElement(owner.Parent, owner.Key) {
			return c.restType(owner.Parent, parent)
		}
		m, ok := c.types.Property(parent, c.b.Str(owner.Key))
		if !ok {
			return c.bi.Any
		}
		return m.Type

	case ast.OwnerArrayItem:
		parent := c.patternType(owner.Parent)
		tt, ok := c.types.Lookup(parent)
		if ok && tt.Kind == types.KindArray {
			return tt.Elem
		}
		if ok && tt.Kind == types.KindTuple {
			elems := c.types.Constituents(parent)
			p := c.b.Pattern(owner.Parent)
			for i, item := range p.Items {
				if item == id && i < len(elems) {
					return elems[i]
				}
			}
		}
		return c.bi.Any
	}
	return c.bi.Any
}

func (c *Checker) isRestElement(parent ast.PatternID, key source.StringID) bool {
	p := c.b.Pattern(parent)
	if p == nil {
		return false
	}
	for _, el := range p.Elems {
		if el.Key == key && el.Rest {
			return true
		}
	}
	return false
}

// restType is the object a `...rest` element collects: every member not
// named by a sibling element.
func (c *Checker) restType(parent ast.PatternID, src types.TypeID) types.TypeID {
	p := c.b.Pattern(parent)
	var keys []types.TypeID
	for _, el := range p.Elems {
		if !el.Rest {
			keys = append(keys, c.str(c.b.Str(el.Key)))
		}
	}
	if len(keys) == 0 {
		return src
	}
	return c.types.Omit(src, c.types.Union(keys...))
}

// paramType is the declared type of a parameter, its default value's type,
// or the matching parameter of the contextual type.
func (c *Checker) paramType(fid ast.FuncID, index int) types.TypeID {
	fn := c.b.Func(fid)
	if fn == nil || index >= len(fn.Params) {
		return c.bi.Any
	}
	p := fn.Params[index]
	if p.Type.IsValid() {
		return c.typeFrom(p.Type, nil)
	}
	if ctx, ok := c.contextual[fid]; ok {
		sigs := c.types.CallSignatures(c.typeFrom(ctx, nil))
		if len(sigs) > 0 && index < len(sigs[0].Params) {
			return sigs[0].Params[index].Type
		}
	}
	if p.Default.IsValid() {
		return c.types.Widen(c.exprType(p.Default))
	}
	return c.bi.Any
}

// funcType is the function type of a declaration, expression or signature.
func (c *Checker) funcType(id ast.FuncID) types.TypeID {
	if t, ok := c.funcTypes[id]; ok {
		return t
	}
	if c.b.Func(id) == nil {
		return c.bi.Any
	}
	t := c.types.Function(nil, c.bi.Any)
	c.funcTypes[id] = t
	sig := c.signature(id, nil)
	c.types.SetMembers(t, nil, []types.Signature{sig})
	return t
}

// signature builds the call signature of a function. With a non-nil env
// parameter and result annotations are evaluated under that substitution.
func (c *Checker) signature(id ast.FuncID, e env) types.Signature {
	fn := c.b.Func(id)
	sig := types.Signature{Result: c.bi.Any}
	if fn == nil {
		return sig
	}
	sig.Params = make([]types.Param, 0, len(fn.Params))
	for i, p := range fn.Params {
		param := types.Param{
			Optional: p.Optional || p.Default.IsValid(),
			Rest:     p.Rest,
		}
		if pat := c.b.Pattern(p.Pattern); pat != nil && pat.Kind == ast.PatIdent {
			param.Name = c.b.Name(pat.Ident)
			param.Symbol = c.table.DeclaredBy(pat.Ident)
		} else {
			param.Name = "__" + strconv.Itoa(i)
		}
		if e != nil && p.Type.IsValid() {
			param.Type = c.typeFrom(p.Type, e)
		} else {
			param.Type = c.paramType(id, i)
		}
		sig.Params = append(sig.Params, param)
	}
	if fn.Return.IsValid() {
		sig.Result = c.typeFrom(fn.Return, e)
	}
	return sig
}

// propsOf is the type of the first parameter of the first call signature.
func (c *Checker) propsOf(t types.TypeID) types.TypeID {
	sigs := c.types.CallSignatures(t)
	if len(sigs) == 0 || len(sigs[0].Params) == 0 {
		return types.NoTypeID
	}
	return sigs[0].Params[0].Type
}

// CallSignatures lists the call signatures of a type.
func (c *Checker) CallSignatures(t types.TypeID) []types.Signature {
	return c.types.CallSignatures(t)
}

// Parameters lists the parameters of a signature.
func (c *Checker) Parameters(sig types.Signature) []types.Param {
	return sig.Params
}

// TypeOfParameter is the declared type of a parameter.
func (c *Checker) TypeOfParameter(p types.Param) types.TypeID {
	if p.Type == types.NoTypeID {
		return c.bi.Any
	}
	return p.Type
}

// Members lists the flattened members of a type in declaration order.
func (c *Checker) Members(t types.TypeID) []types.Member {
	return c.types.Properties(t)
}
