package checker

import (
	"propguard/internal/ast"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// SymbolAtLocation returns the symbol an identifier occurrence denotes.
// Aliases are returned as is; see AliasedSymbol.
func (c *Checker) SymbolAtLocation(id ast.IdentID) symbols.SymbolID {
	ident := c.b.Ident(id)
	if ident == nil {
		return symbols.NoSymbolID
	}
	switch ident.Role {
	case ast.RoleDecl:
		return c.table.DeclaredBy(id)

	case ast.RoleBindingElement:
		if sym := c.table.DeclaredBy(id); sym.IsValid() {
			return sym
		}
		// key of a `key: local` element
		if ident.Owner.Kind != ast.NodePattern {
			return symbols.NoSymbolID
		}
		owner := c.patternType(ast.PatternID(ident.Owner.ID))
		return c.PropertyOfType(owner, c.b.Str(ident.Key))

	case ast.RoleRef, ast.RoleJSXTag, ast.RoleJSXClosingTag:
		return c.table.LookupAt(ident.Scope, ident.Name, symbols.MeaningValue)

	case ast.RoleTypeRef:
		meaning := symbols.MeaningType
		if ident.Owner.Kind == ast.NodeType {
			if t := c.b.Type(ast.TypeID(ident.Owner.ID)); t != nil && t.Kind == ast.TypeQuery {
				meaning = symbols.MeaningValue
			}
		}
		if sym := c.table.LookupAt(ident.Scope, ident.Name, meaning); sym.IsValid() {
			return sym
		}
		return c.table.LookupAt(ident.Scope, ident.Name, symbols.MeaningAny)

	case ast.RoleMemberName:
		return c.memberNameSymbol(id, ident)

	case ast.RolePropertyKey:
		if ident.Owner.Kind != ast.NodeExpr {
			return symbols.NoSymbolID
		}
		e := c.b.Expr(ast.ExprID(ident.Owner.ID))
		if e == nil || e.Kind != ast.ExprObject {
			return symbols.NoSymbolID
		}
		return c.PropertyOfType(c.objectType(e.Object), c.b.Str(ident.Name))

	case ast.RoleTypeMember:
		if ident.Owner.Kind != ast.NodeMember {
			return symbols.NoSymbolID
		}
		return c.memberSymbol(ast.MemberID(ident.Owner.ID))

	case ast.RoleJSXAttr:
		if ident.Owner.Kind != ast.NodeJSXOpening {
			return symbols.NoSymbolID
		}
		el := c.b.Element(ast.ElementID(ident.Owner.ID))
		if el == nil || !el.Tag.IsValid() {
			return symbols.NoSymbolID
		}
		props := c.propsOf(c.TypeOfSymbol(c.AliasedSymbol(c.SymbolAtLocation(el.Tag))))
		return c.PropertyOfType(props, c.b.Str(ident.Name))
	}
	return symbols.NoSymbolID
}

// memberNameSymbol handles `a.b` in expressions and `A.B` in type names.
func (c *Checker) memberNameSymbol(id ast.IdentID, ident *ast.Ident) symbols.SymbolID {
	name := c.b.Str(ident.Name)
	switch ident.Owner.Kind {
	case ast.NodeExpr:
		e := c.b.Expr(ast.ExprID(ident.Owner.ID))
		if e == nil || e.Kind != ast.ExprMember {
			return symbols.NoSymbolID
		}
		return c.PropertyOfType(c.exprType(e.X), name)
	case ast.NodeType:
		t := c.b.Type(ast.TypeID(ident.Owner.ID))
		if t == nil {
			return symbols.NoSymbolID
		}
		meaning := symbols.MeaningType
		if t.Kind == ast.TypeQuery {
			meaning = symbols.MeaningValue
		}
		for i, seg := range t.Name {
			if seg == id {
				return c.qualified(t.Name[:i+1], meaning)
			}
		}
	}
	return symbols.NoSymbolID
}

// qualified resolves a dotted name through namespace imports. Every segment
// but the last has to denote a module.
func (c *Checker) qualified(segs []ast.IdentID, meaning symbols.Meaning) symbols.SymbolID {
	if len(segs) == 0 {
		return symbols.NoSymbolID
	}
	head := c.b.Ident(segs[0])
	sym := c.table.LookupAt(head.Scope, head.Name, symbols.MeaningAny)
	for _, seg := range segs[1:] {
		mod := c.table.Symbol(c.AliasedSymbol(sym))
		if mod == nil || mod.Kind != symbols.SymbolModule {
			return symbols.NoSymbolID
		}
		sym = c.table.Export(mod.File, c.b.Name(seg), meaning)
	}
	return sym
}

// IsAlias reports import and export specifier symbols.
func (c *Checker) IsAlias(sym symbols.SymbolID) bool {
	s := c.table.Symbol(sym)
	return s != nil && s.IsAlias()
}

// AliasedSymbol follows an alias to the symbol it finally denotes. An alias
// that cannot be resolved is returned unchanged.
func (c *Checker) AliasedSymbol(sym symbols.SymbolID) symbols.SymbolID {
	if !c.IsAlias(sym) {
		return sym
	}
	if target := c.table.ResolveAlias(sym, symbols.MeaningAny); target.IsValid() {
		return target
	}
	return sym
}

// ValueDeclKind is the syntactic form of the symbol's value declaration.
func (c *Checker) ValueDeclKind(sym symbols.SymbolID) symbols.DeclKind {
	s := c.table.Symbol(sym)
	if s == nil || s.Flags&symbols.SymbolFlagValue == 0 {
		return symbols.DeclNone
	}
	return s.Decl.Kind
}

// PropertyOfType returns the symbol of a named member of t.
func (c *Checker) PropertyOfType(t types.TypeID, name string) symbols.SymbolID {
	m, ok := c.types.Property(t, name)
	if !ok {
		return symbols.NoSymbolID
	}
	return m.Symbol
}

// DestructuringAssignmentProperty resolves a property key of an object
// literal that is the target of a destructuring assignment, such as `a` in
// `({ a } = obj)`, to the member of the assigned value.
func (c *Checker) DestructuringAssignmentProperty(id ast.IdentID) (symbols.SymbolID, error) {
	ident := c.b.Ident(id)
	if ident == nil || ident.Role != ast.RolePropertyKey || ident.Owner.Kind != ast.NodeExpr {
		return symbols.NoSymbolID, ErrNotDestructuring
	}
	e := c.b.Expr(ast.ExprID(ident.Owner.ID))
	if e == nil || e.Kind != ast.ExprObject {
		return symbols.NoSymbolID, ErrNotDestructuring
	}
	obj := c.b.Object(e.Object)
	if obj == nil || !obj.Pattern {
		return symbols.NoSymbolID, ErrNotDestructuring
	}
	src := c.destructuringSource(e.Object)
	return c.PropertyOfType(src, c.b.Str(ident.Name)), nil
}

// destructuringSource is the type of the value an assignment pattern
// object takes apart.
func (c *Checker) destructuringSource(start ast.ObjectID) types.TypeID {
	id := start
	for hops := 0; hops < 64; hops++ {
		obj := c.b.Object(id)
		if obj == nil {
			break
		}
		if obj.AssignedFrom.IsValid() {
			t := c.exprType(obj.AssignedFrom)
			return c.descend(t, c.pathTo(start, hops))
		}
		if !obj.Parent.IsValid() {
			break
		}
		id = obj.Parent
	}
	return c.bi.Any
}

// pathTo lists the parent keys from the object `hops` levels above id down
// to id.
func (c *Checker) pathTo(id ast.ObjectID, hops int) []string {
	keys := make([]string, hops)
	for i := hops - 1; i >= 0; i-- {
		obj := c.b.Object(id)
		keys[i] = c.b.Str(obj.ParentKey)
		id = obj.Parent
	}
	return keys
}

func (c *Checker) descend(t types.TypeID, keys []string) types.TypeID {
	for _, k := range keys {
		m, ok := c.types.Property(t, k)
		if !ok {
			return c.bi.Any
		}
		t = m.Type
	}
	return t
}

// TypeAtLocation is the type of an expression, pattern, type expression or
// identifier occurrence.
func (c *Checker) TypeAtLocation(n ast.Node) types.TypeID {
	switch n.Kind {
	case ast.NodeExpr:
		return c.exprType(ast.ExprID(n.ID))
	case ast.NodePattern:
		return c.patternType(ast.PatternID(n.ID))
	case ast.NodeType:
		return c.typeFrom(ast.TypeID(n.ID), nil)
	case ast.NodeIdent:
		return c.TypeOfSymbol(c.SymbolAtLocation(ast.IdentID(n.ID)))
	}
	return c.bi.Any
}

// memberSymbol is the property symbol of an object type member. Generic
// instantiations of the same declaration share it.
func (c *Checker) memberSymbol(id ast.MemberID) symbols.SymbolID {
	if sym, ok := c.memberSyms[id]; ok {
		return sym
	}
	m := c.b.Member(id)
	if m == nil {
		return symbols.NoSymbolID
	}
	decl := symbols.Decl{Member: id, Ident: m.NameIdent}
	if ident := c.b.Ident(m.NameIdent); ident != nil {
		decl.File = c.b.FileOfScope(ident.Scope)
	}
	sym := c.table.NewProperty(c.b.Str(m.Name), m.Span, decl)
	c.memberSyms[id] = sym
	return sym
}

func (c *Checker) objectPropSymbol(obj ast.ObjectID, index int) symbols.SymbolID {
	key := propKey{obj: obj, index: index}
	if sym, ok := c.propSyms[key]; ok {
		return sym
	}
	o := c.b.Object(obj)
	p := o.Props[index]
	decl := symbols.Decl{Expr: o.Expr, Object: obj, Index: index, Ident: p.Key}
	if ident := c.b.Ident(p.Key); ident != nil {
		decl.File = c.b.FileOfScope(ident.Scope)
	}
	sym := c.table.NewProperty(c.b.Str(p.Name), p.Span, decl)
	c.propSyms[key] = sym
	return sym
}
