package checker

import (
	"strconv"
	"strings"

	"propguard/internal/ast"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// declaredType instantiates an interface, type alias or class with the given
// type arguments. Missing arguments take the parameter default, then the
// constraint, then `unknown`.
func (c *Checker) declaredType(sym symbols.SymbolID, args []types.TypeID) types.TypeID {
	s := c.table.Symbol(sym)
	params := c.declTypeParams(s)
	if len(params) == 0 {
		args = nil
	}
	key := instKey{sym: sym, args: argsKey(args)}
	if t, ok := c.declared[key]; ok {
		return t
	}

	switch s.Kind {
	case symbols.SymbolInterface:
		// placeholder first: members may refer back to the interface
		id := c.types.RegisterObject(c.instName(sym, args), s.Span)
		c.declared[key] = id
		e := c.bindTypeParams(s, params, args)
		members, sigs := c.interfaceMembers(s, e)
		c.types.SetMembers(id, members, sigs)
		return id

	case symbols.SymbolTypeAlias:
		if c.aliasBusy[key] {
			return c.bi.Any
		}
		c.aliasBusy[key] = true
		e := c.bindTypeParams(s, params, args)
		t := c.typeFrom(c.b.Stmt(s.Decl.Stmt).Value, e)
		delete(c.aliasBusy, key)
		c.declared[key] = t
		return t

	case symbols.SymbolClass:
		id := c.types.RegisterObject(c.instName(sym, args), s.Span)
		c.declared[key] = id
		return id
	}
	return c.bi.Any
}

func (c *Checker) declTypeParams(s *symbols.Symbol) []ast.TypeParam {
	if s == nil || !s.Decl.Stmt.IsValid() {
		return nil
	}
	return c.b.Stmt(s.Decl.Stmt).TypeParams
}

// bindTypeParams maps every type parameter symbol of every declaration of s
// to its argument. Merged interface declarations declare their own
// parameter symbols, so each is bound by position.
func (c *Checker) bindTypeParams(s *symbols.Symbol, params []ast.TypeParam, args []types.TypeID) env {
	if len(params) == 0 {
		return nil
	}
	e := make(env, len(params))
	resolved := make([]types.TypeID, len(params))
	for i, tp := range params {
		switch {
		case i < len(args):
			resolved[i] = args[i]
		case tp.Default.IsValid():
			resolved[i] = c.typeFrom(tp.Default, e)
		case tp.Constraint.IsValid():
			resolved[i] = c.typeFrom(tp.Constraint, e)
		default:
			resolved[i] = c.bi.Unknown
		}
		if sym := c.table.DeclaredBy(tp.Name); sym.IsValid() {
			e[sym] = resolved[i]
		}
	}
	for _, d := range s.Merged {
		for i, tp := range c.b.Stmt(d.Stmt).TypeParams {
			if sym := c.table.DeclaredBy(tp.Name); sym.IsValid() && i < len(resolved) {
				e[sym] = resolved[i]
			}
		}
	}
	return e
}

// interfaceMembers collects the own members of every merged declaration,
// later declarations winning, then appends inherited members that are not
// redeclared.
func (c *Checker) interfaceMembers(s *symbols.Symbol, e env) ([]types.Member, []types.Signature) {
	var (
		own       []types.Member
		sigs      []types.Signature
		inherited [][]types.Member
		baseSigs  []types.Signature
	)
	for _, d := range s.Decls() {
		stmt := c.b.Stmt(d.Stmt)
		if stmt == nil {
			continue
		}
		members, callSigs := c.objectMembers(stmt.Members, e)
		own = types.MergeMembers(own, members)
		sigs = append(sigs, callSigs...)
		for _, base := range stmt.Extends {
			bt := c.typeFrom(base, e)
			inherited = append(inherited, c.types.Properties(bt))
			baseSigs = append(baseSigs, c.types.CallSignatures(bt)...)
		}
	}

	names := make(map[string]struct{}, len(own))
	for _, m := range own {
		names[m.Name] = struct{}{}
	}
	out := own
	for _, list := range inherited {
		for _, m := range list {
			if _, dup := names[m.Name]; dup {
				continue
			}
			names[m.Name] = struct{}{}
			out = append(out, m)
		}
	}
	return out, append(sigs, baseSigs...)
}

func (c *Checker) instName(sym symbols.SymbolID, args []types.TypeID) string {
	name := c.table.Name(sym)
	if len(args) == 0 {
		return name
	}
	labels := make([]string, len(args))
	for i, a := range args {
		labels[i] = c.types.Label(a)
	}
	return name + "<" + strings.Join(labels, ", ") + ">"
}

func argsKey(args []types.TypeID) string {
	if len(args) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(a), 10))
	}
	return sb.String()
}
