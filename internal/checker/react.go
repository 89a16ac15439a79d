package checker

import (
	"propguard/internal/ast"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// reactExport follows an alias chain and reports the export name when it
// ends in an import from the react module. Namespace and default imports
// yield "*" and "default".
func (c *Checker) reactExport(sym symbols.SymbolID) (string, bool) {
	for hops := 0; hops < 64; hops++ {
		s := c.table.Symbol(sym)
		if s == nil || !s.IsAlias() || s.Alias == nil {
			return "", false
		}
		a := s.Alias
		switch {
		case a.Module == ReactModule:
			return a.Name, true
		case a.Module == "":
			sym = c.table.Lookup(a.Scope, a.Local, symbols.MeaningAny)
		case a.File.IsValid() && !a.Namespace():
			sym = c.table.Export(a.File, a.Name, symbols.MeaningAny)
		default:
			return "", false
		}
	}
	return "", false
}

func isReactNamespace(name string) bool { return name == "*" || name == "default" }

// reactType evaluates the component helper types of react.
func (c *Checker) reactType(name string, args []types.TypeID) types.TypeID {
	arg := func(i int) types.TypeID {
		if i < len(args) {
			return args[i]
		}
		return types.NoTypeID
	}
	switch name {
	case "FC", "FunctionComponent", "VFC", "VoidFunctionComponent", "SFC", "StatelessComponent",
		"ComponentType", "ExoticComponent", "NamedExoticComponent", "ForwardRefExoticComponent",
		"JSXElementConstructor":
		props := arg(0)
		if props == types.NoTypeID {
			props = c.types.NewObject(nil, nil)
		}
		return c.component(props)

	case "MemoExoticComponent", "LazyExoticComponent":
		if t := arg(0); t != types.NoTypeID {
			return t
		}

	case "ComponentProps", "ComponentPropsWithRef":
		if p := c.propsOf(arg(0)); p != types.NoTypeID {
			return p
		}

	case "ComponentPropsWithoutRef":
		if p := c.propsOf(arg(0)); p != types.NoTypeID {
			return c.types.Omit(p, c.str("ref"))
		}

	case "PropsWithChildren":
		children := c.types.NewObject([]types.Member{{Name: "children", Type: c.bi.Any, Optional: true}}, nil)
		if p := arg(0); p != types.NoTypeID {
			return c.types.Intersection(p, children)
		}
		return children

	case "PropsWithoutRef":
		if p := arg(0); p != types.NoTypeID {
			return c.types.Omit(p, c.str("ref"))
		}

	case "PropsWithRef":
		if p := arg(0); p != types.NoTypeID {
			return p
		}
	}
	return c.bi.Any
}

// component is a function type taking props.
func (c *Checker) component(props types.TypeID) types.TypeID {
	return c.types.Function([]types.Param{{Name: "props", Type: props}}, c.bi.Any)
}

// reactCallee reports `memo(...)`, `React.memo(...)` and the like.
func (c *Checker) reactCallee(id ast.ExprID) (string, bool) {
	e := c.b.Expr(id)
	if e == nil {
		return "", false
	}
	switch e.Kind {
	case ast.ExprIdent:
		ident := c.b.Ident(e.Ident)
		name, ok := c.reactExport(c.table.LookupAt(ident.Scope, ident.Name, symbols.MeaningValue))
		if ok && !isReactNamespace(name) {
			return name, true
		}
	case ast.ExprMember:
		x := c.b.Expr(e.X)
		if x == nil || x.Kind != ast.ExprIdent {
			return "", false
		}
		ident := c.b.Ident(x.Ident)
		name, ok := c.reactExport(c.table.LookupAt(ident.Scope, ident.Name, symbols.MeaningValue))
		if ok && isReactNamespace(name) {
			return e.Text, true
		}
	}
	return "", false
}

// reactCall types the component wrappers: memo keeps the wrapped
// component's type, forwardRef builds one from its props type argument or
// from the render function's first parameter.
func (c *Checker) reactCall(name string, e *ast.Expr) types.TypeID {
	switch name {
	case "memo":
		if len(e.List) > 0 {
			return c.exprType(e.List[0])
		}
	case "forwardRef":
		props := c.bi.Any
		switch {
		case len(e.TypeArgs) >= 2:
			props = c.typeFrom(e.TypeArgs[1], nil)
		case len(e.List) > 0:
			if p := c.propsOf(c.exprType(e.List[0])); p != types.NoTypeID {
				props = p
			}
		}
		return c.component(props)
	}
	return c.bi.Any
}
