package deprecatedprops

import (
	"propguard/internal/ast"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// Resolver maps identifier uses to declared symbols.
type Resolver struct {
	b      *ast.Builder
	oracle Oracle
}

func NewResolver(b *ast.Builder, o Oracle) Resolver {
	return Resolver{b: b, oracle: o}
}

// Resolve returns the original symbol an identifier refers to, or
// symbols.NoSymbolID.
//
// Names inside an object binding pattern are looked up as members of the
// pattern's type (for `{ key: local }` the member is key). Keys of an object
// literal used as a destructuring target go through the destructuring lookup.
// Everything else is a plain lookup at the identifier.
func (r Resolver) Resolve(id ast.IdentID) symbols.SymbolID {
	ident := r.b.Ident(id)
	if ident == nil {
		return symbols.NoSymbolID
	}
	var sym symbols.SymbolID
	switch {
	case ident.Role == ast.RoleBindingElement && ident.Owner.Kind == ast.NodePattern:
		t := r.oracle.TypeAtLocation(ident.Owner)
		sym = r.oracle.PropertyOfType(t, r.b.Str(ident.Key))
	case ident.Role == ast.RolePropertyKey:
		// a plain object literal is not a destructuring target
		if s, err := r.oracle.DestructuringAssignmentProperty(id); err == nil {
			sym = s
		}
	default:
		sym = r.oracle.SymbolAtLocation(id)
	}
	if sym.IsValid() && r.oracle.IsAlias(sym) {
		sym = r.oracle.AliasedSymbol(sym)
	}
	return sym
}

// PropsTypeOf is the type of the first parameter of the first call signature
// of the symbol id resolves to.
func (r Resolver) PropsTypeOf(id ast.IdentID) (types.TypeID, bool) {
	sym := r.Resolve(id)
	if !sym.IsValid() {
		return types.NoTypeID, false
	}
	sigs := r.oracle.CallSignatures(r.oracle.TypeOfSymbolAt(sym, id))
	if len(sigs) == 0 {
		return types.NoTypeID, false
	}
	params := r.oracle.Parameters(sigs[0])
	if len(params) == 0 {
		return types.NoTypeID, false
	}
	return r.oracle.TypeOfParameter(params[0]), true
}
