package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"propguard/internal/ast"
	"propguard/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates symbol-related arenas and shared resources.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner

	byAST   map[ast.ScopeID]ScopeID
	byIdent map[ast.IdentID]SymbolID
	modules map[ast.FileID]*ModuleExports
}

// NewTable builds a fresh table with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
		byAST:   make(map[ast.ScopeID]ScopeID),
		byIdent: make(map[ast.IdentID]SymbolID),
		modules: make(map[ast.FileID]*ModuleExports),
	}
}

// Symbol returns the symbol for id or nil.
func (t *Table) Symbol(id SymbolID) *Symbol { return t.Symbols.Get(id) }

// Name returns the text of a symbol's name.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	s, _ := t.Strings.Lookup(sym.Name)
	return s
}

// ScopeOf maps a lowered AST scope to its symbol scope.
func (t *Table) ScopeOf(id ast.ScopeID) ScopeID {
	return t.byAST[id]
}

// DeclaredBy returns the symbol whose declaration introduced ident.
func (t *Table) DeclaredBy(ident ast.IdentID) SymbolID {
	return t.byIdent[ident]
}

// Module returns the export table of a file.
func (t *Table) Module(file ast.FileID) *ModuleExports {
	return t.modules[file]
}

// Lookup finds name starting at scope and walking outwards.
func (t *Table) Lookup(scope ScopeID, name source.StringID, meaning Meaning) SymbolID {
	for scope.IsValid() {
		sc := t.Scopes.Get(scope)
		if sc == nil {
			break
		}
		if id := sc.lookup(name, meaning); id.IsValid() {
			return id
		}
		scope = sc.Parent
	}
	return NoSymbolID
}

// LookupAt resolves name from the AST scope an identifier was recorded in.
func (t *Table) LookupAt(scope ast.ScopeID, name source.StringID, meaning Meaning) SymbolID {
	return t.Lookup(t.ScopeOf(scope), name, meaning)
}

// NewProperty allocates a scope-less property symbol for an object type or
// object literal member.
func (t *Table) NewProperty(name string, span source.Span, decl Decl) SymbolID {
	decl.Kind = DeclProperty
	return t.Symbols.New(&Symbol{
		Name:  t.Strings.Intern(name),
		Kind:  SymbolProperty,
		Flags: SymbolFlagValue,
		Span:  span,
		File:  decl.File,
		Decl:  decl,
	})
}

// declare inserts a symbol into a scope. The first declaration of a name
// keeps the slot; later ones are still allocated so their identifiers resolve.
func (t *Table) declare(scope ScopeID, sym *Symbol, ident ast.IdentID) SymbolID {
	sym.Scope = scope
	id := t.Symbols.New(sym)
	if ident.IsValid() {
		t.byIdent[ident] = id
	}
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return id
	}
	sc.Symbols = append(sc.Symbols, id)
	if sym.Flags&SymbolFlagValue != 0 {
		if _, taken := sc.Values[sym.Name]; !taken {
			sc.Values[sym.Name] = id
		}
	}
	if sym.Flags&SymbolFlagType != 0 {
		if _, taken := sc.Types[sym.Name]; !taken {
			sc.Types[sym.Name] = id
		}
	}
	return id
}
