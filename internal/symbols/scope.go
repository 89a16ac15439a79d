package symbols

import (
	"propguard/internal/ast"
	"propguard/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeFile               // top level of a module
	ScopeFunction           // parameters and body of a function
	ScopeBlock              // block statements and type parameter lists
	ScopeClass              // class body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFile:
		return "file"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeClass:
		return "class"
	default:
		return "invalid"
	}
}

func scopeKindOf(k ast.ScopeKind) ScopeKind {
	switch k {
	case ast.ScopeFile:
		return ScopeFile
	case ast.ScopeFunc:
		return ScopeFunction
	case ast.ScopeBlock:
		return ScopeBlock
	case ast.ScopeClass:
		return ScopeClass
	}
	return ScopeInvalid
}

// Scope models a lexical scope. Values and types live in separate tables:
// `interface P` and `const P` may coexist.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	AST      ast.ScopeID
	File     ast.FileID
	Span     source.Span
	Values   map[source.StringID]SymbolID
	Types    map[source.StringID]SymbolID
	Symbols  []SymbolID
	Children []ScopeID
}

// Meaning selects the value table, the type table or both.
type Meaning uint8

const (
	MeaningValue Meaning = 1 << iota
	MeaningType
	MeaningAny = MeaningValue | MeaningType
)

func (s *Scope) lookup(name source.StringID, meaning Meaning) SymbolID {
	if meaning&MeaningValue != 0 {
		if id, ok := s.Values[name]; ok {
			return id
		}
	}
	if meaning&MeaningType != 0 {
		if id, ok := s.Types[name]; ok {
			return id
		}
	}
	return NoSymbolID
}
