package ast

import "propguard/internal/source"

type ScopeKind uint8

const (
	ScopeFile ScopeKind = iota
	ScopeFunc
	ScopeBlock
	ScopeClass
)

// Scope is a lexical region recorded while lowering. Every identifier
// remembers the innermost scope it appears in.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID
	File   FileID
	Span   source.Span
	// Func is set for ScopeFunc.
	Func FuncID
}

type Scopes struct {
	Arena *Arena[Scope]
}

func NewScopes(capHint uint) *Scopes {
	return &Scopes{Arena: NewArena[Scope](capHint)}
}

func (s *Scopes) New(scope Scope) ScopeID {
	return ScopeID(s.Arena.Allocate(scope))
}

func (s *Scopes) Get(id ScopeID) *Scope {
	return s.Arena.Get(uint32(id))
}

// HoistTarget returns the nearest function or file scope, where `var`
// declarations land.
func (s *Scopes) HoistTarget(id ScopeID) ScopeID {
	for id.IsValid() {
		sc := s.Get(id)
		if sc.Kind == ScopeFunc || sc.Kind == ScopeFile {
			return id
		}
		id = sc.Parent
	}
	return id
}
