package ast

import "propguard/internal/source"

type PatternKind uint8

const (
	PatIdent PatternKind = iota
	PatObject
	PatArray
	// PatOther covers assignment targets that bind nothing (member expressions).
	PatOther
)

type PatElem struct {
	// Key is the destructured member name.
	Key source.StringID
	// KeyIdent is the key identifier of a `key: value` element.
	KeyIdent IdentID
	Value    PatternID
	Default  ExprID
	Rest     bool
	Span     source.Span
}

type OwnerKind uint8

const (
	OwnerNone OwnerKind = iota
	OwnerDeclarator
	OwnerParam
	OwnerElement
	OwnerArrayItem
)

// PatOwner tells where the value a pattern destructures comes from.
type PatOwner struct {
	Kind OwnerKind
	// OwnerDeclarator
	Stmt StmtID
	Decl int
	// OwnerParam
	Func  FuncID
	Param int
	// OwnerElement, OwnerArrayItem
	Parent PatternID
	Key    source.StringID
}

type Pattern struct {
	Kind  PatternKind
	Span  source.Span
	Ident IdentID
	Elems []PatElem
	Items []PatternID
	Owner PatOwner
}
