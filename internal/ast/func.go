package ast

import "propguard/internal/source"

type FuncKind uint8

const (
	FuncDecl FuncKind = iota
	FuncExpr
	FuncArrow
	FuncMethod
	// FuncSignature is a type-level signature: function types, call and
	// method signatures, `declare function`.
	FuncSignature
)

type Param struct {
	Pattern  PatternID
	Type     TypeID
	Default  ExprID
	Optional bool
	Rest     bool
	Span     source.Span
}

type TypeParam struct {
	Name       IdentID
	Constraint TypeID
	Default    TypeID
}

type Func struct {
	Kind       FuncKind
	Span       source.Span
	Name       IdentID
	Scope      ScopeID
	TypeParams []TypeParam
	Params     []Param
	Return     TypeID
	Body       []StmtID
	BodyExpr   ExprID
	HasBody    bool
}
