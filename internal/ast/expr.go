package ast

import "propguard/internal/source"

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprObject
	ExprFunc
	ExprCall
	ExprNew
	ExprMember
	ExprAs
	ExprSatisfies
	ExprNonNull
	ExprParen
	ExprString
	ExprNumber
	ExprBool
	ExprNull
	ExprUndefined
	ExprTemplate
	ExprArray
	ExprAssign
	ExprJSX
	ExprOther
)

type Expr struct {
	Kind ExprKind
	Span source.Span
	// ExprIdent: the identifier; ExprMember: the property name.
	Ident IdentID
	// Operand slots: member object, call callee, wrapped expression, assignment left.
	X ExprID
	// Assignment right-hand side.
	Y ExprID
	// ExprAs / ExprSatisfies target type.
	Type TypeID
	// Call arguments, array elements, ExprOther operands.
	List     []ExprID
	TypeArgs []TypeID
	Object   ObjectID
	Func     FuncID
	Element  ElementID
	// Literal text; string literals are stored unquoted.
	Text string
}

type PropKind uint8

const (
	PropPair PropKind = iota
	PropShorthand
	PropSpread
	PropMethod
)

type ObjectProp struct {
	Kind PropKind
	// Key is the key identifier; NoIdentID for string, number and computed keys.
	Key IdentID
	// Name is the static key text; NoStringID for computed keys and spreads.
	Name  source.StringID
	Value ExprID
	Func  FuncID
	Span  source.Span
}

type Object struct {
	Expr  ExprID
	Props []ObjectProp
	// Pattern marks an object literal used as a destructuring-assignment target.
	Pattern bool
	// AssignedFrom is the right-hand side when this object is the direct `=` target.
	AssignedFrom ExprID
	// Parent and ParentKey link a nested target object to the enclosing one.
	Parent    ObjectID
	ParentKey source.StringID
}
