package ast

import "propguard/internal/source"

type TypeKind uint8

const (
	TypeRef TypeKind = iota
	TypeObject
	TypeUnion
	TypeIntersection
	TypeFunc
	TypeArray
	TypeTuple
	TypeLiteral
	TypePredefined
	TypeQuery
	TypeKeyof
	TypeIndexed
	TypeThis
	// TypeOpaque stands for mapped, conditional, template literal and other
	// forms the checker treats as `any`.
	TypeOpaque
)

type LitKind uint8

const (
	LitString LitKind = iota
	LitNumber
	LitBool
	LitNull
	LitUndefined
)

type TypeExpr struct {
	Kind TypeKind
	Span source.Span
	// TypeRef, TypeQuery: qualified name segments, first one is RoleTypeRef.
	Name []IdentID
	// TypeRef type arguments; union, intersection and tuple members.
	Args []TypeID
	// TypeArray element, TypeKeyof operand, TypeIndexed object.
	Elem  TypeID
	Index TypeID
	// TypeObject
	Members []MemberID
	// TypeFunc
	Func FuncID
	// TypeLiteral text (unquoted), TypePredefined keyword.
	Text string
	Lit  LitKind
}

type MemberKind uint8

const (
	MemberProperty MemberKind = iota
	MemberMethod
	MemberCall
	MemberConstruct
	MemberIndex
)

// Member is one entry of an object type or interface body.
type Member struct {
	Kind      MemberKind
	Name      source.StringID
	NameIdent IdentID
	Span      source.Span
	Optional  bool
	Readonly  bool
	Type      TypeID
	Func      FuncID
	Doc       *Doc
}
