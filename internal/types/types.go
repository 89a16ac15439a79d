package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindAny
	KindUnknown
	KindNever
	KindVoid
	KindUndefined
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindBigInt
	KindSymbol
	// KindNonPrimitive is the `object` keyword.
	KindNonPrimitive
	KindLiteral
	// KindObject is a structural type: members plus call signatures.
	KindObject
	KindUnion
	KindIntersection
	KindArray
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindVoid:
		return "void"
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBigInt:
		return "bigint"
	case KindSymbol:
		return "symbol"
	case KindNonPrimitive:
		return "object"
	case KindLiteral:
		return "literal"
	case KindObject:
		return "object-type"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type. Payload indexes the
// side table of the kind (objects, unions, intersections, tuples, literals).
type Type struct {
	Kind    Kind
	Elem    TypeID
	Payload uint32
}

// MakeArray describes T[].
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// IsNullish reports whether the kind only admits null, undefined or void.
func (k Kind) IsNullish() bool {
	return k == KindNull || k == KindUndefined || k == KindVoid
}
