package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the keyword types.
type Builtins struct {
	Invalid   TypeID
	Any       TypeID
	Unknown   TypeID
	Never     TypeID
	Void      TypeID
	Undefined TypeID
	Null      TypeID
	Boolean   TypeID
	Number    TypeID
	String    TypeID
	BigInt    TypeID
	Symbol    TypeID
	Object    TypeID
	True      TypeID
	False     TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Object types are never deduplicated: every RegisterObject call yields a
// fresh identity, the way nominal declarations do.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	objects  []ObjectInfo
	lists    [][]TypeID
	listIdx  map[listKey]TypeID
	literals []Literal
	litIdx   map[Literal]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:   make(map[typeKey]TypeID, 64),
		listIdx: make(map[listKey]TypeID, 32),
		litIdx:  make(map[Literal]TypeID, 32),
	}
	in.objects = append(in.objects, ObjectInfo{}) // reserve 0 as invalid sentinel
	in.lists = append(in.lists, nil)
	in.literals = append(in.literals, Literal{})
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Any = in.Intern(Type{Kind: KindAny})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Never = in.Intern(Type{Kind: KindNever})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Undefined = in.Intern(Type{Kind: KindUndefined})
	in.builtins.Null = in.Intern(Type{Kind: KindNull})
	in.builtins.Boolean = in.Intern(Type{Kind: KindBoolean})
	in.builtins.Number = in.Intern(Type{Kind: KindNumber})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.BigInt = in.Intern(Type{Kind: KindBigInt})
	in.builtins.Symbol = in.Intern(Type{Kind: KindSymbol})
	in.builtins.Object = in.Intern(Type{Kind: KindNonPrimitive})
	in.builtins.True = in.Literal(Literal{Kind: LitBoolean, Text: "true"})
	in.builtins.False = in.Literal(Literal{Kind: LitBoolean, Text: "false"})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	key := typeKey(t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf returns the kind of id, KindInvalid for unknown ids.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Payload uint32
}

// LiteralKind tells which primitive a literal type narrows.
type LiteralKind uint8

const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
)

// Literal is the value of a literal type; strings are stored unquoted.
type Literal struct {
	Kind LiteralKind
	Text string
}

// Literal interns a literal type.
func (in *Interner) Literal(lit Literal) TypeID {
	if id, ok := in.litIdx[lit]; ok {
		return id
	}
	in.literals = append(in.literals, lit)
	slot, err := safecast.Conv[uint32](len(in.literals) - 1)
	if err != nil {
		panic(fmt.Errorf("literal table overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: KindLiteral, Payload: slot})
	in.litIdx[lit] = id
	return id
}

// StringLiteral is a shorthand for Literal(Literal{Kind: LitString, Text: s}).
func (in *Interner) StringLiteral(s string) TypeID {
	return in.Literal(Literal{Kind: LitString, Text: s})
}

// LiteralValue returns the literal behind a KindLiteral type.
func (in *Interner) LiteralValue(id TypeID) (Literal, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindLiteral || tt.Payload == 0 || int(tt.Payload) >= len(in.literals) {
		return Literal{}, false
	}
	return in.literals[tt.Payload], true
}

// Widen maps a literal type to its primitive; other types are returned as is.
func (in *Interner) Widen(id TypeID) TypeID {
	lit, ok := in.LiteralValue(id)
	if !ok {
		return id
	}
	switch lit.Kind {
	case LitString:
		return in.builtins.String
	case LitNumber:
		return in.builtins.Number
	default:
		return in.builtins.Boolean
	}
}
