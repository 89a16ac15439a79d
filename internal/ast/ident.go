package ast

import "propguard/internal/source"

// IdentRole classifies where an identifier occurrence sits. The set is closed;
// consumers switch over it exhaustively.
type IdentRole uint8

const (
	// RoleRef is a value reference inside an expression.
	RoleRef IdentRole = iota
	// RoleDecl names a declaration: variable, function, class, import binding,
	// type alias, interface or type parameter.
	RoleDecl
	// RoleBindingElement is a name inside an object binding pattern, either the
	// bound local or the property key of a `key: local` element.
	RoleBindingElement
	// RolePropertyKey is the key of a property or shorthand in an object literal.
	RolePropertyKey
	// RoleMemberName is the property in `a.b` or a qualified type name segment.
	RoleMemberName
	// RoleTypeRef is the leading name of a type reference or `typeof` query.
	RoleTypeRef
	// RoleTypeMember names a property or method signature in an object type.
	RoleTypeMember
	// RoleJSXTag is the tag name of an opening or self-closing element.
	RoleJSXTag
	// RoleJSXClosingTag is the tag name of a closing element.
	RoleJSXClosingTag
	// RoleJSXAttr is the name of a direct JSX attribute.
	RoleJSXAttr
)

func (r IdentRole) String() string {
	switch r {
	case RoleRef:
		return "ref"
	case RoleDecl:
		return "decl"
	case RoleBindingElement:
		return "binding-element"
	case RolePropertyKey:
		return "property-key"
	case RoleMemberName:
		return "member-name"
	case RoleTypeRef:
		return "type-ref"
	case RoleTypeMember:
		return "type-member"
	case RoleJSXTag:
		return "jsx-tag"
	case RoleJSXClosingTag:
		return "jsx-closing-tag"
	case RoleJSXAttr:
		return "jsx-attr"
	}
	return "unknown"
}

// Ident is a single identifier occurrence.
type Ident struct {
	Name  source.StringID
	Span  source.Span
	Role  IdentRole
	Scope ScopeID
	// Owner points at the construct that gives the role its meaning:
	// the object pattern for RoleBindingElement, the object literal for
	// RolePropertyKey, the JSX element for JSX roles.
	Owner Node
	// Key is the destructured member name for RoleBindingElement.
	Key source.StringID
}

type Idents struct {
	Arena *Arena[Ident]
}

func NewIdents(capHint uint) *Idents {
	return &Idents{Arena: NewArena[Ident](capHint)}
}

func (i *Idents) New(ident Ident) IdentID {
	return IdentID(i.Arena.Allocate(ident))
}

func (i *Idents) Get(id IdentID) *Ident {
	return i.Arena.Get(uint32(id))
}
