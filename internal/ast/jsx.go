package ast

import "propguard/internal/source"

type Element struct {
	Expr ExprID
	// Tag is set for plain identifier tags only; member (`<Lib.Button>`),
	// namespaced tags and fragments leave it empty.
	Tag      IdentID
	TagText  string
	TagSpan  source.Span
	Opening  source.Span
	Attrs    []AttrID
	Children []ExprID
	Closing  IdentID
	// SelfClosing elements have no closing tag.
	SelfClosing bool
	Fragment    bool
}

// AttrKind distinguishes `name=value` attributes from `{...spread}` ones.
type AttrKind uint8

const (
	AttrDirect AttrKind = iota
	AttrSpread
)

type Attr struct {
	Kind    AttrKind
	Element ElementID
	// Name is the attribute name identifier (AttrDirect, non-namespaced).
	Name     IdentID
	NameText string
	// Value is the attribute value for AttrDirect (may be empty for boolean
	// shorthand) and the spread argument for AttrSpread.
	Value ExprID
	Span  source.Span
}
