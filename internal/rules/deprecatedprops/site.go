package deprecatedprops

import (
	"propguard/internal/ast"
	"propguard/internal/source"
)

// Attribute is a direct `name=value` attribute of an element.
type Attribute struct {
	Name string
	Span source.Span
}

// Spread is a `{...arg}` attribute. Ident is set only when arg is a plain
// identifier.
type Spread struct {
	Ident ast.IdentID
	Name  string
	Span  source.Span
}

// Site is one element usage: its attributes and spreads in source order.
type Site struct {
	Element ast.ElementID
	Attrs   []Attribute
	Spreads []Spread
}

// Empty reports a usage without attributes and spreads.
func (s Site) Empty() bool { return len(s.Attrs) == 0 && len(s.Spreads) == 0 }

// OpeningElement finds the opening element whose tag is the identifier id.
// Closing tags and attribute names have no such element. Member and
// namespaced tags never match.
func OpeningElement(b *ast.Builder, ancestors []ast.Node, id ast.IdentID) (ast.ElementID, bool) {
	for i := len(ancestors) - 1; i >= 0; i-- {
		n := ancestors[i]
		if n.Kind != ast.NodeJSXOpening {
			continue
		}
		el := b.Element(ast.ElementID(n.ID))
		if el != nil && el.Tag == id {
			return ast.ElementID(n.ID), true
		}
		// тег принадлежит ближайшему открывающему элементу
		return ast.NoElementID, false
	}
	return ast.NoElementID, false
}

// CollectSite gathers the attributes of el. Spreads are collected only when
// withSpreads is set; namespaced attribute names are skipped.
func CollectSite(b *ast.Builder, el ast.ElementID, withSpreads bool) Site {
	site := Site{Element: el}
	e := b.Element(el)
	if e == nil {
		return site
	}
	for _, aid := range e.Attrs {
		a := b.Attr(aid)
		if a == nil {
			continue
		}
		switch a.Kind {
		case ast.AttrDirect:
			if !a.Name.IsValid() {
				continue
			}
			site.Attrs = append(site.Attrs, Attribute{Name: b.Name(a.Name), Span: b.Ident(a.Name).Span})
		case ast.AttrSpread:
			if !withSpreads {
				continue
			}
			site.Spreads = append(site.Spreads, spreadOf(b, a))
		}
	}
	return site
}

func spreadOf(b *ast.Builder, a *ast.Attr) Spread {
	s := Spread{Span: a.Span}
	x := b.Expr(a.Value)
	if x == nil {
		return s
	}
	s.Span = x.Span
	if x.Kind == ast.ExprIdent && x.Ident.IsValid() {
		s.Ident = x.Ident
		s.Name = b.Name(x.Ident)
		s.Span = b.Ident(x.Ident).Span
	}
	return s
}
