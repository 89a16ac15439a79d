package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"propguard/internal/ast"
	"propguard/internal/source"
)

func (l *lowerer) jsx(n *sitter.Node) ast.ExprID {
	eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprJSX, Span: l.span(n)})
	elID := l.b.NewElement(ast.Element{Expr: eid})
	l.b.Expr(eid).Element = elID

	var (
		openTag, closeTag *sitter.Node
		kids              []ast.ExprID
	)
	switch n.Type() {
	case "jsx_self_closing_element":
		openTag = n
	case "jsx_element":
		openTag = n.ChildByFieldName("open_tag")
		closeTag = n.ChildByFieldName("close_tag")
		for _, c := range namedChildren(n) {
			switch {
			case openTag == nil && c.Type() == "jsx_opening_element":
				openTag = c
				continue
			case closeTag == nil && c.Type() == "jsx_closing_element":
				closeTag = c
				continue
			case sameNode(c, openTag), sameNode(c, closeTag):
				continue
			}
			kids = append(kids, l.jsxChild(c)...)
		}
	case "jsx_fragment":
		for _, c := range namedChildren(n) {
			kids = append(kids, l.jsxChild(c)...)
		}
	}

	fragment := n.Type() == "jsx_fragment"
	if openTag != nil && openTag.ChildByFieldName("name") == nil && firstNamedOf(openTag, "identifier", "member_expression", "nested_identifier", "jsx_namespace_name") == nil {
		fragment = true
	}

	var (
		tag     ast.IdentID
		tagText string
		tagSpan source.Span
		opening source.Span
		attrs   []ast.AttrID
		closing ast.IdentID
	)
	if openTag != nil && !fragment {
		opening = l.span(openTag)
		name := openTag.ChildByFieldName("name")
		if name == nil {
			name = firstNamedOf(openTag, "identifier", "member_expression", "nested_identifier", "jsx_namespace_name")
		}
		if name != nil {
			tagText = l.text(name)
			tagSpan = l.span(name)
			if name.Type() == "identifier" {
				tag = l.ident(name, ast.RoleJSXTag, ast.OpeningNode(elID), source.NoStringID)
			}
		}
		for _, c := range namedChildren(openTag) {
			if sameNode(c, name) {
				continue
			}
			if id := l.jsxAttr(c, elID); id.IsValid() {
				attrs = append(attrs, id)
			}
		}
	}
	if closeTag != nil && !fragment {
		name := closeTag.ChildByFieldName("name")
		if name == nil {
			name = firstNamedOf(closeTag, "identifier")
		}
		if name != nil && name.Type() == "identifier" {
			closing = l.ident(name, ast.RoleJSXClosingTag, ast.ClosingNode(elID), source.NoStringID)
		}
	}

	el := l.b.Element(elID)
	el.Tag = tag
	el.TagText = tagText
	el.TagSpan = tagSpan
	el.Opening = opening
	el.Attrs = attrs
	el.Children = kids
	el.Closing = closing
	el.SelfClosing = n.Type() == "jsx_self_closing_element"
	el.Fragment = fragment
	return eid
}

func firstNamedOf(n *sitter.Node, types ...string) *sitter.Node {
	for _, c := range namedChildren(n) {
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

func (l *lowerer) jsxChild(c *sitter.Node) []ast.ExprID {
	switch c.Type() {
	case "jsx_text", "html_character_reference", "comment", "jsx_opening_element", "jsx_closing_element":
		return nil
	case "jsx_expression":
		kids := nonComment(namedChildren(c))
		if len(kids) == 0 {
			return nil
		}
		inner := kids[0]
		if inner.Type() == "spread_element" {
			inner = firstNamed(inner)
		}
		if id := l.expr(inner); id.IsValid() {
			return []ast.ExprID{id}
		}
		return nil
	default:
		if id := l.expr(c); id.IsValid() {
			return []ast.ExprID{id}
		}
		return nil
	}
}

// jsxAttr lowers `name`, `name="v"`, `name={expr}` and `{...spread}`.
func (l *lowerer) jsxAttr(c *sitter.Node, elID ast.ElementID) ast.AttrID {
	switch c.Type() {
	case "jsx_attribute":
		aid := l.b.NewAttr(ast.Attr{Kind: ast.AttrDirect, Element: elID, Span: l.span(c)})
		kids := nonComment(namedChildren(c))
		if len(kids) == 0 {
			return aid
		}
		nameN := kids[0]
		var name ast.IdentID
		switch nameN.Type() {
		case "property_identifier", "identifier":
			name = l.ident(nameN, ast.RoleJSXAttr, ast.OpeningNode(elID), source.NoStringID)
		}
		var value ast.ExprID
		if len(kids) > 1 {
			v := kids[1]
			if v.Type() == "jsx_expression" {
				value = l.expr(firstNamed(v))
			} else {
				value = l.expr(v)
			}
		}
		a := l.b.Attr(aid)
		a.Name = name
		a.NameText = l.text(nameN)
		a.Value = value
		return aid

	case "jsx_expression":
		spread := firstNamed(c)
		if spread == nil || spread.Type() != "spread_element" {
			return ast.NoAttrID
		}
		aid := l.b.NewAttr(ast.Attr{Kind: ast.AttrSpread, Element: elID, Span: l.span(c)})
		value := l.expr(firstNamed(spread))
		l.b.Attr(aid).Value = value
		return aid
	}
	return ast.NoAttrID
}
