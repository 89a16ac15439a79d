package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"propguard/internal/ast"
	"propguard/internal/source"
)

// function lowers everything that has a parameter list: declarations,
// expressions, arrows, methods and type-level signatures. The function scope
// covers its type parameters, parameters and body.
func (l *lowerer) function(n *sitter.Node, kind ast.FuncKind, name ast.IdentID) ast.FuncID {
	fid := l.b.NewFunc(ast.Func{Kind: kind, Span: l.span(n), Name: name})
	prev := l.pushScope(ast.ScopeFunc, n, fid)
	scope := l.scope

	typeParams := l.typeParams(n.ChildByFieldName("type_parameters"), ast.FuncNode(fid))
	var params []ast.Param
	if p := n.ChildByFieldName("parameters"); p != nil {
		params = l.params(p, fid)
	} else if p := n.ChildByFieldName("parameter"); p != nil {
		// x => ...
		owner := ast.PatOwner{Kind: ast.OwnerParam, Func: fid}
		params = []ast.Param{{
			Pattern: l.bindingPattern(p, owner, ast.RoleDecl, source.NoStringID),
			Span:    l.span(p),
		}}
	}
	ret := l.typeExpr(n.ChildByFieldName("return_type"))

	var (
		body     []ast.StmtID
		bodyExpr ast.ExprID
		hasBody  bool
	)
	if bn := n.ChildByFieldName("body"); bn != nil {
		hasBody = true
		if bn.Type() == "statement_block" {
			for _, c := range namedChildren(bn) {
				body = append(body, l.stmt(c, 0)...)
			}
		} else {
			bodyExpr = l.expr(bn)
		}
	}
	l.popScope(prev)

	f := l.b.Func(fid)
	f.Scope = scope
	f.TypeParams = typeParams
	f.Params = params
	f.Return = ret
	f.Body = body
	f.BodyExpr = bodyExpr
	f.HasBody = hasBody
	return fid
}

func (l *lowerer) params(list *sitter.Node, fid ast.FuncID) []ast.Param {
	var out []ast.Param
	for _, c := range namedChildren(list) {
		var (
			pat      *sitter.Node
			typ      *sitter.Node
			def      *sitter.Node
			optional bool
		)
		switch c.Type() {
		case "required_parameter", "optional_parameter":
			pat = c.ChildByFieldName("pattern")
			typ = c.ChildByFieldName("type")
			def = c.ChildByFieldName("value")
			optional = c.Type() == "optional_parameter"
		case "identifier", "object_pattern", "array_pattern", "rest_pattern":
			pat = c
		case "assignment_pattern":
			pat = c.ChildByFieldName("left")
			def = c.ChildByFieldName("right")
		default:
			continue
		}
		// `this` не входит в список параметров
		if pat == nil || pat.Type() == "this" {
			continue
		}
		param := ast.Param{Optional: optional, Span: l.span(c)}
		if pat.Type() == "rest_pattern" {
			param.Rest = true
			pat = firstNamed(pat)
		}
		owner := ast.PatOwner{Kind: ast.OwnerParam, Func: fid, Param: len(out)}
		param.Pattern = l.bindingPattern(pat, owner, ast.RoleDecl, source.NoStringID)
		param.Type = l.typeExpr(typ)
		param.Default = l.expr(def)
		out = append(out, param)
	}
	return out
}

// bindingPattern lowers a declaration target. Identifiers directly inside an
// object pattern get RoleBindingElement and remember the destructured key.
func (l *lowerer) bindingPattern(n *sitter.Node, owner ast.PatOwner, role ast.IdentRole, key source.StringID) ast.PatternID {
	if n == nil {
		return ast.NoPatternID
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		pid := l.b.NewPattern(ast.Pattern{Kind: ast.PatIdent, Span: l.span(n), Owner: owner})
		identOwner := ast.PatternNode(pid)
		if role == ast.RoleBindingElement {
			identOwner = ast.PatternNode(owner.Parent)
		}
		id := l.ident(n, role, identOwner, key)
		l.b.Pattern(pid).Ident = id
		return pid

	case "object_pattern":
		pid := l.b.NewPattern(ast.Pattern{Kind: ast.PatObject, Span: l.span(n), Owner: owner})
		var elems []ast.PatElem
		for _, c := range namedChildren(n) {
			if el, ok := l.patElem(c, pid); ok {
				elems = append(elems, el)
			}
		}
		l.b.Pattern(pid).Elems = elems
		return pid

	case "array_pattern":
		pid := l.b.NewPattern(ast.Pattern{Kind: ast.PatArray, Span: l.span(n), Owner: owner})
		var items []ast.PatternID
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case "comment":
				continue
			case "assignment_pattern":
				c = c.ChildByFieldName("left")
			case "rest_pattern":
				c = firstNamed(c)
			}
			item := ast.PatOwner{Kind: ast.OwnerArrayItem, Parent: pid}
			items = append(items, l.bindingPattern(c, item, ast.RoleDecl, source.NoStringID))
		}
		l.b.Pattern(pid).Items = items
		return pid

	case "assignment_pattern":
		return l.bindingPattern(n.ChildByFieldName("left"), owner, role, key)

	default:
		return l.b.NewPattern(ast.Pattern{Kind: ast.PatOther, Span: l.span(n), Owner: owner})
	}
}

func (l *lowerer) patElem(c *sitter.Node, parent ast.PatternID) (ast.PatElem, bool) {
	el := ast.PatElem{Span: l.span(c)}
	switch c.Type() {
	case "shorthand_property_identifier_pattern":
		el.Key = l.intern(l.text(c))
		el.Value = l.elemValue(c, parent, el.Key)

	case "object_assignment_pattern":
		left := c.ChildByFieldName("left")
		if left == nil {
			return el, false
		}
		switch left.Type() {
		case "shorthand_property_identifier_pattern", "identifier":
			el.Key = l.intern(l.text(left))
		}
		el.Value = l.elemValue(left, parent, el.Key)
		el.Default = l.expr(c.ChildByFieldName("right"))

	case "pair_pattern":
		keyN := c.ChildByFieldName("key")
		value := c.ChildByFieldName("value")
		if keyN == nil || value == nil {
			return el, false
		}
		el.Key = l.propertyName(keyN)
		if keyN.Type() == "property_identifier" {
			el.KeyIdent = l.ident(keyN, ast.RoleBindingElement, ast.PatternNode(parent), el.Key)
		}
		if value.Type() == "assignment_pattern" {
			el.Default = l.expr(value.ChildByFieldName("right"))
			value = value.ChildByFieldName("left")
		}
		el.Value = l.elemValue(value, parent, el.Key)

	case "rest_pattern":
		el.Rest = true
		el.Value = l.elemValue(firstNamed(c), parent, source.NoStringID)

	default:
		return el, false
	}
	return el, true
}

func (l *lowerer) elemValue(n *sitter.Node, parent ast.PatternID, key source.StringID) ast.PatternID {
	owner := ast.PatOwner{Kind: ast.OwnerElement, Parent: parent, Key: key}
	return l.bindingPattern(n, owner, ast.RoleBindingElement, key)
}

func (l *lowerer) typeParams(n *sitter.Node, owner ast.Node) []ast.TypeParam {
	if n == nil {
		return nil
	}
	var out []ast.TypeParam
	for _, c := range namedChildren(n) {
		if c.Type() != "type_parameter" {
			continue
		}
		name := c.ChildByFieldName("name")
		if name == nil {
			continue
		}
		out = append(out, ast.TypeParam{
			Name:       l.ident(name, ast.RoleDecl, owner, source.NoStringID),
			Constraint: l.typeExpr(c.ChildByFieldName("constraint")),
			Default:    l.typeExpr(c.ChildByFieldName("value")),
		})
	}
	return out
}

// propertyName returns the static name of a property key, or NoStringID for
// computed keys that are not string literals.
func (l *lowerer) propertyName(n *sitter.Node) source.StringID {
	if n == nil {
		return source.NoStringID
	}
	switch n.Type() {
	case "property_identifier", "identifier", "private_property_identifier",
		"shorthand_property_identifier", "shorthand_property_identifier_pattern", "number":
		return l.intern(l.text(n))
	case "string":
		return l.intern(l.stringValue(n))
	case "computed_property_name":
		if inner := firstNamed(n); inner != nil && inner.Type() == "string" {
			return l.intern(l.stringValue(inner))
		}
	}
	return source.NoStringID
}
