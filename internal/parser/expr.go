package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"propguard/internal/ast"
	"propguard/internal/source"
)

func (l *lowerer) expr(n *sitter.Node) ast.ExprID {
	if n == nil {
		return ast.NoExprID
	}
	switch n.Type() {
	case "comment":
		return ast.NoExprID

	case "identifier":
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprIdent, Span: l.span(n)})
		id := l.ident(n, ast.RoleRef, ast.ExprNode(eid), source.NoStringID)
		l.b.Expr(eid).Ident = id
		return eid

	case "undefined":
		return l.b.NewExpr(ast.Expr{Kind: ast.ExprUndefined, Span: l.span(n)})
	case "null":
		return l.b.NewExpr(ast.Expr{Kind: ast.ExprNull, Span: l.span(n)})
	case "true", "false":
		return l.b.NewExpr(ast.Expr{Kind: ast.ExprBool, Span: l.span(n), Text: n.Type()})
	case "number":
		return l.b.NewExpr(ast.Expr{Kind: ast.ExprNumber, Span: l.span(n), Text: l.text(n)})
	case "string":
		return l.b.NewExpr(ast.Expr{Kind: ast.ExprString, Span: l.span(n), Text: l.stringValue(n)})

	case "template_string":
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprTemplate, Span: l.span(n)})
		var list []ast.ExprID
		for _, c := range namedChildren(n) {
			if c.Type() == "template_substitution" {
				if id := l.expr(firstNamed(c)); id.IsValid() {
					list = append(list, id)
				}
			}
		}
		l.b.Expr(eid).List = list
		return eid

	case "object":
		return l.object(n)

	case "array":
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprArray, Span: l.span(n)})
		list := l.exprList(n)
		l.b.Expr(eid).List = list
		return eid

	case "arrow_function", "function", "function_expression", "generator_function":
		kind := ast.FuncExpr
		if n.Type() == "arrow_function" {
			kind = ast.FuncArrow
		}
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprFunc, Span: l.span(n)})
		fid := l.function(n, kind, ast.NoIdentID)
		l.b.Expr(eid).Func = fid
		return eid

	case "call_expression", "new_expression":
		kind, callee := ast.ExprCall, n.ChildByFieldName("function")
		if n.Type() == "new_expression" {
			kind, callee = ast.ExprNew, n.ChildByFieldName("constructor")
		}
		eid := l.b.NewExpr(ast.Expr{Kind: kind, Span: l.span(n)})
		x := l.expr(callee)
		var targs []ast.TypeID
		for _, c := range namedChildren(n.ChildByFieldName("type_arguments")) {
			if id := l.typeExpr(c); id.IsValid() {
				targs = append(targs, id)
			}
		}
		var args []ast.ExprID
		if a := n.ChildByFieldName("arguments"); a != nil {
			if a.Type() == "arguments" {
				args = l.exprList(a)
			} else if id := l.expr(a); id.IsValid() {
				// tagged template
				args = []ast.ExprID{id}
			}
		}
		e := l.b.Expr(eid)
		e.X = x
		e.TypeArgs = targs
		e.List = args
		return eid

	case "member_expression":
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprMember, Span: l.span(n)})
		x := l.expr(n.ChildByFieldName("object"))
		var (
			prop ast.IdentID
			text string
		)
		if p := n.ChildByFieldName("property"); p != nil {
			text = l.text(p)
			switch p.Type() {
			case "property_identifier", "private_property_identifier", "identifier":
				prop = l.ident(p, ast.RoleMemberName, ast.ExprNode(eid), source.NoStringID)
			}
		}
		e := l.b.Expr(eid)
		e.X = x
		e.Ident = prop
		e.Text = text
		return eid

	case "as_expression", "satisfies_expression":
		kind := ast.ExprAs
		if n.Type() == "satisfies_expression" {
			kind = ast.ExprSatisfies
		}
		eid := l.b.NewExpr(ast.Expr{Kind: kind, Span: l.span(n)})
		var (
			x   ast.ExprID
			typ ast.TypeID
		)
		kids := nonComment(namedChildren(n))
		if len(kids) > 0 {
			x = l.expr(kids[0])
		}
		if len(kids) > 1 {
			typ = l.typeExpr(kids[1])
		}
		e := l.b.Expr(eid)
		e.X = x
		e.Type = typ
		return eid

	case "type_assertion":
		// <T>expr
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprAs, Span: l.span(n)})
		var (
			x   ast.ExprID
			typ ast.TypeID
		)
		for _, c := range nonComment(namedChildren(n)) {
			if c.Type() == "type_arguments" {
				typ = l.typeExpr(firstNamed(c))
			} else {
				x = l.expr(c)
			}
		}
		e := l.b.Expr(eid)
		e.X = x
		e.Type = typ
		return eid

	case "non_null_expression", "parenthesized_expression":
		kind := ast.ExprParen
		if n.Type() == "non_null_expression" {
			kind = ast.ExprNonNull
		}
		eid := l.b.NewExpr(ast.Expr{Kind: kind, Span: l.span(n)})
		var x ast.ExprID
		if kids := nonComment(namedChildren(n)); len(kids) > 0 {
			x = l.expr(kids[0])
		}
		l.b.Expr(eid).X = x
		return eid

	case "assignment_expression":
		return l.assignment(n)

	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return l.jsx(n)

	case "class":
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprOther, Span: l.span(n), Text: "class"})
		var list []ast.ExprID
		if body := n.ChildByFieldName("body"); body != nil {
			prev := l.pushScope(ast.ScopeClass, body, ast.NoFuncID)
			for _, k := range l.classBody(body) {
				switch k.Kind {
				case ast.NodeFunc:
					fe := l.b.NewExpr(ast.Expr{Kind: ast.ExprFunc, Span: l.b.Func(ast.FuncID(k.ID)).Span, Func: ast.FuncID(k.ID)})
					list = append(list, fe)
				case ast.NodeExpr:
					list = append(list, ast.ExprID(k.ID))
				}
			}
			l.popScope(prev)
		}
		l.b.Expr(eid).List = list
		return eid

	default:
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprOther, Span: l.span(n), Text: n.Type()})
		list := l.exprList(n)
		l.b.Expr(eid).List = list
		return eid
	}
}

func nonComment(nodes []*sitter.Node) []*sitter.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Type() != "comment" {
			out = append(out, n)
		}
	}
	return out
}

// exprList lowers the named children of n that are expressions.
func (l *lowerer) exprList(n *sitter.Node) []ast.ExprID {
	var out []ast.ExprID
	for _, c := range namedChildren(n) {
		t := c.Type()
		if t == "comment" || isTypeNode(t) {
			continue
		}
		if statementTypes[t] {
			// тело class static block и подобное
			for _, s := range l.stmt(c, 0) {
				if st := l.b.Stmt(s); st.Kind == ast.StmtExpr || st.Kind == ast.StmtReturn {
					if st.Expr.IsValid() {
						out = append(out, st.Expr)
					}
				}
			}
			continue
		}
		if id := l.expr(c); id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

func (l *lowerer) object(n *sitter.Node) ast.ExprID {
	eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprObject, Span: l.span(n)})
	oid := l.b.NewObject(ast.Object{Expr: eid})
	owner := ast.ExprNode(eid)

	var props []ast.ObjectProp
	for _, c := range namedChildren(n) {
		p := ast.ObjectProp{Span: l.span(c)}
		switch c.Type() {
		case "pair":
			keyN := c.ChildByFieldName("key")
			p.Kind = ast.PropPair
			p.Name = l.propertyName(keyN)
			if keyN != nil && keyN.Type() == "property_identifier" {
				p.Key = l.ident(keyN, ast.RolePropertyKey, owner, source.NoStringID)
			}
			p.Value = l.expr(c.ChildByFieldName("value"))
		case "shorthand_property_identifier":
			p.Kind = ast.PropShorthand
			p.Name = l.intern(l.text(c))
			p.Key = l.ident(c, ast.RolePropertyKey, owner, source.NoStringID)
		case "spread_element":
			p.Kind = ast.PropSpread
			p.Value = l.expr(firstNamed(c))
		case "method_definition":
			p.Kind = ast.PropMethod
			p.Name = l.propertyName(c.ChildByFieldName("name"))
			p.Func = l.function(c, ast.FuncMethod, ast.NoIdentID)
		default:
			continue
		}
		props = append(props, p)
	}
	l.b.Object(oid).Props = props
	l.b.Expr(eid).Object = oid
	return eid
}

func (l *lowerer) assignment(n *sitter.Node) ast.ExprID {
	eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprAssign, Span: l.span(n)})
	left := n.ChildByFieldName("left")
	var x ast.ExprID
	if left != nil && (left.Type() == "object_pattern" || left.Type() == "array_pattern") {
		x = l.assignTarget(left, ast.NoObjectID, source.NoStringID)
	} else {
		x = l.expr(left)
	}
	y := l.expr(n.ChildByFieldName("right"))

	e := l.b.Expr(eid)
	e.X = x
	e.Y = y
	if target := l.b.Expr(x); target != nil && target.Kind == ast.ExprObject {
		l.b.Object(target.Object).AssignedFrom = y
	}
	return eid
}

// assignTarget lowers the left side of a destructuring assignment. Object
// targets become pattern objects whose keys carry RolePropertyKey.
func (l *lowerer) assignTarget(n *sitter.Node, parent ast.ObjectID, parentKey source.StringID) ast.ExprID {
	switch n.Type() {
	case "object_pattern":
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprObject, Span: l.span(n)})
		oid := l.b.NewObject(ast.Object{Expr: eid, Pattern: true, Parent: parent, ParentKey: parentKey})
		owner := ast.ExprNode(eid)

		var props []ast.ObjectProp
		for _, c := range namedChildren(n) {
			p := ast.ObjectProp{Span: l.span(c)}
			switch c.Type() {
			case "shorthand_property_identifier_pattern":
				p.Kind = ast.PropShorthand
				p.Name = l.intern(l.text(c))
				p.Key = l.ident(c, ast.RolePropertyKey, owner, source.NoStringID)
			case "object_assignment_pattern":
				left := c.ChildByFieldName("left")
				if left == nil {
					continue
				}
				p.Kind = ast.PropShorthand
				p.Name = l.intern(l.text(left))
				p.Key = l.ident(left, ast.RolePropertyKey, owner, source.NoStringID)
			case "pair_pattern":
				keyN := c.ChildByFieldName("key")
				value := c.ChildByFieldName("value")
				p.Kind = ast.PropPair
				p.Name = l.propertyName(keyN)
				if keyN != nil && keyN.Type() == "property_identifier" {
					p.Key = l.ident(keyN, ast.RolePropertyKey, owner, source.NoStringID)
				}
				if value != nil && value.Type() == "assignment_pattern" {
					value = value.ChildByFieldName("left")
				}
				if value != nil {
					p.Value = l.assignTarget(value, oid, p.Name)
				}
			case "rest_pattern":
				p.Kind = ast.PropSpread
				p.Value = l.expr(firstNamed(c))
			default:
				continue
			}
			props = append(props, p)
		}
		l.b.Object(oid).Props = props
		l.b.Expr(eid).Object = oid
		return eid

	case "array_pattern":
		eid := l.b.NewExpr(ast.Expr{Kind: ast.ExprArray, Span: l.span(n)})
		var list []ast.ExprID
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case "comment":
				continue
			case "assignment_pattern":
				c = c.ChildByFieldName("left")
			case "rest_pattern":
				c = firstNamed(c)
			}
			if c == nil {
				continue
			}
			if id := l.assignTarget(c, ast.NoObjectID, source.NoStringID); id.IsValid() {
				list = append(list, id)
			}
		}
		l.b.Expr(eid).List = list
		return eid

	default:
		return l.expr(n)
	}
}
