package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"propguard/internal/ast"
	"propguard/internal/jsdoc"
	"propguard/internal/source"
)

func isTypeNode(t string) bool {
	return strings.HasPrefix(t, "type_") || strings.HasSuffix(t, "_type") ||
		strings.HasSuffix(t, "_annotation") || t == "asserts" || t == "type_predicate"
}

func (l *lowerer) typeExpr(n *sitter.Node) ast.TypeID {
	if n == nil {
		return ast.NoTypeID
	}
	switch n.Type() {
	case "type_annotation", "opting_type_annotation", "omitting_type_annotation", "adding_type_annotation",
		"parenthesized_type", "constraint", "default_type", "readonly_type", "optional_type", "rest_type":
		return l.typeExpr(firstNamed(n))

	case "required_parameter", "optional_parameter":
		// именованный элемент кортежа: [a: string]
		return l.typeExpr(n.ChildByFieldName("type"))

	case "type_identifier", "nested_type_identifier", "identifier":
		return l.refType(n, n, nil)

	case "generic_type":
		return l.refType(n, n.ChildByFieldName("name"), n.ChildByFieldName("type_arguments"))

	case "object_type":
		tid := l.b.NewType(ast.TypeExpr{Kind: ast.TypeObject, Span: l.span(n)})
		members := l.members(n)
		l.b.Type(tid).Members = members
		return tid

	case "union_type", "intersection_type":
		kind := ast.TypeUnion
		if n.Type() == "intersection_type" {
			kind = ast.TypeIntersection
		}
		tid := l.b.NewType(ast.TypeExpr{Kind: kind, Span: l.span(n)})
		args := l.flatten(n, n.Type(), nil)
		l.b.Type(tid).Args = args
		return tid

	case "function_type", "constructor_type":
		tid := l.b.NewType(ast.TypeExpr{Kind: ast.TypeFunc, Span: l.span(n)})
		fid := l.function(n, ast.FuncSignature, ast.NoIdentID)
		l.b.Type(tid).Func = fid
		return tid

	case "array_type":
		tid := l.b.NewType(ast.TypeExpr{Kind: ast.TypeArray, Span: l.span(n)})
		elem := l.typeExpr(firstNamed(n))
		l.b.Type(tid).Elem = elem
		return tid

	case "tuple_type":
		tid := l.b.NewType(ast.TypeExpr{Kind: ast.TypeTuple, Span: l.span(n)})
		var args []ast.TypeID
		for _, c := range namedChildren(n) {
			if id := l.typeExpr(c); id.IsValid() {
				args = append(args, id)
			}
		}
		l.b.Type(tid).Args = args
		return tid

	case "literal_type":
		return l.literalType(n, firstNamed(n))

	case "string", "number", "true", "false", "null", "undefined", "unary_expression":
		return l.literalType(n, n)

	case "predefined_type":
		return l.b.NewType(ast.TypeExpr{Kind: ast.TypePredefined, Span: l.span(n), Text: l.text(n)})

	case "template_literal_type":
		return l.b.NewType(ast.TypeExpr{Kind: ast.TypePredefined, Span: l.span(n), Text: "string"})

	case "type_query":
		tid := l.b.NewType(ast.TypeExpr{Kind: ast.TypeQuery, Span: l.span(n)})
		inner := firstNamed(n)
		if inner == nil {
			l.b.Type(tid).Kind = ast.TypeOpaque
			return tid
		}
		switch inner.Type() {
		case "identifier", "member_expression", "nested_identifier", "nested_type_identifier", "type_identifier":
			name := l.qualifiedName(inner, ast.TypeNode(tid))
			l.b.Type(tid).Name = name
		default:
			l.b.Type(tid).Kind = ast.TypeOpaque
		}
		return tid

	case "index_type_query":
		tid := l.b.NewType(ast.TypeExpr{Kind: ast.TypeKeyof, Span: l.span(n)})
		elem := l.typeExpr(firstNamed(n))
		l.b.Type(tid).Elem = elem
		return tid

	case "lookup_type":
		tid := l.b.NewType(ast.TypeExpr{Kind: ast.TypeIndexed, Span: l.span(n)})
		kids := namedChildren(n)
		var obj, idx ast.TypeID
		if len(kids) > 0 {
			obj = l.typeExpr(kids[0])
		}
		if len(kids) > 1 {
			idx = l.typeExpr(kids[1])
		}
		t := l.b.Type(tid)
		t.Elem = obj
		t.Index = idx
		return tid

	case "this_type", "this":
		return l.b.NewType(ast.TypeExpr{Kind: ast.TypeThis, Span: l.span(n)})

	default:
		return l.b.NewType(ast.TypeExpr{Kind: ast.TypeOpaque, Span: l.span(n), Text: n.Type()})
	}
}

func (l *lowerer) refType(n, name, args *sitter.Node) ast.TypeID {
	tid := l.b.NewType(ast.TypeExpr{Kind: ast.TypeRef, Span: l.span(n)})
	segs := l.qualifiedName(name, ast.TypeNode(tid))
	var targs []ast.TypeID
	for _, c := range namedChildren(args) {
		if id := l.typeExpr(c); id.IsValid() {
			targs = append(targs, id)
		}
	}
	t := l.b.Type(tid)
	t.Name = segs
	t.Args = targs
	return tid
}

// qualifiedName lowers `A`, `A.B.C` or `typeof a.b` into identifier segments;
// the first segment is RoleTypeRef, the rest RoleMemberName.
func (l *lowerer) qualifiedName(n *sitter.Node, owner ast.Node) []ast.IdentID {
	var leaves []*sitter.Node
	var collect func(*sitter.Node)
	collect = func(x *sitter.Node) {
		switch x.Type() {
		case "identifier", "type_identifier", "property_identifier":
			leaves = append(leaves, x)
			return
		}
		for _, c := range namedChildren(x) {
			collect(c)
		}
	}
	if n != nil {
		collect(n)
	}
	out := make([]ast.IdentID, 0, len(leaves))
	for i, leaf := range leaves {
		role := ast.RoleMemberName
		if i == 0 {
			role = ast.RoleTypeRef
		}
		out = append(out, l.ident(leaf, role, owner, source.NoStringID))
	}
	return out
}

func (l *lowerer) flatten(n *sitter.Node, kind string, out []ast.TypeID) []ast.TypeID {
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "comment":
		case kind:
			out = l.flatten(c, kind, out)
		default:
			if id := l.typeExpr(c); id.IsValid() {
				out = append(out, id)
			}
		}
	}
	return out
}

func (l *lowerer) literalType(n, lit *sitter.Node) ast.TypeID {
	t := ast.TypeExpr{Kind: ast.TypeLiteral, Span: l.span(n)}
	if lit == nil {
		t.Kind = ast.TypeOpaque
		return l.b.NewType(t)
	}
	switch lit.Type() {
	case "string":
		t.Lit, t.Text = ast.LitString, l.stringValue(lit)
	case "number", "unary_expression":
		t.Lit, t.Text = ast.LitNumber, l.text(lit)
	case "true", "false":
		t.Lit, t.Text = ast.LitBool, lit.Type()
	case "null":
		t.Lit, t.Text = ast.LitNull, "null"
	case "undefined":
		t.Lit, t.Text = ast.LitUndefined, "undefined"
	default:
		t.Kind = ast.TypeOpaque
	}
	return l.b.NewType(t)
}

// members lowers the body of an object type or interface. Every /** */ block
// seen since the previous member is attached to the next one.
func (l *lowerer) members(body *sitter.Node) []ast.MemberID {
	var (
		out     []ast.MemberID
		pending []jsdoc.Comment
		docSpan source.Span
		last    *sitter.Node
	)
	addDoc := func(c *sitter.Node) {
		if cm, ok := jsdoc.Parse(l.text(c)); ok {
			if len(pending) == 0 {
				docSpan = l.span(c)
			}
			pending = append(pending, cm)
		}
	}
	for _, c := range namedChildren(body) {
		if c.Type() == "comment" {
			addDoc(c)
			continue
		}
		if len(pending) == 0 && last != nil {
			// без `;` комментарий может оказаться внутри предыдущего члена
			for _, tc := range trailingComments(last) {
				addDoc(tc)
			}
		}
		last = c
		var doc *ast.Doc
		if len(pending) > 0 {
			doc = &ast.Doc{Comment: jsdoc.Merge(pending...), Span: docSpan}
		}
		if id := l.member(c, doc); id.IsValid() {
			out = append(out, id)
		}
		pending = nil
	}
	return out
}

// trailingComments returns the comments that end n, descending through its
// last children.
func trailingComments(n *sitter.Node) []*sitter.Node {
	for n != nil {
		count := int(n.ChildCount())
		if count == 0 {
			return nil
		}
		i := count - 1
		var tail []*sitter.Node
		for ; i >= 0 && n.Child(i).Type() == "comment"; i-- {
			tail = append([]*sitter.Node{n.Child(i)}, tail...)
		}
		if len(tail) > 0 {
			return tail
		}
		n = n.Child(i)
	}
	return nil
}

func (l *lowerer) member(c *sitter.Node, doc *ast.Doc) ast.MemberID {
	var kind ast.MemberKind
	switch c.Type() {
	case "property_signature", "public_field_definition":
		kind = ast.MemberProperty
	case "method_signature", "method_definition", "abstract_method_signature":
		kind = ast.MemberMethod
	case "call_signature":
		kind = ast.MemberCall
	case "construct_signature":
		kind = ast.MemberConstruct
	case "index_signature":
		kind = ast.MemberIndex
	default:
		return ast.NoMemberID
	}

	mid := l.b.NewMember(ast.Member{
		Kind:     kind,
		Span:     l.span(c),
		Optional: hasToken(c, "?"),
		Readonly: hasToken(c, "readonly"),
		Doc:      doc,
	})
	var (
		name      source.StringID
		nameIdent ast.IdentID
		typ       ast.TypeID
		fn        ast.FuncID
	)
	if kind == ast.MemberProperty || kind == ast.MemberMethod {
		if nn := c.ChildByFieldName("name"); nn != nil {
			name = l.propertyName(nn)
			if nn.Type() == "property_identifier" {
				nameIdent = l.ident(nn, ast.RoleTypeMember, ast.MemberNode(mid), source.NoStringID)
			}
		}
	}
	switch kind {
	case ast.MemberProperty, ast.MemberIndex:
		typ = l.typeExpr(c.ChildByFieldName("type"))
	case ast.MemberMethod, ast.MemberCall, ast.MemberConstruct:
		fn = l.function(c, ast.FuncSignature, ast.NoIdentID)
	}
	m := l.b.Member(mid)
	m.Name = name
	m.NameIdent = nameIdent
	m.Type = typ
	m.Func = fn
	return mid
}

// leadingDoc collects /** */ comments directly before a declaration, looking
// through an enclosing export statement.
func (l *lowerer) leadingDoc(n *sitter.Node) *ast.Doc {
	target := n
	for p := target.Parent(); p != nil; p = p.Parent() {
		if t := p.Type(); t != "export_statement" && t != "ambient_declaration" {
			break
		}
		target = p
	}
	var (
		blocks []jsdoc.Comment
		first  source.Span
	)
	for prev := target.PrevSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevSibling() {
		cm, ok := jsdoc.Parse(l.text(prev))
		if !ok {
			continue
		}
		blocks = append([]jsdoc.Comment{cm}, blocks...)
		first = l.span(prev)
	}
	if len(blocks) == 0 {
		return nil
	}
	return &ast.Doc{Comment: jsdoc.Merge(blocks...), Span: first}
}
