package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"propguard/internal/ast"
	"propguard/internal/source"
)

var statementTypes = map[string]bool{
	"expression_statement":           true,
	"lexical_declaration":            true,
	"variable_declaration":           true,
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function_signature":             true,
	"class_declaration":              true,
	"abstract_class_declaration":     true,
	"type_alias_declaration":         true,
	"interface_declaration":          true,
	"enum_declaration":               true,
	"ambient_declaration":            true,
	"import_statement":               true,
	"export_statement":               true,
	"statement_block":                true,
	"return_statement":               true,
	"if_statement":                   true,
	"for_statement":                  true,
	"for_in_statement":               true,
	"while_statement":                true,
	"do_statement":                   true,
	"try_statement":                  true,
	"switch_statement":               true,
	"throw_statement":                true,
	"labeled_statement":              true,
	"with_statement":                 true,
	"break_statement":                true,
	"continue_statement":             true,
	"debugger_statement":             true,
	"empty_statement":                true,
	"module":                         true,
	"internal_module":                true,
}

// containerTypes group statements or expressions without meaning of their own.
var containerTypes = map[string]bool{
	"else_clause":    true,
	"switch_body":    true,
	"switch_case":    true,
	"switch_default": true,
	"catch_clause":   true,
	"finally_clause": true,
	"ERROR":          true,
}

func one(id ast.StmtID) []ast.StmtID {
	if !id.IsValid() {
		return nil
	}
	return []ast.StmtID{id}
}

// stmt lowers a statement; flags carry the export/ambient context of wrappers.
func (l *lowerer) stmt(n *sitter.Node, flags ast.StmtFlags) []ast.StmtID {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "comment", "empty_statement", "hash_bang_line", "debugger_statement",
		"break_statement", "continue_statement":
		return nil
	case "import_statement":
		return one(l.importStmt(n))
	case "export_statement":
		return l.exportStmt(n, flags)
	case "lexical_declaration", "variable_declaration":
		return one(l.varStmt(n, flags))
	case "function_declaration", "generator_function_declaration", "function_signature":
		return one(l.funcStmt(n, flags))
	case "class_declaration", "abstract_class_declaration":
		return one(l.classStmt(n, flags))
	case "type_alias_declaration":
		return one(l.typeAliasStmt(n, flags))
	case "interface_declaration":
		return one(l.interfaceStmt(n, flags))
	case "ambient_declaration":
		var out []ast.StmtID
		for _, c := range namedChildren(n) {
			if statementTypes[c.Type()] {
				out = append(out, l.stmt(c, flags|ast.StmtAmbient)...)
			}
		}
		return out
	case "statement_block":
		return one(l.blockStmt(n))
	case "expression_statement":
		return one(l.b.NewStmt(ast.Stmt{Kind: ast.StmtExpr, Span: l.span(n), Flags: flags, Expr: l.expr(firstNamed(n))}))
	case "return_statement":
		return one(l.b.NewStmt(ast.Stmt{Kind: ast.StmtReturn, Span: l.span(n), Expr: l.expr(firstNamed(n))}))
	default:
		return one(l.b.NewStmt(ast.Stmt{Kind: ast.StmtOther, Span: l.span(n), Flags: flags, Children: l.nested(n)}))
	}
}

// nested lowers the named children of a construct that is not modelled
// directly, keeping statements and expressions reachable for walkers.
func (l *lowerer) nested(n *sitter.Node) []ast.Node {
	var out []ast.Node
	for _, c := range namedChildren(n) {
		t := c.Type()
		switch {
		case t == "comment", t == "statement_identifier", isTypeNode(t):
		case statementTypes[t]:
			for _, id := range l.stmt(c, 0) {
				out = append(out, ast.StmtNode(id))
			}
		case containerTypes[t]:
			out = append(out, l.nested(c)...)
		default:
			if id := l.expr(c); id.IsValid() {
				out = append(out, ast.ExprNode(id))
			}
		}
	}
	return out
}

func (l *lowerer) blockStmt(n *sitter.Node) ast.StmtID {
	prev := l.pushScope(ast.ScopeBlock, n, ast.NoFuncID)
	var stmts []ast.StmtID
	for _, c := range namedChildren(n) {
		stmts = append(stmts, l.stmt(c, 0)...)
	}
	scope := l.scope
	l.popScope(prev)
	return l.b.NewStmt(ast.Stmt{Kind: ast.StmtBlock, Span: l.span(n), Stmts: stmts, Scope: scope})
}

func (l *lowerer) varStmt(n *sitter.Node, flags ast.StmtFlags) ast.StmtID {
	kind := ast.VarVar
	if n.Type() == "lexical_declaration" {
		kind = ast.VarConst
		k := n.ChildByFieldName("kind")
		if k == nil {
			k = n.Child(0)
		}
		if k != nil && k.Type() == "let" {
			kind = ast.VarLet
		}
	}
	sid := l.b.NewStmt(ast.Stmt{Kind: ast.StmtVar, Span: l.span(n), Flags: flags, VarKind: kind})

	var decls []ast.Declarator
	for _, c := range namedChildren(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		owner := ast.PatOwner{Kind: ast.OwnerDeclarator, Stmt: sid, Decl: len(decls)}
		d := ast.Declarator{Span: l.span(c)}
		d.Pattern = l.bindingPattern(c.ChildByFieldName("name"), owner, ast.RoleDecl, source.NoStringID)
		d.Type = l.typeExpr(c.ChildByFieldName("type"))
		d.Init = l.expr(c.ChildByFieldName("value"))
		decls = append(decls, d)
	}
	l.b.Stmt(sid).Decls = decls
	return sid
}

func (l *lowerer) funcStmt(n *sitter.Node, flags ast.StmtFlags) ast.StmtID {
	sid := l.b.NewStmt(ast.Stmt{Kind: ast.StmtFunc, Span: l.span(n), Flags: flags})
	name := ast.NoIdentID
	if nn := n.ChildByFieldName("name"); nn != nil {
		name = l.ident(nn, ast.RoleDecl, ast.StmtNode(sid), source.NoStringID)
	}
	kind := ast.FuncDecl
	if n.Type() == "function_signature" {
		kind = ast.FuncSignature
	}
	fid := l.function(n, kind, name)
	s := l.b.Stmt(sid)
	s.Name = name
	s.Func = fid
	s.Doc = l.leadingDoc(n)
	return sid
}

func (l *lowerer) classStmt(n *sitter.Node, flags ast.StmtFlags) ast.StmtID {
	sid := l.b.NewStmt(ast.Stmt{Kind: ast.StmtClass, Span: l.span(n), Flags: flags})
	name := ast.NoIdentID
	if nn := n.ChildByFieldName("name"); nn != nil {
		name = l.ident(nn, ast.RoleDecl, ast.StmtNode(sid), source.NoStringID)
	}
	var kids []ast.Node
	if body := n.ChildByFieldName("body"); body != nil {
		prev := l.pushScope(ast.ScopeClass, body, ast.NoFuncID)
		kids = l.classBody(body)
		l.popScope(prev)
	}
	s := l.b.Stmt(sid)
	s.Name = name
	s.Children = kids
	return sid
}

func (l *lowerer) classBody(body *sitter.Node) []ast.Node {
	var out []ast.Node
	for _, c := range namedChildren(body) {
		switch c.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			out = append(out, ast.FuncNode(l.function(c, ast.FuncMethod, ast.NoIdentID)))
		case "public_field_definition", "field_definition":
			if v := l.expr(c.ChildByFieldName("value")); v.IsValid() {
				out = append(out, ast.ExprNode(v))
			}
		case "class_static_block":
			out = append(out, l.nested(c)...)
		}
	}
	return out
}

func (l *lowerer) typeAliasStmt(n *sitter.Node, flags ast.StmtFlags) ast.StmtID {
	sid := l.b.NewStmt(ast.Stmt{Kind: ast.StmtTypeAlias, Span: l.span(n), Flags: flags})
	name := l.ident(n.ChildByFieldName("name"), ast.RoleDecl, ast.StmtNode(sid), source.NoStringID)

	// параметры типа видны только внутри объявления
	prev := l.pushScope(ast.ScopeBlock, n, ast.NoFuncID)
	params := l.typeParams(n.ChildByFieldName("type_parameters"), ast.StmtNode(sid))
	value := l.typeExpr(n.ChildByFieldName("value"))
	l.popScope(prev)

	s := l.b.Stmt(sid)
	s.Name = name
	s.TypeParams = params
	s.Value = value
	s.Doc = l.leadingDoc(n)
	return sid
}

func (l *lowerer) interfaceStmt(n *sitter.Node, flags ast.StmtFlags) ast.StmtID {
	sid := l.b.NewStmt(ast.Stmt{Kind: ast.StmtInterface, Span: l.span(n), Flags: flags})
	name := l.ident(n.ChildByFieldName("name"), ast.RoleDecl, ast.StmtNode(sid), source.NoStringID)

	prev := l.pushScope(ast.ScopeBlock, n, ast.NoFuncID)
	params := l.typeParams(n.ChildByFieldName("type_parameters"), ast.StmtNode(sid))
	var extends []ast.TypeID
	for _, c := range namedChildren(n) {
		if c.Type() != "extends_type_clause" {
			continue
		}
		for _, t := range namedChildren(c) {
			if id := l.typeExpr(t); id.IsValid() {
				extends = append(extends, id)
			}
		}
	}
	members := l.members(n.ChildByFieldName("body"))
	l.popScope(prev)

	s := l.b.Stmt(sid)
	s.Name = name
	s.TypeParams = params
	s.Extends = extends
	s.Members = members
	s.Doc = l.leadingDoc(n)
	return sid
}

func (l *lowerer) importStmt(n *sitter.Node) ast.StmtID {
	sid := l.b.NewStmt(ast.Stmt{Kind: ast.StmtImport, Span: l.span(n)})
	decl := &ast.ImportDecl{TypeOnly: hasToken(n, "type")}
	if src := n.ChildByFieldName("source"); src != nil {
		decl.Source = l.stringValue(src)
		decl.SourceSpan = l.span(src)
	}
	owner := ast.StmtNode(sid)
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "import_clause":
			for _, part := range namedChildren(c) {
				l.importPart(part, decl, owner)
			}
		case "import_require_clause":
			// import x = require("m")
			if id := firstNamed(c); id != nil && id.Type() == "identifier" {
				decl.Namespace = l.ident(id, ast.RoleDecl, owner, source.NoStringID)
			}
			if src := c.ChildByFieldName("source"); src != nil {
				decl.Source = l.stringValue(src)
				decl.SourceSpan = l.span(src)
			}
		default:
			l.importPart(c, decl, owner)
		}
	}
	l.b.Stmt(sid).Import = decl
	return sid
}

func (l *lowerer) importPart(n *sitter.Node, decl *ast.ImportDecl, owner ast.Node) {
	switch n.Type() {
	case "identifier":
		decl.Default = l.ident(n, ast.RoleDecl, owner, source.NoStringID)
	case "namespace_import":
		if id := firstNamed(n); id != nil {
			decl.Namespace = l.ident(id, ast.RoleDecl, owner, source.NoStringID)
		}
	case "named_imports":
		for _, spec := range namedChildren(n) {
			if spec.Type() != "import_specifier" {
				continue
			}
			name := spec.ChildByFieldName("name")
			if name == nil {
				continue
			}
			local := name
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				local = alias
			}
			if local.Type() == "string" {
				continue
			}
			decl.Named = append(decl.Named, ast.ImportSpec{
				Imported: l.intern(l.moduleExportName(name)),
				Local:    l.ident(local, ast.RoleDecl, owner, source.NoStringID),
				TypeOnly: decl.TypeOnly || hasToken(spec, "type"),
				Span:     l.span(spec),
			})
		}
	}
}

func (l *lowerer) moduleExportName(n *sitter.Node) string {
	if n.Type() == "string" {
		return l.stringValue(n)
	}
	return l.text(n)
}

func (l *lowerer) exportStmt(n *sitter.Node, flags ast.StmtFlags) []ast.StmtID {
	flags |= ast.StmtExported
	isDefault := hasToken(n, "default")
	if isDefault {
		flags |= ast.StmtDefault
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		return l.stmt(decl, flags)
	}

	sid := l.b.NewStmt(ast.Stmt{Kind: ast.StmtExport, Span: l.span(n), Flags: flags})
	ex := &ast.ExportDecl{Kind: ast.ExportClause}
	if src := n.ChildByFieldName("source"); src != nil {
		ex.Source = l.stringValue(src)
		ex.SourceSpan = l.span(src)
	}
	switch {
	case isDefault:
		ex.Kind = ast.ExportDefaultExpr
		value := n.ChildByFieldName("value")
		if value == nil {
			value = firstExpr(n)
		}
		ex.Expr = l.expr(value)
	case hasToken(n, "="):
		ex.Kind = ast.ExportAssignment
		ex.Expr = l.expr(firstExpr(n))
	case hasToken(n, "*"):
		ex.Kind = ast.ExportAll
		for _, c := range namedChildren(n) {
			if c.Type() == "namespace_export" {
				if id := firstNamed(c); id != nil {
					ex.Namespace = l.intern(l.moduleExportName(id))
				}
			}
		}
	default:
		for _, c := range namedChildren(n) {
			if c.Type() != "export_clause" {
				continue
			}
			for _, spec := range namedChildren(c) {
				if spec.Type() != "export_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				local := l.moduleExportName(name)
				exported := local
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					exported = l.moduleExportName(alias)
				}
				es := ast.ExportSpec{
					Local:    l.intern(local),
					Exported: l.intern(exported),
					Span:     l.span(spec),
				}
				if ex.Source == "" && name.Type() == "identifier" {
					es.LocalIdent = l.ident(name, ast.RoleRef, ast.StmtNode(sid), source.NoStringID)
				}
				ex.Specs = append(ex.Specs, es)
			}
		}
	}
	l.b.Stmt(sid).Export = ex
	return one(sid)
}

// firstExpr returns the first named child that is neither a comment nor a
// module source string.
func firstExpr(n *sitter.Node) *sitter.Node {
	src := n.ChildByFieldName("source")
	for _, c := range namedChildren(n) {
		if c.Type() == "comment" || sameNode(c, src) {
			continue
		}
		return c
	}
	return nil
}
