package symbols

import (
	"fmt"

	"propguard/internal/ast"
	"propguard/internal/diag"
	"propguard/internal/source"
)

// ModuleResolver maps an import specifier of a file to the lowered target.
type ModuleResolver interface {
	ResolveModule(from ast.FileID, specifier string) (ast.FileID, bool)
}

// ModuleResolverFunc adapts a function to ModuleResolver.
type ModuleResolverFunc func(from ast.FileID, specifier string) (ast.FileID, bool)

func (f ModuleResolverFunc) ResolveModule(from ast.FileID, specifier string) (ast.FileID, bool) {
	return f(from, specifier)
}

// BindOptions controls a bind pass over a whole program.
type BindOptions struct {
	Table    *Table
	Hints    Hints
	Resolver ModuleResolver
	Reporter diag.Reporter
	// ReportUnresolved emits SemaUnresolvedModule warnings for imports that
	// do not resolve to a loaded file.
	ReportUnresolved bool
}

// Bind declares every symbol of every file lowered into b. Scopes mirror the
// AST scopes one to one.
func Bind(b *ast.Builder, opts BindOptions) *Table {
	table := opts.Table
	if table == nil {
		table = NewTable(opts.Hints, b.Strings)
	}
	bd := binder{b: b, t: table, opts: opts}
	bd.mirrorScopes()

	count := b.FileCount()
	for i := 1; i <= count; i++ {
		bd.declareFile(ast.FileID(i))
	}
	for i := 1; i <= count; i++ {
		bd.exportFile(ast.FileID(i))
	}
	bd.checkAliasCycles()
	return table
}

type binder struct {
	b    *ast.Builder
	t    *Table
	opts BindOptions
	file ast.FileID
	mod  *ModuleExports
}

func (bd *binder) mirrorScopes() {
	n := bd.b.Scopes.Arena.Len()
	for i := uint32(1); i <= n; i++ {
		astID := ast.ScopeID(i)
		sc := bd.b.Scope(astID)
		id := bd.t.Scopes.New(Scope{
			Kind:   scopeKindOf(sc.Kind),
			Parent: bd.t.byAST[sc.Parent],
			AST:    astID,
			File:   sc.File,
			Span:   sc.Span,
		})
		bd.t.byAST[astID] = id
	}
}

func (bd *binder) declareFile(fileID ast.FileID) {
	file := bd.b.File(fileID)
	if file == nil {
		return
	}
	bd.file = fileID
	bd.mod = NewModuleExports(fileID)
	bd.mod.HasSyntax = len(file.Imports) > 0 || len(file.Exports) > 0
	bd.mod.Symbol = bd.t.Symbols.New(&Symbol{
		Name:  bd.t.Strings.Intern(file.Path),
		Kind:  SymbolModule,
		Flags: SymbolFlagValue,
		File:  fileID,
		Span:  file.Span,
		Decl:  Decl{Kind: DeclModule, File: fileID},
	})
	bd.t.modules[fileID] = bd.mod

	ast.Walk(bd.b, fileID, ast.VisitorFuncs{OnEnter: bd.enter})
}

func (bd *binder) enter(n ast.Node) bool {
	switch n.Kind {
	case ast.NodeStmt:
		bd.stmt(ast.StmtID(n.ID))
	case ast.NodeFunc:
		bd.fn(ast.FuncID(n.ID))
	case ast.NodePattern:
		bd.pattern(ast.PatternID(n.ID))
	}
	return true
}

func (bd *binder) identScope(id ast.IdentID) ScopeID {
	ident := bd.b.Ident(id)
	if ident == nil {
		return NoScopeID
	}
	return bd.t.ScopeOf(ident.Scope)
}

func (bd *binder) newSymbol(ident ast.IdentID, kind SymbolKind, flags SymbolFlags, decl Decl) *Symbol {
	id := bd.b.Ident(ident)
	decl.File = bd.file
	decl.Ident = ident
	return &Symbol{
		Name:  id.Name,
		Kind:  kind,
		Flags: flags,
		File:  bd.file,
		Span:  id.Span,
		Decl:  decl,
	}
}

func (bd *binder) declare(scope ScopeID, ident ast.IdentID, kind SymbolKind, flags SymbolFlags, decl Decl) SymbolID {
	if !ident.IsValid() {
		return NoSymbolID
	}
	return bd.t.declare(scope, bd.newSymbol(ident, kind, flags, decl), ident)
}

func (bd *binder) exportDecl(stmt *ast.Stmt, ident ast.IdentID, id SymbolID, flags SymbolFlags) {
	if !id.IsValid() {
		return
	}
	if stmt.Exported() {
		bd.t.Symbols.Get(id).Flags |= SymbolFlagExported
		if stmt.Default() {
			bd.mod.Add("default", id, flags)
		} else {
			bd.mod.Add(bd.b.Name(ident), id, flags)
		}
	}
}

func (bd *binder) ambient(stmt *ast.Stmt) SymbolFlags {
	if stmt.Ambient() || bd.b.File(bd.file).Declaration {
		return SymbolFlagAmbient
	}
	return 0
}

func (bd *binder) stmt(id ast.StmtID) {
	stmt := bd.b.Stmt(id)
	switch stmt.Kind {
	case ast.StmtFunc:
		fn := bd.b.Func(stmt.Func)
		flags := SymbolFlagValue | bd.ambient(stmt)
		decl := Decl{Kind: DeclFunction, Stmt: id, Func: stmt.Func}
		if !fn.Name.IsValid() {
			if stmt.Exported() && stmt.Default() {
				decl.File = bd.file
				anon := bd.t.Symbols.New(&Symbol{
					Name:  bd.t.Strings.Intern("default"),
					Kind:  SymbolFunction,
					Flags: flags | SymbolFlagExported,
					File:  bd.file,
					Span:  stmt.Span,
					Decl:  decl,
				})
				bd.mod.Add("default", anon, flags)
			}
			return
		}
		sym := bd.declare(bd.identScope(fn.Name), fn.Name, SymbolFunction, flags, decl)
		bd.exportDecl(stmt, fn.Name, sym, flags)

	case ast.StmtClass:
		flags := SymbolFlagValue | SymbolFlagType | bd.ambient(stmt)
		sym := bd.declare(bd.identScope(stmt.Name), stmt.Name, SymbolClass, flags, Decl{Kind: DeclClass, Stmt: id})
		bd.exportDecl(stmt, stmt.Name, sym, flags)
		bd.typeParams(stmt.TypeParams, Decl{Stmt: id})

	case ast.StmtTypeAlias:
		flags := SymbolFlagType | bd.ambient(stmt)
		sym := bd.declare(bd.identScope(stmt.Name), stmt.Name, SymbolTypeAlias, flags, Decl{Stmt: id})
		bd.exportDecl(stmt, stmt.Name, sym, flags)
		bd.typeParams(stmt.TypeParams, Decl{Stmt: id})

	case ast.StmtInterface:
		bd.interfaceDecl(id, stmt)
		bd.typeParams(stmt.TypeParams, Decl{Stmt: id})

	case ast.StmtImport:
		bd.importDecl(id, stmt)

	case ast.StmtVar:
		// declarators are bound through their patterns
	}
}

// interfaceDecl merges same-named interfaces of one scope into one symbol.
func (bd *binder) interfaceDecl(id ast.StmtID, stmt *ast.Stmt) {
	if !stmt.Name.IsValid() {
		return
	}
	scope := bd.identScope(stmt.Name)
	name := bd.b.Ident(stmt.Name).Name
	flags := SymbolFlagType | bd.ambient(stmt)
	if sc := bd.t.Scopes.Get(scope); sc != nil {
		if prev, ok := sc.Types[name]; ok {
			if sym := bd.t.Symbols.Get(prev); sym.Kind == SymbolInterface {
				sym.Merged = append(sym.Merged, Decl{File: bd.file, Ident: stmt.Name, Stmt: id})
				bd.t.byIdent[stmt.Name] = prev
				bd.exportDecl(stmt, stmt.Name, prev, flags)
				return
			}
		}
	}
	sym := bd.declare(scope, stmt.Name, SymbolInterface, flags, Decl{Stmt: id})
	bd.exportDecl(stmt, stmt.Name, sym, flags)
}

func (bd *binder) typeParams(params []ast.TypeParam, owner Decl) {
	for i, tp := range params {
		decl := owner
		decl.Index = i
		bd.declare(bd.identScope(tp.Name), tp.Name, SymbolTypeParam, SymbolFlagType, decl)
	}
}

func (bd *binder) fn(id ast.FuncID) {
	fn := bd.b.Func(id)
	bd.typeParams(fn.TypeParams, Decl{Func: id})
	if fn.Kind == ast.FuncExpr && fn.Name.IsValid() {
		bd.declare(bd.t.ScopeOf(fn.Scope), fn.Name, SymbolFunction, SymbolFlagValue, Decl{Kind: DeclFunction, Func: id})
	}
}

// pattern declares the identifier of a PatIdent pattern. The symbol kind
// follows the pattern's owner: a declarator or parameter directly, or an
// enclosing destructuring pattern.
func (bd *binder) pattern(id ast.PatternID) {
	pat := bd.b.Pattern(id)
	if pat.Kind != ast.PatIdent || !pat.Ident.IsValid() {
		return
	}
	scope := bd.identScope(pat.Ident)
	root, rootOwner := bd.rootOwner(id)
	if rootOwner.Kind == ast.OwnerDeclarator {
		stmt := bd.b.Stmt(rootOwner.Stmt)
		if stmt.VarKind == ast.VarVar {
			scope = bd.t.ScopeOf(bd.b.Scopes.HoistTarget(bd.b.Ident(pat.Ident).Scope))
		}
	}

	var (
		kind SymbolKind
		decl = Decl{Pattern: id}
	)
	switch pat.Owner.Kind {
	case ast.OwnerDeclarator:
		kind = SymbolVariable
		decl.Kind = DeclVariable
		decl.Stmt = pat.Owner.Stmt
		decl.Index = pat.Owner.Decl
	case ast.OwnerParam:
		kind = SymbolParam
		decl.Kind = DeclParameter
		decl.Func = pat.Owner.Func
		decl.Index = pat.Owner.Param
	case ast.OwnerElement, ast.OwnerArrayItem:
		kind = SymbolBindingElement
		decl.Kind = DeclBindingElement
		decl.Stmt = rootOwner.Stmt
		decl.Func = rootOwner.Func
	default:
		return
	}

	flags := SymbolFlagValue
	var stmt *ast.Stmt
	if rootOwner.Kind == ast.OwnerDeclarator {
		stmt = bd.b.Stmt(rootOwner.Stmt)
		flags |= bd.ambient(stmt)
	}
	sym := bd.declare(scope, pat.Ident, kind, flags, decl)
	if stmt != nil && root.IsValid() && bd.b.Scope(bd.b.Ident(pat.Ident).Scope).Kind == ast.ScopeFile {
		bd.exportDecl(stmt, pat.Ident, sym, flags)
	}
}

// rootOwner climbs nested patterns to the declarator or parameter.
func (bd *binder) rootOwner(id ast.PatternID) (ast.PatternID, ast.PatOwner) {
	for hops := 0; id.IsValid() && hops < 256; hops++ {
		pat := bd.b.Pattern(id)
		switch pat.Owner.Kind {
		case ast.OwnerElement, ast.OwnerArrayItem:
			id = pat.Owner.Parent
		default:
			return id, pat.Owner
		}
	}
	return ast.NoPatternID, ast.PatOwner{}
}

func (bd *binder) moduleRef(specifier string, span source.Span) ModuleRef {
	ref := ModuleRef{Specifier: specifier}
	if bd.opts.Resolver != nil {
		if target, ok := bd.opts.Resolver.ResolveModule(bd.file, specifier); ok {
			ref.File = target
			return ref
		}
	}
	if bd.opts.ReportUnresolved && bd.opts.Reporter != nil {
		msg := fmt.Sprintf("cannot resolve module %q", specifier)
		diag.ReportWarning(bd.opts.Reporter, diag.SemaUnresolvedModule, span, msg).Emit()
	}
	return ref
}

func (bd *binder) importDecl(id ast.StmtID, stmt *ast.Stmt) {
	imp := stmt.Import
	if imp == nil {
		return
	}
	ref := bd.moduleRef(imp.Source, imp.SourceSpan)
	flags := SymbolFlagValue | SymbolFlagType | SymbolFlagAlias
	if imp.TypeOnly {
		flags |= SymbolFlagTypeOnly
	}
	add := func(local ast.IdentID, name string, extra SymbolFlags) {
		if !local.IsValid() {
			return
		}
		sym := bd.newSymbol(local, SymbolImport, flags|extra, Decl{Kind: DeclImport, Stmt: id})
		sym.Alias = &AliasTarget{Module: ref.Specifier, File: ref.File, Name: name}
		bd.t.declare(bd.identScope(local), sym, local)
	}
	add(imp.Default, "default", 0)
	add(imp.Namespace, "*", 0)
	for _, spec := range imp.Named {
		var extra SymbolFlags
		if spec.TypeOnly {
			extra = SymbolFlagTypeOnly
		}
		add(spec.Local, bd.b.Str(spec.Imported), extra)
	}
}

func (bd *binder) exportFile(fileID ast.FileID) {
	file := bd.b.File(fileID)
	if file == nil {
		return
	}
	bd.file = fileID
	bd.mod = bd.t.modules[fileID]
	fileScope := bd.t.ScopeOf(file.Scope)
	for _, sid := range file.Exports {
		stmt := bd.b.Stmt(sid)
		if stmt.Export == nil {
			continue
		}
		bd.exportStmt(sid, stmt.Export, fileScope)
	}
}

func (bd *binder) exportAlias(stmtID ast.StmtID, name string, span source.Span, target AliasTarget) {
	sym := &Symbol{
		Name:  bd.t.Strings.Intern(name),
		Kind:  SymbolExport,
		Flags: SymbolFlagValue | SymbolFlagType | SymbolFlagAlias | SymbolFlagExported,
		File:  bd.file,
		Span:  span,
		Decl:  Decl{Kind: DeclExportSpecifier, File: bd.file, Stmt: stmtID},
		Alias: &target,
	}
	id := bd.t.Symbols.New(sym)
	bd.mod.Add(name, id, sym.Flags)
}

func (bd *binder) exportStmt(sid ast.StmtID, exp *ast.ExportDecl, fileScope ScopeID) {
	switch exp.Kind {
	case ast.ExportClause:
		var ref ModuleRef
		if exp.Source != "" {
			ref = bd.moduleRef(exp.Source, exp.SourceSpan)
		}
		for _, spec := range exp.Specs {
			target := AliasTarget{Local: spec.Local, Scope: fileScope}
			if exp.Source != "" {
				target = AliasTarget{Module: ref.Specifier, File: ref.File, Name: bd.b.Str(spec.Local)}
			}
			bd.exportAlias(sid, bd.b.Str(spec.Exported), spec.Span, target)
		}

	case ast.ExportAll:
		ref := bd.moduleRef(exp.Source, exp.SourceSpan)
		if exp.Namespace != source.NoStringID {
			bd.exportAlias(sid, bd.b.Str(exp.Namespace), exp.SourceSpan, AliasTarget{Module: ref.Specifier, File: ref.File, Name: "*"})
			return
		}
		bd.mod.Stars = append(bd.mod.Stars, ref)

	case ast.ExportDefaultExpr, ast.ExportAssignment:
		name := "default"
		if exp.Kind == ast.ExportAssignment {
			name = exportAssignment
		}
		stmt := bd.b.Stmt(sid)
		if e := bd.b.Expr(exp.Expr); e != nil && e.Kind == ast.ExprIdent {
			ident := bd.b.Ident(e.Ident)
			bd.exportAlias(sid, name, stmt.Span, AliasTarget{Local: ident.Name, Scope: bd.t.ScopeOf(ident.Scope)})
			return
		}
		id := bd.t.Symbols.New(&Symbol{
			Name:  bd.t.Strings.Intern(name),
			Kind:  SymbolDefault,
			Flags: SymbolFlagValue | SymbolFlagExported,
			File:  bd.file,
			Span:  stmt.Span,
			Decl:  Decl{Kind: DeclExportDefault, File: bd.file, Stmt: sid, Expr: exp.Expr},
		})
		bd.mod.Add(name, id, SymbolFlagValue)
	}
}

// checkAliasCycles reports export chains that loop back on themselves.
func (bd *binder) checkAliasCycles() {
	if bd.opts.Reporter == nil {
		return
	}
	n := bd.t.Symbols.Len()
	for i := 1; i <= n; i++ {
		id := SymbolID(i)
		sym := bd.t.Symbols.Get(id)
		if !sym.IsAlias() || sym.Kind != SymbolImport {
			continue
		}
		if _, cycle := bd.t.resolveAlias(id, MeaningAny); cycle {
			msg := fmt.Sprintf("import %q is part of a re-export cycle", bd.t.Name(id))
			diag.ReportWarning(bd.opts.Reporter, diag.SemaImportCycle, sym.Span, msg).Emit()
		}
	}
}
