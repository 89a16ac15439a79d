package ast

import (
	"propguard/internal/source"
)

type Hints struct{ Files, Stmts, Exprs, Types, Idents uint }

// Builder owns every arena of a program. Lowering appends to it one file at a
// time; afterwards it is read-only.
type Builder struct {
	Strings *source.Interner

	Files    *Files
	Scopes   *Scopes
	Idents   *Idents
	Stmts    *Arena[Stmt]
	Exprs    *Arena[Expr]
	Funcs    *Arena[Func]
	Patterns *Arena[Pattern]
	Types    *Arena[TypeExpr]
	Members  *Arena[Member]
	Objects  *Arena[Object]
	Elements *Arena[Element]
	Attrs    *Arena[Attr]
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	if hints.Types == 0 {
		hints.Types = 1 << 8
	}
	if hints.Idents == 0 {
		hints.Idents = 1 << 10
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Strings:  strings,
		Files:    NewFiles(hints.Files),
		Scopes:   NewScopes(hints.Stmts),
		Idents:   NewIdents(hints.Idents),
		Stmts:    NewArena[Stmt](hints.Stmts),
		Exprs:    NewArena[Expr](hints.Exprs),
		Funcs:    NewArena[Func](hints.Stmts),
		Patterns: NewArena[Pattern](hints.Stmts),
		Types:    NewArena[TypeExpr](hints.Types),
		Members:  NewArena[Member](hints.Types),
		Objects:  NewArena[Object](hints.Stmts),
		Elements: NewArena[Element](hints.Stmts),
		Attrs:    NewArena[Attr](hints.Stmts),
	}
}

func (b *Builder) NewStmt(s Stmt) StmtID          { return StmtID(b.Stmts.Allocate(s)) }
func (b *Builder) NewExpr(e Expr) ExprID          { return ExprID(b.Exprs.Allocate(e)) }
func (b *Builder) NewFunc(f Func) FuncID          { return FuncID(b.Funcs.Allocate(f)) }
func (b *Builder) NewPattern(p Pattern) PatternID { return PatternID(b.Patterns.Allocate(p)) }
func (b *Builder) NewType(t TypeExpr) TypeID      { return TypeID(b.Types.Allocate(t)) }
func (b *Builder) NewMember(m Member) MemberID    { return MemberID(b.Members.Allocate(m)) }
func (b *Builder) NewObject(o Object) ObjectID    { return ObjectID(b.Objects.Allocate(o)) }
func (b *Builder) NewElement(e Element) ElementID { return ElementID(b.Elements.Allocate(e)) }
func (b *Builder) NewAttr(a Attr) AttrID          { return AttrID(b.Attrs.Allocate(a)) }

func (b *Builder) File(id FileID) *File          { return b.Files.Get(id) }
func (b *Builder) Scope(id ScopeID) *Scope       { return b.Scopes.Get(id) }
func (b *Builder) Ident(id IdentID) *Ident       { return b.Idents.Get(id) }
func (b *Builder) Stmt(id StmtID) *Stmt          { return b.Stmts.Get(uint32(id)) }
func (b *Builder) Expr(id ExprID) *Expr          { return b.Exprs.Get(uint32(id)) }
func (b *Builder) Func(id FuncID) *Func          { return b.Funcs.Get(uint32(id)) }
func (b *Builder) Pattern(id PatternID) *Pattern { return b.Patterns.Get(uint32(id)) }
func (b *Builder) Type(id TypeID) *TypeExpr      { return b.Types.Get(uint32(id)) }
func (b *Builder) Member(id MemberID) *Member    { return b.Members.Get(uint32(id)) }
func (b *Builder) Object(id ObjectID) *Object    { return b.Objects.Get(uint32(id)) }
func (b *Builder) Element(id ElementID) *Element { return b.Elements.Get(uint32(id)) }
func (b *Builder) Attr(id AttrID) *Attr          { return b.Attrs.Get(uint32(id)) }

// Name returns the text of an identifier, or "" for NoIdentID.
func (b *Builder) Name(id IdentID) string {
	ident := b.Idents.Get(id)
	if ident == nil {
		return ""
	}
	return b.Strings.MustLookup(ident.Name)
}

// Str looks up an interned string.
func (b *Builder) Str(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// FileOfScope returns the file a scope belongs to.
func (b *Builder) FileOfScope(id ScopeID) FileID {
	if sc := b.Scopes.Get(id); sc != nil {
		return sc.File
	}
	return NoFileID
}

// FileCount returns the number of lowered files.
func (b *Builder) FileCount() int {
	return int(b.Files.Arena.Len())
}
