package ast

import "propguard/internal/source"

type StmtKind uint8

const (
	StmtVar StmtKind = iota
	StmtFunc
	StmtClass
	StmtTypeAlias
	StmtInterface
	StmtImport
	StmtExport
	StmtBlock
	StmtExpr
	StmtReturn
	// StmtOther keeps the nested content of control-flow and unsupported
	// statements so walkers still reach JSX inside them.
	StmtOther
)

type StmtFlags uint8

const (
	StmtExported StmtFlags = 1 << iota
	StmtDefault
	StmtAmbient // declare ...
)

type VarKind uint8

const (
	VarConst VarKind = iota
	VarLet
	VarVar
)

func (k VarKind) String() string {
	switch k {
	case VarLet:
		return "let"
	case VarVar:
		return "var"
	default:
		return "const"
	}
}

// Declarator is one `pattern: Type = init` entry of a variable statement.
type Declarator struct {
	Pattern PatternID
	Type    TypeID
	Init    ExprID
	Span    source.Span
}

type ImportSpec struct {
	// Imported is the exported name in the target module ("default" for default imports).
	Imported source.StringID
	Local    IdentID
	TypeOnly bool
	Span     source.Span
}

type ImportDecl struct {
	Source     string
	SourceSpan source.Span
	TypeOnly   bool
	Default    IdentID
	Namespace  IdentID
	Named      []ImportSpec
}

type ExportKind uint8

const (
	// ExportClause is `export { a, b as c }`, optionally with `from`.
	ExportClause ExportKind = iota
	// ExportAll is `export * from "m"` or `export * as ns from "m"`.
	ExportAll
	// ExportDefaultExpr is `export default <expr>`.
	ExportDefaultExpr
	// ExportAssignment is `export = <expr>`.
	ExportAssignment
)

type ExportSpec struct {
	Local      source.StringID
	LocalIdent IdentID
	Exported   source.StringID
	Span       source.Span
}

type ExportDecl struct {
	Kind       ExportKind
	Specs      []ExportSpec
	Source     string
	SourceSpan source.Span
	Namespace  source.StringID
	Expr       ExprID
}

type Stmt struct {
	Kind  StmtKind
	Span  source.Span
	Flags StmtFlags
	// StmtVar
	VarKind VarKind
	Decls   []Declarator
	// StmtFunc; StmtClass keeps its methods in Children
	Func FuncID
	// StmtClass, StmtTypeAlias, StmtInterface
	Name       IdentID
	TypeParams []TypeParam
	// StmtTypeAlias
	Value TypeID
	// StmtInterface
	Extends []TypeID
	Members []MemberID
	Doc     *Doc
	// StmtImport / StmtExport
	Import *ImportDecl
	Export *ExportDecl
	// StmtBlock
	Stmts []StmtID
	Scope ScopeID
	// StmtExpr, StmtReturn
	Expr ExprID
	// StmtOther, StmtClass
	Children []Node
}

func (s *Stmt) Exported() bool { return s.Flags&StmtExported != 0 }
func (s *Stmt) Default() bool  { return s.Flags&StmtDefault != 0 }
func (s *Stmt) Ambient() bool  { return s.Flags&StmtAmbient != 0 }
