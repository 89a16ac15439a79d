package symbols

import (
	"propguard/internal/ast"
	"propguard/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	// SymbolModule stands for a whole file; namespace imports alias it.
	SymbolModule
	SymbolVariable
	// SymbolBindingElement is a name bound inside an object or array pattern.
	SymbolBindingElement
	SymbolParam
	SymbolFunction
	SymbolClass
	SymbolTypeAlias
	SymbolInterface
	SymbolTypeParam
	SymbolProperty
	// SymbolImport is an import binding; it aliases an export of another module.
	SymbolImport
	// SymbolExport is an export specifier aliasing a local or re-exported name.
	SymbolExport
	// SymbolDefault is the anonymous value of `export default <expr>`.
	SymbolDefault
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolVariable:
		return "variable"
	case SymbolBindingElement:
		return "binding-element"
	case SymbolParam:
		return "param"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolTypeAlias:
		return "type-alias"
	case SymbolInterface:
		return "interface"
	case SymbolTypeParam:
		return "type-param"
	case SymbolProperty:
		return "property"
	case SymbolImport:
		return "import"
	case SymbolExport:
		return "export"
	case SymbolDefault:
		return "default"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagValue SymbolFlags = 1 << iota
	SymbolFlagType
	SymbolFlagAlias
	SymbolFlagExported
	SymbolFlagAmbient
	SymbolFlagTypeOnly
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&SymbolFlagValue != 0 {
		labels = append(labels, "value")
	}
	if f&SymbolFlagType != 0 {
		labels = append(labels, "type")
	}
	if f&SymbolFlagAlias != 0 {
		labels = append(labels, "alias")
	}
	if f&SymbolFlagExported != 0 {
		labels = append(labels, "exported")
	}
	if f&SymbolFlagAmbient != 0 {
		labels = append(labels, "ambient")
	}
	if f&SymbolFlagTypeOnly != 0 {
		labels = append(labels, "type-only")
	}
	return labels
}

// DeclKind is the syntactic form of a symbol's value declaration.
type DeclKind uint8

const (
	DeclNone DeclKind = iota
	// DeclVariable is a `const|let|var name = ...` declarator with a plain
	// identifier on the left, ambient `declare const` included.
	DeclVariable
	DeclBindingElement
	DeclParameter
	DeclFunction
	DeclClass
	DeclProperty
	DeclImport
	DeclExportSpecifier
	DeclExportDefault
	DeclModule
)

func (k DeclKind) String() string {
	switch k {
	case DeclVariable:
		return "variable"
	case DeclBindingElement:
		return "binding-element"
	case DeclParameter:
		return "parameter"
	case DeclFunction:
		return "function"
	case DeclClass:
		return "class"
	case DeclProperty:
		return "property"
	case DeclImport:
		return "import"
	case DeclExportSpecifier:
		return "export-specifier"
	case DeclExportDefault:
		return "export-default"
	case DeclModule:
		return "module"
	default:
		return "none"
	}
}

// Decl points at the AST that declares a symbol.
type Decl struct {
	Kind  DeclKind
	File  ast.FileID
	Ident ast.IdentID
	Stmt  ast.StmtID
	// Index is the declarator, parameter or type parameter position.
	Index   int
	Pattern ast.PatternID
	Func    ast.FuncID
	Member  ast.MemberID
	Expr    ast.ExprID
	Object  ast.ObjectID
}

// AliasTarget tells what an import or export specifier refers to.
type AliasTarget struct {
	// Module is the import specifier text; empty for local export specifiers.
	Module string
	// File is the resolved module, NoFileID when resolution failed.
	File ast.FileID
	// Name is the imported export name: "default", a named export, or "*"
	// for namespace imports.
	Name string
	// Local names a binding of Scope for `export { local as name }`.
	Local source.StringID
	Scope ScopeID
}

// Namespace reports a `* as ns` alias.
func (a *AliasTarget) Namespace() bool { return a != nil && a.Name == "*" }

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Flags SymbolFlags
	Scope ScopeID
	File  ast.FileID
	Span  source.Span
	Decl  Decl
	// Merged lists further declarations of a merged interface.
	Merged []Decl
	Alias  *AliasTarget
}

// IsAlias reports import and export specifier symbols.
func (s *Symbol) IsAlias() bool { return s.Flags&SymbolFlagAlias != 0 }

// Decls returns every declaration of the symbol in source order.
func (s *Symbol) Decls() []Decl {
	out := make([]Decl, 0, 1+len(s.Merged))
	out = append(out, s.Decl)
	return append(out, s.Merged...)
}
