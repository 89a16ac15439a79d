package deprecatedprops

import (
	"propguard/internal/ast"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// Oracle answers the symbol and type questions of the engine.
// *checker.Checker implements it.
type Oracle interface {
	SymbolAtLocation(id ast.IdentID) symbols.SymbolID
	IsAlias(sym symbols.SymbolID) bool
	AliasedSymbol(sym symbols.SymbolID) symbols.SymbolID
	TypeOfSymbolAt(sym symbols.SymbolID, at ast.IdentID) types.TypeID
	TypeOfSymbol(sym symbols.SymbolID) types.TypeID
	CallSignatures(t types.TypeID) []types.Signature
	Parameters(sig types.Signature) []types.Param
	TypeOfParameter(p types.Param) types.TypeID
	Members(t types.TypeID) []types.Member
	TypeAtLocation(n ast.Node) types.TypeID
	PropertyOfType(t types.TypeID, name string) symbols.SymbolID
	DestructuringAssignmentProperty(id ast.IdentID) (symbols.SymbolID, error)
	ValueDeclKind(sym symbols.SymbolID) symbols.DeclKind
}
