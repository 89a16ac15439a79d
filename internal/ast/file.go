package ast

import "propguard/internal/source"

type File struct {
	Source source.FileID
	Path   string
	Lang   source.Lang
	Span   source.Span
	Scope  ScopeID
	Stmts  []StmtID
	// Imports and Exports index the module-level statements of those kinds.
	Imports []StmtID
	Exports []StmtID
	// Declaration is set for *.d.ts files.
	Declaration bool
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

func (f *Files) New(file File) FileID {
	return FileID(f.Arena.Allocate(file))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
