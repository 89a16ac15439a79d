package symbols

import (
	"propguard/internal/ast"
)

// ModuleRef is a module specifier and the file it resolved to.
type ModuleRef struct {
	Specifier string
	File      ast.FileID
}

// ModuleExports is the export table of one file.
type ModuleExports struct {
	File ast.FileID
	// Symbol is the SymbolModule standing for the whole file.
	Symbol SymbolID
	Values map[string]SymbolID
	Types  map[string]SymbolID
	// Order keeps export names in declaration order for namespace objects.
	Order []string
	// Stars are the targets of `export * from "m"`.
	Stars []ModuleRef
	// HasSyntax is set when the file has any import or export statement.
	HasSyntax bool
}

// NewModuleExports creates an exports container for the given file.
func NewModuleExports(file ast.FileID) *ModuleExports {
	return &ModuleExports{
		File:   file,
		Values: make(map[string]SymbolID),
		Types:  make(map[string]SymbolID),
	}
}

// Add registers an exported symbol under name. The first export of a name
// wins, separately per meaning.
func (m *ModuleExports) Add(name string, id SymbolID, flags SymbolFlags) {
	if m == nil || !id.IsValid() {
		return
	}
	added := false
	if flags&SymbolFlagValue != 0 {
		if _, ok := m.Values[name]; !ok {
			m.Values[name] = id
			added = true
		}
	}
	if flags&SymbolFlagType != 0 {
		if _, ok := m.Types[name]; !ok {
			m.Types[name] = id
			added = true
		}
	}
	if added && !m.has(name) {
		m.Order = append(m.Order, name)
	}
}

func (m *ModuleExports) has(name string) bool {
	for _, n := range m.Order {
		if n == name {
			return true
		}
	}
	return false
}

func (m *ModuleExports) lookup(name string, meaning Meaning) SymbolID {
	if meaning&MeaningValue != 0 {
		if id, ok := m.Values[name]; ok {
			return id
		}
	}
	if meaning&MeaningType != 0 {
		if id, ok := m.Types[name]; ok {
			return id
		}
	}
	return NoSymbolID
}

// Export finds an export of file by name, following `export *` chains.
// `default` also matches an `export =` assignment.
func (t *Table) Export(file ast.FileID, name string, meaning Meaning) SymbolID {
	return t.export(file, name, meaning, make(map[ast.FileID]struct{}))
}

func (t *Table) export(file ast.FileID, name string, meaning Meaning, seen map[ast.FileID]struct{}) SymbolID {
	if _, ok := seen[file]; ok {
		return NoSymbolID
	}
	seen[file] = struct{}{}
	mod := t.modules[file]
	if mod == nil {
		return NoSymbolID
	}
	if id := mod.lookup(name, meaning); id.IsValid() {
		return id
	}
	if name == "default" {
		if id := mod.lookup(exportAssignment, meaning); id.IsValid() {
			return id
		}
		return NoSymbolID
	}
	for _, star := range mod.Stars {
		if !star.File.IsValid() {
			continue
		}
		if id := t.export(star.File, name, meaning, seen); id.IsValid() {
			return id
		}
	}
	return NoSymbolID
}

// exportAssignment keys `export = expr` in the export table.
const exportAssignment = "export="

// ExportNames lists every name reachable through the module's exports,
// star re-exports included, in declaration order.
func (t *Table) ExportNames(file ast.FileID) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	var walk func(f ast.FileID, visited map[ast.FileID]struct{}, top bool)
	walk = func(f ast.FileID, visited map[ast.FileID]struct{}, top bool) {
		if _, ok := visited[f]; ok {
			return
		}
		visited[f] = struct{}{}
		mod := t.modules[f]
		if mod == nil {
			return
		}
		for _, n := range mod.Order {
			if n == exportAssignment || (!top && n == "default") {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
		for _, star := range mod.Stars {
			if star.File.IsValid() {
				walk(star.File, visited, false)
			}
		}
	}
	walk(file, make(map[ast.FileID]struct{}), true)
	return out
}

// maxAliasHops bounds alias chains; longer chains are treated as cycles.
const maxAliasHops = 64

// ResolveAlias follows import and export specifiers to the symbol they
// finally denote. Non-alias symbols are returned unchanged; unresolved
// modules, missing exports and cycles yield NoSymbolID.
func (t *Table) ResolveAlias(id SymbolID, meaning Meaning) SymbolID {
	target, _ := t.resolveAlias(id, meaning)
	return target
}

// resolveAlias additionally reports whether resolution stopped on a cycle.
func (t *Table) resolveAlias(id SymbolID, meaning Meaning) (SymbolID, bool) {
	seen := make(map[SymbolID]struct{})
	for hops := 0; hops < maxAliasHops; hops++ {
		sym := t.Symbols.Get(id)
		if sym == nil {
			return NoSymbolID, false
		}
		if !sym.IsAlias() {
			return id, false
		}
		if _, loop := seen[id]; loop {
			return NoSymbolID, true
		}
		seen[id] = struct{}{}

		alias := sym.Alias
		switch {
		case alias == nil:
			return NoSymbolID, false
		case alias.Module == "":
			id = t.Lookup(alias.Scope, alias.Local, meaning)
		case !alias.File.IsValid():
			return NoSymbolID, false
		case alias.Namespace():
			mod := t.modules[alias.File]
			if mod == nil {
				return NoSymbolID, false
			}
			return mod.Symbol, false
		default:
			id = t.Export(alias.File, alias.Name, meaning)
		}
		if !id.IsValid() {
			return NoSymbolID, false
		}
	}
	return NoSymbolID, true
}
