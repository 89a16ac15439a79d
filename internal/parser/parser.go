package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"propguard/internal/ast"
	"propguard/internal/diag"
	"propguard/internal/source"
)

// ErrNoTree is returned when tree-sitter produced no syntax tree.
var ErrNoTree = errors.New("parser: no syntax tree")

type Options struct {
	// MaxErrors caps syntax diagnostics per file; 0 means unlimited.
	MaxErrors uint
	Reporter  diag.Reporter
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
}

// Tree is a parsed but not yet lowered file.
type Tree struct {
	File    *source.File
	tree    *sitter.Tree
	content []byte
}

// Close releases the tree-sitter tree.
func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// HasErrors reports whether the syntax tree contains ERROR or missing nodes.
func (t *Tree) HasErrors() bool {
	if t == nil || t.tree == nil {
		return false
	}
	root := t.tree.RootNode()
	return root != nil && root.HasError()
}

func languageFor(lang source.Lang) *sitter.Language {
	if lang == source.LangTS {
		return typescript.GetLanguage()
	}
	// .jsx/.js и неизвестные расширения разбираем как TSX
	return tsx.GetLanguage()
}

// Parse runs tree-sitter over one file. Every call uses its own parser, so
// distinct files may be parsed concurrently.
func Parse(ctx context.Context, file *source.File) (*Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(languageFor(file.Lang))
	tree, err := p.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, ErrNoTree)
	}
	return &Tree{File: file, tree: tree, content: file.Content}, nil
}

// Lower converts a parsed tree into arena nodes. It appends to the shared
// builder and must not run concurrently with other Lower calls on it.
func Lower(b *ast.Builder, t *Tree, opts Options) Result {
	bag := diag.NewBag(0)
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.BagReporter{Bag: bag}
	}
	l := &lowerer{
		b:        b,
		src:      t.content,
		file:     t.File.ID,
		reporter: reporter,
		opts:     opts,
	}
	root := t.tree.RootNode()
	l.reportSyntaxErrors(root)
	id := l.program(root, t.File)
	return Result{File: id, Bag: bag}
}

// ParseFile parses and lowers a single file.
func ParseFile(ctx context.Context, fs *source.FileSet, fileID source.FileID, b *ast.Builder, opts Options) (Result, error) {
	tree, err := Parse(ctx, fs.Get(fileID))
	if err != nil {
		return Result{}, err
	}
	defer tree.Close()
	return Lower(b, tree, opts), nil
}

// lowerer: состояние понижения одного файла
type lowerer struct {
	b        *ast.Builder
	src      []byte
	file     source.FileID
	astFile  ast.FileID
	scope    ast.ScopeID
	reporter diag.Reporter
	opts     Options
	errors   uint
}

func (l *lowerer) program(root *sitter.Node, file *source.File) ast.FileID {
	l.astFile = l.b.Files.New(ast.File{
		Source:      file.ID,
		Path:        file.Path,
		Lang:        file.Lang,
		Span:        l.span(root),
		Declaration: file.IsDeclaration(),
	})
	l.scope = l.b.Scopes.New(ast.Scope{Kind: ast.ScopeFile, File: l.astFile, Span: l.span(root)})

	var stmts, imports, exports []ast.StmtID
	for _, c := range namedChildren(root) {
		for _, id := range l.stmt(c, 0) {
			stmts = append(stmts, id)
			switch l.b.Stmt(id).Kind {
			case ast.StmtImport:
				imports = append(imports, id)
			case ast.StmtExport:
				exports = append(exports, id)
			}
		}
	}

	f := l.b.File(l.astFile)
	f.Scope = l.scope
	f.Stmts = stmts
	f.Imports = imports
	f.Exports = exports
	return l.astFile
}

func (l *lowerer) span(n *sitter.Node) source.Span {
	return source.Span{File: l.file, Start: n.StartByte(), End: n.EndByte()}
}

func (l *lowerer) text(n *sitter.Node) string {
	return n.Content(l.src)
}

func (l *lowerer) intern(s string) source.StringID {
	return l.b.Strings.Intern(s)
}

func (l *lowerer) ident(n *sitter.Node, role ast.IdentRole, owner ast.Node, key source.StringID) ast.IdentID {
	return l.b.Idents.New(ast.Ident{
		Name:  l.intern(l.text(n)),
		Span:  l.span(n),
		Role:  role,
		Scope: l.scope,
		Owner: owner,
		Key:   key,
	})
}

// pushScope opens a nested scope and returns the previous one for popScope.
func (l *lowerer) pushScope(kind ast.ScopeKind, n *sitter.Node, fn ast.FuncID) ast.ScopeID {
	prev := l.scope
	l.scope = l.b.Scopes.New(ast.Scope{
		Kind:   kind,
		Parent: prev,
		File:   l.astFile,
		Span:   l.span(n),
		Func:   fn,
	})
	return prev
}

func (l *lowerer) popScope(prev ast.ScopeID) {
	l.scope = prev
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.ChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// hasToken reports whether n has a direct anonymous child with the given text.
func hasToken(n *sitter.Node, tok string) bool {
	for _, c := range children(n) {
		if !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if n == nil || n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

// stringValue returns the unquoted text of a string literal node.
func (l *lowerer) stringValue(n *sitter.Node) string {
	var sb strings.Builder
	parts := 0
	for _, c := range children(n) {
		switch c.Type() {
		case "string_fragment", "escape_sequence":
			sb.WriteString(l.text(c))
			parts++
		}
	}
	if parts > 0 {
		return sb.String()
	}
	raw := l.text(n)
	if len(raw) >= 2 {
		switch raw[0] {
		case '"', '\'', '`':
			if raw[len(raw)-1] == raw[0] {
				return raw[1 : len(raw)-1]
			}
		}
	}
	return raw
}
