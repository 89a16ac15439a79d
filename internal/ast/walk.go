package ast

// Visitor receives nodes in source order. When Enter returns false the
// children and the matching Leave are skipped.
type Visitor interface {
	Enter(n Node) bool
	Leave(n Node)
}

// VisitorFuncs adapts plain functions to Visitor; nil fields are no-ops.
type VisitorFuncs struct {
	OnEnter func(n Node) bool
	OnLeave func(n Node)
}

func (v VisitorFuncs) Enter(n Node) bool {
	if v.OnEnter == nil {
		return true
	}
	return v.OnEnter(n)
}

func (v VisitorFuncs) Leave(n Node) {
	if v.OnLeave != nil {
		v.OnLeave(n)
	}
}

// Walk traverses a file. Only JSX tag, closing tag and attribute names are
// visited as NodeIdent; other identifiers are reachable through their owners.
func Walk(b *Builder, file FileID, v Visitor) {
	w := walker{b: b, v: v}
	w.walk(FileNode(file))
}

// WalkNode traverses the subtree rooted at n.
func WalkNode(b *Builder, n Node, v Visitor) {
	w := walker{b: b, v: v}
	w.walk(n)
}

type walker struct {
	b *Builder
	v Visitor
}

func (w *walker) walk(n Node) {
	if !n.IsValid() {
		return
	}
	if !w.v.Enter(n) {
		return
	}
	switch n.Kind {
	case NodeFile:
		for _, s := range w.b.File(FileID(n.ID)).Stmts {
			w.stmt(s)
		}
	case NodeStmt:
		w.stmtChildren(w.b.Stmt(StmtID(n.ID)))
	case NodeExpr:
		w.exprChildren(w.b.Expr(ExprID(n.ID)))
	case NodeFunc:
		w.funcChildren(w.b.Func(FuncID(n.ID)))
	case NodePattern:
		p := w.b.Pattern(PatternID(n.ID))
		for _, el := range p.Elems {
			w.pattern(el.Value)
			w.expr(el.Default)
		}
		for _, item := range p.Items {
			w.pattern(item)
		}
	case NodeType:
		t := w.b.Type(TypeID(n.ID))
		for _, a := range t.Args {
			w.typ(a)
		}
		w.typ(t.Elem)
		w.typ(t.Index)
		for _, m := range t.Members {
			w.walk(MemberNode(m))
		}
		w.fn(t.Func)
	case NodeMember:
		m := w.b.Member(MemberID(n.ID))
		w.typ(m.Type)
		w.fn(m.Func)
	case NodeJSXOpening:
		el := w.b.Element(ElementID(n.ID))
		if el.Tag.IsValid() {
			w.walk(IdentNode(el.Tag))
		}
		for _, a := range el.Attrs {
			w.walk(AttrNode(a))
		}
	case NodeJSXAttr:
		a := w.b.Attr(AttrID(n.ID))
		switch a.Kind {
		case AttrDirect:
			if a.Name.IsValid() {
				w.walk(IdentNode(a.Name))
			}
			w.expr(a.Value)
		case AttrSpread:
			w.expr(a.Value)
		}
	case NodeJSXClosing:
		el := w.b.Element(ElementID(n.ID))
		if el.Closing.IsValid() {
			w.walk(IdentNode(el.Closing))
		}
	case NodeIdent, NodeNone:
	}
	w.v.Leave(n)
}

func (w *walker) stmt(id StmtID)       { w.walk(StmtNode(id)) }
func (w *walker) expr(id ExprID)       { w.walk(ExprNode(id)) }
func (w *walker) fn(id FuncID)         { w.walk(FuncNode(id)) }
func (w *walker) pattern(id PatternID) { w.walk(PatternNode(id)) }
func (w *walker) typ(id TypeID)        { w.walk(TypeNode(id)) }

func (w *walker) typeParams(params []TypeParam) {
	for _, tp := range params {
		w.typ(tp.Constraint)
		w.typ(tp.Default)
	}
}

func (w *walker) stmtChildren(s *Stmt) {
	switch s.Kind {
	case StmtVar:
		for _, d := range s.Decls {
			w.pattern(d.Pattern)
			w.typ(d.Type)
			w.expr(d.Init)
		}
	case StmtFunc:
		w.fn(s.Func)
	case StmtTypeAlias:
		w.typeParams(s.TypeParams)
		w.typ(s.Value)
	case StmtInterface:
		w.typeParams(s.TypeParams)
		for _, e := range s.Extends {
			w.typ(e)
		}
		for _, m := range s.Members {
			w.walk(MemberNode(m))
		}
	case StmtImport:
	case StmtExport:
		if s.Export != nil {
			w.expr(s.Export.Expr)
		}
	case StmtBlock:
		for _, c := range s.Stmts {
			w.stmt(c)
		}
	case StmtExpr, StmtReturn:
		w.expr(s.Expr)
	case StmtClass, StmtOther:
		for _, c := range s.Children {
			w.walk(c)
		}
	}
}

func (w *walker) funcChildren(f *Func) {
	w.typeParams(f.TypeParams)
	for _, p := range f.Params {
		w.pattern(p.Pattern)
		w.typ(p.Type)
		w.expr(p.Default)
	}
	w.typ(f.Return)
	for _, s := range f.Body {
		w.stmt(s)
	}
	w.expr(f.BodyExpr)
}

func (w *walker) exprChildren(e *Expr) {
	switch e.Kind {
	case ExprObject:
		for _, p := range w.b.Object(e.Object).Props {
			switch p.Kind {
			case PropPair, PropSpread:
				w.expr(p.Value)
			case PropMethod:
				w.fn(p.Func)
			case PropShorthand:
			}
		}
	case ExprFunc:
		w.fn(e.Func)
	case ExprCall, ExprNew:
		w.expr(e.X)
		for _, t := range e.TypeArgs {
			w.typ(t)
		}
		for _, a := range e.List {
			w.expr(a)
		}
	case ExprMember, ExprNonNull, ExprParen:
		w.expr(e.X)
	case ExprAs, ExprSatisfies:
		w.expr(e.X)
		w.typ(e.Type)
	case ExprAssign:
		w.expr(e.X)
		w.expr(e.Y)
	case ExprArray, ExprTemplate, ExprOther:
		for _, a := range e.List {
			w.expr(a)
		}
	case ExprJSX:
		el := w.b.Element(e.Element)
		if !el.Fragment {
			w.walk(OpeningNode(e.Element))
		}
		for _, c := range el.Children {
			w.expr(c)
		}
		if !el.SelfClosing && !el.Fragment {
			w.walk(ClosingNode(e.Element))
		}
	case ExprIdent, ExprString, ExprNumber, ExprBool, ExprNull, ExprUndefined:
	}
}
