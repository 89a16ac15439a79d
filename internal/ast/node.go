package ast

import "fmt"

// NodeKind tags a Node reference.
type NodeKind uint8

const (
	NodeNone NodeKind = iota
	NodeFile
	NodeStmt
	NodeExpr
	NodeFunc
	NodePattern
	NodeType
	NodeMember
	NodeJSXOpening
	NodeJSXClosing
	NodeJSXAttr
	NodeIdent
)

func (k NodeKind) String() string {
	switch k {
	case NodeFile:
		return "file"
	case NodeStmt:
		return "stmt"
	case NodeExpr:
		return "expr"
	case NodeFunc:
		return "func"
	case NodePattern:
		return "pattern"
	case NodeType:
		return "type"
	case NodeMember:
		return "member"
	case NodeJSXOpening:
		return "jsx-opening"
	case NodeJSXClosing:
		return "jsx-closing"
	case NodeJSXAttr:
		return "jsx-attr"
	case NodeIdent:
		return "ident"
	}
	return "none"
}

// Node is a uniform reference to any arena entry, used for ancestor chains
// and owner links. JSX opening/closing nodes carry an ElementID.
type Node struct {
	Kind NodeKind
	ID   uint32
}

func (n Node) IsValid() bool { return n.Kind != NodeNone && n.ID != 0 }

func (n Node) String() string { return fmt.Sprintf("%s#%d", n.Kind, n.ID) }

func FileNode(id FileID) Node       { return Node{Kind: NodeFile, ID: uint32(id)} }
func StmtNode(id StmtID) Node       { return Node{Kind: NodeStmt, ID: uint32(id)} }
func ExprNode(id ExprID) Node       { return Node{Kind: NodeExpr, ID: uint32(id)} }
func FuncNode(id FuncID) Node       { return Node{Kind: NodeFunc, ID: uint32(id)} }
func PatternNode(id PatternID) Node { return Node{Kind: NodePattern, ID: uint32(id)} }
func TypeNode(id TypeID) Node       { return Node{Kind: NodeType, ID: uint32(id)} }
func MemberNode(id MemberID) Node   { return Node{Kind: NodeMember, ID: uint32(id)} }
func AttrNode(id AttrID) Node       { return Node{Kind: NodeJSXAttr, ID: uint32(id)} }
func IdentNode(id IdentID) Node     { return Node{Kind: NodeIdent, ID: uint32(id)} }

func OpeningNode(id ElementID) Node { return Node{Kind: NodeJSXOpening, ID: uint32(id)} }
func ClosingNode(id ElementID) Node { return Node{Kind: NodeJSXClosing, ID: uint32(id)} }
