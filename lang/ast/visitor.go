package ast

// VisitDirection indicates whether a call to Visit enters or exits a node.
type VisitDirection int

const (
	VisitEnter VisitDirection = iota
	VisitExit
)

// Visitor is called for each node reached by Walk. Returning a nil Visitor
// from a VisitEnter call skips that node's children.
type Visitor interface {
	Visit(n Node, dir VisitDirection) (w Visitor)
}

// VisitorFunc adapts a function to the Visitor interface; it is called on
// both enter and exit and can distinguish them via dir.
type VisitorFunc func(n Node, dir VisitDirection) Visitor

func (f VisitorFunc) Visit(n Node, dir VisitDirection) Visitor { return f(n, dir) }

// Walk visits node with v, entering first, then recursing into children via
// n.Walk, then exiting.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node, VisitEnter); v == nil {
		return
	}
	node.Walk(v)
	v.Visit(node, VisitExit)
}

// Inspect calls fn for every node reached by Walk, enter direction only;
// fn returning false skips the node's children (mirrors go/ast.Inspect).
func Inspect(node Node, fn func(Node) bool) {
	Walk(inspector(fn), node)
}

type inspector func(Node) bool

func (f inspector) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit {
		return nil
	}
	if f(n) {
		return f
	}
	return nil
}
