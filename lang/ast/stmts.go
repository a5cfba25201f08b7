package ast

import "github.com/mna/jsrevive/lang/token"

type (
	ExprStmt struct {
		Expr Expr
		End  token.Pos
	}

	// Declarator is one `target = init` (or bare `target`) entry of a VarDecl.
	Declarator struct {
		Target Expr // Ident or destructuring pattern
		Init   Expr // nil if not initialized
	}

	VarDecl struct {
		Start token.Pos
		Kind  token.Token // VAR, LET or CONST
		Decls []*Declarator
		End   token.Pos
	}

	FuncDecl struct {
		Fn *FuncLit
	}

	ClassDecl struct {
		Cl *ClassLit
	}

	ReturnStmt struct {
		Pos token.Pos
		Arg Expr // nil for bare `return`
		End token.Pos
	}

	ThrowStmt struct {
		Pos token.Pos
		Arg Expr
	}

	IfStmt struct {
		Pos  token.Pos
		Test Expr
		Cons Stmt
		Alt  Stmt // nil, or another IfStmt (else if), or a BlockStmt (else)
	}

	ForStmt struct {
		Pos    token.Pos
		Init   Stmt // *VarDecl or *ExprStmt, nil if absent
		Test   Expr
		Update Expr
		Body   Stmt
	}

	// ForInOfStmt covers both `for (x in obj)` and `for (x of iterable)`.
	ForInOfStmt struct {
		Pos   token.Pos
		Left  Stmt // *VarDecl (single declarator) or *ExprStmt
		Right Expr
		Body  Stmt
		Of    bool // true for `of`, false for `in`
	}

	WhileStmt struct {
		Pos  token.Pos
		Test Expr
		Body Stmt
	}

	DoWhileStmt struct {
		Pos  token.Pos
		Body Stmt
		Test Expr
	}

	BreakStmt struct {
		Pos   token.Pos
		Label *Ident
	}

	ContinueStmt struct {
		Pos   token.Pos
		Label *Ident
	}

	LabeledStmt struct {
		Label *Ident
		Body  Stmt
	}

	SwitchCase struct {
		Pos  token.Pos
		Test Expr // nil for `default`
		Body []Stmt
	}

	SwitchStmt struct {
		Pos   token.Pos
		Disc  Expr
		Cases []*SwitchCase
		End   token.Pos
	}

	TryStmt struct {
		Pos        token.Pos
		Block      *BlockStmt
		CatchParam Expr // nil if catch has no binding, catch absent if CatchBody == nil
		CatchBody  *BlockStmt
		Finally    *BlockStmt
	}

	EmptyStmt struct {
		Pos token.Pos
	}

	// WithStmt models `with (obj) body`. The instrumenter does not rewrite
	// it; the printer emits the `with` statement as written.
	WithStmt struct {
		Pos  token.Pos
		Obj  Expr
		Body Stmt
	}
)

func (n *ExprStmt) stmtNode()     {}
func (n *VarDecl) stmtNode()      {}
func (n *FuncDecl) stmtNode()     {}
func (n *ClassDecl) stmtNode()    {}
func (n *ReturnStmt) stmtNode()   {}
func (n *ThrowStmt) stmtNode()    {}
func (n *IfStmt) stmtNode()       {}
func (n *ForStmt) stmtNode()      {}
func (n *ForInOfStmt) stmtNode()  {}
func (n *WhileStmt) stmtNode()    {}
func (n *DoWhileStmt) stmtNode()  {}
func (n *BreakStmt) stmtNode()    {}
func (n *ContinueStmt) stmtNode() {}
func (n *LabeledStmt) stmtNode()  {}
func (n *SwitchStmt) stmtNode()   {}
func (n *TryStmt) stmtNode()      {}
func (n *EmptyStmt) stmtNode()    {}
func (n *WithStmt) stmtNode()     {}

func (n *ExprStmt) Span() (token.Pos, token.Pos) {
	start, _ := n.Expr.Span()
	return start, n.End
}
func (n *ExprStmt) Walk(v Visitor) { Walk(v, n.Expr) }

func (n *Declarator) Span() (token.Pos, token.Pos) {
	start, end := n.Target.Span()
	if n.Init != nil {
		_, end = n.Init.Span()
	}
	return start, end
}
func (n *Declarator) Walk(v Visitor) {
	Walk(v, n.Target)
	if n.Init != nil {
		Walk(v, n.Init)
	}
}

func (n *VarDecl) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *VarDecl) Walk(v Visitor) {
	for _, d := range n.Decls {
		Walk(v, d)
	}
}

func (n *FuncDecl) Span() (token.Pos, token.Pos) { return n.Fn.Span() }
func (n *FuncDecl) Walk(v Visitor)                { Walk(v, n.Fn) }

func (n *ClassDecl) Span() (token.Pos, token.Pos) { return n.Cl.Span() }
func (n *ClassDecl) Walk(v Visitor)                { Walk(v, n.Cl) }

func (n *ReturnStmt) Span() (token.Pos, token.Pos) { return n.Pos, n.End }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Arg != nil {
		Walk(v, n.Arg)
	}
}

func (n *ThrowStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Arg.Span()
	return n.Pos, end
}
func (n *ThrowStmt) Walk(v Visitor) { Walk(v, n.Arg) }

func (n *IfStmt) Span() (token.Pos, token.Pos) {
	end := n.Pos
	if n.Alt != nil {
		_, end = n.Alt.Span()
	} else if n.Cons != nil {
		_, end = n.Cons.Span()
	}
	return n.Pos, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Cons)
	if n.Alt != nil {
		Walk(v, n.Alt)
	}
}

func (n *ForStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Body.Span()
	return n.Pos, end
}
func (n *ForStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Test != nil {
		Walk(v, n.Test)
	}
	if n.Update != nil {
		Walk(v, n.Update)
	}
	Walk(v, n.Body)
}

func (n *ForInOfStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Body.Span()
	return n.Pos, end
}
func (n *ForInOfStmt) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
	Walk(v, n.Body)
}

func (n *WhileStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Body.Span()
	return n.Pos, end
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Body)
}

func (n *DoWhileStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Test.Span()
	return n.Pos, end
}
func (n *DoWhileStmt) Walk(v Visitor) {
	Walk(v, n.Body)
	Walk(v, n.Test)
}

func (n *BreakStmt) Span() (token.Pos, token.Pos) {
	end := n.Pos + 5
	if n.Label != nil {
		_, end = n.Label.Span()
	}
	return n.Pos, end
}
func (n *BreakStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
}

func (n *ContinueStmt) Span() (token.Pos, token.Pos) {
	end := n.Pos + 8
	if n.Label != nil {
		_, end = n.Label.Span()
	}
	return n.Pos, end
}
func (n *ContinueStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
}

func (n *LabeledStmt) Span() (token.Pos, token.Pos) {
	start, _ := n.Label.Span()
	_, end := n.Body.Span()
	return start, end
}
func (n *LabeledStmt) Walk(v Visitor) {
	Walk(v, n.Label)
	Walk(v, n.Body)
}

func (n *SwitchCase) Span() (token.Pos, token.Pos) {
	end := n.Pos
	if len(n.Body) > 0 {
		_, end = n.Body[len(n.Body)-1].Span()
	}
	return n.Pos, end
}
func (n *SwitchCase) Walk(v Visitor) {
	if n.Test != nil {
		Walk(v, n.Test)
	}
	for _, s := range n.Body {
		Walk(v, s)
	}
}

func (n *SwitchStmt) Span() (token.Pos, token.Pos) { return n.Pos, n.End }
func (n *SwitchStmt) Walk(v Visitor) {
	Walk(v, n.Disc)
	for _, c := range n.Cases {
		Walk(v, c)
	}
}

func (n *TryStmt) Span() (token.Pos, token.Pos) {
	end := n.Pos
	switch {
	case n.Finally != nil:
		_, end = n.Finally.Span()
	case n.CatchBody != nil:
		_, end = n.CatchBody.Span()
	default:
		_, end = n.Block.Span()
	}
	return n.Pos, end
}
func (n *TryStmt) Walk(v Visitor) {
	Walk(v, n.Block)
	if n.CatchBody != nil {
		if n.CatchParam != nil {
			Walk(v, n.CatchParam)
		}
		Walk(v, n.CatchBody)
	}
	if n.Finally != nil {
		Walk(v, n.Finally)
	}
}

func (n *EmptyStmt) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos + 1 }
func (n *EmptyStmt) Walk(Visitor)                 {}

func (n *WithStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Body.Span()
	return n.Pos, end
}
func (n *WithStmt) Walk(v Visitor) {
	Walk(v, n.Obj)
	Walk(v, n.Body)
}
