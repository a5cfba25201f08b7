package ast

import "github.com/mna/jsrevive/lang/token"

type (
	// Ident is an identifier reference or binding. Binding is filled in by
	// the instrumenter's capture analysis (see lang/instrument) to record
	// whether this use is local, a captured free variable, or global; it is
	// nil until that pass runs.
	Ident struct {
		NamePos token.Pos
		Name    string
		Binding interface{} // *instrument.Binding, kept untyped to avoid an import cycle
	}

	// Literal covers null/true/false/number/string/bigint/regex literals;
	// Kind distinguishes them since they share the same shape.
	Literal struct {
		Pos   token.Pos
		Kind  token.Token // NULL, TRUE, FALSE, NUMBER, STRING, REGEX
		Raw   string      // source text for NUMBER; pattern body without slashes for REGEX; decoded value for STRING
		Flags string      // regex flags, only set when Kind == REGEX
	}

	// TemplateLit is a template literal with len(Quasis) == len(Exprs)+1.
	TemplateLit struct {
		Start, End token.Pos
		Quasis     []string
		Exprs      []Expr
	}

	// SpreadElement is `...expr` inside an array/object literal or call args.
	SpreadElement struct {
		DotsPos token.Pos
		Arg     Expr
	}

	// RestElement is `...pattern` in a parameter list or destructuring pattern.
	RestElement struct {
		DotsPos token.Pos
		Arg     Expr
	}

	// ArrayLit is an array literal or (when used as a Pattern) an array
	// destructuring pattern. A nil entry in Elements is an elision ("hole").
	ArrayLit struct {
		Lbrack, Rbrack token.Pos
		Elements       []Expr
	}

	// Property is one entry of an ObjectLit (or, as a Pattern, an
	// ObjectPattern). Kind is one of "init", "get", "set", "method", or
	// "spread" for `...expr` (Key nil, Value a SpreadElement).
	Property struct {
		KeyPos    token.Pos
		Key       Expr
		Computed  bool
		Shorthand bool
		Kind      string
		Value     Expr
	}

	// ObjectLit is an object literal or destructuring pattern.
	ObjectLit struct {
		Lbrace, Rbrace token.Pos
		Props          []*Property
	}

	// AssignPattern is `target = default`, used for default parameter values
	// and destructuring defaults.
	AssignPattern struct {
		Target Expr
		Eq     token.Pos
		Value  Expr
	}

	// FuncLit covers function declarations/expressions, arrow functions and
	// class methods. Concise-body arrows set ExprBody instead of Body.
	FuncLit struct {
		Start      token.Pos
		Name       *Ident // nil for anonymous function expressions and arrows
		Params     []Expr // Ident, AssignPattern, RestElement or destructuring patterns
		Body       *BlockStmt
		ExprBody   Expr // set instead of Body for concise arrow bodies
		IsArrow    bool
		IsAsync    bool
		IsGenerator bool
		IsMethod   bool
		IsStatic   bool // method only
		MethodKind string // "method", "get", "set", "constructor" (method only)

		// TrackerMeta is filled in by the instrumenter (C3); the printer emits
		// it as the function's leading tracker comment when non-nil.
		TrackerMeta interface{}
	}

	// ClassMember is one method, getter/setter or field of a ClassLit.
	ClassMember struct {
		KeyPos   token.Pos
		Key      Expr
		Computed bool
		Static   bool
		IsField  bool
		Fn       *FuncLit // set when !IsField
		Value    Expr     // field initializer, set when IsField
	}

	// ClassLit covers class declarations and class expressions.
	ClassLit struct {
		Start      token.Pos
		Name       *Ident
		SuperClass Expr
		Body       []*ClassMember

		// TrackerMeta mirrors FuncLit.TrackerMeta: the class body, not its
		// constructor, hosts the tracker comment (§4.3).
		TrackerMeta interface{}
	}

	MemberExpr struct {
		Object   Expr
		Property Expr
		Computed bool // true for obj[prop], false for obj.prop
		Optional bool // true for obj?.prop
	}

	CallExpr struct {
		Callee   Expr
		Args     []Expr
		Rparen   token.Pos
		Optional bool // true for callee?.(...)
	}

	NewExpr struct {
		NewPos token.Pos
		Callee Expr
		Args   []Expr
		Rparen token.Pos
	}

	UnaryExpr struct {
		OpPos token.Pos
		Op    token.Token
		Arg   Expr
	}

	UpdateExpr struct {
		OpPos  token.Pos
		Op     token.Token
		Arg    Expr
		Prefix bool
	}

	BinaryExpr struct {
		Op    token.Token
		Left  Expr
		Right Expr
	}

	LogicalExpr struct {
		Op    token.Token
		Left  Expr
		Right Expr
	}

	AssignExpr struct {
		Op    token.Token // ASSIGN, PLUSEQ, ..., or ASSIGN when Left is a pattern
		Left  Expr
		Right Expr
	}

	ConditionalExpr struct {
		Test Expr
		Cons Expr
		Alt  Expr
	}

	SequenceExpr struct {
		Exprs []Expr
	}

	ParenExpr struct {
		Lparen, Rparen token.Pos
		Expr           Expr
	}

	ThisExpr struct{ Pos token.Pos }

	// SuperExpr is a bare `super` reference; it only ever appears as the
	// Object of a MemberExpr (super.x / super[x]) or the Callee of a CallExpr
	// (super(...)). The instrumenter does not rewrite either form; the
	// printer emits `super` as written.
	SuperExpr struct{ Pos token.Pos }

	YieldExpr struct {
		Pos      token.Pos
		Arg      Expr
		Delegate bool // yield*
	}

	AwaitExpr struct {
		Pos token.Pos
		Arg Expr
	}
)

func (n *Ident) exprNode()           {}
func (n *Literal) exprNode()         {}
func (n *TemplateLit) exprNode()     {}
func (n *SpreadElement) exprNode()   {}
func (n *RestElement) exprNode()     {}
func (n *ArrayLit) exprNode()        {}
func (n *ObjectLit) exprNode()       {}
func (n *AssignPattern) exprNode()   {}
func (n *FuncLit) exprNode()         {}
func (n *ClassLit) exprNode()        {}
func (n *MemberExpr) exprNode()      {}
func (n *CallExpr) exprNode()        {}
func (n *NewExpr) exprNode()         {}
func (n *UnaryExpr) exprNode()       {}
func (n *UpdateExpr) exprNode()      {}
func (n *BinaryExpr) exprNode()      {}
func (n *LogicalExpr) exprNode()     {}
func (n *AssignExpr) exprNode()      {}
func (n *ConditionalExpr) exprNode() {}
func (n *SequenceExpr) exprNode()    {}
func (n *ParenExpr) exprNode()       {}
func (n *ThisExpr) exprNode()        {}
func (n *SuperExpr) exprNode()       {}
func (n *YieldExpr) exprNode()       {}
func (n *AwaitExpr) exprNode()       {}

// Patterns: identifiers, array/object literals, assignment patterns and
// rest elements can all appear as binding targets.
func (n *Ident) patternNode()         {}
func (n *ArrayLit) patternNode()      {}
func (n *ObjectLit) patternNode()     {}
func (n *AssignPattern) patternNode() {}
func (n *RestElement) patternNode()   {}

func (n *Ident) Span() (token.Pos, token.Pos) {
	return n.NamePos, n.NamePos + token.Pos(len(n.Name))
}
func (n *Ident) Walk(Visitor) {}

func (n *Literal) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos + token.Pos(len(n.Raw)) }
func (n *Literal) Walk(Visitor)                 {}

func (n *TemplateLit) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *TemplateLit) Walk(v Visitor) {
	for _, e := range n.Exprs {
		Walk(v, e)
	}
}

func (n *SpreadElement) Span() (token.Pos, token.Pos) {
	_, end := n.Arg.Span()
	return n.DotsPos, end
}
func (n *SpreadElement) Walk(v Visitor) { Walk(v, n.Arg) }

func (n *RestElement) Span() (token.Pos, token.Pos) {
	_, end := n.Arg.Span()
	return n.DotsPos, end
}
func (n *RestElement) Walk(v Visitor) { Walk(v, n.Arg) }

func (n *ArrayLit) Span() (token.Pos, token.Pos) { return n.Lbrack, n.Rbrack }
func (n *ArrayLit) Walk(v Visitor) {
	for _, e := range n.Elements {
		if e != nil {
			Walk(v, e)
		}
	}
}

func (n *Property) Span() (token.Pos, token.Pos) {
	if n.Value != nil {
		_, end := n.Value.Span()
		return n.KeyPos, end
	}
	_, end := n.Key.Span()
	return n.KeyPos, end
}
func (n *Property) Walk(v Visitor) {
	Walk(v, n.Key)
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

func (n *ObjectLit) Span() (token.Pos, token.Pos) { return n.Lbrace, n.Rbrace }
func (n *ObjectLit) Walk(v Visitor) {
	for _, p := range n.Props {
		Walk(v, p)
	}
}

func (n *AssignPattern) Span() (token.Pos, token.Pos) {
	start, _ := n.Target.Span()
	_, end := n.Value.Span()
	return start, end
}
func (n *AssignPattern) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Value)
}

func (n *FuncLit) Span() (token.Pos, token.Pos) {
	if n.Body != nil {
		_, end := n.Body.Span()
		return n.Start, end
	}
	if n.ExprBody != nil {
		_, end := n.ExprBody.Span()
		return n.Start, end
	}
	return n.Start, n.Start
}
func (n *FuncLit) Walk(v Visitor) {
	if n.Name != nil {
		Walk(v, n.Name)
	}
	for _, p := range n.Params {
		Walk(v, p)
	}
	if n.Body != nil {
		Walk(v, n.Body)
	}
	if n.ExprBody != nil {
		Walk(v, n.ExprBody)
	}
}

func (n *ClassMember) Span() (token.Pos, token.Pos) {
	if n.Fn != nil {
		return n.Fn.Span()
	}
	if n.Value != nil {
		_, end := n.Value.Span()
		return n.KeyPos, end
	}
	_, end := n.Key.Span()
	return n.KeyPos, end
}
func (n *ClassMember) Walk(v Visitor) {
	Walk(v, n.Key)
	if n.Fn != nil {
		Walk(v, n.Fn)
	}
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

func (n *ClassLit) Span() (token.Pos, token.Pos) {
	end := n.Start
	if len(n.Body) > 0 {
		_, end = n.Body[len(n.Body)-1].Span()
	}
	return n.Start, end
}
func (n *ClassLit) Walk(v Visitor) {
	if n.Name != nil {
		Walk(v, n.Name)
	}
	if n.SuperClass != nil {
		Walk(v, n.SuperClass)
	}
	for _, m := range n.Body {
		Walk(v, m)
	}
}

func (n *MemberExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Object.Span()
	_, end := n.Property.Span()
	return start, end
}
func (n *MemberExpr) Walk(v Visitor) {
	Walk(v, n.Object)
	Walk(v, n.Property)
}

func (n *CallExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Callee.Span()
	return start, n.Rparen
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

func (n *NewExpr) Span() (token.Pos, token.Pos) { return n.NewPos, n.Rparen }
func (n *NewExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

func (n *UnaryExpr) Span() (token.Pos, token.Pos) {
	_, end := n.Arg.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.Arg) }

func (n *UpdateExpr) Span() (token.Pos, token.Pos) {
	start, end := n.Arg.Span()
	if n.Prefix {
		return n.OpPos, end
	}
	return start, n.OpPos
}
func (n *UpdateExpr) Walk(v Visitor) { Walk(v, n.Arg) }

func (n *BinaryExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *LogicalExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}
func (n *LogicalExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *AssignExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}
func (n *AssignExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *ConditionalExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Test.Span()
	_, end := n.Alt.Span()
	return start, end
}
func (n *ConditionalExpr) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Cons)
	Walk(v, n.Alt)
}

func (n *SequenceExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Exprs[0].Span()
	_, end := n.Exprs[len(n.Exprs)-1].Span()
	return start, end
}
func (n *SequenceExpr) Walk(v Visitor) {
	for _, e := range n.Exprs {
		Walk(v, e)
	}
}

func (n *ParenExpr) Span() (token.Pos, token.Pos) { return n.Lparen, n.Rparen }
func (n *ParenExpr) Walk(v Visitor)               { Walk(v, n.Expr) }

func (n *ThisExpr) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos + 4 }
func (n *ThisExpr) Walk(Visitor)                 {}

func (n *SuperExpr) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos + 5 }
func (n *SuperExpr) Walk(Visitor)                 {}

func (n *YieldExpr) Span() (token.Pos, token.Pos) {
	if n.Arg == nil {
		return n.Pos, n.Pos + 5
	}
	_, end := n.Arg.Span()
	return n.Pos, end
}
func (n *YieldExpr) Walk(v Visitor) {
	if n.Arg != nil {
		Walk(v, n.Arg)
	}
}

func (n *AwaitExpr) Span() (token.Pos, token.Pos) {
	_, end := n.Arg.Span()
	return n.Pos, end
}
func (n *AwaitExpr) Walk(v Visitor) { Walk(v, n.Arg) }
