package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mna/jsrevive/lang/token"
)

// Mode selects the output style of a Printer. This is the "printer" of C1:
// given the AST the instrumenter produced (input side) or the output
// assembler built (output side), emit runnable JavaScript source text.
type Mode int

const (
	// Canonical prints multi-line, indented source — the default, and the
	// only mode that preserves leading comments.
	Canonical Mode = iota
	// Minified writes no newlines or indentation; the single spaces the
	// printer writes around operators and after commas are kept.
	Minified
	// Compact prints exactly the same output as Minified.
	Compact
)

// Printer prints a Program (or any Node) as JavaScript source.
type Printer struct {
	Mode    Mode
	Indent  string // per-level indent string for Canonical mode, default "  "
	Comments bool  // emit leading comments (Canonical mode only)
}

// Fprint writes n to w and returns any write error encountered.
func (p *Printer) Fprint(w io.Writer, n Node) error {
	ind := p.Indent
	if ind == "" {
		ind = "  "
	}
	pp := &printer{w: w, mode: p.Mode, indent: ind, withComments: p.Comments && p.Mode == Canonical}
	if prog, ok := n.(*Program); ok && pp.withComments {
		pp.indexComments(prog)
	}
	pp.node(n)
	pp.stmtSep()
	return pp.err
}

// Sprint renders n to a string using the Printer's configuration.
func (p *Printer) Sprint(n Node) (string, error) {
	var sb strings.Builder
	if err := p.Fprint(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type printer struct {
	w            io.Writer
	mode         Mode
	indent       string
	depth        int
	err          error
	withComments bool
	byNode       map[Node][]*Comment
}

func (p *printer) indexComments(prog *Program) {
	p.byNode = make(map[Node][]*Comment, len(prog.Comments))
	for _, c := range prog.Comments {
		p.byNode[c.Node] = append(p.byNode[c.Node], c)
	}
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) nl() {
	if p.mode == Canonical {
		p.write("\n")
		p.write(strings.Repeat(p.indent, p.depth))
	}
}

// stmtSep writes whatever should follow a top-level statement: a newline in
// Canonical mode, nothing in Minified or Compact mode.
func (p *printer) stmtSep() {
	if p.mode == Canonical {
		p.write("\n")
	}
}

func (p *printer) leadingComments(n Node) {
	if !p.withComments {
		return
	}
	for _, c := range p.byNode[n] {
		if c.Block {
			p.write("/*" + c.Text + "*/")
		} else {
			p.write("//" + c.Text)
		}
		p.nl()
	}
}

// node dispatches to the right print method for any Node.
func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *Program:
		for i, s := range n.Body {
			if i > 0 {
				p.nl()
			}
			p.leadingComments(s)
			p.stmt(s)
		}
	case Stmt:
		p.stmt(n)
	case Expr:
		p.expr(n, 0)
	default:
		p.err = fmt.Errorf("ast: cannot print node of type %T", n)
	}
}

// stmt prints a statement, including its trailing terminator.
func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *BlockStmt:
		p.block(s)

	case *ExprStmt:
		// an expression statement beginning with `{`, `function` or `class`
		// would be misparsed as a different construct; wrap defensively.
		if startsWithAmbiguousToken(s.Expr) {
			p.write("(")
			p.expr(s.Expr, 0)
			p.write(")")
		} else {
			p.expr(s.Expr, 0)
		}
		p.write(";")

	case *VarDecl:
		p.varDecl(s)
		p.write(";")

	case *FuncDecl:
		p.funcLit(s.Fn)

	case *ClassDecl:
		p.classLit(s.Cl)

	case *ReturnStmt:
		p.write("return")
		if s.Arg != nil {
			p.write(" ")
			p.expr(s.Arg, 0)
		}
		p.write(";")

	case *ThrowStmt:
		p.write("throw ")
		p.expr(s.Arg, 0)
		p.write(";")

	case *IfStmt:
		p.write("if (")
		p.expr(s.Test, 0)
		p.write(") ")
		p.stmtAsBlock(s.Cons)
		if s.Alt != nil {
			p.write(" else ")
			if ifst, ok := s.Alt.(*IfStmt); ok {
				p.stmt(ifst)
			} else {
				p.stmtAsBlock(s.Alt)
			}
		}

	case *ForStmt:
		p.write("for (")
		if s.Init != nil {
			p.forInit(s.Init)
		}
		p.write("; ")
		if s.Test != nil {
			p.expr(s.Test, 0)
		}
		p.write("; ")
		if s.Update != nil {
			p.expr(s.Update, 0)
		}
		p.write(") ")
		p.stmtAsBlock(s.Body)

	case *ForInOfStmt:
		p.write("for (")
		p.forInit(s.Left)
		if s.Of {
			p.write(" of ")
		} else {
			p.write(" in ")
		}
		p.expr(s.Right, 0)
		p.write(") ")
		p.stmtAsBlock(s.Body)

	case *WhileStmt:
		p.write("while (")
		p.expr(s.Test, 0)
		p.write(") ")
		p.stmtAsBlock(s.Body)

	case *DoWhileStmt:
		p.write("do ")
		p.stmtAsBlock(s.Body)
		p.write(" while (")
		p.expr(s.Test, 0)
		p.write(");")

	case *BreakStmt:
		p.write("break")
		if s.Label != nil {
			p.write(" " + s.Label.Name)
		}
		p.write(";")

	case *ContinueStmt:
		p.write("continue")
		if s.Label != nil {
			p.write(" " + s.Label.Name)
		}
		p.write(";")

	case *LabeledStmt:
		p.write(s.Label.Name + ": ")
		p.stmt(s.Body)

	case *SwitchStmt:
		p.write("switch (")
		p.expr(s.Disc, 0)
		p.write(") {")
		p.depth++
		for _, c := range s.Cases {
			p.nl()
			if c.Test != nil {
				p.write("case ")
				p.expr(c.Test, 0)
				p.write(":")
			} else {
				p.write("default:")
			}
			p.depth++
			for _, cs := range c.Body {
				p.nl()
				p.stmt(cs)
			}
			p.depth--
		}
		p.depth--
		p.nl()
		p.write("}")

	case *TryStmt:
		p.write("try ")
		p.block(s.Block)
		if s.CatchBody != nil {
			p.write(" catch ")
			if s.CatchParam != nil {
				p.write("(")
				p.expr(s.CatchParam, 0)
				p.write(") ")
			}
			p.block(s.CatchBody)
		}
		if s.Finally != nil {
			p.write(" finally ")
			p.block(s.Finally)
		}

	case *EmptyStmt:
		p.write(";")

	case *WithStmt:
		p.write("with (")
		p.expr(s.Obj, 0)
		p.write(") ")
		p.stmtAsBlock(s.Body)

	default:
		p.err = fmt.Errorf("ast: cannot print statement of type %T", s)
	}
}

func (p *printer) forInit(s Stmt) {
	switch s := s.(type) {
	case *VarDecl:
		p.varDecl(s)
	case *ExprStmt:
		p.expr(s.Expr, 0)
	default:
		p.err = fmt.Errorf("ast: invalid for-init statement of type %T", s)
	}
}

// stmtAsBlock prints s, wrapping bare non-block statements in braces so
// synthesized control flow (e.g. an injected tracker guard) never silently
// attaches to the wrong branch.
func (p *printer) stmtAsBlock(s Stmt) {
	if b, ok := s.(*BlockStmt); ok {
		p.block(b)
		return
	}
	p.write("{")
	p.depth++
	p.nl()
	p.stmt(s)
	p.depth--
	p.nl()
	p.write("}")
}

func (p *printer) block(b *BlockStmt) {
	p.write("{")
	if len(b.Body) == 0 {
		p.write("}")
		return
	}
	p.depth++
	for _, s := range b.Body {
		p.nl()
		p.leadingComments(s)
		p.stmt(s)
	}
	p.depth--
	p.nl()
	p.write("}")
}

func (p *printer) varDecl(s *VarDecl) {
	p.write(s.Kind.String() + " ")
	for i, d := range s.Decls {
		if i > 0 {
			p.write(", ")
		}
		p.expr(d.Target, 0)
		if d.Init != nil {
			p.write(" = ")
			p.expr(d.Init, precAssign)
		}
	}
}

// precedence levels, loosely following the ECMAScript operator precedence
// table; only the relative ordering matters since we always parenthesize a
// child whose own precedence is lower than what its position requires.
const (
	precNone = iota
	precSeq
	precAssign
	precCond
	precNullish
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precPostfix
	precCallNew
	precMember
)

func binPrec(op token.Token) int {
	switch op {
	case token.PIPEPIPE, token.QUESTIONQ:
		return precNullish
	case token.AMPAMP:
		return precAnd
	case token.PIPE:
		return precBitOr
	case token.CARET:
		return precBitXor
	case token.AMP:
		return precBitAnd
	case token.EQEQ, token.EQEQEQ, token.NEQ, token.NEQEQ:
		return precEquality
	case token.LT, token.GT, token.LE, token.GE, token.INSTANCEOF, token.IN:
		return precRelational
	case token.LTLT, token.GTGT, token.GTGTGT:
		return precShift
	case token.PLUS, token.MINUS:
		return precAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiplicative
	case token.STARSTAR:
		return precExponent
	default:
		return precNone
	}
}

// expr prints e, adding parentheses if its own precedence is lower than
// minPrec (the precedence required by the position it appears in).
func (p *printer) expr(e Expr, minPrec int) {
	prec := exprPrec(e)
	wrap := prec != 0 && prec < minPrec
	if wrap {
		p.write("(")
	}
	p.exprInner(e)
	if wrap {
		p.write(")")
	}
}

func exprPrec(e Expr) int {
	switch e := e.(type) {
	case *SequenceExpr:
		return precSeq
	case *AssignExpr:
		return precAssign
	case *YieldExpr, *AwaitExpr:
		return precAssign
	case *ConditionalExpr:
		return precCond
	case *LogicalExpr:
		if e.Op == token.PIPEPIPE || e.Op == token.QUESTIONQ {
			return precNullish
		}
		return precAnd
	case *BinaryExpr:
		return binPrec(e.Op)
	case *UnaryExpr:
		return precUnary
	case *UpdateExpr:
		if e.Prefix {
			return precUnary
		}
		return precPostfix
	case *CallExpr:
		return precCallNew
	case *NewExpr:
		return precCallNew
	case *MemberExpr:
		return precMember
	default:
		return 0 // atoms never need parens on precedence grounds alone
	}
}

func (p *printer) exprInner(e Expr) {
	switch e := e.(type) {
	case *Ident:
		p.write(e.Name)

	case *Literal:
		switch e.Kind {
		case token.STRING:
			p.write(strconv.Quote(e.Raw))
		case token.REGEX:
			p.write("/" + e.Raw + "/" + e.Flags)
		default:
			p.write(e.Raw)
		}

	case *TemplateLit:
		p.write("`")
		for i, q := range e.Quasis {
			p.write(q)
			if i < len(e.Exprs) {
				p.write("${")
				p.expr(e.Exprs[i], 0)
				p.write("}")
			}
		}
		p.write("`")

	case *SpreadElement:
		p.write("...")
		p.expr(e.Arg, precAssign)

	case *RestElement:
		p.write("...")
		p.expr(e.Arg, precAssign)

	case *ArrayLit:
		p.write("[")
		for i, el := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			if el != nil {
				p.expr(el, precAssign)
			}
		}
		p.write("]")

	case *ObjectLit:
		p.write("{")
		for i, prop := range e.Props {
			if i > 0 {
				p.write(", ")
			}
			p.property(prop)
		}
		p.write("}")

	case *AssignPattern:
		p.expr(e.Target, precAssign)
		p.write(" = ")
		p.expr(e.Value, precAssign)

	case *FuncLit:
		p.funcLit(e)

	case *ClassLit:
		p.classLit(e)

	case *MemberExpr:
		p.expr(e.Object, precMember)
		if e.Computed {
			if e.Optional {
				p.write("?.")
			}
			p.write("[")
			p.expr(e.Property, 0)
			p.write("]")
		} else {
			if e.Optional {
				p.write("?.")
			} else {
				p.write(".")
			}
			p.expr(e.Property, 0)
		}

	case *CallExpr:
		p.expr(e.Callee, precCallNew)
		if e.Optional {
			p.write("?.")
		}
		p.write("(")
		for i, a := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			p.expr(a, precAssign)
		}
		p.write(")")

	case *NewExpr:
		p.write("new ")
		p.expr(e.Callee, precMember)
		p.write("(")
		for i, a := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			p.expr(a, precAssign)
		}
		p.write(")")

	case *UnaryExpr:
		if isWordOp(e.Op) {
			p.write(e.Op.String() + " ")
		} else {
			p.write(e.Op.String())
		}
		p.expr(e.Arg, precUnary)

	case *UpdateExpr:
		if e.Prefix {
			p.write(e.Op.String())
			p.expr(e.Arg, precUnary)
		} else {
			p.expr(e.Arg, precPostfix)
			p.write(e.Op.String())
		}

	case *BinaryExpr:
		prec := binPrec(e.Op)
		p.expr(e.Left, prec)
		p.write(" " + e.Op.String() + " ")
		p.expr(e.Right, prec+1)

	case *LogicalExpr:
		prec := exprPrec(e)
		p.expr(e.Left, prec)
		p.write(" " + e.Op.String() + " ")
		p.expr(e.Right, prec+1)

	case *AssignExpr:
		p.expr(e.Left, precCond)
		p.write(" " + e.Op.String() + " ")
		p.expr(e.Right, precAssign)

	case *ConditionalExpr:
		p.expr(e.Test, precNullish)
		p.write(" ? ")
		p.expr(e.Cons, precAssign)
		p.write(" : ")
		p.expr(e.Alt, precAssign)

	case *SequenceExpr:
		for i, se := range e.Exprs {
			if i > 0 {
				p.write(", ")
			}
			p.expr(se, precAssign)
		}

	case *ParenExpr:
		p.write("(")
		p.expr(e.Expr, 0)
		p.write(")")

	case *ThisExpr:
		p.write("this")

	case *SuperExpr:
		p.write("super")

	case *YieldExpr:
		p.write("yield")
		if e.Delegate {
			p.write("*")
		}
		if e.Arg != nil {
			p.write(" ")
			p.expr(e.Arg, precAssign)
		}

	case *AwaitExpr:
		p.write("await ")
		p.expr(e.Arg, precUnary)

	default:
		p.err = fmt.Errorf("ast: cannot print expression of type %T", e)
	}
}

func (p *printer) property(prop *Property) {
	switch prop.Kind {
	case "get", "set":
		p.write(prop.Kind + " ")
		p.propKey(prop)
		fn := prop.Value.(*FuncLit)
		p.paramsAndBody(fn)
		return
	case "method":
		fn := prop.Value.(*FuncLit)
		if fn.IsAsync {
			p.write("async ")
		}
		if fn.IsGenerator {
			p.write("*")
		}
		p.propKey(prop)
		p.paramsAndBody(fn)
		return
	case "spread":
		p.expr(prop.Value, precAssign)
		return
	}
	if prop.Shorthand {
		p.expr(prop.Key, 0)
		return
	}
	p.propKey(prop)
	p.write(": ")
	p.expr(prop.Value, precAssign)
}

func (p *printer) propKey(prop *Property) {
	if prop.Computed {
		p.write("[")
		p.expr(prop.Key, 0)
		p.write("]")
		return
	}
	p.expr(prop.Key, 0)
}

// trackerComment writes meta (set by the instrumenter, C3) as a leading
// /*livepack_track:...*/ block comment, if non-nil. meta is always a
// pre-serialized JSON string by the time it reaches the printer.
func (p *printer) trackerComment(meta interface{}) {
	if meta == nil {
		return
	}
	s, ok := meta.(string)
	if !ok || s == "" {
		return
	}
	p.write("/*livepack_track:" + s + "*/")
}

func (p *printer) funcLit(fn *FuncLit) {
	p.trackerComment(fn.TrackerMeta)
	if fn.IsArrow {
		p.funcParamsList(fn.Params)
		p.write(" => ")
		if fn.ExprBody != nil {
			if _, isObj := fn.ExprBody.(*ObjectLit); isObj {
				p.write("(")
				p.expr(fn.ExprBody, precAssign)
				p.write(")")
			} else {
				p.expr(fn.ExprBody, precAssign)
			}
		} else {
			p.block(fn.Body)
		}
		return
	}

	if fn.IsAsync {
		p.write("async ")
	}
	p.write("function")
	if fn.IsGenerator {
		p.write("*")
	}
	if fn.Name != nil {
		p.write(" " + fn.Name.Name)
	} else {
		p.write(" ")
	}
	p.paramsAndBody(fn)
}

func (p *printer) paramsAndBody(fn *FuncLit) {
	p.funcParamsList(fn.Params)
	p.write(" ")
	p.block(fn.Body)
}

func (p *printer) funcParamsList(params []Expr) {
	p.write("(")
	for i, prm := range params {
		if i > 0 {
			p.write(", ")
		}
		p.expr(prm, precAssign)
	}
	p.write(")")
}

func (p *printer) classLit(cl *ClassLit) {
	p.trackerComment(cl.TrackerMeta)
	p.write("class")
	if cl.Name != nil {
		p.write(" " + cl.Name.Name)
	}
	if cl.SuperClass != nil {
		p.write(" extends ")
		p.expr(cl.SuperClass, precCallNew)
	}
	p.write(" {")
	p.depth++
	for _, m := range cl.Body {
		p.nl()
		p.classMember(m)
	}
	p.depth--
	p.nl()
	p.write("}")
}

func (p *printer) classMember(m *ClassMember) {
	if m.IsField {
		if m.Static {
			p.write("static ")
		}
		if m.Computed {
			p.write("[")
			p.expr(m.Key, 0)
			p.write("]")
		} else {
			p.expr(m.Key, 0)
		}
		if m.Value != nil {
			p.write(" = ")
			p.expr(m.Value, precAssign)
		}
		p.write(";")
		return
	}

	if m.Static {
		p.write("static ")
	}
	switch m.Fn.MethodKind {
	case "get", "set":
		p.write(m.Fn.MethodKind + " ")
	default:
		if m.Fn.IsAsync {
			p.write("async ")
		}
		if m.Fn.IsGenerator {
			p.write("*")
		}
	}
	if m.Computed {
		p.write("[")
		p.expr(m.Key, 0)
		p.write("]")
	} else {
		p.expr(m.Key, 0)
	}
	p.paramsAndBody(m.Fn)
}

func isWordOp(op token.Token) bool {
	switch op {
	case token.TYPEOF, token.VOID, token.DELETE:
		return true
	default:
		return false
	}
}

// startsWithAmbiguousToken reports whether printing e as an expression
// statement would need defensive parens because the first emitted token
// could be misread as starting a block, function or class statement.
func startsWithAmbiguousToken(e Expr) bool {
	switch e := e.(type) {
	case *ObjectLit:
		return true
	case *FuncLit:
		return !e.IsArrow
	case *ClassLit:
		return true
	case *AssignExpr:
		return startsWithAmbiguousToken(e.Left)
	case *BinaryExpr:
		return startsWithAmbiguousToken(e.Left)
	case *LogicalExpr:
		return startsWithAmbiguousToken(e.Left)
	case *CallExpr:
		return startsWithAmbiguousToken(e.Callee)
	case *MemberExpr:
		return startsWithAmbiguousToken(e.Object)
	case *ConditionalExpr:
		return startsWithAmbiguousToken(e.Test)
	case *SequenceExpr:
		return startsWithAmbiguousToken(e.Exprs[0])
	default:
		return false
	}
}
