package instrument

import (
	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/token"
)

// hoistBlock pre-declares var and function/class names in b's block so
// forward references (`f(); function f(){}`) resolve, mirroring how the
// teacher's own resolver walked the init part of a for-loop before its body
// (resolver.go's ForLoopStmt case) — hoisting here is just that idea
// applied to var/function declarations instead of for-loop init.
func (in *Instrumenter) hoistBlock(stmts []ast.Stmt) {
	cur := in.current()
	var walk func(s ast.Stmt)
	walk = func(s ast.Stmt) {
		switch s := s.(type) {
		case *ast.VarDecl:
			if s.Kind != token.VAR {
				return
			}
			for _, d := range s.Decls {
				forEachBindingTarget(d.Target, func(id *ast.Ident) {
					in.declare(cur, id, false)
				})
			}
		case *ast.FuncDecl:
			in.declare(cur, s.Fn.Name, false)
		case *ast.ClassDecl:
			in.declare(cur, s.Cl.Name, false)
		case *ast.IfStmt:
			walk(s.Cons)
			if s.Alt != nil {
				walk(s.Alt)
			}
		case *ast.ForStmt:
			walk(s.Body)
		case *ast.ForInOfStmt:
			walk(s.Body)
		case *ast.WhileStmt:
			walk(s.Body)
		case *ast.DoWhileStmt:
			walk(s.Body)
		case *ast.LabeledStmt:
			walk(s.Body)
		case *ast.BlockStmt:
			for _, st := range s.Body {
				walk(st)
			}
		case *ast.TryStmt:
			for _, st := range s.Block.Body {
				walk(st)
			}
			if s.CatchBody != nil {
				for _, st := range s.CatchBody.Body {
					walk(st)
				}
			}
			if s.Finally != nil {
				for _, st := range s.Finally.Body {
					walk(st)
				}
			}
		case *ast.SwitchStmt:
			for _, c := range s.Cases {
				for _, st := range c.Body {
					walk(st)
				}
			}
		}
	}
	for _, s := range stmts {
		walk(s)
	}
}

// forEachBindingTarget visits every Ident bound by a declarator target,
// recursing into array/object destructuring patterns.
func forEachBindingTarget(target ast.Expr, fn func(*ast.Ident)) {
	switch t := target.(type) {
	case *ast.Ident:
		fn(t)
	case *ast.ArrayLit:
		for _, el := range t.Elements {
			if el != nil {
				forEachBindingTarget(el, fn)
			}
		}
	case *ast.ObjectLit:
		for _, p := range t.Props {
			forEachBindingTarget(p.Value, fn)
		}
	case *ast.AssignPattern:
		forEachBindingTarget(t.Target, fn)
	case *ast.RestElement:
		forEachBindingTarget(t.Arg, fn)
	}
}

func (in *Instrumenter) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		for _, d := range s.Decls {
			if d.Init != nil {
				in.expr(d.Init)
			}
			if s.Kind != token.VAR {
				forEachBindingTarget(d.Target, func(id *ast.Ident) {
					in.declare(in.current(), id, s.Kind == token.CONST)
				})
			}
		}

	case *ast.FuncDecl:
		in.function(s.Fn)

	case *ast.ClassDecl:
		in.class(s.Cl)

	case *ast.ExprStmt:
		in.expr(s.Expr)

	case *ast.ReturnStmt:
		if s.Arg != nil {
			in.expr(s.Arg)
		}

	case *ast.ThrowStmt:
		in.expr(s.Arg)

	case *ast.IfStmt:
		in.expr(s.Test)
		in.stmtInBlock(s.Cons)
		if s.Alt != nil {
			in.stmtInBlock(s.Alt)
		}

	case *ast.ForStmt:
		in.pushBlock(false, nil)
		if s.Init != nil {
			in.stmt(s.Init)
		}
		if s.Test != nil {
			in.expr(s.Test)
		}
		if s.Update != nil {
			in.expr(s.Update)
		}
		in.stmtInBlock(s.Body)
		in.popBlock()

	case *ast.ForInOfStmt:
		in.pushBlock(false, nil)
		in.stmt(s.Left)
		in.expr(s.Right)
		in.stmtInBlock(s.Body)
		in.popBlock()

	case *ast.WhileStmt:
		in.expr(s.Test)
		in.stmtInBlock(s.Body)

	case *ast.DoWhileStmt:
		in.stmtInBlock(s.Body)
		in.expr(s.Test)

	case *ast.BreakStmt, *ast.ContinueStmt, *ast.EmptyStmt:
		// no bindings involved

	case *ast.LabeledStmt:
		in.stmt(s.Body)

	case *ast.SwitchStmt:
		in.expr(s.Disc)
		in.pushBlock(false, nil)
		for _, c := range s.Cases {
			if c.Test != nil {
				in.expr(c.Test)
			}
			for _, st := range c.Body {
				in.stmt(st)
			}
		}
		in.popBlock()

	case *ast.TryStmt:
		in.stmtInBlock(s.Block)
		if s.CatchBody != nil {
			in.pushBlock(false, nil)
			if s.CatchParam != nil {
				forEachBindingTarget(s.CatchParam, func(id *ast.Ident) {
					in.declare(in.current(), id, false)
				})
			}
			for _, st := range s.CatchBody.Body {
				in.stmt(st)
			}
			in.popBlock()
		}
		if s.Finally != nil {
			in.stmtInBlock(s.Finally)
		}

	case *ast.WithStmt:
		// `with` is not rewritten and stays in the output as written: the
		// object expression is resolved and the body is walked as an
		// ordinary block (no bindings are injected for the object's
		// properties).
		in.expr(s.Obj)
		in.stmtInBlock(s.Body)

	case *ast.BlockStmt:
		in.pushBlock(false, nil)
		for _, st := range s.Body {
			in.stmt(st)
		}
		in.popBlock()

	default:
		panic(unknownNode(s))
	}
}

// stmtInBlock wraps a non-BlockStmt body (an `if` consequent, loop body,
// etc.) in its own synthetic block scope so declarations inside a bare
// statement don't leak into the parent.
func (in *Instrumenter) stmtInBlock(s ast.Stmt) {
	if b, ok := s.(*ast.BlockStmt); ok {
		in.stmt(b)
		return
	}
	in.pushBlock(false, nil)
	in.stmt(s)
	in.popBlock()
}

func (in *Instrumenter) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Ident:
		in.resolve(e)

	case *ast.Literal, *ast.ThisExpr, *ast.SuperExpr:
		// no bindings involved

	case *ast.TemplateLit:
		for _, sub := range e.Exprs {
			in.expr(sub)
		}

	case *ast.SpreadElement:
		in.expr(e.Arg)

	case *ast.ArrayLit:
		for _, el := range e.Elements {
			if el != nil {
				in.expr(el)
			}
		}

	case *ast.ObjectLit:
		for _, p := range e.Props {
			if p.Computed {
				in.expr(p.Key)
			}
			in.expr(p.Value)
		}

	case *ast.FuncLit:
		in.function(e)

	case *ast.ClassLit:
		in.class(e)

	case *ast.UnaryExpr:
		in.expr(e.Arg)

	case *ast.UpdateExpr:
		in.expr(e.Arg)

	case *ast.BinaryExpr:
		in.expr(e.Left)
		in.expr(e.Right)

	case *ast.LogicalExpr:
		in.expr(e.Left)
		in.expr(e.Right)

	case *ast.AssignExpr:
		in.expr(e.Left)
		in.expr(e.Right)

	case *ast.ConditionalExpr:
		in.expr(e.Test)
		in.expr(e.Cons)
		in.expr(e.Alt)

	case *ast.CallExpr:
		in.markIfEval(e)
		in.expr(e.Callee)
		for _, a := range e.Args {
			in.expr(a)
		}

	case *ast.NewExpr:
		in.expr(e.Callee)
		for _, a := range e.Args {
			in.expr(a)
		}

	case *ast.MemberExpr:
		in.expr(e.Object)
		if e.Computed {
			in.expr(e.Property)
		}

	case *ast.SequenceExpr:
		for _, sub := range e.Exprs {
			in.expr(sub)
		}

	case *ast.AssignPattern:
		in.expr(e.Target)
		in.expr(e.Value)

	case *ast.RestElement:
		in.expr(e.Arg)

	case *ast.ParenExpr:
		in.expr(e.Expr)

	case *ast.YieldExpr:
		if e.Arg != nil {
			in.expr(e.Arg)
		}

	case *ast.AwaitExpr:
		in.expr(e.Arg)

	default:
		panic(unknownNode(e))
	}
}

// markIfEval records call as a direct eval() call when its callee is a bare
// `eval` identifier that resolves to the global name (no enclosing
// declaration of `eval` is in scope at the call). The call itself is
// rewritten to evalDirect later, by rewriteDirectEvals after the walk.
func (in *Instrumenter) markIfEval(call *ast.CallExpr) {
	id, ok := call.Callee.(*ast.Ident)
	if !ok || id.Name != "eval" {
		return
	}
	in.resolve(id)
	if bd, ok := id.Binding.(*Binding); ok && bd.Kind == Global {
		in.directEvalCalls = append(in.directEvalCalls, call)
	}
}

func unknownNode(n ast.Node) string {
	return "instrument: unhandled node type in capture walk"
}
