package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/parser"
	"github.com/mna/jsrevive/lang/token"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	fs := token.NewFileSet()
	prog, err := parser.ParseProgram(fs, 0, "test.js", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parse(t, "let x = 1, y = 2;")
	require.Len(t, prog.Body, 1)
	decl := prog.Body[0].(*ast.VarDecl)
	require.Equal(t, token.LET, decl.Kind)
	require.Len(t, decl.Decls, 2)
	require.Equal(t, "x", decl.Decls[0].Target.(*ast.Ident).Name)
	require.Equal(t, "y", decl.Decls[1].Target.(*ast.Ident).Name)
}

func TestParseFunctionDecl(t *testing.T) {
	prog := parse(t, "function add(a, b) { return a + b; }")
	require.Len(t, prog.Body, 1)
	decl := prog.Body[0].(*ast.FuncDecl)
	require.Equal(t, "add", decl.Fn.Name.Name)
	require.Len(t, decl.Fn.Params, 2)
	require.Len(t, decl.Fn.Body.Body, 1)
	ret := decl.Fn.Body.Body[0].(*ast.ReturnStmt)
	bin := ret.Arg.(*ast.BinaryExpr)
	require.Equal(t, token.PLUS, bin.Op)
}

func TestParseZeroArgArrow(t *testing.T) {
	prog := parse(t, "const f = () => 42;")
	decl := prog.Body[0].(*ast.VarDecl)
	fn := decl.Decls[0].Init.(*ast.FuncLit)
	require.True(t, fn.IsArrow)
	require.Empty(t, fn.Params)
	lit := fn.ExprBody.(*ast.Literal)
	require.Equal(t, "42", lit.Raw)
}

func TestParseArrowWithParamsAndBlockBody(t *testing.T) {
	prog := parse(t, "const f = (a, b = 1, ...rest) => { return a; };")
	decl := prog.Body[0].(*ast.VarDecl)
	fn := decl.Decls[0].Init.(*ast.FuncLit)
	require.True(t, fn.IsArrow)
	require.Len(t, fn.Params, 3)
	require.IsType(t, &ast.Ident{}, fn.Params[0])
	require.IsType(t, &ast.AssignPattern{}, fn.Params[1])
	require.IsType(t, &ast.RestElement{}, fn.Params[2])
	require.NotNil(t, fn.Body)
}

func TestParseSingleIdentArrow(t *testing.T) {
	prog := parse(t, "const f = x => x + 1;")
	decl := prog.Body[0].(*ast.VarDecl)
	fn := decl.Decls[0].Init.(*ast.FuncLit)
	require.True(t, fn.IsArrow)
	require.Len(t, fn.Params, 1)
	require.Equal(t, "x", fn.Params[0].(*ast.Ident).Name)
}

func TestParseParenthesizedExprIsNotArrow(t *testing.T) {
	prog := parse(t, "const f = (a + b);")
	decl := prog.Body[0].(*ast.VarDecl)
	paren := decl.Decls[0].Init.(*ast.ParenExpr)
	require.IsType(t, &ast.BinaryExpr{}, paren.Expr)
}

func TestParseAsyncArrow(t *testing.T) {
	prog := parse(t, "const f = async (x) => { await x; };")
	decl := prog.Body[0].(*ast.VarDecl)
	fn := decl.Decls[0].Init.(*ast.FuncLit)
	require.True(t, fn.IsArrow)
	require.True(t, fn.IsAsync)
}

func TestParseForIn(t *testing.T) {
	prog := parse(t, "for (let k in obj) { use(k); }")
	stmt := prog.Body[0].(*ast.ForInOfStmt)
	require.False(t, stmt.Of)
	left := stmt.Left.(*ast.VarDecl)
	require.Equal(t, token.LET, left.Kind)
}

func TestParseForOf(t *testing.T) {
	prog := parse(t, "for (const v of list) { use(v); }")
	stmt := prog.Body[0].(*ast.ForInOfStmt)
	require.True(t, stmt.Of)
}

func TestParseClassicForWithInInInit(t *testing.T) {
	// The classic for-loop form must not confuse `in` used inside a
	// parenthesized sub-expression of the init with the for-in keyword.
	prog := parse(t, "for (let i = (0 in arr) ? 1 : 0; i < 10; i++) {}")
	stmt := prog.Body[0].(*ast.ForStmt)
	require.NotNil(t, stmt.Test)
	require.NotNil(t, stmt.Update)
}

func TestParseDestructuringAssignment(t *testing.T) {
	prog := parse(t, "[a, b] = [1, 2];")
	exprStmt := prog.Body[0].(*ast.ExprStmt)
	assign := exprStmt.Expr.(*ast.AssignExpr)
	require.Equal(t, token.ASSIGN, assign.Op)
	require.IsType(t, &ast.ArrayLit{}, assign.Left)
}

func TestParseObjectLiteralWithMethodsAndGetSet(t *testing.T) {
	prog := parse(t, `const o = {
		a: 1,
		b,
		[computed]: 2,
		method() { return 1; },
		get x() { return 1; },
		set x(v) {},
		...rest,
	};`)
	decl := prog.Body[0].(*ast.VarDecl)
	obj := decl.Decls[0].Init.(*ast.ObjectLit)
	require.Len(t, obj.Props, 7)
	require.Equal(t, "init", obj.Props[0].Kind)
	require.True(t, obj.Props[1].Shorthand)
	require.True(t, obj.Props[2].Computed)
	require.Equal(t, "method", obj.Props[3].Kind)
	fn := obj.Props[3].Value.(*ast.FuncLit)
	require.Equal(t, "method", fn.MethodKind)
	require.Equal(t, "get", obj.Props[4].Kind)
	require.Equal(t, "set", obj.Props[5].Kind)
}

func TestParseClassWithStaticAndGetSet(t *testing.T) {
	prog := parse(t, `class Point extends Base {
		static origin = 0;
		constructor(x) { this.x = x; }
		get x() { return this._x; }
		set x(v) { this._x = v; }
		static create() { return new Point(0); }
	}`)
	decl := prog.Body[0].(*ast.ClassDecl)
	require.Equal(t, "Point", decl.Cl.Name.Name)
	require.NotNil(t, decl.Cl.SuperClass)

	var ctor, getter, setter, staticMethod *ast.ClassMember
	for _, m := range decl.Cl.Body {
		if m.Fn == nil {
			continue
		}
		switch m.Fn.MethodKind {
		case "constructor":
			ctor = m
		case "get":
			getter = m
		case "set":
			setter = m
		case "method":
			if m.Static {
				staticMethod = m
			}
		}
	}
	require.NotNil(t, ctor)
	require.NotNil(t, getter)
	require.NotNil(t, setter)
	require.NotNil(t, staticMethod)
}

func TestParseTemplateLiteral(t *testing.T) {
	prog := parse(t, "const s = `hello ${name}, you are ${age} years old`;")
	decl := prog.Body[0].(*ast.VarDecl)
	tmpl := decl.Decls[0].Init.(*ast.TemplateLit)
	require.Len(t, tmpl.Quasis, 3)
	require.Len(t, tmpl.Exprs, 2)
	require.Equal(t, "name", tmpl.Exprs[0].(*ast.Ident).Name)
	require.Equal(t, "age", tmpl.Exprs[1].(*ast.Ident).Name)
}

func TestParseOptionalChainingAndNullish(t *testing.T) {
	prog := parse(t, "const v = a?.b?.[c]?.() ?? fallback;")
	decl := prog.Body[0].(*ast.VarDecl)
	logical := decl.Decls[0].Init.(*ast.LogicalExpr)
	require.Equal(t, token.QUESTIONQ, logical.Op)
	call := logical.Left.(*ast.CallExpr)
	require.True(t, call.Optional)
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := parse(t, `try { risky(); } catch (e) { handle(e); } finally { cleanup(); }`)
	stmt := prog.Body[0].(*ast.TryStmt)
	require.NotNil(t, stmt.Block)
	require.NotNil(t, stmt.CatchBody)
	require.NotNil(t, stmt.CatchParam)
	require.NotNil(t, stmt.Finally)
}

func TestParseSwitch(t *testing.T) {
	prog := parse(t, `switch (x) {
		case 1:
			doA();
			break;
		default:
			doB();
	}`)
	stmt := prog.Body[0].(*ast.SwitchStmt)
	require.Len(t, stmt.Cases, 2)
	require.NotNil(t, stmt.Cases[0].Test)
	require.Nil(t, stmt.Cases[1].Test)
}

func TestParsePrecedenceAndExponentRightAssoc(t *testing.T) {
	prog := parse(t, "const r = 2 ** 3 ** 2;")
	decl := prog.Body[0].(*ast.VarDecl)
	bin := decl.Decls[0].Init.(*ast.BinaryExpr)
	require.Equal(t, token.STARSTAR, bin.Op)
	// right-associative: 2 ** (3 ** 2), so the right side is itself a ** expr.
	require.IsType(t, &ast.BinaryExpr{}, bin.Right)
	require.IsType(t, &ast.Literal{}, bin.Left)
}

func TestParseGeneratorAndYield(t *testing.T) {
	prog := parse(t, "function* gen() { yield 1; yield* other(); }")
	decl := prog.Body[0].(*ast.FuncDecl)
	require.True(t, decl.Fn.IsGenerator)
	y1 := decl.Fn.Body.Body[0].(*ast.ExprStmt).Expr.(*ast.YieldExpr)
	require.False(t, y1.Delegate)
	y2 := decl.Fn.Body.Body[1].(*ast.ExprStmt).Expr.(*ast.YieldExpr)
	require.True(t, y2.Delegate)
}

func TestParseLabeledStatementAndBreakContinue(t *testing.T) {
	prog := parse(t, `outer: for (;;) { continue outer; break outer; }`)
	labeled := prog.Body[0].(*ast.LabeledStmt)
	require.Equal(t, "outer", labeled.Label.Name)
	block := labeled.Body.(*ast.ForStmt).Body.(*ast.BlockStmt)
	cont := block.Body[0].(*ast.ContinueStmt)
	require.Equal(t, "outer", cont.Label.Name)
	brk := block.Body[1].(*ast.BreakStmt)
	require.Equal(t, "outer", brk.Label.Name)
}

func TestParseNewExpression(t *testing.T) {
	prog := parse(t, "const p = new Point(1, 2).x;")
	decl := prog.Body[0].(*ast.VarDecl)
	member := decl.Decls[0].Init.(*ast.MemberExpr)
	newExpr := member.Object.(*ast.NewExpr)
	require.Len(t, newExpr.Args, 2)
}

func TestParseSyntaxErrorReported(t *testing.T) {
	fs := token.NewFileSet()
	_, err := parser.ParseProgram(fs, 0, "bad.js", []byte("foo(1, 2"))
	require.Error(t, err)
}
