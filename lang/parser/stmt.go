package parser

import (
	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/token"
)

func (p *parser) parseBlock() *ast.BlockStmt {
	lbrace := p.expect(token.LBRACE)
	var body []ast.Stmt
	for p.tok != token.RBRACE && p.tok != token.EOF {
		body = append(body, p.parseStmtRecover())
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.BlockStmt{Lbrace: lbrace, Rbrace: rbrace, Body: body}
}

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR, token.LET, token.CONST:
		return p.parseVarDeclStmt()
	case token.FUNCTION:
		fn := p.parseFuncExpr(false)
		return &ast.FuncDecl{Fn: fn}
	case token.CLASS:
		cl := p.parseClassBody()
		return &ast.ClassDecl{Cl: cl}
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.RETURN:
		return p.parseReturn()
	case token.THROW:
		return p.parseThrow()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		return p.parseContinue()
	case token.TRY:
		return p.parseTry()
	case token.SWITCH:
		return p.parseSwitch()
	case token.WITH:
		return p.parseWith()
	case token.SEMI:
		pos := p.pos
		p.advance()
		return &ast.EmptyStmt{Pos: pos}
	default:
		if p.atContextualKeyword("async") {
			snap := p.snapshot()
			p.advance()
			if p.tok == token.FUNCTION && !p.scanner.AfterNewline() {
				fn := p.parseFuncExpr(true)
				return &ast.FuncDecl{Fn: fn}
			}
			p.restore(snap)
		}
		if p.tok == token.IDENT {
			snap := p.snapshot()
			name := p.lit
			pos := p.pos
			p.advance()
			if p.tok == token.COLON {
				p.advance()
				body := p.parseStmtRecover()
				return &ast.LabeledStmt{Label: &ast.Ident{NamePos: pos, Name: name}, Body: body}
			}
			p.restore(snap)
		}
		return p.parseExprStmt()
	}
}

func (p *parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	p.semicolon()
	return &ast.ExprStmt{Expr: expr, End: p.pos}
}

func (p *parser) parseVarDeclStmt() *ast.VarDecl {
	decl := p.parseVarDeclNoSemi()
	p.semicolon()
	return decl
}

// parseVarDeclNoSemi parses "var|let|const decl, decl, ..." without
// consuming the trailing terminator, so for-loop heads can reuse it.
func (p *parser) parseVarDeclNoSemi() *ast.VarDecl {
	start, kind := p.pos, p.tok
	p.advance()
	var decls []*ast.Declarator
	for {
		target := p.parseBindingTarget()
		var init ast.Expr
		if p.tok == token.ASSIGN {
			p.advance()
			init = p.parseAssignExpr()
		}
		decls = append(decls, &ast.Declarator{Target: target, Init: init})
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	return &ast.VarDecl{Start: start, Kind: kind, Decls: decls, End: p.pos}
}

func (p *parser) parseIf() ast.Stmt {
	pos := p.expect(token.IF)
	p.expect(token.LPAREN)
	test := p.parseExpr()
	p.expect(token.RPAREN)
	cons := p.parseStmtRecover()
	var alt ast.Stmt
	if p.tok == token.ELSE {
		p.advance()
		alt = p.parseStmtRecover()
	}
	return &ast.IfStmt{Pos: pos, Test: test, Cons: cons, Alt: alt}
}

func (p *parser) parseFor() ast.Stmt {
	pos := p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Stmt
	if p.tok == token.VAR || p.tok == token.LET || p.tok == token.CONST {
		init = p.parseVarDeclNoSemi()
	} else if p.tok != token.SEMI {
		p.noIn = true
		expr := p.parseAssignExpr()
		p.noIn = false
		init = &ast.ExprStmt{Expr: expr, End: p.pos}
	}

	if p.tok == token.IN || p.atContextualKeyword("of") {
		of := p.tok != token.IN
		p.advance()
		right := p.parseAssignExpr()
		p.expect(token.RPAREN)
		body := p.parseStmtRecover()
		return &ast.ForInOfStmt{Pos: pos, Left: init, Right: right, Body: body, Of: of}
	}

	p.expect(token.SEMI)
	var test ast.Expr
	if p.tok != token.SEMI {
		test = p.parseExpr()
	}
	p.expect(token.SEMI)
	var update ast.Expr
	if p.tok != token.RPAREN {
		update = p.parseExpr()
	}
	p.expect(token.RPAREN)
	body := p.parseStmtRecover()
	return &ast.ForStmt{Pos: pos, Init: init, Test: test, Update: update, Body: body}
}

func (p *parser) parseWhile() ast.Stmt {
	pos := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseStmtRecover()
	return &ast.WhileStmt{Pos: pos, Test: test, Body: body}
}

func (p *parser) parseDoWhile() ast.Stmt {
	pos := p.expect(token.DO)
	body := p.parseStmtRecover()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpr()
	p.expect(token.RPAREN)
	p.semicolon()
	return &ast.DoWhileStmt{Pos: pos, Body: body, Test: test}
}

func (p *parser) parseReturn() ast.Stmt {
	pos := p.expect(token.RETURN)
	var arg ast.Expr
	if !p.at(token.SEMI, token.RBRACE, token.EOF) && !p.scanner.AfterNewline() {
		arg = p.parseExpr()
	}
	p.semicolon()
	return &ast.ReturnStmt{Pos: pos, Arg: arg, End: p.pos}
}

func (p *parser) parseThrow() ast.Stmt {
	pos := p.expect(token.THROW)
	arg := p.parseExpr()
	p.semicolon()
	return &ast.ThrowStmt{Pos: pos, Arg: arg}
}

func (p *parser) parseBreak() ast.Stmt {
	pos := p.expect(token.BREAK)
	var label *ast.Ident
	if p.tok == token.IDENT && !p.scanner.AfterNewline() {
		label = &ast.Ident{NamePos: p.pos, Name: p.lit}
		p.advance()
	}
	p.semicolon()
	return &ast.BreakStmt{Pos: pos, Label: label}
}

func (p *parser) parseContinue() ast.Stmt {
	pos := p.expect(token.CONTINUE)
	var label *ast.Ident
	if p.tok == token.IDENT && !p.scanner.AfterNewline() {
		label = &ast.Ident{NamePos: p.pos, Name: p.lit}
		p.advance()
	}
	p.semicolon()
	return &ast.ContinueStmt{Pos: pos, Label: label}
}

func (p *parser) parseTry() ast.Stmt {
	pos := p.expect(token.TRY)
	block := p.parseBlock()
	var catchParam ast.Expr
	var catchBody, finallyBlock *ast.BlockStmt
	if p.tok == token.CATCH {
		p.advance()
		if p.tok == token.LPAREN {
			p.advance()
			catchParam = p.parseBindingTarget()
			p.expect(token.RPAREN)
		}
		catchBody = p.parseBlock()
	}
	if p.tok == token.FINALLY {
		p.advance()
		finallyBlock = p.parseBlock()
	}
	return &ast.TryStmt{Pos: pos, Block: block, CatchParam: catchParam, CatchBody: catchBody, Finally: finallyBlock}
}

func (p *parser) parseSwitch() ast.Stmt {
	pos := p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	disc := p.parseExpr()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	var cases []*ast.SwitchCase
	for p.tok != token.RBRACE {
		casePos := p.pos
		var test ast.Expr
		if p.tok == token.CASE {
			p.advance()
			test = p.parseExpr()
		} else {
			p.expect(token.DEFAULT)
		}
		p.expect(token.COLON)
		var body []ast.Stmt
		for !p.at(token.CASE, token.DEFAULT, token.RBRACE) {
			body = append(body, p.parseStmtRecover())
		}
		cases = append(cases, &ast.SwitchCase{Pos: casePos, Test: test, Body: body})
	}
	end := p.expect(token.RBRACE)
	return &ast.SwitchStmt{Pos: pos, Disc: disc, Cases: cases, End: end}
}

func (p *parser) parseWith() ast.Stmt {
	pos := p.expect(token.WITH)
	p.expect(token.LPAREN)
	obj := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseStmtRecover()
	return &ast.WithStmt{Pos: pos, Obj: obj, Body: body}
}
