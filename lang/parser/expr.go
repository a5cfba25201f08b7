package parser

import (
	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/token"
)

const (
	precLowest = iota
	precAssign
	precCond
	precNullish
	precLogOr
	precLogAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
)

func binPrec(tok token.Token) int {
	switch tok {
	case token.PIPEPIPE:
		return precLogOr
	case token.QUESTIONQ:
		return precNullish
	case token.AMPAMP:
		return precLogAnd
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
		return precLowest
	}
}

func isLogicalOp(tok token.Token) bool {
	return tok == token.PIPEPIPE || tok == token.AMPAMP || tok == token.QUESTIONQ
}

func isAssignOp(tok token.Token) bool {
	switch tok {
	case token.ASSIGN, token.PLUSEQ, token.MINUSEQ, token.STAREQ, token.SLASHEQ,
		token.PERCENTEQ, token.AMPEQ, token.PIPEEQ, token.CARETEQ, token.STARSTAREQ,
		token.AMPAMPEQ, token.PIPEPIPEEQ, token.QUESTIONQEQ:
		return true
	default:
		return false
	}
}

// parseExpr parses a full expression, including the top-level comma
// (sequence) operator.
func (p *parser) parseExpr() ast.Expr {
	first := p.parseAssignExpr()
	if p.tok != token.COMMA {
		return first
	}
	exprs := []ast.Expr{first}
	for p.tok == token.COMMA {
		p.advance()
		exprs = append(exprs, p.parseAssignExpr())
	}
	return &ast.SequenceExpr{Exprs: exprs}
}

func (p *parser) parseAssignExpr() ast.Expr {
	if p.tok == token.YIELD {
		return p.parseYield()
	}

	left := p.parseConditional()
	if isAssignOp(p.tok) {
		op := p.tok
		p.advance()
		right := p.parseAssignExpr()
		if op == token.ASSIGN {
			left = toPattern(left)
		}
		return &ast.AssignExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseYield() ast.Expr {
	pos := p.expect(token.YIELD)
	delegate := false
	if p.tok == token.STAR {
		delegate = true
		p.advance()
	}
	var arg ast.Expr
	if !p.at(token.SEMI, token.RBRACE, token.RPAREN, token.RBRACK, token.COMMA, token.COLON, token.EOF) &&
		!p.scanner.AfterNewline() {
		arg = p.parseAssignExpr()
	}
	return &ast.YieldExpr{Pos: pos, Arg: arg, Delegate: delegate}
}

func (p *parser) parseConditional() ast.Expr {
	test := p.parseBinary(precAssign + 1)
	if p.tok != token.QUESTION {
		return test
	}
	p.advance()
	cons := p.parseAssignExpr()
	p.expect(token.COLON)
	alt := p.parseAssignExpr()
	return &ast.ConditionalExpr{Test: test, Cons: cons, Alt: alt}
}

func (p *parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec := binPrec(p.tok)
		if p.tok == token.IN && p.noIn {
			prec = precLowest
		}
		if prec == precLowest || prec < minPrec {
			return left
		}
		op := p.tok
		p.advance()
		nextMin := prec + 1
		if op == token.STARSTAR {
			nextMin = prec // ** is right-associative
		}
		right := p.parseBinary(nextMin)
		if isLogicalOp(op) {
			left = &ast.LogicalExpr{Op: op, Left: left, Right: right}
		} else {
			left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
		}
	}
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok {
	case token.BANG, token.TILDE, token.PLUS, token.MINUS, token.TYPEOF, token.VOID, token.DELETE:
		pos, op := p.pos, p.tok
		p.advance()
		arg := p.parseUnary()
		return &ast.UnaryExpr{OpPos: pos, Op: op, Arg: arg}
	case token.PLUSPLUS, token.MINUSMINUS:
		pos, op := p.pos, p.tok
		p.advance()
		arg := p.parseUnary()
		return &ast.UpdateExpr{OpPos: pos, Op: op, Arg: arg, Prefix: true}
	case token.AWAIT:
		pos := p.pos
		p.advance()
		arg := p.parseUnary()
		return &ast.AwaitExpr{Pos: pos, Arg: arg}
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parsePostfix() ast.Expr {
	expr := p.parseLHSExpr()
	if (p.tok == token.PLUSPLUS || p.tok == token.MINUSMINUS) && !p.scanner.AfterNewline() {
		op, pos := p.tok, p.pos
		p.advance()
		return &ast.UpdateExpr{OpPos: pos, Op: op, Arg: expr, Prefix: false}
	}
	return expr
}

// parseLHSExpr parses new-expressions and member/call chains, including
// optional chaining.
func (p *parser) parseLHSExpr() ast.Expr {
	var expr ast.Expr
	if p.tok == token.NEW {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}
	return p.parseCallTail(expr)
}

func (p *parser) parseNew() ast.Expr {
	pos := p.expect(token.NEW)
	if p.tok == token.DOT {
		// new.target: modeled as a plain member expr on a synthetic `new` ident,
		// since the instrumenter only needs to pass it through unevaluated.
		p.advance()
		prop := p.parseIdentName()
		return &ast.MemberExpr{Object: &ast.Ident{NamePos: pos, Name: "new"}, Property: prop}
	}
	var callee ast.Expr
	if p.tok == token.NEW {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseMemberTailOnly(callee)
	var args []ast.Expr
	rparen := pos
	if p.tok == token.LPAREN {
		args, rparen = p.parseArgs()
	}
	return &ast.NewExpr{NewPos: pos, Callee: callee, Args: args, Rparen: rparen}
}

// parseMemberTailOnly consumes member accesses but not calls, used for a
// new-expression's callee (args bind to the outermost `new`, not to any
// member access chain preceding it).
func (p *parser) parseMemberTailOnly(expr ast.Expr) ast.Expr {
	for {
		switch p.tok {
		case token.DOT:
			p.advance()
			prop := p.parseIdentName()
			expr = &ast.MemberExpr{Object: expr, Property: prop}
		case token.LBRACK:
			p.advance()
			prop := p.parseExpr()
			p.expect(token.RBRACK)
			expr = &ast.MemberExpr{Object: expr, Property: prop, Computed: true}
		default:
			return expr
		}
	}
}

func (p *parser) parseCallTail(expr ast.Expr) ast.Expr {
	for {
		switch p.tok {
		case token.DOT:
			p.advance()
			prop := p.parseIdentName()
			expr = &ast.MemberExpr{Object: expr, Property: prop}
		case token.QUESTIONDOT:
			p.advance()
			if p.tok == token.LPAREN {
				args, rparen := p.parseArgs()
				expr = &ast.CallExpr{Callee: expr, Args: args, Rparen: rparen, Optional: true}
			} else if p.tok == token.LBRACK {
				p.advance()
				prop := p.parseExpr()
				p.expect(token.RBRACK)
				expr = &ast.MemberExpr{Object: expr, Property: prop, Computed: true, Optional: true}
			} else {
				prop := p.parseIdentName()
				expr = &ast.MemberExpr{Object: expr, Property: prop, Optional: true}
			}
		case token.LBRACK:
			p.advance()
			prop := p.parseExpr()
			p.expect(token.RBRACK)
			expr = &ast.MemberExpr{Object: expr, Property: prop, Computed: true}
		case token.LPAREN:
			args, rparen := p.parseArgs()
			expr = &ast.CallExpr{Callee: expr, Args: args, Rparen: rparen}
		case token.TEMPLATE:
			// tagged templates: parsed as a call-like tail for completeness, the
			// tag is evaluated with the template's parts as argument.
			tmpl := p.parseTemplateLit()
			expr = &ast.CallExpr{Callee: expr, Args: []ast.Expr{tmpl}, Rparen: p.pos}
		default:
			return expr
		}
	}
}

func (p *parser) parseArgs() (args []ast.Expr, rparen token.Pos) {
	p.withInAllowed(func() {
		p.expect(token.LPAREN)
		for p.tok != token.RPAREN {
			if p.tok == token.DOTDOTDOT {
				dots := p.pos
				p.advance()
				args = append(args, &ast.SpreadElement{DotsPos: dots, Arg: p.parseAssignExpr()})
			} else {
				args = append(args, p.parseAssignExpr())
			}
			if p.tok != token.COMMA {
				break
			}
			p.advance()
		}
		rparen = p.expect(token.RPAREN)
	})
	return args, rparen
}

// parseIdentName parses a binding or reference identifier. It also accepts
// reserved words in contexts that call it after a '.' (property names like
// obj.catch or obj.class are legal JS even though catch/class are
// keywords), by falling back to the token's own spelling.
func (p *parser) parseIdentName() *ast.Ident {
	pos := p.pos
	name := p.lit
	if p.tok != token.IDENT {
		name = p.tok.String()
	}
	id := &ast.Ident{NamePos: pos, Name: name}
	p.advance()
	return id
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.IDENT:
		if p.lit == "async" {
			if arrow, ok := p.tryParseAsyncArrow(); ok {
				return arrow
			}
		}
		return p.parseArrowOrIdent()
	case token.NUMBER:
		lit := &ast.Literal{Pos: p.pos, Kind: token.NUMBER, Raw: p.lit}
		p.advance()
		return lit
	case token.STRING:
		lit := &ast.Literal{Pos: p.pos, Kind: token.STRING, Raw: p.lit}
		p.advance()
		return lit
	case token.REGEX:
		raw, flags := splitRegex(p.lit)
		lit := &ast.Literal{Pos: p.pos, Kind: token.REGEX, Raw: raw, Flags: flags}
		p.advance()
		return lit
	case token.NULL, token.TRUE, token.FALSE:
		lit := &ast.Literal{Pos: p.pos, Kind: p.tok, Raw: p.tok.String()}
		p.advance()
		return lit
	case token.TEMPLATE:
		return p.parseTemplateLit()
	case token.THIS:
		pos := p.pos
		p.advance()
		return &ast.ThisExpr{Pos: pos}
	case token.SUPER:
		pos := p.pos
		p.advance()
		return &ast.SuperExpr{Pos: pos}
	case token.LPAREN:
		return p.parseParenOrArrow()
	case token.LBRACK:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseObjectLit()
	case token.FUNCTION:
		return p.parseFuncExpr(false)
	case token.CLASS:
		return p.parseClassExpr()
	default:
		pos := p.pos
		p.errorExpected(pos, "expression")
		p.advance()
		return &ast.Literal{Pos: pos, Kind: token.NULL, Raw: "null"}
	}
}

// splitRegex splits a scanned "/pattern/flags" literal into its pattern
// body and trailing flags.
func splitRegex(raw string) (body, flags string) {
	last := len(raw) - 1
	for last > 0 && raw[last] != '/' {
		last--
	}
	return raw[1:last], raw[last+1:]
}

func (p *parser) parseArrowOrIdent() ast.Expr {
	start := p.pos
	name := &ast.Ident{NamePos: p.pos, Name: p.lit}
	p.advance()
	if p.tok == token.ARROW && !p.scanner.AfterNewline() {
		p.advance()
		return p.finishArrow(start, []ast.Expr{name}, false)
	}
	return name
}

func (p *parser) tryParseAsyncArrow() (ast.Expr, bool) {
	snap := p.snapshot()
	start := p.pos
	p.advance() // consume "async"
	if p.scanner.AfterNewline() {
		p.restore(snap)
		return nil, false
	}
	switch p.tok {
	case token.FUNCTION:
		return p.parseFuncExpr(true), true
	case token.IDENT:
		name := &ast.Ident{NamePos: p.pos, Name: p.lit}
		p.advance()
		if p.tok == token.ARROW {
			p.advance()
			return p.finishArrow(start, []ast.Expr{name}, true), true
		}
	case token.LPAREN:
		params, isArrow := p.tryParseParenParamsForArrow()
		if isArrow {
			return p.finishArrow(start, params, true), true
		}
	}
	p.restore(snap)
	return nil, false
}

func (p *parser) parseParenOrArrow() ast.Expr {
	start := p.pos
	params, isArrow := p.tryParseParenParamsForArrow()
	if isArrow {
		return p.finishArrow(start, params, false)
	}
	// not an arrow: re-parse the parenthesized content as a plain expression
	return p.parseParenExpr()
}

// tryParseParenParamsForArrow attempts to parse "(params)" followed by
// "=>". On success it returns the parameter list (as patterns) and true,
// having consumed through the "=>". On failure it restores the parser to
// its state before the "(" and returns (nil, false).
func (p *parser) tryParseParenParamsForArrow() ([]ast.Expr, bool) {
	snap := p.snapshot()
	ok := func() (result bool) {
		defer func() {
			if r := recover(); r != nil {
				if r != errPanicMode {
					panic(r)
				}
				result = false
			}
		}()
		p.expect(token.LPAREN)
		for p.tok != token.RPAREN {
			if p.tok == token.DOTDOTDOT {
				dots := p.pos
				p.advance()
				p.parseBindingTarget()
				_ = dots
			} else {
				p.parseAssignExpr()
			}
			if p.tok != token.COMMA {
				break
			}
			p.advance()
		}
		p.expect(token.RPAREN)
		return p.tok == token.ARROW
	}()
	if !ok {
		p.restore(snap)
		return nil, false
	}
	// replay for real: restore then re-parse collecting pattern nodes, now
	// that we know this is an arrow parameter list and conversions to
	// pattern form are safe.
	p.restore(snap)
	p.expect(token.LPAREN)
	var params []ast.Expr
	for p.tok != token.RPAREN {
		if p.tok == token.DOTDOTDOT {
			dots := p.pos
			p.advance()
			params = append(params, &ast.RestElement{DotsPos: dots, Arg: p.parseBindingTarget()})
		} else {
			e := p.parseAssignExpr()
			params = append(params, toPattern(e))
		}
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	p.expect(token.ARROW)
	return params, true
}

func (p *parser) finishArrow(start token.Pos, params []ast.Expr, isAsync bool) ast.Expr {
	fn := &ast.FuncLit{Start: start, Params: params, IsArrow: true, IsAsync: isAsync}
	if p.tok == token.LBRACE {
		fn.Body = p.parseBlock()
	} else {
		fn.ExprBody = p.parseAssignExpr()
	}
	return fn
}

func (p *parser) parseParenExpr() ast.Expr {
	var result ast.Expr
	p.withInAllowed(func() {
		lparen := p.expect(token.LPAREN)
		first := p.parseAssignExpr()
		if p.tok != token.COMMA {
			rparen := p.expect(token.RPAREN)
			result = &ast.ParenExpr{Lparen: lparen, Rparen: rparen, Expr: first}
			return
		}
		exprs := []ast.Expr{first}
		for p.tok == token.COMMA {
			p.advance()
			exprs = append(exprs, p.parseAssignExpr())
		}
		rparen := p.expect(token.RPAREN)
		result = &ast.ParenExpr{Lparen: lparen, Rparen: rparen, Expr: &ast.SequenceExpr{Exprs: exprs}}
	})
	return result
}

func (p *parser) parseArrayLit() ast.Expr {
	var lbrack, rbrack token.Pos
	var elems []ast.Expr
	p.withInAllowed(func() {
		lbrack = p.expect(token.LBRACK)
		for p.tok != token.RBRACK {
			if p.tok == token.COMMA {
				elems = append(elems, nil) // elision
				p.advance()
				continue
			}
			if p.tok == token.DOTDOTDOT {
				dots := p.pos
				p.advance()
				elems = append(elems, &ast.SpreadElement{DotsPos: dots, Arg: p.parseAssignExpr()})
			} else {
				elems = append(elems, p.parseAssignExpr())
			}
			if p.tok == token.COMMA {
				p.advance()
			} else {
				break
			}
		}
		rbrack = p.expect(token.RBRACK)
	})
	return &ast.ArrayLit{Lbrack: lbrack, Rbrack: rbrack, Elements: elems}
}

func (p *parser) parseObjectLit() ast.Expr {
	lbrace := p.expect(token.LBRACE)
	var props []*ast.Property
	for p.tok != token.RBRACE {
		props = append(props, p.parseObjectProperty())
		if p.tok == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.ObjectLit{Lbrace: lbrace, Rbrace: rbrace, Props: props}
}

func (p *parser) parseObjectProperty() *ast.Property {
	if p.tok == token.DOTDOTDOT {
		dots := p.pos
		p.advance()
		arg := p.parseAssignExpr()
		return &ast.Property{KeyPos: dots, Key: nil, Kind: "spread", Value: &ast.SpreadElement{DotsPos: dots, Arg: arg}}
	}

	isAsync, isGen := false, false
	if p.atContextualKeyword("async") {
		snap := p.snapshot()
		p.advance()
		if p.tok != token.COLON && p.tok != token.COMMA && p.tok != token.RBRACE && p.tok != token.LPAREN {
			isAsync = true
		} else {
			p.restore(snap)
		}
	}
	if p.tok == token.STAR {
		isGen = true
		p.advance()
	}

	if (p.atContextualKeyword("get") || p.atContextualKeyword("set")) && !isAsync && !isGen {
		kind := p.lit
		snap := p.snapshot()
		p.advance()
		if p.tok != token.COLON && p.tok != token.COMMA && p.tok != token.RBRACE && p.tok != token.LPAREN {
			keyPos := p.pos
			key, computed := p.parsePropertyKey()
			fn := p.parseMethodRest(isAsync, isGen)
			fn.MethodKind = kind
			return &ast.Property{KeyPos: keyPos, Key: key, Computed: computed, Kind: kind, Value: fn}
		}
		p.restore(snap)
	}

	keyPos := p.pos
	key, computed := p.parsePropertyKey()

	if p.tok == token.LPAREN {
		fn := p.parseMethodRest(isAsync, isGen)
		fn.MethodKind = "method"
		return &ast.Property{KeyPos: keyPos, Key: key, Computed: computed, Kind: "method", Value: fn}
	}

	if p.tok == token.COLON {
		p.advance()
		val := p.parseAssignExpr()
		return &ast.Property{KeyPos: keyPos, Key: key, Computed: computed, Kind: "init", Value: val}
	}

	// shorthand, optionally with a default (only valid in destructuring
	// position, but the parser allows it generically and toPattern/instrument
	// enforce context).
	ident, _ := key.(*ast.Ident)
	if p.tok == token.ASSIGN {
		p.advance()
		def := p.parseAssignExpr()
		val := &ast.AssignPattern{Target: ident, Eq: p.pos, Value: def}
		return &ast.Property{KeyPos: keyPos, Key: key, Kind: "init", Shorthand: true, Value: val}
	}
	return &ast.Property{KeyPos: keyPos, Key: key, Kind: "init", Shorthand: true, Value: ident}
}

func (p *parser) parsePropertyKey() (ast.Expr, bool) {
	if p.tok == token.LBRACK {
		p.advance()
		key := p.parseAssignExpr()
		p.expect(token.RBRACK)
		return key, true
	}
	if p.tok == token.STRING {
		lit := &ast.Literal{Pos: p.pos, Kind: token.STRING, Raw: p.lit}
		p.advance()
		return lit, false
	}
	if p.tok == token.NUMBER {
		lit := &ast.Literal{Pos: p.pos, Kind: token.NUMBER, Raw: p.lit}
		p.advance()
		return lit, false
	}
	return p.parseIdentName(), false
}

func (p *parser) parseMethodRest(isAsync, isGen bool) *ast.FuncLit {
	start := p.pos
	params := p.parseParamList()
	body := p.parseBlock()
	return &ast.FuncLit{Start: start, Params: params, Body: body, IsMethod: true, IsAsync: isAsync, IsGenerator: isGen}
}

func (p *parser) parseTemplateLit() *ast.TemplateLit {
	start := p.pos
	tpl := &ast.TemplateLit{Start: start}
	p.advanceTemplate(tpl, false)
	return tpl
}

// advanceTemplate drives the scanner's dedicated template-part scanning,
// alternating quasi chunks with substitution expressions until the tail.
func (p *parser) advanceTemplate(tpl *ast.TemplateLit, cont bool) {
	quasi, tail := p.scanner.ScanTemplatePart(cont)
	tpl.Quasis = append(tpl.Quasis, quasi)
	if tail {
		tpl.End = p.pos
		p.advance() // resume normal tokenizing after the closing backtick
		return
	}
	p.advance() // prime p.tok/p.lit from inside the substitution
	expr := p.parseExpr()
	tpl.Exprs = append(tpl.Exprs, expr)
	p.expect(token.RBRACE)
	p.advanceTemplate(tpl, true)
}

func (p *parser) parseFuncExpr(isAsync bool) *ast.FuncLit {
	start := p.expect(token.FUNCTION)
	isGen := false
	if p.tok == token.STAR {
		isGen = true
		p.advance()
	}
	var name *ast.Ident
	if p.tok == token.IDENT {
		name = &ast.Ident{NamePos: p.pos, Name: p.lit}
		p.advance()
	}
	params := p.parseParamList()
	body := p.parseBlock()
	return &ast.FuncLit{Start: start, Name: name, Params: params, Body: body, IsAsync: isAsync, IsGenerator: isGen}
}

func (p *parser) parseParamList() []ast.Expr {
	p.expect(token.LPAREN)
	var params []ast.Expr
	for p.tok != token.RPAREN {
		if p.tok == token.DOTDOTDOT {
			dots := p.pos
			p.advance()
			params = append(params, &ast.RestElement{DotsPos: dots, Arg: p.parseBindingTarget()})
		} else {
			target := p.parseBindingTarget()
			if p.tok == token.ASSIGN {
				p.advance()
				def := p.parseAssignExpr()
				target = &ast.AssignPattern{Target: target, Eq: p.pos, Value: def}
			}
			params = append(params, target)
		}
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return params
}

// parseBindingTarget parses an identifier or a destructuring pattern (array
// or object), as used in parameter lists, variable declarators and catch
// clauses.
func (p *parser) parseBindingTarget() ast.Expr {
	switch p.tok {
	case token.LBRACK:
		return toPattern(p.parseArrayLit())
	case token.LBRACE:
		return toPattern(p.parseObjectLit())
	default:
		return p.parseIdentName()
	}
}

func (p *parser) parseClassExpr() *ast.ClassLit {
	return p.parseClassBody()
}

func (p *parser) parseClassBody() *ast.ClassLit {
	start := p.expect(token.CLASS)
	var name *ast.Ident
	if p.tok == token.IDENT {
		name = &ast.Ident{NamePos: p.pos, Name: p.lit}
		p.advance()
	}
	var super ast.Expr
	if p.tok == token.EXTENDS {
		p.advance()
		super = p.parseLHSExpr()
	}
	p.expect(token.LBRACE)
	var members []*ast.ClassMember
	for p.tok != token.RBRACE {
		if p.tok == token.SEMI {
			p.advance()
			continue
		}
		members = append(members, p.parseClassMember())
	}
	p.expect(token.RBRACE)
	return &ast.ClassLit{Start: start, Name: name, SuperClass: super, Body: members}
}

func (p *parser) parseClassMember() *ast.ClassMember {
	static := false
	if p.atContextualKeyword("static") {
		snap := p.snapshot()
		p.advance()
		if p.tok == token.LPAREN || p.tok == token.ASSIGN || p.tok == token.SEMI {
			p.restore(snap)
		} else {
			static = true
		}
	}

	isAsync, isGen := false, false
	if p.atContextualKeyword("async") {
		snap := p.snapshot()
		p.advance()
		if p.tok == token.LPAREN || p.tok == token.ASSIGN || p.tok == token.SEMI || p.scanner.AfterNewline() {
			p.restore(snap)
		} else {
			isAsync = true
		}
	}
	if p.tok == token.STAR {
		isGen = true
		p.advance()
	}

	if (p.atContextualKeyword("get") || p.atContextualKeyword("set")) && !isAsync && !isGen {
		kind := p.lit
		snap := p.snapshot()
		p.advance()
		if p.tok != token.LPAREN {
			keyPos := p.pos
			key, computed := p.parsePropertyKey()
			fn := p.parseMethodRest(false, false)
			fn.MethodKind = kind
			fn.IsStatic = static
			return &ast.ClassMember{KeyPos: keyPos, Key: key, Computed: computed, Static: static, Fn: fn}
		}
		p.restore(snap)
	}

	keyPos := p.pos
	key, computed := p.parsePropertyKey()

	if p.tok == token.LPAREN {
		fn := p.parseMethodRest(isAsync, isGen)
		fn.IsStatic = static
		if ident, ok := key.(*ast.Ident); ok && ident.Name == "constructor" && !static {
			fn.MethodKind = "constructor"
		} else {
			fn.MethodKind = "method"
		}
		return &ast.ClassMember{KeyPos: keyPos, Key: key, Computed: computed, Static: static, Fn: fn}
	}

	// field
	var value ast.Expr
	if p.tok == token.ASSIGN {
		p.advance()
		value = p.parseAssignExpr()
	}
	p.semicolon()
	return &ast.ClassMember{KeyPos: keyPos, Key: key, Computed: computed, Static: static, IsField: true, Value: value}
}

// toPattern converts an expression parsed in an ambiguous position (parens
// that turned out to be arrow params, or the left side of `=`) into its
// pattern-node equivalent. Nodes that are already valid patterns pass
// through unchanged.
func toPattern(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.ArrayLit:
		for i, el := range e.Elements {
			if el != nil {
				e.Elements[i] = toPattern(el)
			}
		}
		return e
	case *ast.ObjectLit:
		for _, prop := range e.Props {
			if prop.Kind == "init" {
				prop.Value = toPattern(prop.Value)
			}
		}
		return e
	case *ast.AssignExpr:
		if e.Op == token.ASSIGN {
			return &ast.AssignPattern{Target: toPattern(e.Left), Value: e.Right}
		}
		return e
	case *ast.SpreadElement:
		return &ast.RestElement{DotsPos: e.DotsPos, Arg: toPattern(e.Arg)}
	default:
		return e
	}
}
