// Package parser implements a recursive-descent parser that turns a token
// stream from lang/scanner into a lang/ast tree. It covers the subset of
// JavaScript this engine instruments and re-emits: the full statement and
// expression grammar, functions (declarations, expressions, arrows,
// generators, async), classes, and destructuring patterns. It does not
// implement modules (import/export) or TypeScript syntax; neither is
// needed to trace and serialize already-running values.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/scanner"
	"github.com/mna/jsrevive/lang/token"
)

// Mode configures parsing. The zero Mode parses the full AST, reports all
// errors, and discards comments.
type Mode uint

const (
	// Comments requests that comments be collected and attached to
	// Program.Comments, best-effort associated with the following node.
	Comments Mode = 1 << iota
)

// ParseProgram parses a single source file into a Program. filename is
// used for diagnostics and recorded on the returned Program. The returned
// error, when non-nil, is a *scanner.ErrorList.
func ParseProgram(fset *token.FileSet, mode Mode, filename string, src []byte) (*ast.Program, error) {
	var p parser
	p.mode = mode
	p.init(fset, filename, src)
	prog := p.parseProgram()
	prog.Name = filename
	p.errors.Sort()
	return prog, p.errors.Err()
}

type parser struct {
	mode    Mode
	scanner scanner.Scanner
	errors  scanner.ErrorList
	file    *token.File

	tok token.Token
	lit string
	pos token.Pos

	// regexOK tells the scanner that a following '/' cannot be division,
	// because the parser just finished a position where only an expression
	// (never a postfix operator) can start.
	regexOK bool

	pendingComments []*ast.Comment

	// noIn suppresses treating `in` as the relational operator while parsing
	// a for-loop's init expression, so `for (x in obj)` parses `x` alone
	// rather than swallowing `in obj` as a binary expression. Any nested
	// parenthesized, bracketed or argument-list sub-expression lifts the
	// restriction again (see withInAllowed).
	noIn bool
}

// withInAllowed runs fn with the noIn restriction temporarily lifted, for
// sub-expressions (call arguments, array/paren contents) where `in` is
// always a normal operator regardless of the enclosing context.
func (p *parser) withInAllowed(fn func()) {
	prev := p.noIn
	p.noIn = false
	fn()
	p.noIn = prev
}

var errPanicMode = errors.New("parser: panic mode")

func (p *parser) init(fset *token.FileSet, filename string, src []byte) {
	p.file = fset.AddFile(filename, len(src))
	p.scanner.Init(p.file, src, p.errors.Add)
	p.regexOK = true
	p.advance()
}

func (p *parser) advance() {
	for {
		tok, lit, pos := p.scanner.Scan(p.regexOK)
		if tok == token.COMMENT {
			if p.mode&Comments != 0 {
				p.pendingComments = append(p.pendingComments, &ast.Comment{Start: pos, Text: lit})
			}
			continue
		}
		p.tok, p.lit, p.pos = tok, lit, pos
		p.regexOK = regexOKAfter(tok)
		return
	}
}

// regexOKAfter reports whether, after having just returned tok, a `/` read
// next should be treated as the start of a regex rather than division.
// Mirrors scanner.regexAllowedAfter from the parser's side.
func regexOKAfter(tok token.Token) bool {
	switch tok {
	case token.IDENT, token.NUMBER, token.STRING, token.TEMPLATE, token.REGEX,
		token.RPAREN, token.RBRACK, token.RBRACE,
		token.THIS, token.SUPER, token.NULL, token.TRUE, token.FALSE,
		token.PLUSPLUS, token.MINUSMINUS:
		return false
	default:
		return true
	}
}

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(p.file.Position(pos), msg)
}

func (p *parser) errorf(pos token.Pos, format string, args ...any) {
	p.error(pos, fmt.Sprintf(format, args...))
}

func (p *parser) errorExpected(pos token.Pos, want string) {
	msg := "expected " + want
	if pos == p.pos {
		msg += ", found " + p.tok.GoString()
	}
	p.error(pos, msg)
}

// expect consumes the current token if it matches any of toks, recording
// its position; otherwise it reports an error and unwinds via panic,
// recovered at the nearest statement boundary.
func (p *parser) expect(toks ...token.Token) token.Pos {
	pos := p.pos
	for _, t := range toks {
		if p.tok == t {
			p.advance()
			return pos
		}
	}
	var names []string
	for _, t := range toks {
		names = append(names, t.GoString())
	}
	p.errorExpected(pos, strings.Join(names, " or "))
	panic(errPanicMode)
}

func (p *parser) at(toks ...token.Token) bool {
	for _, t := range toks {
		if p.tok == t {
			return true
		}
	}
	return false
}

// atContextualKeyword reports whether the current token is an identifier
// spelled exactly kw; JS keeps a handful of keywords ("async", "of", "get",
// "set", "static") contextual so they remain legal identifiers elsewhere.
func (p *parser) atContextualKeyword(kw string) bool {
	return p.tok == token.IDENT && p.lit == kw
}

// semicolon consumes a statement terminator, applying automatic semicolon
// insertion: a real ';' is always accepted; otherwise ASI applies if the
// next token is '}', EOF, or was preceded by a line terminator.
func (p *parser) semicolon() {
	if p.tok == token.SEMI {
		p.advance()
		return
	}
	if p.tok == token.RBRACE || p.tok == token.EOF || p.scanner.AfterNewline() {
		return
	}
	p.errorExpected(p.pos, "';'")
	panic(errPanicMode)
}

// parserSnapshot captures enough parser state to backtrack a tentative
// parse (arrow-function parameter lists, which are only distinguishable
// from a parenthesized expression after seeing whether '=>' follows the
// closing ')'). The scanner is copied by value; its only shared mutable
// state is the token.File's line table, which is safe to rebuild identically
// on replay (token.File.AddLine is idempotent for a given offset).
type parserSnapshot struct {
	scanner    scanner.Scanner
	tok        token.Token
	lit        string
	pos        token.Pos
	regexOK    bool
	commentLen int
	errLen     int
}

func (p *parser) snapshot() parserSnapshot {
	return parserSnapshot{
		scanner:    p.scanner,
		tok:        p.tok,
		lit:        p.lit,
		pos:        p.pos,
		regexOK:    p.regexOK,
		commentLen: len(p.pendingComments),
		errLen:     len(p.errors),
	}
}

func (p *parser) restore(s parserSnapshot) {
	p.scanner = s.scanner
	p.tok = s.tok
	p.lit = s.lit
	p.pos = s.pos
	p.regexOK = s.regexOK
	p.pendingComments = p.pendingComments[:s.commentLen]
	p.errors = p.errors[:s.errLen]
}

func (p *parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.tok != token.EOF {
		prog.Body = append(prog.Body, p.parseStmtRecover())
	}
	prog.EOF = p.pos
	if url := p.scanner.SourceMapURL(); url != "" {
		prog.SourceMap = &ast.SourceMapPragma{URL: url}
	}
	p.attachComments(prog)
	return prog
}

// parseStmtRecover parses one statement, recovering from a panic raised by
// expect() by skipping tokens to the next likely statement boundary so one
// syntax error does not abort the whole file.
func (p *parser) parseStmtRecover() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			stmt = p.syncToStmtBoundary()
		}
	}()
	return p.parseStmt()
}

func (p *parser) syncToStmtBoundary() ast.Stmt {
	start := p.pos
	for !p.at(token.SEMI, token.RBRACE, token.EOF) {
		p.advance()
	}
	if p.tok == token.SEMI {
		p.advance()
	}
	return &ast.EmptyStmt{Pos: start}
}

// attachComments does a best-effort association of each collected comment
// with the first node that starts at or after it.
func (p *parser) attachComments(prog *ast.Program) {
	if p.mode&Comments == 0 {
		return
	}
	comments := p.pendingComments
	idx := 0
	ast.Inspect(prog, func(n ast.Node) bool {
		if idx >= len(comments) {
			return false
		}
		start, _ := n.Span()
		for idx < len(comments) && comments[idx].Start < start {
			comments[idx].Node = n
			idx++
		}
		return true
	})
	prog.Comments = comments
}
