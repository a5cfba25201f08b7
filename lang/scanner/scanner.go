// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner tokenizes the JavaScript subset this engine parses and
// re-emits. It has no notion of instrumentation or live values; it only
// turns source bytes into a stream of lang/token.Token values for
// lang/parser to consume.
package scanner

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/mna/jsrevive/lang/token"
)

// Error is one scan error at a position, modeled on go/scanner.Error but
// built on this package's own token.Position (go/scanner's is tied to
// go/token, which this engine doesn't use for JS source positions).
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// ErrorList collects scan/parse errors in the order encountered.
type ErrorList []*Error

// Add appends an error; it matches the func(token.Position, string)
// signature Scanner.Init and the parser expect for error reporting.
func (l *ErrorList) Add(pos token.Position, msg string) {
	*l = append(*l, &Error{Pos: pos, Msg: msg})
}

func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ErrorList) Less(i, j int) bool {
	pi, pj := l[i].Pos, l[j].Pos
	if pi.Filename != pj.Filename {
		return pi.Filename < pj.Filename
	}
	if pi.Line != pj.Line {
		return pi.Line < pj.Line
	}
	return pi.Column < pj.Column
}

// Sort orders the list by filename, then line, then column.
func (l ErrorList) Sort() { sort.Sort(l) }

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns l as an error (nil if l is empty), the same nil-on-empty
// convention go/scanner.ErrorList uses.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// PrintError writes every error in err (an ErrorList) or err itself, one
// per line, to w.
func PrintError(w io.Writer, err error) {
	if list, ok := err.(ErrorList); ok {
		for _, e := range list {
			fmt.Fprintln(w, e)
		}
		return
	}
	fmt.Fprintln(w, err)
}

// TokenAndValue combines a scanned token with its literal source text.
type TokenAndValue struct {
	Token token.Token
	Lit   string
	Pos   token.Pos
}

// Scanner tokenizes a single source file for the parser to consume. The
// zero value is not usable; call Init first.
type Scanner struct {
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	cur  rune // current character, -1 at EOF
	off  int  // byte offset of cur
	roff int  // byte offset just past cur

	// prev is the most recently returned token, used to disambiguate `/` as
	// division versus the start of a regex literal: a regex can only follow
	// a token after which an expression is expected.
	prev token.Token

	// sawNewline records whether a line terminator was consumed immediately
	// before the most recently returned token, for automatic semicolon
	// insertion.
	sawNewline bool

	// sourceMapURL holds the last "//# sourceMappingURL=" pragma seen.
	sourceMapURL string
}

var bom = [3]byte{0xEF, 0xBB, 0xBF}

// Init initializes the scanner to tokenize a new file. It panics if the
// file's recorded size does not match len(src).
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.prev = token.ILLEGAL
	s.sawNewline = false
	s.sourceMapURL = ""

	if bytes.HasPrefix(src, bom[:]) {
		s.off += len(bom)
		s.roff += len(bom)
	}
	// a leading hashbang line is tolerated and treated as a comment
	if len(src)-s.roff >= 2 && src[s.roff] == '#' && src[s.roff+1] == '!' {
		for s.roff < len(src) && src[s.roff] != '\n' {
			s.roff++
		}
	}
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) peekAt(n int) byte {
	if s.roff+n < len(s.src) {
		return s.src[s.roff+n]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}
	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

func (s *Scanner) advanceIf(b byte) bool {
	if s.cur == rune(b) {
		s.advance()
		return true
	}
	return false
}

// Pos returns the byte offset the scanner is currently positioned at,
// converted to a token.Pos. Useful for the parser to record spans that
// start or end between Scan calls (e.g. a statement's terminating `;`).
func (s *Scanner) Pos() token.Pos { return s.file.Pos(s.off) }

// AfterNewline reports whether a line terminator was consumed immediately
// before the most recently scanned token; the parser needs this for
// automatic semicolon insertion (return/break/continue/++/-- restrictions,
// and statement-ending elision).
func (s *Scanner) AfterNewline() bool { return s.sawNewline }

// Scan returns the next token, its literal source text and its start
// position. regexOK lets the parser force regex-vs-division disambiguation
// for positions the scanner's own heuristic cannot resolve (e.g. right
// after `)` closing an `if` condition, where JS still allows a regex).
func (s *Scanner) Scan(regexOK bool) (tok token.Token, lit string, pos token.Pos) {
	newline := s.skipWhitespaceAndComments()
	s.sawNewline = newline

	pos = s.file.Pos(s.off)
	start := s.off

	switch {
	case isIdentStart(s.cur):
		lit = s.ident()
		tok = token.LookupIdent(lit)

	case isDecimal(s.cur) || (s.cur == '.' && isDecimal(rune(s.peek()))):
		tok, lit = s.number()

	case s.cur == '"' || s.cur == '\'':
		tok = token.STRING
		lit = s.quotedString(byte(s.cur))

	case s.cur == '`':
		tok = token.TEMPLATE

	case s.cur == '/' && (regexOK || regexAllowedAfter(s.prev)):
		tok = token.REGEX
		lit = s.regex()

	default:
		tok, lit = s.punct(start)
	}

	s.prev = tok
	return tok, lit, pos
}

// regexAllowedAfter reports whether a `/` following tok should be read as
// the start of a regular expression literal rather than division/assign.
func regexAllowedAfter(tok token.Token) bool {
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

func (s *Scanner) ident() string {
	start := s.off
	for isIdentPart(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

// skipWhitespaceAndComments consumes whitespace and comments, and reports
// whether a line terminator was seen anywhere in the skipped span.
func (s *Scanner) skipWhitespaceAndComments() (sawNewline bool) {
	for {
		switch {
		case s.cur == '\n':
			sawNewline = true
			s.advance()
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			s.lineComment()
		case s.cur == '/' && s.peek() == '*':
			if s.blockComment() {
				sawNewline = true
			}
		default:
			return sawNewline
		}
	}
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\v' || r == '\f' || r == 0xFEFF ||
		(r >= utf8.RuneSelf && unicode.Is(unicode.Zs, r))
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' ||
		'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDecimal(r) ||
		(r >= utf8.RuneSelf && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)))
}

func isDecimal(r rune) bool { return '0' <= r && r <= '9' }

func isHex(r rune) bool {
	return isDecimal(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

// punct scans punctuation: operators, delimiters and compound-assign forms.
// start is the byte offset where the current token begins.
func (s *Scanner) punct(start int) (token.Token, string) {
	cur := s.cur
	s.advance()

	mk := func(tok token.Token) (token.Token, string) {
		return tok, string(s.src[start:s.off])
	}

	switch cur {
	case '(':
		return mk(token.LPAREN)
	case ')':
		return mk(token.RPAREN)
	case '[':
		return mk(token.LBRACK)
	case ']':
		return mk(token.RBRACK)
	case '{':
		return mk(token.LBRACE)
	case '}':
		return mk(token.RBRACE)
	case ',':
		return mk(token.COMMA)
	case ':':
		return mk(token.COLON)
	case ';':
		return mk(token.SEMI)
	case '~':
		return mk(token.TILDE)

	case '.':
		if s.cur == '.' && s.peek() == '.' {
			s.advance()
			s.advance()
			return mk(token.DOTDOTDOT)
		}
		return mk(token.DOT)

	case '?':
		if s.advanceIf('?') {
			if s.advanceIf('=') {
				return mk(token.QUESTIONQEQ)
			}
			return mk(token.QUESTIONQ)
		}
		if s.cur == '.' && !isDecimal(rune(s.peek())) {
			s.advance()
			return mk(token.QUESTIONDOT)
		}
		return mk(token.QUESTION)

	case '=':
		if s.advanceIf('=') {
			if s.advanceIf('=') {
				return mk(token.EQEQEQ)
			}
			return mk(token.EQEQ)
		}
		if s.advanceIf('>') {
			return mk(token.ARROW)
		}
		return mk(token.ASSIGN)

	case '!':
		if s.advanceIf('=') {
			if s.advanceIf('=') {
				return mk(token.NEQEQ)
			}
			return mk(token.NEQ)
		}
		return mk(token.BANG)

	case '+':
		if s.advanceIf('+') {
			return mk(token.PLUSPLUS)
		}
		if s.advanceIf('=') {
			return mk(token.PLUSEQ)
		}
		return mk(token.PLUS)

	case '-':
		if s.advanceIf('-') {
			return mk(token.MINUSMINUS)
		}
		if s.advanceIf('=') {
			return mk(token.MINUSEQ)
		}
		return mk(token.MINUS)

	case '*':
		if s.advanceIf('*') {
			if s.advanceIf('=') {
				return mk(token.STARSTAREQ)
			}
			return mk(token.STARSTAR)
		}
		if s.advanceIf('=') {
			return mk(token.STAREQ)
		}
		return mk(token.STAR)

	case '/':
		if s.advanceIf('=') {
			return mk(token.SLASHEQ)
		}
		return mk(token.SLASH)

	case '%':
		if s.advanceIf('=') {
			return mk(token.PERCENTEQ)
		}
		return mk(token.PERCENT)

	case '&':
		if s.advanceIf('&') {
			if s.advanceIf('=') {
				return mk(token.AMPAMPEQ)
			}
			return mk(token.AMPAMP)
		}
		if s.advanceIf('=') {
			return mk(token.AMPEQ)
		}
		return mk(token.AMP)

	case '|':
		if s.advanceIf('|') {
			if s.advanceIf('=') {
				return mk(token.PIPEPIPEEQ)
			}
			return mk(token.PIPEPIPE)
		}
		if s.advanceIf('=') {
			return mk(token.PIPEEQ)
		}
		return mk(token.PIPE)

	case '^':
		if s.advanceIf('=') {
			return mk(token.CARETEQ)
		}
		return mk(token.CARET)

	case '<':
		if s.advanceIf('<') {
			return mk(token.LTLT)
		}
		if s.advanceIf('=') {
			return mk(token.LE)
		}
		return mk(token.LT)

	case '>':
		if s.advanceIf('>') {
			if s.advanceIf('>') {
				return mk(token.GTGTGT)
			}
			return mk(token.GTGT)
		}
		if s.advanceIf('=') {
			return mk(token.GE)
		}
		return mk(token.GT)

	case -1:
		return mk(token.EOF)

	default:
		s.errorf(start, "illegal character %#U", cur)
		return mk(token.ILLEGAL)
	}
}
