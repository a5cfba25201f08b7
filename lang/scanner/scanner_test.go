package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/jsrevive/lang/scanner"
	"github.com/mna/jsrevive/lang/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile("test.js", len(src))

	var s scanner.Scanner
	var errs []string
	s.Init(f, []byte(src), func(pos token.Position, msg string) {
		errs = append(errs, msg)
	})

	var toks []token.Token
	var lits []string
	for {
		tok, lit, _ := s.Scan(false)
		toks = append(toks, tok)
		lits = append(lits, lit)
		if tok == token.EOF {
			break
		}
	}
	require.Empty(t, errs)
	return toks, lits
}

func TestScanPunctuationAndKeywords(t *testing.T) {
	toks, _ := scanAll(t, "const x = (1 + 2) ?? null;")
	require.Equal(t, []token.Token{
		token.CONST, token.IDENT, token.ASSIGN, token.LPAREN, token.NUMBER,
		token.PLUS, token.NUMBER, token.RPAREN, token.QUESTIONQ, token.NULL,
		token.SEMI, token.EOF,
	}, toks)
}

func TestScanArrowAndOptionalChain(t *testing.T) {
	toks, lits := scanAll(t, "a?.b?.(c) => d ??= e")
	require.Equal(t, []token.Token{
		token.IDENT, token.QUESTIONDOT, token.IDENT, token.QUESTIONDOT,
		token.LPAREN, token.IDENT, token.RPAREN, token.ARROW, token.IDENT,
		token.QUESTIONQEQ, token.IDENT, token.EOF,
	}, toks)
	require.Equal(t, "a", lits[0])
}

func TestScanNumbers(t *testing.T) {
	toks, lits := scanAll(t, "0x1F 0o17 0b101 3.14 1e10 10n")
	for _, tok := range toks[:len(toks)-1] {
		require.Equal(t, token.NUMBER, tok)
	}
	require.Equal(t, []string{"0x1F", "0o17", "0b101", "3.14", "1e10", "10n"}, lits[:6])
}

func TestScanStrings(t *testing.T) {
	toks, lits := scanAll(t, `"a\nb" 'c\td'`)
	require.Equal(t, []token.Token{token.STRING, token.STRING, token.EOF}, toks)
	require.Equal(t, "a\nb", lits[0])
	require.Equal(t, "c\td", lits[1])
}

func TestScanRegexVsDivision(t *testing.T) {
	toks, lits := scanAll(t, "x = /abc/gi; y = x / 2;")
	require.Equal(t, token.REGEX, toks[2])
	require.Equal(t, "/abc/gi", lits[2])

	toks2, _ := scanAll(t, "x / 2")
	require.Equal(t, token.SLASH, toks2[1])
}

func TestScanComments(t *testing.T) {
	toks, _ := scanAll(t, "// line comment\nx /* block */ = 1;")
	require.Equal(t, []token.Token{token.IDENT, token.ASSIGN, token.NUMBER, token.SEMI, token.EOF}, toks)
}

func TestScanSourceMappingPragma(t *testing.T) {
	fs := token.NewFileSet()
	src := "x = 1;\n//# sourceMappingURL=out.js.map\n"
	f := fs.AddFile("test.js", len(src))
	var s scanner.Scanner
	s.Init(f, []byte(src), nil)
	for {
		tok, _, _ := s.Scan(false)
		if tok == token.EOF {
			break
		}
	}
	require.Equal(t, "out.js.map", s.SourceMapURL())
}

func TestScanTemplateLiteral(t *testing.T) {
	fs := token.NewFileSet()
	src := "`hi ${name}!`"
	f := fs.AddFile("test.js", len(src))
	var s scanner.Scanner
	s.Init(f, []byte(src), nil)

	tok, _, _ := s.Scan(false)
	require.Equal(t, token.TEMPLATE, tok)

	quasi, tail := s.ScanTemplatePart(false)
	require.Equal(t, "hi ", quasi)
	require.False(t, tail)

	tok, lit, _ := s.Scan(false)
	require.Equal(t, token.IDENT, tok)
	require.Equal(t, "name", lit)

	tok, _, _ = s.Scan(false)
	require.Equal(t, token.RBRACE, tok)

	quasi, tail = s.ScanTemplatePart(true)
	require.Equal(t, "!", quasi)
	require.True(t, tail)
}
