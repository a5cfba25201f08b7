package token_test

import (
	"testing"

	"github.com/mna/jsrevive/lang/token"
	"github.com/stretchr/testify/require"
)

func TestFileSetPosition(t *testing.T) {
	fs := token.NewFileSet()
	src := "let x = 1\nlet y = 2\n"
	f := fs.AddFile("a.js", len(src))
	for i, c := range src {
		if c == '\n' {
			f.AddLine(i + 1)
		}
	}

	pos := f.Pos(0)
	require.Equal(t, token.Position{Filename: "a.js", Offset: 0, Line: 1, Column: 1}, fs.Position(pos))

	secondLineStart := f.Pos(10) // right after the first '\n'
	got := fs.Position(secondLineStart)
	require.Equal(t, 2, got.Line)
	require.Equal(t, 1, got.Column)
}

func TestLookupIdent(t *testing.T) {
	require.Equal(t, token.FUNCTION, token.LookupIdent("function"))
	require.Equal(t, token.IDENT, token.LookupIdent("tracker"))
	require.True(t, token.IsReserved("class"))
	require.False(t, token.IsReserved("livepack"))
}
