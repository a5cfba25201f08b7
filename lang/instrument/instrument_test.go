package instrument_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/instrument"
	"github.com/mna/jsrevive/lang/parser"
	"github.com/mna/jsrevive/lang/token"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	fset := token.NewFileSet()
	prog, err := parser.ParseProgram(fset, 0, "test.js", []byte(src))
	require.NoError(t, err)
	return prog
}

func print(t *testing.T, n ast.Node) string {
	t.Helper()
	p := &ast.Printer{Mode: ast.Canonical}
	s, err := p.Sprint(n)
	require.NoError(t, err)
	return s
}

func TestInstrumentAddsPreamble(t *testing.T) {
	prog := parse(t, "function f() { return 1; }")
	in := instrument.New("test.js")
	in.Instrument(prog)

	out := print(t, prog)
	require.Contains(t, out, "livepack0_tracker")
	require.Contains(t, out, "livepack0_getScopeId")
}

func TestInstrumentFunctionGetsTrackerComment(t *testing.T) {
	prog := parse(t, "function outer() { let x = 1; function inner() { return x; } return inner; }")
	in := instrument.New("test.js")
	in.Instrument(prog)

	out := print(t, prog)
	require.Contains(t, out, "livepack_track:")
	require.Contains(t, out, `"varNames":["x"]`)
}

func TestInstrumentAvoidsCollidingPrefix(t *testing.T) {
	prog := parse(t, "const livepack0_tracker = 1; function f() { return livepack0_tracker; }")
	in := instrument.New("test.js")
	in.Instrument(prog)

	out := print(t, prog)
	require.Contains(t, out, "livepack1_tracker")
	require.False(t, strings.Contains(out, "livepack1_tracker = livepack0_tracker"))
}

func TestInstrumentConvertsConciseArrowToBlock(t *testing.T) {
	prog := parse(t, "const add = (a, b) => a + b;")
	in := instrument.New("test.js")
	in.Instrument(prog)

	out := print(t, prog)
	require.Contains(t, out, "return a + b")
}

func TestInstrumentRewritesDirectEval(t *testing.T) {
	prog := parse(t, "function f() { return eval('1'); }")
	in := instrument.New("test.js")
	in.Instrument(prog)

	out := print(t, prog)
	require.Contains(t, out, "evalDirect(eval")
}
