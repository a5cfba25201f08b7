package maincmd

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
	"github.com/mna/mainer"

	"github.com/mna/jsrevive/internal/config"
	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/runtime/cache"
	"github.com/mna/jsrevive/runtime/hostiface"
	"github.com/mna/jsrevive/runtime/tracker"
	"github.com/mna/jsrevive/trace"
)

// Serialize loads each file, instruments it, runs it to completion in an
// embedded goja.Runtime, and prints a standalone re-serialization of the
// script's completion value (the same value a REPL would print for the
// final expression statement) — the end-to-end exercise of C2-C6.
func (c *Cmd) Serialize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return printError(stdio, err)
	}
	ch := cache.New(cfg.CacheDir, cfg.CacheVersion)

	for _, name := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := serializeFile(stdio, ch, cfg.CacheVersion, name); err != nil {
			return err
		}
	}
	return nil
}

func serializeFile(stdio mainer.Stdio, c *cache.Cache, version, filename string) error {
	instrumented, err := instrumentFile(c, version, filename)
	if err != nil {
		return printError(stdio, err)
	}

	printer := ast.Printer{Mode: ast.Canonical}
	host := hostiface.New()
	rt := goja.New()
	tr := host.GetTrackerForFile(filename)
	wireTrackerRuntime(rt, tr)

	val, err := rt.RunString(instrumented)
	if err != nil {
		return printError(stdio, err)
	}

	tracer := trace.NewTracer(rt, host)
	node, _, err := tracer.SerializeValue(val, "value")
	if err != nil {
		return printError(stdio, err)
	}
	out, err := printer.Sprint(node)
	if err != nil {
		return printError(stdio, err)
	}
	fmt.Fprintln(stdio.Stdout, out)
	return nil
}

// wireTrackerRuntime binds the `require('livepack/tracker')` module
// instrumented code expects (§4.3's preamble) to tr, so the guard statement
// each instrumented function carries can actually reach the host side of
// the capture protocol (§4.9).
func wireTrackerRuntime(rt *goja.Runtime, tr *tracker.Instance) {
	moduleExports := rt.NewObject()
	_ = moduleExports.Set("tracker", func(id int, scopes ...[]interface{}) goja.Value {
		tr.Tracker(id, scopes)
		return goja.Undefined()
	})
	_ = moduleExports.Set("getScopeId", func() int64 {
		return tr.GetScopeID()
	})
	_ = moduleExports.Set("evalDirect", func(evalVal goja.Value, callArgs []interface{}) (goja.Value, error) {
		evalFn, ok := goja.AssertFunction(evalVal)
		if !ok {
			return nil, fmt.Errorf("jsrevive: evalDirect's first argument is not callable")
		}
		vals := make([]goja.Value, len(callArgs))
		for i, a := range callArgs {
			vals[i] = rt.ToValue(a)
		}
		return evalFn(goja.Undefined(), vals...)
	})

	rt.Set("require", func(spec string) goja.Value {
		switch spec {
		case "livepack/tracker":
			return moduleExports
		default:
			panic(rt.NewTypeError(fmt.Sprintf("jsrevive: cannot require %q outside the instrumented tracker module", spec)))
		}
	})
}
