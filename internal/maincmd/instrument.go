package maincmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"

	"github.com/mna/jsrevive/internal/config"
	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/instrument"
	"github.com/mna/jsrevive/lang/parser"
	"github.com/mna/jsrevive/lang/scanner"
	"github.com/mna/jsrevive/lang/token"
	"github.com/mna/jsrevive/runtime/cache"
)

// Instrument runs the instrumenter (C3) over each file and prints the
// rewritten source: tracker comments, scope-id consts and capture guards
// added, ready to be require()'d against a runtime/tracker-backed host.
func (c *Cmd) Instrument(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return InstrumentFiles(ctx, stdio, args...)
}

func InstrumentFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	cfg, err := config.Load("")
	if err != nil {
		return printError(stdio, err)
	}
	c := cache.New(cfg.CacheDir, cfg.CacheVersion)

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := instrumentFile(c, cfg.CacheVersion, name)
		if err != nil {
			return printError(stdio, err)
		}
		fmt.Fprint(stdio.Stdout, out)
	}
	return nil
}

// instrumentFile returns name's instrumented source, consulting c first
// (a cache miss or disabled cache falls through to a real parse+instrument
// pass, and a fresh result is written back for next time).
func instrumentFile(c *cache.Cache, version, name string) (string, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return "", err
	}
	key := cache.Key{Filename: name, ModTime: fi.ModTime(), Version: version}

	if out, ok := c.Get(key); ok {
		return out, nil
	}

	src, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	fset := token.NewFileSet()
	prog, err := parser.ParseProgram(fset, 0, name, src)
	if err != nil {
		var buf strings.Builder
		scanner.PrintError(&buf, err)
		return "", fmt.Errorf("%s", buf.String())
	}
	instrument.New(name).Instrument(prog)

	printer := ast.Printer{Mode: ast.Canonical}
	out, err := printer.Sprint(prog)
	if err != nil {
		return "", err
	}
	c.Put(key, out)
	return out, nil
}
