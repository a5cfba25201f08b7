package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/jsrevive/lang/scanner"
	"github.com/mna/jsrevive/lang/token"
)

// Tokenize runs the scanner (C2) alone over each file and prints every
// token with its source position.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	fset := token.NewFileSet()

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, err := os.ReadFile(name)
		if err != nil {
			return printError(stdio, err)
		}
		file := fset.AddFile(name, len(src))

		var errs scanner.ErrorList
		var sc scanner.Scanner
		sc.Init(file, src, func(pos token.Position, msg string) {
			errs = append(errs, &scanner.Error{Pos: pos, Msg: msg})
		})

		regexOK := true
		for {
			tok, lit, pos := sc.Scan(regexOK)
			if tok == token.EOF {
				break
			}
			fmt.Fprintf(stdio.Stdout, "%s: %s", file.Position(pos), tok)
			if lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", lit)
			}
			fmt.Fprintln(stdio.Stdout)
			regexOK = tok != token.IDENT && tok != token.NUMBER && tok != token.STRING
		}
		if len(errs) > 0 {
			errs.Sort()
			scanner.PrintError(stdio.Stderr, errs.Err())
			return errs.Err()
		}
	}
	return nil
}
