package scanner_test

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"

	"github.com/mna/jsrevive/internal/filetest"
	"github.com/mna/jsrevive/internal/maincmd"
)

var testUpdateScannerGoldenTests = flag.Bool("test.update-scanner-golden-tests", false, "If set, replace expected scanner golden test results with actual results.")

// TestTokenizeGolden drives the scanner through the tokenize CLI command and
// diffs its output against testdata/out.
func TestTokenizeGolden(t *testing.T) {
	ctx := context.Background()
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".js") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

			_ = maincmd.TokenizeFiles(ctx, stdio, filepath.Join(srcDir, fi.Name()))
			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateScannerGoldenTests)
			filetest.DiffErrors(t, fi, ebuf.String(), resultDir, testUpdateScannerGoldenTests)
		})
	}
}
