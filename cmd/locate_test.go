package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ziadkadry99/codelocate/internal/model"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, model.AnalysisResult{
		Files:      []model.FileMatch{{Path: "users/service.go", Score: 0.75, Content: "package users\n", Reason: "defines GetUser"}},
		Symbols:    []model.SymbolMatch{{Name: "GetUser", Kind: "Method", Location: "users/service.go:27"}},
		APIs:       []model.APIMatch{{Path: "/users/{id}", Method: "GET"}},
		Confidence: 0.66,
	}, true)

	out := buf.String()
	for _, want := range []string{"Confidence: 66%", "0.75", "users/service.go", "defines GetUser", "--- users/service.go ---", "GetUser", "GET", "/users/{id}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResultEmpty(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, model.AnalysisResult{}, false)
	if !strings.Contains(buf.String(), "No relevant files found.") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestReadBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue.md")
	if err := os.WriteFile(path, []byte("stack trace"), 0644); err != nil {
		t.Fatal(err)
	}
	if got, err := readBody(path, nil); err != nil || got != "stack trace" {
		t.Errorf("readBody(file) = %q, %v", got, err)
	}
	if got, err := readBody("-", strings.NewReader("from stdin")); err != nil || got != "from stdin" {
		t.Errorf("readBody(-) = %q, %v", got, err)
	}
	if _, err := readBody(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("0123456789abc", 10); got != "0123456789..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("naïve café crème", 11); got != "naïve caf..." || !utf8.ValidString(got) {
		t.Errorf("truncate split a rune: %q", got)
	}
}
