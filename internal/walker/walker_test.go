package walker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// sampleProject returns the absolute path of testdata/sample_project.
func sampleProject(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	abs, err := filepath.Abs(filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "sample_project"))
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	return abs
}

// writeTree creates files (relative path -> content) under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func walkRel(t *testing.T, cfg WalkerConfig) map[string]FileInfo {
	t.Helper()
	files, err := Walk(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	out := make(map[string]FileInfo, len(files))
	for _, f := range files {
		out[f.RelPath] = f
	}
	return out
}

func TestWalkSampleProject(t *testing.T) {
	root := sampleProject(t)
	files, err := Walk(context.Background(), WalkerConfig{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	got := make(map[string]FileInfo)
	for i, f := range files {
		got[f.RelPath] = f
		if i > 0 && files[i-1].RelPath >= f.RelPath {
			t.Errorf("results not sorted: %s before %s", files[i-1].RelPath, f.RelPath)
		}
		if !filepath.IsAbs(f.Path) || f.Size <= 0 || f.Language == "" {
			t.Errorf("incomplete FileInfo %+v", f)
		}
	}

	want := map[string]string{
		"main.go":            "Go",
		"config.yaml":        "YAML",
		"Dockerfile":         "Dockerfile",
		"utils.py":           "Python",
		"auth/middleware.go": "Go",
		"users/service.go":   "Go",
		"users/handler.go":   "Go",
	}
	for rel, lang := range want {
		f, ok := got[rel]
		if !ok {
			t.Errorf("%s not listed", rel)
			continue
		}
		if f.Language != lang {
			t.Errorf("language of %s = %q, want %q", rel, f.Language, lang)
		}
	}
	if _, ok := got["server.log"]; ok {
		t.Error("server.log should be excluded by the sample .gitignore")
	}
}

func TestWalkFilters(t *testing.T) {
	root := sampleProject(t)
	tests := []struct {
		name    string
		cfg     WalkerConfig
		allowed func(rel string) bool
	}{
		{"include top-level glob", WalkerConfig{Include: []string{"*.go"}}, func(rel string) bool { return strings.HasSuffix(rel, ".go") }},
		{"include doublestar", WalkerConfig{Include: []string{"**/*.go"}}, func(rel string) bool { return strings.HasSuffix(rel, ".go") }},
		{"exclude python", WalkerConfig{Exclude: []string{"*.py"}}, func(rel string) bool { return !strings.HasSuffix(rel, ".py") }},
		{"exclude directory", WalkerConfig{Exclude: []string{"users/**"}}, func(rel string) bool { return !strings.HasPrefix(rel, "users/") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.RootDir = root
			got := walkRel(t, tt.cfg)
			if len(got) == 0 {
				t.Fatal("filter removed everything")
			}
			for rel := range got {
				if !tt.allowed(rel) {
					t.Errorf("%s should have been filtered", rel)
				}
			}
		})
	}

	nested := walkRel(t, WalkerConfig{RootDir: root, Include: []string{"**/*.go"}})
	if _, ok := nested["users/service.go"]; !ok {
		t.Error("**/*.go should match nested files")
	}
}

func TestWalkSkipsBinaryLargeAndDefaultDirs(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"app.js":                  "const x = 1;",
		"readme.md":               "# Hello",
		"image.bin":               "abc\x00def",
		"big.txt":                 strings.Repeat("A", 200),
		"node_modules/lib/x.js":   "x",
		".git/HEAD":               "ref",
		"vendor/dep/dep.go":       "package dep",
		"__pycache__/m.cpython.x": "x",
	})

	got := walkRel(t, WalkerConfig{RootDir: dir, MaxFileSize: 100})
	if len(got) != 2 {
		t.Errorf("listed %v, want app.js and readme.md", keys(got))
	}
	for _, want := range []string{"app.js", "readme.md"} {
		if _, ok := got[want]; !ok {
			t.Errorf("%s missing", want)
		}
	}
}

func TestWalkGitignore(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".gitignore":     "*.log\nsecret.txt\ncache/\n",
		"app.go":         "package main",
		"debug.log":      "log data",
		"secret.txt":     "password",
		"cache/a.go":     "package cache",
		"pkg/.gitignore": "gen/\n*.tmp\n",
		"pkg/gen/b.go":   "package gen",
		"pkg/c.tmp":      "x",
		"pkg/d.go":       "package pkg",
		"e.tmp":          "x",
	})

	got := walkRel(t, WalkerConfig{RootDir: dir})
	for _, want := range []string{"app.go", "pkg/d.go", "e.tmp"} {
		if _, ok := got[want]; !ok {
			t.Errorf("%s missing from %v", want, keys(got))
		}
	}
	for _, gone := range []string{"debug.log", "secret.txt", "cache/a.go", "pkg/gen/b.go", "pkg/c.tmp"} {
		if _, ok := got[gone]; ok {
			t.Errorf("%s should be ignored", gone)
		}
	}
}

func TestWalkErrors(t *testing.T) {
	if _, err := Walk(context.Background(), WalkerConfig{RootDir: filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "file.go")
	writeTree(t, filepath.Dir(file), map[string]string{"file.go": "package x"})
	if _, err := Walk(context.Background(), WalkerConfig{RootDir: file}); err == nil {
		t.Error("expected error for non-directory root")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Walk(ctx, WalkerConfig{RootDir: sampleProject(t)}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"main.go":                "Go",
		"app.py":                 "Python",
		"src/components/App.tsx": "TypeScript",
		"server.mjs":             "JavaScript",
		"Main.java":              "Java",
		"lib.rs":                 "Rust",
		"util.h":                 "C",
		"main.cc":                "C++",
		"Program.cs":             "C#",
		"schema.graphql":         "GraphQL",
		"style.scss":             "CSS",
		"config.yml":             "YAML",
		"main.tf":                "Terraform",
		"README.MD":              "Markdown",
		"analysis.R":             "R",
		"Dockerfile":             "Dockerfile",
		"Dockerfile.dev":         "Dockerfile",
		"Makefile":               "Makefile",
		"noextension":            "unknown",
		"file.xyz":               "unknown",
	}
	for name, want := range tests {
		if got := DetectLanguage(name); got != want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		rel      string
		patterns []string
		include  bool
		exclude  bool
	}{
		{"anything.go", nil, true, false},
		{"main.go", []string{"*.go"}, true, true},
		{"main.py", []string{"*.go"}, false, false},
		{"logs/debug.log", []string{"*.log"}, true, true},
		{"src/auth/middleware.go", []string{"**/*.go"}, true, true},
		{"src/auth/middleware.go", []string{"src/**"}, true, true},
	}
	for _, tt := range tests {
		if got := MatchesInclude(tt.rel, tt.patterns); got != tt.include {
			t.Errorf("MatchesInclude(%q, %v) = %v", tt.rel, tt.patterns, got)
		}
		if got := MatchesExclude(tt.rel, tt.patterns); got != tt.exclude {
			t.Errorf("MatchesExclude(%q, %v) = %v", tt.rel, tt.patterns, got)
		}
	}
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		relPath string
		want    bool
	}{
		{"internal/walker/walker_test.go", true},
		{"test_utils.py", true},
		{"pkg/users_test.py", true},
		{"src/app.test.js", true},
		{"src/app.spec.ts", true},
		{"test/helper.go", true},
		{"src/tests/fixtures.go", true},
		{"main.go", false},
		{"utils.py", false},
		{"src/latest/handler.go", false},
	}
	for _, tc := range tests {
		if got := isTestFile(filepath.Base(tc.relPath), tc.relPath); got != tc.want {
			t.Errorf("isTestFile(%q) = %v, want %v", tc.relPath, got, tc.want)
		}
	}
}

func TestPaths(t *testing.T) {
	got := Paths([]FileInfo{{Path: "/a/b.go"}, {Path: "/a/c.go"}})
	if len(got) != 2 || got[0] != "/a/b.go" || got[1] != "/a/c.go" {
		t.Errorf("Paths = %v", got)
	}
}

func keys(m map[string]FileInfo) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
