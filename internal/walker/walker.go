// Package walker lists the source files of a workspace, honouring
// .gitignore files, default exclusions and include/exclude globs.
package walker

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultMaxFileSize is the maximum file size to list (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// FileInfo holds metadata about a single file discovered during traversal.
type FileInfo struct {
	Path     string // Absolute path on disk.
	RelPath  string // Slash-separated path relative to the root directory.
	Size     int64
	ModTime  time.Time
	Language string // Detected programming language, "unknown" if unrecognised.
	IsTest   bool
}

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir     string   // Root directory to walk.
	Include     []string // Glob patterns; only matching files are included.
	Exclude     []string // Glob patterns; matching files are excluded.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// gitignores holds the compiled .gitignore of every visited directory,
// keyed by slash-separated relative directory ("" for the root).
type gitignores map[string]*ignore.GitIgnore

func (g gitignores) load(absDir, relDir string) {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(absDir, ".gitignore"))
	if err == nil {
		g[relDir] = gi
	}
}

// ignored checks rel against the .gitignore of each ancestor directory,
// using the path relative to that directory.
func (g gitignores) ignored(rel string, isDir bool) bool {
	if len(g) == 0 {
		return false
	}
	check := rel
	if isDir {
		check += "/"
	}
	for dir := path.Dir(rel); ; dir = path.Dir(dir) {
		key := dir
		if key == "." {
			key = ""
		}
		if gi, ok := g[key]; ok {
			sub := check
			if key != "" {
				sub = strings.TrimPrefix(check, key+"/")
			}
			if gi.MatchesPath(sub) {
				return true
			}
		}
		if key == "" {
			return false
		}
	}
}

// Walk traverses the directory tree rooted at config.RootDir and returns
// every text file that passes filtering, sorted by relative path. Unreadable
// entries are skipped; only a missing root or ctx cancellation is an error.
func Walk(ctx context.Context, config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	ignores := gitignores{}
	var files []FileInfo

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			if d != nil && d.IsDir() && p != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p == root {
				ignores.load(p, "")
				return nil
			}
			if shouldExcludeDir(d.Name()) || ignores.ignored(rel, true) {
				return filepath.SkipDir
			}
			ignores.load(p, rel)
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if ignores.ignored(rel, false) {
			return nil
		}
		if !MatchesInclude(rel, config.Include) || MatchesExclude(rel, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}
		if isBinary(p) {
			return nil
		}

		files = append(files, FileInfo{
			Path:     p,
			RelPath:  rel,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
			Language: DetectLanguage(d.Name()),
			IsTest:   isTestFile(d.Name(), rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// Paths returns the absolute paths of files.
func Paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// isBinary reads the first 512 bytes of a file and checks for NUL bytes.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true // treat unreadable files as binary
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}

// isTestFile returns true if the filename or path looks like a test file.
func isTestFile(name, relPath string) bool {
	lower := strings.ToLower(name)

	if strings.HasSuffix(lower, "_test.go") {
		return true
	}
	if strings.HasPrefix(lower, "test_") || strings.HasSuffix(lower, "_test.py") {
		return true
	}
	for _, suffix := range []string{".test.js", ".test.ts", ".test.tsx", ".spec.js", ".spec.ts", ".spec.tsx"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	relSlash := strings.ToLower(relPath)
	return strings.Contains(relSlash, "/test/") || strings.Contains(relSlash, "/tests/") ||
		strings.HasPrefix(relSlash, "test/") || strings.HasPrefix(relSlash, "tests/")
}
