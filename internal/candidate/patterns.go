package candidate

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludePatterns are doublestar globs for build output, dependency,
// VCS and cache directories, and binary or media files.
var DefaultExcludePatterns = []string{
	"**/.git/**",
	"**/.hg/**",
	"**/.svn/**",
	"**/node_modules/**",
	"**/bower_components/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/out/**",
	"**/target/**",
	"**/bin/**",
	"**/obj/**",
	"**/.next/**",
	"**/.nuxt/**",
	"**/coverage/**",
	"**/__pycache__/**",
	"**/.pytest_cache/**",
	"**/.mypy_cache/**",
	"**/.cache/**",
	"**/.venv/**",
	"**/venv/**",
	"**/.idea/**",
	"**/.vscode/**",
	"**/*.min.js",
	"**/*.map",
	"**/*.lock",
	"**/*.{png,jpg,jpeg,gif,bmp,ico,svg,webp,tiff}",
	"**/*.{mp3,mp4,wav,ogg,avi,mov,webm}",
	"**/*.{zip,tar,gz,tgz,bz2,xz,7z,rar,jar,war}",
	"**/*.{exe,dll,so,dylib,bin,o,a,class,pyc,wasm}",
	"**/*.{pdf,doc,docx,xls,xlsx,ppt,pptx}",
	"**/*.{woff,woff2,ttf,eot,otf}",
}

// importantExtensions are source and config file types worth a bonus.
var importantExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".mjs": true, ".cjs": true, ".java": true, ".kt": true, ".rs": true, ".rb": true,
	".php": true, ".cs": true, ".swift": true, ".scala": true, ".c": true, ".h": true,
	".cpp": true, ".hpp": true, ".vue": true, ".svelte": true, ".sql": true,
	".graphql": true, ".proto": true,
}

// importantNames are file stems (or full names) that usually anchor a module.
var importantNames = map[string]bool{
	"index": true, "main": true, "app": true, "server": true, "client": true,
	"api": true, "config": true, "setup": true, "init": true, "__init__": true,
	"package.json": true, "go.mod": true, "cargo.toml": true, "pyproject.toml": true,
	"pom.xml": true, "build.gradle": true, "readme": true, "readme.md": true,
}

// importantDirs are directory segments that usually hold application code.
var importantDirs = map[string]bool{
	"src": true, "lib": true, "core": true, "api": true, "routes": true,
	"controllers": true, "services": true, "components": true, "utils": true,
	"helpers": true, "models": true, "types": true, "interfaces": true,
	"test": true, "tests": true, "__tests__": true, "spec": true,
	"config": true, "configs": true, "internal": true, "pkg": true, "cmd": true,
}

// matchesExclude reports whether the slash-separated relative path matches
// any exclusion glob.
func matchesExclude(rel string, patterns []string) bool {
	lower := strings.ToLower(rel)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, lower); err == nil && ok {
			return true
		}
	}
	return false
}
