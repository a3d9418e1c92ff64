package candidate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/codelocate/internal/keywords"
	"github.com/ziadkadry99/codelocate/internal/model"
)

const root = "/ws"

// countingReader wraps a MapReader and records every path read.
type countingReader struct {
	mu    sync.Mutex
	files MapReader
	reads []string
}

func (c *countingReader) ReadFile(path string) ([]byte, error) {
	c.mu.Lock()
	c.reads = append(c.reads, path)
	c.mu.Unlock()
	return c.files.ReadFile(path)
}

func scenarioFiles() MapReader {
	return MapReader{
		root + "/src/services/UserService.ts": "export class UserService {\n  getUser(id: string) {\n    return this.repo.find(id);\n  }\n}\n",
		root + "/src/utils/logger.ts":         "export const log = console.log;\n",
	}
}

func paths(m MapReader) []string {
	var out []string
	for p := range m {
		out = append(out, p)
	}
	return out
}

func TestRankIssueScenario(t *testing.T) {
	files := scenarioFiles()
	f := New(DefaultParams(), files, nil)
	kw := keywords.Extract("NullPointerException in UserService.getUser")

	ps := f.ScorePaths(root, paths(files), kw, 10)
	if len(ps) != 2 {
		t.Fatalf("pass 1 kept %d paths, want 2", len(ps))
	}
	if ps[0].Rel != "src/services/UserService.ts" {
		t.Errorf("pass 1 top = %s, want UserService.ts", ps[0].Rel)
	}

	got, err := f.Rank(context.Background(), model.AnalysisContext{WorkspaceRoot: root, CandidatePaths: paths(files)}, kw, 8)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) == 0 || got[0].Path != "src/services/UserService.ts" {
		t.Fatalf("Rank top = %+v, want UserService.ts first", got)
	}
	for _, c := range got {
		if c.Score < 0 || c.Score > 1 {
			t.Errorf("%s score %f out of [0,1]", c.Path, c.Score)
		}
		if c.Path == "src/utils/logger.ts" && c.Score >= got[0].Score {
			t.Errorf("logger.ts ranked at or above UserService.ts")
		}
	}
}

func TestScorePathsBoundAndThreshold(t *testing.T) {
	files := MapReader{}
	for i := 0; i < 60; i++ {
		files[fmt.Sprintf("%s/src/pkg%d/handler%d.go", root, i, i)] = "package x"
	}
	reader := &countingReader{files: files}
	params := DefaultParams()
	f := New(params, reader, nil)
	kw := model.SearchKeywords{Primary: []string{"handler"}}

	for _, max := range []int{1, 4, 8} {
		ps := f.ScorePaths(root, paths(files), kw, 2*max)
		if len(ps) > 2*max {
			t.Errorf("max=%d: pass 1 kept %d paths", max, len(ps))
		}
		for _, p := range ps {
			if p.Score <= params.PathThreshold {
				t.Errorf("kept %s with score %f <= threshold", p.Rel, p.Score)
			}
		}
	}

	reader.reads = nil
	if _, err := f.Rank(context.Background(), model.AnalysisContext{WorkspaceRoot: root, CandidatePaths: paths(files)}, kw, 4); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(reader.reads) > 8 {
		t.Errorf("Rank read %d files, want at most 8", len(reader.reads))
	}
}

func TestExclusionPenalty(t *testing.T) {
	f := New(DefaultParams(), MapReader{}, nil)
	kw := model.SearchKeywords{
		Primary:   []string{"user"},
		Secondary: []string{"userService"},
		Technical: []string{"react"},
	}
	excluded := []string{
		"node_modules/react/user/index.js",
		"dist/services/userService.js",
		"src/assets/user.png",
		".git/hooks/user",
		"build/api/server.ts",
	}
	for _, rel := range excluded {
		raw := unpenalizedPathScore(rel, kw)
		got := f.PathScore(rel, kw)
		if math.Abs(got-0.1*raw) > 1e-9 {
			t.Errorf("%s: penalized %f, want 0.1 * %f", rel, got, raw)
		}
	}

	clean := "src/services/userService.ts"
	if f.PathScore(clean, kw) != unpenalizedPathScore(clean, kw) {
		t.Errorf("%s should not be penalized", clean)
	}
}

func TestRankSkipsUnreadable(t *testing.T) {
	files := scenarioFiles()
	f := New(DefaultParams(), files, nil)
	kw := keywords.Extract("UserService.getUser fails")

	all := append(paths(files), root+"/src/services/UserServiceMissing.ts")
	got, err := f.Rank(context.Background(), model.AnalysisContext{WorkspaceRoot: root, CandidatePaths: all}, kw, 8)
	if err != nil {
		t.Fatalf("Rank returned error for unreadable file: %v", err)
	}
	for _, c := range got {
		if strings.Contains(c.Path, "Missing") {
			t.Errorf("unreadable file %s was returned", c.Path)
		}
	}
}

func TestRankTruncatesContent(t *testing.T) {
	params := DefaultParams()
	params.MaxContentBytes = 64
	big := "class UserService {}\n" + strings.Repeat("// getUser é\n", 200)
	files := MapReader{root + "/src/UserService.java": big}
	f := New(params, files, nil)

	got, err := f.Rank(context.Background(), model.AnalysisContext{WorkspaceRoot: root, CandidatePaths: paths(files)}, keywords.Extract("UserService getUser"), 8)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if len(got[0].Content) > 64 {
		t.Errorf("content length %d exceeds 64", len(got[0].Content))
	}
	if !strings.HasPrefix(big, got[0].Content) {
		t.Error("truncated content is not a prefix of the file")
	}
}

func TestRankHonoursCancellation(t *testing.T) {
	files := scenarioFiles()
	f := New(DefaultParams(), files, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Rank(ctx, model.AnalysisContext{WorkspaceRoot: root, CandidatePaths: paths(files)}, keywords.Extract("UserService"), 8); err == nil {
		t.Error("expected context error")
	}
}

func TestRankEmptyInput(t *testing.T) {
	f := New(DefaultParams(), MapReader{}, nil)
	got, err := f.Rank(context.Background(), model.AnalysisContext{WorkspaceRoot: root}, keywords.Extract("anything"), 8)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates from no paths", len(got))
	}
}

func TestContentScoreDiminishingReturns(t *testing.T) {
	f := New(DefaultParams(), MapReader{}, nil)
	kw := model.SearchKeywords{Primary: []string{"getUser"}}

	few := strings.Repeat("getUser ", 3) + strings.Repeat("x", 400-24)
	many := strings.Repeat("getUser ", 50)
	if len(few) != len(many) {
		t.Fatalf("test setup: lengths differ %d vs %d", len(few), len(many))
	}
	if a, b := f.ContentScore(few, kw), f.ContentScore(many, kw); math.Abs(a-b) > 1e-9 {
		t.Errorf("per-keyword cap not applied: 3 hits=%f, 50 hits=%f", a, b)
	}
}

func TestContentScoreLengthNormalization(t *testing.T) {
	f := New(DefaultParams(), MapReader{}, nil)
	kw := model.SearchKeywords{Primary: []string{"getUser"}}

	short := "getUser()"
	long := "getUser()\n" + strings.Repeat("unrelated line of code\n", 2000)
	if f.ContentScore(long, kw) >= f.ContentScore(short, kw) {
		t.Error("long file should not outscore a short file with the same hits")
	}
}

func TestRankIsDeterministic(t *testing.T) {
	files := MapReader{}
	for i := 0; i < 20; i++ {
		files[fmt.Sprintf("%s/src/user%d.ts", root, i)] = "user user"
	}
	f := New(DefaultParams(), files, nil)
	kw := model.SearchKeywords{Primary: []string{"user"}}
	actx := model.AnalysisContext{WorkspaceRoot: root, CandidatePaths: paths(files)}

	a, _ := f.Rank(context.Background(), actx, kw, 5)
	b, _ := f.Rank(context.Background(), actx, kw, 5)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Path != b[i].Path || a[i].Score != b[i].Score {
			t.Errorf("position %d differs: %s/%f vs %s/%f", i, a[i].Path, a[i].Score, b[i].Path, b[i].Score)
		}
	}
}

func TestDefiningFileOutranksCaller(t *testing.T) {
	files := MapReader{
		root + "/users/service.go": "package users\n\n// UserService implements the user use cases.\ntype UserService struct {\n\tstore Store\n}\n\n" +
			strings.Repeat("// padding that makes the defining file longer than its caller\n", 12) +
			"func (s *UserService) GetUser(id string) (*User, error) {\n\treturn s.store.Find(id)\n}\n",
		root + "/users/handler.go": "package users\n\nfunc GetUserHandler(svc *UserService) http.HandlerFunc {\n\treturn func(w http.ResponseWriter, r *http.Request) {\n\t\tsvc.GetUser(r.URL.Path)\n\t}\n}\n",
	}
	f := New(DefaultParams(), files, nil)
	kw := keywords.Extract("UserService.GetUser fails for unknown id")

	got, err := f.Rank(context.Background(), model.AnalysisContext{WorkspaceRoot: root, CandidatePaths: paths(files)}, kw, 8)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 2 || got[0].Path != "users/service.go" {
		t.Fatalf("ranking = %+v, want users/service.go first", got)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("defining file %f not above caller %f", got[0].Score, got[1].Score)
	}
}

func TestDeclares(t *testing.T) {
	tests := []struct {
		content, kw string
		want        bool
	}{
		{"type userservice struct {", "userservice", true},
		{"func (s *userservice) getuser(id string)", "getuser", true},
		{"export class userservice {", "userservice", true},
		{"def get_user(self):", "get_user", true},
		{"func getuserhandler(svc *userservice)", "getuser", false},
		{"func getuserhandler(svc *userservice)", "userservice", false},
		{"u, err := svc.getuser(id)", "getuser", false},
		{"", "getuser", false},
	}
	for _, tt := range tests {
		if got := declares(tt.content, tt.kw); got != tt.want {
			t.Errorf("declares(%q, %q) = %v, want %v", tt.content, tt.kw, got, tt.want)
		}
	}
}
