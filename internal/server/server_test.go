package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ziadkadry99/codelocate/internal/locator"
	"github.com/ziadkadry99/codelocate/internal/model"
	"github.com/ziadkadry99/codelocate/internal/strategy"
)

type mockLocator struct {
	requests []locator.Request
	err      error
}

func (m *mockLocator) Locate(_ context.Context, req locator.Request) (model.AnalysisResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return model.AnalysisResult{}, m.err
	}
	return model.AnalysisResult{
		Files:      []model.FileMatch{{Path: "users/service.go", Score: 0.8}},
		Symbols:    []model.SymbolMatch{},
		APIs:       []model.APIMatch{},
		Confidence: 0.6,
	}, nil
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := New(Config{}, &mockLocator{}, nil)
	w := do(t, srv, "GET", "/healthz", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{AllowAll: true}, &mockLocator{}, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestLocate(t *testing.T) {
	loc := &mockLocator{}
	srv := New(Config{Root: "/ws"}, loc, nil)

	w := do(t, srv, "POST", "/api/locate", `{"title":"GetUser returns nil","body":"trace","strategy":"model"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res model.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0].Path != "users/service.go" || res.Confidence != 0.6 {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(w.Body.String(), `"relevance_score":0.8`) {
		t.Errorf("body missing relevance_score: %s", w.Body.String())
	}

	got := loc.requests[0]
	if got.Root != "/ws" || got.Strategy != strategy.KindModel || got.Issue.Body != "trace" {
		t.Errorf("request = %+v", got)
	}
}

func TestLocateErrors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		err    error
		body   string
		status int
	}{
		{"bad json", Config{Root: "/ws"}, nil, `{`, http.StatusBadRequest},
		{"missing title", Config{Root: "/ws"}, nil, `{"body":"x"}`, http.StatusBadRequest},
		{"bad strategy", Config{Root: "/ws"}, nil, `{"title":"x","strategy":"magic"}`, http.StatusBadRequest},
		{"root disabled", Config{Root: "/ws"}, nil, `{"title":"x","root":"/etc"}`, http.StatusForbidden},
		{"no workspace", Config{}, locator.ErrNoWorkspace, `{"title":"x"}`, http.StatusBadRequest},
		{"locator failure", Config{Root: "/ws"}, errors.New("boom"), `{"title":"x"}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(tt.cfg, &mockLocator{err: tt.err}, nil)
			w := do(t, srv, "POST", "/api/locate", tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Errorf("body missing error field: %s", w.Body.String())
			}
		})
	}
}

func TestLocateRootOverride(t *testing.T) {
	loc := &mockLocator{}
	srv := New(Config{Root: "/ws", AllowRoots: true}, loc, nil)
	w := do(t, srv, "POST", "/api/locate", `{"title":"x","root":"/other"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if loc.requests[0].Root != "/other" {
		t.Errorf("root = %q, want /other", loc.requests[0].Root)
	}
}

func TestKeywords(t *testing.T) {
	srv := New(Config{}, &mockLocator{}, nil)
	w := do(t, srv, "POST", "/api/keywords", `{"text":"NullPointerException in UserService.getUser"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var kw model.SearchKeywords
	if err := json.Unmarshal(w.Body.Bytes(), &kw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(kw.Primary) == 0 || len(kw.Technical) == 0 {
		t.Errorf("keywords = %+v", kw)
	}
}
