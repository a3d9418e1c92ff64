package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/codelocate/internal/locator"
	"github.com/ziadkadry99/codelocate/internal/model"
	"github.com/ziadkadry99/codelocate/internal/strategy"
)

// mockLocator records requests and returns a canned result.
type mockLocator struct {
	requests []locator.Request
	result   model.AnalysisResult
	err      error
}

func (m *mockLocator) Locate(_ context.Context, req locator.Request) (model.AnalysisResult, error) {
	m.requests = append(m.requests, req)
	return m.result, m.err
}

func sampleResult() model.AnalysisResult {
	return model.AnalysisResult{
		Files: []model.FileMatch{
			{Path: "users/service.go", Content: "func (s *UserService) GetUser", Score: 0.82, Reason: "defines GetUser"},
		},
		Symbols: []model.SymbolMatch{
			{Name: "GetUser", Kind: "Method", Location: "users/service.go:27"},
		},
		APIs: []model.APIMatch{
			{Path: "/users/{id}", Method: "GET", Description: "GetUserHandler serves GET /users/{id}."},
		},
		Confidence: 0.71,
	}
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	var sb strings.Builder
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"locate_code", locateCodeTool, "locate_code"},
		{"extract_keywords", extractKeywordsTool, "extract_keywords"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	loc := &mockLocator{}
	srv := NewServer(loc, "/ws", nil)

	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.root != "/ws" {
		t.Errorf("root = %q, want /ws", srv.root)
	}
}

func TestHandleLocateCode(t *testing.T) {
	ctx := context.Background()

	t.Run("default root and strategy", func(t *testing.T) {
		loc := &mockLocator{result: sampleResult()}
		srv := NewServer(loc, "/ws", nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"title": "GetUser returns nil",
			"body":  "stack trace here",
		}

		result, err := srv.handleLocateCode(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if len(loc.requests) != 1 {
			t.Fatalf("locator called %d times", len(loc.requests))
		}
		got := loc.requests[0]
		if got.Root != "/ws" || got.Strategy != "" || got.Issue.Body != "stack trace here" {
			t.Errorf("request = %+v", got)
		}
		text := resultText(t, result)
		for _, want := range []string{"users/service.go", "GET /users/{id}", "Method GetUser", "71%"} {
			if !strings.Contains(text, want) {
				t.Errorf("result missing %q:\n%s", want, text)
			}
		}
		if strings.Contains(text, "```") {
			t.Error("content included without include_content")
		}
	})

	t.Run("explicit strategy and root", func(t *testing.T) {
		loc := &mockLocator{result: sampleResult()}
		srv := NewServer(loc, "/ws", nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"title":           "GetUser returns nil",
			"strategy":        "model",
			"root":            "/other",
			"include_content": true,
		}

		result, err := srv.handleLocateCode(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("unexpected failure: %v %v", err, result)
		}
		if got := loc.requests[0]; got.Strategy != strategy.KindModel || got.Root != "/other" {
			t.Errorf("request = %+v", got)
		}
		if !strings.Contains(resultText(t, result), "```") {
			t.Error("expected file content")
		}
	})

	t.Run("invalid strategy", func(t *testing.T) {
		loc := &mockLocator{}
		srv := NewServer(loc, "/ws", nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"title": "x", "strategy": "magic"}

		result, _ := srv.handleLocateCode(ctx, req)
		if !result.IsError {
			t.Error("expected error for unknown strategy")
		}
		if len(loc.requests) != 0 {
			t.Error("locator should not be called")
		}
	})

	t.Run("missing title", func(t *testing.T) {
		srv := NewServer(&mockLocator{}, "/ws", nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleLocateCode(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing title")
		}
	})

	t.Run("locator failure", func(t *testing.T) {
		srv := NewServer(&mockLocator{err: errors.New("boom")}, "/ws", nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"title": "x"}

		result, err := srv.handleLocateCode(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError || !strings.Contains(resultText(t, result), "boom") {
			t.Errorf("expected tool error mentioning cause, got %+v", result)
		}
	})

	t.Run("no workspace", func(t *testing.T) {
		srv := NewServer(&mockLocator{err: locator.ErrNoWorkspace}, "", nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"title": "x"}

		result, _ := srv.handleLocateCode(ctx, req)
		if !result.IsError || !strings.Contains(resultText(t, result), "no workspace") {
			t.Errorf("expected no workspace error, got %+v", result)
		}
	})
}

func TestHandleExtractKeywords(t *testing.T) {
	srv := NewServer(&mockLocator{}, "/ws", nil)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"text": "NullPointerException in UserService.getUser"}

	result, err := srv.handleExtractKeywords(context.Background(), req)
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v %+v", err, result)
	}
	text := resultText(t, result)
	for _, want := range []string{"Primary: ", "UserService", "Technical: ", "NullPointerException"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	req.Params.Arguments = map[string]any{}
	if result, _ := srv.handleExtractKeywords(context.Background(), req); !result.IsError {
		t.Error("expected error for missing text")
	}
}

func TestFormatResult(t *testing.T) {
	t.Run("empty result", func(t *testing.T) {
		out := formatResult(model.AnalysisResult{}, false)
		if !strings.Contains(out, "No relevant files found.") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("full result", func(t *testing.T) {
		out := formatResult(sampleResult(), true)
		for _, want := range []string{"Confidence: 71%", "1. users/service.go (0.82)", "defines GetUser", "users/service.go:27", "GetUserHandler serves"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})
}
