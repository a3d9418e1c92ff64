package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/codelocate/internal/keywords"
	"github.com/ziadkadry99/codelocate/internal/locator"
	"github.com/ziadkadry99/codelocate/internal/model"
	"github.com/ziadkadry99/codelocate/internal/strategy"
)

// handleLocateCode runs the locator for the issue in the request.
func (s *Server) handleLocateCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil || strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("missing required parameter: title"), nil
	}

	req := locator.Request{
		Root:  request.GetString("root", s.root),
		Issue: model.Issue{Title: title, Body: request.GetString("body", "")},
	}
	if name := request.GetString("strategy", ""); name != "" {
		kind, err := strategy.ParseKind(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		req.Strategy = kind
	}

	res, err := s.locator.Locate(ctx, req)
	if err != nil {
		if errors.Is(err, locator.ErrNoWorkspace) {
			return mcp.NewToolResultError("no workspace root: pass root or start the server inside a project"), nil
		}
		s.logger.Error("locate_code failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("locate failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatResult(res, request.GetBool("include_content", false))), nil
}

// handleExtractKeywords returns the rule-based keyword tiers for the text.
func (s *Server) handleExtractKeywords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	kw := keywords.Extract(text)
	var sb strings.Builder
	for _, tier := range []struct {
		name string
		t    model.Tier
	}{
		{"Primary", model.TierPrimary},
		{"Secondary", model.TierSecondary},
		{"Technical", model.TierTechnical},
		{"Contextual", model.TierContextual},
	} {
		fmt.Fprintf(&sb, "%s: %s\n", tier.name, strings.Join(kw.Tier(tier.t), ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatResult renders a result as text for AI agent consumption.
func formatResult(res model.AnalysisResult, withContent bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Confidence: %.0f%%\n", res.Confidence*100)

	if len(res.Files) == 0 {
		sb.WriteString("\nNo relevant files found.\n")
	} else {
		fmt.Fprintf(&sb, "\nFiles (%d):\n", len(res.Files))
		for i, f := range res.Files {
			fmt.Fprintf(&sb, "%d. %s (%.2f)\n", i+1, f.Path, f.Score)
			if f.Reason != "" {
				fmt.Fprintf(&sb, "   %s\n", f.Reason)
			}
			if withContent && f.Content != "" {
				sb.WriteString("```\n")
				sb.WriteString(f.Content)
				if !strings.HasSuffix(f.Content, "\n") {
					sb.WriteString("\n")
				}
				sb.WriteString("```\n")
			}
		}
	}

	if len(res.Symbols) > 0 {
		fmt.Fprintf(&sb, "\nSymbols (%d):\n", len(res.Symbols))
		for _, sym := range res.Symbols {
			fmt.Fprintf(&sb, "- %s %s at %s\n", sym.Kind, sym.Name, sym.Location)
		}
	}

	if len(res.APIs) > 0 {
		fmt.Fprintf(&sb, "\nAPIs (%d):\n", len(res.APIs))
		for _, api := range res.APIs {
			fmt.Fprintf(&sb, "- %s %s", api.Method, api.Path)
			if api.Description != "" {
				fmt.Fprintf(&sb, ": %s", api.Description)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
