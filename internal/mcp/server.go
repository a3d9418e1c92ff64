// Package mcp exposes the locator as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/codelocate/internal/locator"
	"github.com/ziadkadry99/codelocate/internal/logging"
	"github.com/ziadkadry99/codelocate/internal/model"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Locator runs one locate request.
type Locator interface {
	Locate(ctx context.Context, req locator.Request) (model.AnalysisResult, error)
}

// Server wraps an MCP server that exposes code-location tools.
type Server struct {
	locator Locator
	root    string
	logger  *slog.Logger
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. root is the workspace searched when a
// tool call names none.
func NewServer(loc Locator, root string, logger *slog.Logger) *Server {
	s := &Server{
		locator: loc,
		root:    root,
		logger:  logging.OrDiscard(logger),
	}

	s.mcp = server.NewMCPServer(
		"codelocate",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(locateCodeTool, s.handleLocateCode)
	s.mcp.AddTool(extractKeywordsTool, s.handleExtractKeywords)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
