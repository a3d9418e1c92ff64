package mcp

import "github.com/mark3labs/mcp-go/mcp"

// locateCodeTool defines the locate_code MCP tool.
var locateCodeTool = mcp.NewTool("locate_code",
	mcp.WithDescription("Find the files, symbols and API endpoints most likely involved in an issue or bug report."),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("Issue title"),
	),
	mcp.WithString("body",
		mcp.Description("Issue body, stack traces and error messages"),
	),
	mcp.WithString("strategy",
		mcp.Description("Analysis strategy (default from config)"),
		mcp.Enum("rule", "model"),
	),
	mcp.WithString("root",
		mcp.Description("Workspace root to search (default: the server's workspace)"),
	),
	mcp.WithBoolean("include_content",
		mcp.Description("Include file snippets in the response (default false)"),
	),
)

// extractKeywordsTool defines the extract_keywords MCP tool.
var extractKeywordsTool = mcp.NewTool("extract_keywords",
	mcp.WithDescription("Show the tiered search keywords extracted from issue text."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Issue text"),
	),
)
