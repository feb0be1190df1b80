package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askDocsTool defines the ask_docs MCP tool.
var askDocsTool = mcp.NewTool("ask_docs",
	mcp.WithDescription("Ask a question about the indexed library documentation. Returns a grounded answer with documentation links."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question about the documented library"),
	),
)

// searchDocsTool defines the search_docs MCP tool.
var searchDocsTool = mcp.NewTool("search_docs",
	mcp.WithDescription("Search the indexed documentation semantically. Returns the most relevant entries with their source paths."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)
