// Package mcp exposes the documentation assistant to AI agents over the
// Model Context Protocol.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/docrag/docrag/internal/llm"
	"github.com/docrag/docrag/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Answerer runs the question flow. The boolean distinguishes a grounded
// answer from a policy rejection.
type Answerer interface {
	Answer(ctx context.Context, question string, hist []llm.Message, stream llm.StreamFunc) (bool, string, error)
}

// Server wraps an MCP server that exposes documentation tools.
type Server struct {
	answerer Answerer
	store    vectordb.VectorStore
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(answerer Answerer, store vectordb.VectorStore) *Server {
	s := &Server{
		answerer: answerer,
		store:    store,
	}

	s.mcp = server.NewMCPServer(
		"docrag",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askDocsTool, s.handleAskDocs)
	s.mcp.AddTool(searchDocsTool, s.handleSearchDocs)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
