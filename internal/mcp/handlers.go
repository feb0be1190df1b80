package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docrag/docrag/internal/document"
	"github.com/docrag/docrag/internal/vectordb"
)

// handleAskDocs answers a question through the full retrieval flow.
func (s *Server) handleAskDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	// A policy rejection is still a valid reply for the agent, so the ok
	// flag is folded into the text either way.
	_, answer, err := s.answerer.Answer(ctx, question, nil, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}

// handleSearchDocs performs semantic search over the documentation index.
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	results, err := s.store.QueryByText(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The documentation may not be indexed yet. Run `docrag ingest` to index it."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// formatSearchResults converts search results into a text format optimized
// for AI agent consumption.
func formatSearchResults(results []vectordb.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))

		if name := r.Document.Meta[document.MetaName]; name != "" {
			sb.WriteString(fmt.Sprintf("Name: %s\n", name))
		}
		if t := r.Document.Meta[document.MetaType]; t != "" {
			sb.WriteString(fmt.Sprintf("Type: %s\n", t))
		}
		if source := r.Document.Meta[document.MetaSource]; source != "" {
			sb.WriteString(fmt.Sprintf("Source: %s\n", source))
		}
		sb.WriteString(fmt.Sprintf("Similarity: %.1f%%\n", r.Similarity*100))

		sb.WriteString("\n")
		sb.WriteString(r.Document.FullContent())
		sb.WriteString("\n")
	}

	return sb.String()
}
