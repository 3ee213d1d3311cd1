package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/psalter/internal/config"
	"github.com/hpungsan/psalter/internal/corpus"
	"github.com/hpungsan/psalter/internal/errors"
	"github.com/hpungsan/psalter/internal/index"
	"github.com/hpungsan/psalter/internal/normalize"
	"github.com/hpungsan/psalter/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	corpus     *corpus.Corpus
	index      *index.Index
	normalizer normalize.Normalizer
	cfg        *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(c *corpus.Corpus, ix *index.Index, n normalize.Normalizer, cfg *config.Config) *Handlers {
	return &Handlers{corpus: c, index: ix, normalizer: n, cfg: cfg}
}

// Request types for each tool

// LookupRequest represents the arguments for psalm_lookup.
type LookupRequest struct {
	Prompt    string `json:"prompt"`
	Normalize bool   `json:"normalize,omitempty"`
}

// SearchRequest represents the arguments for psalm_search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// Handler implementations

// HandleLookup handles the psalm_lookup tool call.
func (h *Handlers) HandleLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LookupRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Lookup(ctx, h.corpus, h.normalizer, ops.LookupInput{
		Prompt:    input.Prompt,
		Normalize: input.Normalize,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the psalm_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = ops.DefaultSearchLimit
	}
	if h.cfg != nil && h.cfg.SearchMaxResults > 0 && limit > h.cfg.SearchMaxResults {
		limit = h.cfg.SearchMaxResults
	}

	result, err := ops.Search(ctx, h.index, ops.SearchInput{
		Query: input.Query,
		Limit: limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleChapters handles the psalm_chapters tool call.
func (h *Handlers) HandleChapters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Chapters(h.corpus)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if pErr, ok := err.(*errors.PsalterError); ok {
		errorObj := map[string]any{
			"code":    pErr.Code,
			"message": pErr.Message,
			"status":  pErr.Status,
		}
		if pErr.Code != errors.ErrInternal && pErr.Details != nil {
			errorObj["details"] = pErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
