package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var lookupToolDef = mcp.NewTool("psalm_lookup",
	mcp.WithDescription("Resolve psalm references in free-form text (e.g. \"psalm 23:1-3\") to verse text. Set normalize to rewrite loose phrasing into explicit references first."),
	mcp.WithString("prompt",
		mcp.Required(),
		mcp.Description("Text mentioning one or more psalm references"),
	),
	mcp.WithBoolean("normalize",
		mcp.Description("Run the prompt through the normalizer before extraction"),
	),
)

var searchToolDef = mcp.NewTool("psalm_search",
	mcp.WithDescription("Keyword search over psalm verse text. Returns matching verses ranked by relevance with highlighted snippets."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Keywords to match against verse text"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results (default 20, max 100)"),
	),
)

var chaptersToolDef = mcp.NewTool("psalm_chapters",
	mcp.WithDescription("List the chapters available in the corpus with verse counts and superscriptions."),
)
