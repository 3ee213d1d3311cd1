package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/psalter/internal/config"
	"github.com/hpungsan/psalter/internal/corpus"
	"github.com/hpungsan/psalter/internal/index"
	"github.com/hpungsan/psalter/internal/normalize"
)

// testSetup builds handlers against the bundled corpus.
func testSetup(t *testing.T) *Handlers {
	t.Helper()

	c, err := corpus.Load("")
	if err != nil {
		t.Fatalf("failed to load corpus: %v", err)
	}
	ix, err := index.Build(c)
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })

	return NewHandlers(c, ix, normalize.Identity{}, config.DefaultConfig())
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// TestHandleLookup tests the psalm_lookup handler.
func TestHandleLookup(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name:      "lookup single verse",
			args:      map[string]any{"prompt": "read psalm 23:1"},
			wantError: false,
		},
		{
			name:      "lookup verse range",
			args:      map[string]any{"prompt": "psalm 23:1-3"},
			wantError: false,
		},
		{
			name:      "lookup whole chapter",
			args:      map[string]any{"prompt": "psalm 117"},
			wantError: false,
		},
		{
			name:      "lookup without prompt",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "lookup with no reference",
			args:      map[string]any{"prompt": "nothing scriptural here"},
			wantError: true,
			errorCode: "NO_REFERENCE",
		},
		{
			name:      "lookup unknown chapter",
			args:      map[string]any{"prompt": "psalm 999"},
			wantError: true,
			errorCode: "NO_VERSES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := makeRequest(tt.args)
			result, err := h.HandleLookup(ctx, req)

			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else {
				if result.IsError {
					t.Errorf("expected success, got error: %v", extractErrorMessage(result))
				}
			}
		})
	}
}

// TestHandleLookup_Payload verifies the JSON shape of a successful lookup.
func TestHandleLookup_Payload(t *testing.T) {
	h := testSetup(t)

	result, err := h.HandleLookup(context.Background(), makeRequest(map[string]any{
		"prompt": "psalm 23:1",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}

	var payload struct {
		RequestID string `json:"request_id"`
		Count     int    `json:"count"`
		Verses    []struct {
			Chapter int    `json:"chapter"`
			Verse   int    `json:"verse"`
			Display string `json:"display"`
		} `json:"verses"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &payload); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if payload.RequestID == "" {
		t.Error("request_id is empty")
	}
	if payload.Count != 1 || len(payload.Verses) != 1 {
		t.Fatalf("count = %d, verses = %d, want 1 each", payload.Count, len(payload.Verses))
	}
	if payload.Verses[0].Chapter != 23 || payload.Verses[0].Verse != 1 {
		t.Errorf("verse = %d:%d, want 23:1", payload.Verses[0].Chapter, payload.Verses[0].Verse)
	}
}

// TestHandleSearch tests the psalm_search handler.
func TestHandleSearch(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name:      "search with matches",
			args:      map[string]any{"query": "shepherd"},
			wantError: false,
		},
		{
			name:      "search with limit",
			args:      map[string]any{"query": "LORD", "limit": 2},
			wantError: false,
		},
		{
			name:      "search without query",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := makeRequest(tt.args)
			result, err := h.HandleSearch(ctx, req)

			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else {
				if result.IsError {
					t.Errorf("expected success, got error: %v", extractErrorMessage(result))
				}
			}
		})
	}
}

// TestHandleChapters tests the psalm_chapters handler.
func TestHandleChapters(t *testing.T) {
	h := testSetup(t)

	result, err := h.HandleChapters(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}

	var payload struct {
		Title    string `json:"title"`
		Count    int    `json:"count"`
		Chapters []struct {
			Chapter    int `json:"chapter"`
			VerseCount int `json:"verse_count"`
		} `json:"chapters"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &payload); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if payload.Title == "" {
		t.Error("title is empty")
	}
	if payload.Count == 0 || len(payload.Chapters) != payload.Count {
		t.Errorf("count = %d, chapters = %d", payload.Count, len(payload.Chapters))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"psalm_lookup", "psalm_export"})
	if len(unknown) != 1 || unknown[0] != "psalm_export" {
		t.Errorf("unknown = %v, want [psalm_export]", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 3 {
		t.Fatalf("len = %d, want 3", len(names))
	}
	has := make(map[string]bool)
	for _, n := range names {
		has[n] = true
	}
	for _, want := range []string{"psalm_lookup", "psalm_search", "psalm_chapters"} {
		if !has[want] {
			t.Errorf("missing tool %q", want)
		}
	}
}

// assertErrorCode checks that an error result carries the expected code.
func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("error code = %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	return resultText(result)
}

// resultText returns the first text content of a tool result.
func resultText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
