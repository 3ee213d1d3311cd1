package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Defaults for the messages-API client.
const (
	DefaultBaseURL   = "https://api.anthropic.com/v1/messages"
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultTimeout   = 60 * time.Second
	defaultMaxTokens = 1024
	apiVersion       = "2023-06-01"
)

// Client calls an Anthropic-style messages endpoint to normalize free text
// into psalm references. It performs exactly one request per call: no
// retries, no fallback.
type Client struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration

	// HTTPClient may be replaced in tests. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// NewClient creates a Client with defaults applied.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
		APIKey:  apiKey,
		Timeout: DefaultTimeout,
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Normalize sends the instruction preamble plus the user's text and returns
// the postprocessed reply. An empty reply is returned as "" with a nil error;
// deciding that emptiness is an error belongs to the caller.
func (c *Client) Normalize(ctx context.Context, text string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("normalizer API key not set")
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model(),
		MaxTokens: defaultMaxTokens,
		Messages:  []message{{Role: "user", Content: BuildPrompt(text)}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := c.BaseURL
	if url == "" {
		url = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("normalizer timed out after %s", timeout)
		}
		return "", fmt.Errorf("normalizer request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("normalizer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", nil
	}

	return Postprocess(parsed.Content[0].Text), nil
}

func (c *Client) model() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel
}
