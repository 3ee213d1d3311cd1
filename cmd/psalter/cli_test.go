package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/hpungsan/psalter/internal/config"
	"github.com/hpungsan/psalter/internal/corpus"
	"github.com/hpungsan/psalter/internal/index"
)

// setupTestDeps builds app dependencies against the bundled corpus.
func setupTestDeps(t *testing.T) *appDeps {
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

	return &appDeps{
		corpus: c,
		index:  ix,
		cfg:    config.DefaultConfig(),
	}
}

// captureStdout runs fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := fn()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

func TestCLILookup(t *testing.T) {
	deps := setupTestDeps(t)
	app := newCLIApp(deps)

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"psalter", "lookup", "read", "psalm", "23:1"})
	})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	var output struct {
		Count  int `json:"count"`
		Verses []struct {
			Display string `json:"display"`
		} `json:"verses"`
	}
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, out)
	}
	if output.Count != 1 {
		t.Fatalf("count = %d, want 1", output.Count)
	}
	if output.Verses[0].Display != "Psalm 23:1 The LORD is my shepherd; I shall not want." {
		t.Errorf("display = %q", output.Verses[0].Display)
	}
}

func TestCLILookup_Range(t *testing.T) {
	deps := setupTestDeps(t)
	app := newCLIApp(deps)

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"psalter", "lookup", "psalm 23:1-3"})
	})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	var output struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Count != 3 {
		t.Errorf("count = %d, want 3", output.Count)
	}
}

// captureStderr runs fn and returns what it wrote to stderr.
func captureStderr(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	err := fn()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stderr = oldStderr

	return buf.String(), err
}

func TestCLILookup_NormalizeWithoutNormalizer(t *testing.T) {
	deps := setupTestDeps(t)
	app := newCLIApp(deps)

	stderr, err := captureStderr(t, func() error {
		_, runErr := captureStdout(t, func() error {
			return app.Run([]string{"psalter", "lookup", "--normalize", "psalm 23:1"})
		})
		return runErr
	})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !strings.Contains(stderr, "no normalizer is configured") {
		t.Errorf("stderr = %q, want warning about missing normalizer", stderr)
	}
}

func TestCLILookup_NoReference(t *testing.T) {
	deps := setupTestDeps(t)
	app := newCLIApp(deps)

	_, err := captureStdout(t, func() error {
		return app.Run([]string{"psalter", "lookup", "nothing", "scriptural"})
	})
	if err == nil {
		t.Fatal("expected error for prompt without references")
	}
	if !strings.Contains(err.Error(), "NO_REFERENCE") {
		t.Errorf("error = %v, want NO_REFERENCE code", err)
	}
}

func TestCLISearch(t *testing.T) {
	deps := setupTestDeps(t)
	app := newCLIApp(deps)

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"psalter", "search", "shepherd"})
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	var output struct {
		Count   int `json:"count"`
		Results []struct {
			Chapter int `json:"chapter"`
			Verse   int `json:"verse"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Count != 1 {
		t.Fatalf("count = %d, want 1", output.Count)
	}
	if output.Results[0].Chapter != 23 || output.Results[0].Verse != 1 {
		t.Errorf("result = %d:%d, want 23:1", output.Results[0].Chapter, output.Results[0].Verse)
	}
}

func TestCLISearch_EmptyQuery(t *testing.T) {
	deps := setupTestDeps(t)
	app := newCLIApp(deps)

	_, err := captureStdout(t, func() error {
		return app.Run([]string{"psalter", "search"})
	})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("error = %v, want INVALID_REQUEST code", err)
	}
}

func TestCLIChapters(t *testing.T) {
	deps := setupTestDeps(t)
	app := newCLIApp(deps)

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"psalter", "chapters"})
	})
	if err != nil {
		t.Fatalf("chapters failed: %v", err)
	}

	var output struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Title != "The Book of Psalms" {
		t.Errorf("title = %q", output.Title)
	}
	if output.Count == 0 {
		t.Error("count = 0, want chapters")
	}
}

func TestIsCLIMode(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"psalter"}, false},
		{"known subcommand", []string{"psalter", "lookup"}, true},
		{"serve subcommand", []string{"psalter", "serve"}, true},
		{"help flag", []string{"psalter", "--help"}, true},
		{"version flag", []string{"psalter", "-v"}, true},
		{"unknown arg", []string{"psalter", "bogus"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			if got := isCLIMode(); got != tt.want {
				t.Errorf("isCLIMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
