package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// CorpusPath overrides the bundled corpus with an external JSON file.
	// Empty means use the embedded Book of Psalms.
	CorpusPath string `json:"corpus_path,omitempty"`

	// NormalizerDisabled skips the natural-language normalization pass
	// entirely; user input is fed directly to the reference extractor.
	NormalizerDisabled bool `json:"normalizer_disabled,omitempty"`

	// NormalizerModel is the model name sent to the normalizer endpoint.
	NormalizerModel string `json:"normalizer_model,omitempty"`

	// NormalizerBaseURL overrides the normalizer endpoint URL.
	NormalizerBaseURL string `json:"normalizer_base_url,omitempty"`

	// NormalizerAPIKeyEnv names the environment variable holding the API key.
	NormalizerAPIKeyEnv string `json:"normalizer_api_key_env,omitempty"`

	// NormalizerTimeoutSecs bounds a single normalizer call. 0 means the
	// client default.
	NormalizerTimeoutSecs int `json:"normalizer_timeout_secs,omitempty"`

	// SearchMaxResults caps keyword search results per query.
	SearchMaxResults int `json:"search_max_results,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		NormalizerAPIKeyEnv: "ANTHROPIC_API_KEY",
		SearchMaxResults:    50,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.psalter.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.psalter) and repo
// (.psalter) directories. Repo config is found by walking upward from
// startDir to find the nearest .psalter/config.json. Repo config takes
// precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .psalter/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".psalter", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.CorpusPath = overlay.CorpusPath
	if result.CorpusPath == "" {
		result.CorpusPath = base.CorpusPath
	}

	result.NormalizerModel = overlay.NormalizerModel
	if result.NormalizerModel == "" {
		result.NormalizerModel = base.NormalizerModel
	}

	result.NormalizerBaseURL = overlay.NormalizerBaseURL
	if result.NormalizerBaseURL == "" {
		result.NormalizerBaseURL = base.NormalizerBaseURL
	}

	result.NormalizerAPIKeyEnv = overlay.NormalizerAPIKeyEnv
	if result.NormalizerAPIKeyEnv == "" {
		result.NormalizerAPIKeyEnv = base.NormalizerAPIKeyEnv
	}

	result.NormalizerTimeoutSecs = overlay.NormalizerTimeoutSecs
	if result.NormalizerTimeoutSecs == 0 {
		result.NormalizerTimeoutSecs = base.NormalizerTimeoutSecs
	}

	result.SearchMaxResults = overlay.SearchMaxResults
	if result.SearchMaxResults == 0 {
		result.SearchMaxResults = base.SearchMaxResults
	}

	// Booleans: overlay wins if true, else base
	result.NormalizerDisabled = base.NormalizerDisabled || overlay.NormalizerDisabled

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
