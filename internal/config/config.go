// Package config provides configuration loading and structs for the PeerMatch server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Match     MatchConfig     `yaml:"match"`
	Ingest    IngestConfig    `yaml:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the profile database and indices.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	BleveIndexPath  string `yaml:"bleve_index_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
}

// EmbeddingConfig holds embedding service settings.
// Provider is "openai" (OpenAI-compatible API) or "mock" (deterministic, for dev/tests).
type EmbeddingConfig struct {
	Provider     string  `yaml:"provider"`
	BaseURL      string  `yaml:"base_url"`
	Model        string  `yaml:"model"`
	Dimensions   int     `yaml:"dimensions"`
	CacheSize    int     `yaml:"cache_size"`
	RequestsPerS float64 `yaml:"requests_per_second"`
}

// SearchConfig holds hybrid search settings.
type SearchConfig struct {
	DefaultLimit   int     `yaml:"default_limit"`
	MaxLimit       int     `yaml:"max_limit"`
	DefaultAlpha   float64 `yaml:"default_alpha"`
	TopKCandidates int     `yaml:"top_k_candidates"`
	SnippetLength  int     `yaml:"snippet_length"`
}

// WeightsConfig holds the pairwise scorer component weights.
// The four weights must sum to 1.0.
type WeightsConfig struct {
	Skill    float64 `yaml:"skill_weight"`
	Course   float64 `yaml:"course_weight"`
	Language float64 `yaml:"language_weight"`
	Level    float64 `yaml:"level_weight"`
}

// MatchConfig holds match finder settings.
type MatchConfig struct {
	DefaultLimit int           `yaml:"default_limit"`
	MinScore     float64       `yaml:"min_score"`
	Weights      WeightsConfig `yaml:"weights"`
}

// IngestConfig holds resume intake settings.
type IngestConfig struct {
	ResumeDir  string   `yaml:"resume_dir"`
	Extensions []string `yaml:"extensions"`
	Workers    int      `yaml:"workers"`
	Watch      bool     `yaml:"watch"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	if cfg.Ingest.ResumeDir != "" {
		cfg.Ingest.ResumeDir = expandPath(cfg.Ingest.ResumeDir, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
