package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"librarian/internal/domain"
)

// Config holds all configuration for the librarian tool.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog"`
	Index      IndexConfig      `yaml:"index"`
	Provider   ProviderConfig   `yaml:"provider"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieve   RetrieveConfig   `yaml:"retrieve"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CatalogConfig locates the book dataset.
type CatalogConfig struct {
	Path string `yaml:"path"` // file, or a doublestar pattern such as data/**/*.json
}

// IndexConfig holds embedding index configuration.
type IndexConfig struct {
	Dir         string `yaml:"dir"`
	Collection  string `yaml:"collection"`
	BatchSize   int    `yaml:"batch_size"`
	Concurrency int    `yaml:"concurrency"` // parallel embedding batches; 1 = sequential
}

// ProviderConfig holds credentials lookup and transport settings shared by
// the embedding and generative providers.
type ProviderConfig struct {
	APIKeyEnv   string `yaml:"api_key_env"`
	ProjectEnv  string `yaml:"project_env"`
	OrgEnv      string `yaml:"org_env"`
	EnvFile     string `yaml:"env_file"`
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Model string `yaml:"model"` // must match between index build and search
}

// GenerationConfig holds configuration of the re-ranking completion call.
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK        int     `yaml:"top_k"`
	Fuzzy       bool    `yaml:"fuzzy"`
	FuzzyCutoff float64 `yaml:"fuzzy_cutoff"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path: filepath.Join("data", "book_summaries.json"),
		},
		Index: IndexConfig{
			Dir:         filepath.Join("data", "embeddings"),
			Collection:  "books_summaries",
			BatchSize:   64,
			Concurrency: 1,
		},
		Provider: ProviderConfig{
			APIKeyEnv:   "OPENAI_API_KEY",
			ProjectEnv:  "OPENAI_PROJECT",
			OrgEnv:      "OPENAI_ORG_ID",
			EnvFile:     ".env",
			TimeoutSecs: 60,
		},
		Embedding: EmbeddingConfig{
			Model: "text-embedding-3-small",
		},
		Generation: GenerationConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
		},
		Retrieve: RetrieveConfig{
			TopK:        3,
			Fuzzy:       true,
			FuzzyCutoff: 0.6,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for librarian.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "librarian.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".librarian", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyDefaults fills zero values a partial YAML file left behind.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Index.BatchSize <= 0 {
		cfg.Index.BatchSize = def.Index.BatchSize
	}
	if cfg.Index.Concurrency <= 0 {
		cfg.Index.Concurrency = def.Index.Concurrency
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = def.Index.Collection
	}
	if cfg.Provider.TimeoutSecs <= 0 {
		cfg.Provider.TimeoutSecs = def.Provider.TimeoutSecs
	}
	if cfg.Retrieve.TopK <= 0 {
		cfg.Retrieve.TopK = def.Retrieve.TopK
	}
	if cfg.Retrieve.FuzzyCutoff <= 0 || cfg.Retrieve.FuzzyCutoff > 1 {
		cfg.Retrieve.FuzzyCutoff = def.Retrieve.FuzzyCutoff
	}
}

// ResolvePath makes p absolute relative to root unless it already is.
func ResolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// IndexDBPath returns the path to the index database inside dir.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, "index.db")
}

// EnsureIndexDir ensures the index directory exists.
func EnsureIndexDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return domain.InvalidArgument("index directory must be a non-empty path")
	}
	return os.MkdirAll(dir, 0755)
}
