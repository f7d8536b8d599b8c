package provider

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"librarian/config"
	"librarian/internal/domain"
)

// Settings is the provider configuration built once at process start and
// handed to every adapter that talks to the model provider.
type Settings struct {
	APIKey          string
	ProjectID       string
	OrgID           string
	EmbeddingModel  string
	GenerativeModel string
	Temperature     float64
	BaseURL         string
	Timeout         time.Duration
	APIKeyEnv       string
}

// LoadSettings reads credentials from the process environment after loading
// the configured env file (existing variables win over the file). An API key
// variable that is set but empty falls back to the file's value.
func LoadSettings(cfg *config.Config, root string) (Settings, error) {
	envFile := config.ResolvePath(root, cfg.Provider.EnvFile)
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, err
		}
	}

	s := Settings{
		APIKey:          strings.TrimSpace(os.Getenv(cfg.Provider.APIKeyEnv)),
		ProjectID:       strings.TrimSpace(os.Getenv(cfg.Provider.ProjectEnv)),
		OrgID:           strings.TrimSpace(os.Getenv(cfg.Provider.OrgEnv)),
		EmbeddingModel:  cfg.Embedding.Model,
		GenerativeModel: cfg.Generation.Model,
		Temperature:     cfg.Generation.Temperature,
		BaseURL:         cfg.Provider.BaseURL,
		Timeout:         time.Duration(cfg.Provider.TimeoutSecs) * time.Second,
		APIKeyEnv:       cfg.Provider.APIKeyEnv,
	}

	if s.APIKey == "" && envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, err
		}
		s.APIKey = strings.TrimSpace(values[cfg.Provider.APIKeyEnv])
	}
	return s, nil
}

// Validate reports missing credentials or models.
func (s Settings) Validate() error {
	if s.APIKey == "" {
		return domain.InvalidArgument("API key not found in environment variable %s or env file", s.APIKeyEnv)
	}
	if s.EmbeddingModel == "" {
		return domain.InvalidArgument("embedding model is required")
	}
	if s.GenerativeModel == "" {
		return domain.InvalidArgument("generative model is required")
	}
	return nil
}

// MaskedKey returns the key prefix safe for display.
func (s Settings) MaskedKey() string {
	if len(s.APIKey) <= 10 {
		return strings.Repeat("*", len(s.APIKey))
	}
	return s.APIKey[:10] + "..."
}

// Client builds the provider API client on first use, so commands that never
// reach the provider do not need credentials.
type Client struct {
	settings Settings
	logger   *slog.Logger

	once sync.Once
	api  *openai.Client
	err  error
}

func NewClient(s Settings) *Client {
	return &Client{
		settings: s,
		logger:   slog.Default().With("component", "provider"),
	}
}

func (c *Client) Settings() Settings {
	return c.settings
}

// API returns the underlying client or the credential error, wrapped as a
// provider failure.
func (c *Client) API() (*openai.Client, error) {
	c.once.Do(func() {
		if err := c.settings.Validate(); err != nil {
			c.err = domain.NewProviderError("provider credentials", err)
			return
		}

		opts := []option.RequestOption{
			option.WithAPIKey(c.settings.APIKey),
			option.WithMaxRetries(0),
		}
		if c.settings.OrgID != "" {
			opts = append(opts, option.WithOrganization(c.settings.OrgID))
		}
		if c.settings.ProjectID != "" {
			opts = append(opts, option.WithProject(c.settings.ProjectID))
		}
		if c.settings.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(c.settings.BaseURL))
		}

		client := openai.NewClient(opts...)
		c.api = &client
		c.logger.Debug("provider client ready", "project", c.settings.ProjectID != "", "org", c.settings.OrgID != "")
	})
	return c.api, c.err
}

// WithTimeout bounds one provider round-trip.
func (c *Client) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.settings.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.settings.Timeout)
}
