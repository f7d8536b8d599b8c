package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"librarian/config"
	"librarian/internal/domain"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Provider.APIKeyEnv = "LIBRARIAN_TEST_API_KEY"
	cfg.Provider.ProjectEnv = "LIBRARIAN_TEST_PROJECT"
	cfg.Provider.OrgEnv = "LIBRARIAN_TEST_ORG"
	return cfg
}

func TestLoadSettings_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "LIBRARIAN_TEST_API_KEY=\"sk-test-1234567890\"\nLIBRARIAN_TEST_PROJECT= proj_1 \n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0600))
	t.Cleanup(func() {
		os.Unsetenv("LIBRARIAN_TEST_API_KEY")
		os.Unsetenv("LIBRARIAN_TEST_PROJECT")
	})

	s, err := LoadSettings(testConfig(), dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-test-1234567890", s.APIKey)
	assert.Equal(t, "proj_1", s.ProjectID)
	assert.Empty(t, s.OrgID)
	assert.Equal(t, "text-embedding-3-small", s.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", s.GenerativeModel)
	assert.Equal(t, 60*time.Second, s.Timeout)
	assert.NoError(t, s.Validate())
	assert.Equal(t, "sk-test-12...", s.MaskedKey())
}

func TestLoadSettings_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LIBRARIAN_TEST_API_KEY=from-file\n"), 0600))
	t.Setenv("LIBRARIAN_TEST_API_KEY", "from-env")

	s, err := LoadSettings(testConfig(), dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.APIKey)
}

func TestLoadSettings_EmptyVariableFallsBackToEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LIBRARIAN_TEST_API_KEY=sk-from-file\n"), 0600))
	t.Setenv("LIBRARIAN_TEST_API_KEY", "")

	s, err := LoadSettings(testConfig(), dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", s.APIKey)
	assert.NoError(t, s.Validate())
}

func TestLoadSettings_NoEnvFile(t *testing.T) {
	s, err := LoadSettings(testConfig(), t.TempDir())
	require.NoError(t, err)
	assert.ErrorIs(t, s.Validate(), domain.ErrInvalidArgument)
}

func TestClient_MissingKeyIsProviderError(t *testing.T) {
	c := NewClient(Settings{EmbeddingModel: "e", GenerativeModel: "g", APIKeyEnv: "X"})

	_, err := c.API()
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestClient_Ready(t *testing.T) {
	c := NewClient(Settings{APIKey: "sk-x", EmbeddingModel: "e", GenerativeModel: "g", OrgID: "org", ProjectID: "p"})

	api, err := c.API()
	require.NoError(t, err)
	assert.NotNil(t, api)

	again, err := c.API()
	require.NoError(t, err)
	assert.Same(t, api, again)
}

func TestClient_WithTimeout(t *testing.T) {
	c := NewClient(Settings{Timeout: time.Second})
	ctx, cancel := c.WithTimeout(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)

	c = NewClient(Settings{})
	ctx, cancel = c.WithTimeout(context.Background())
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok)
}
