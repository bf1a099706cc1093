package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadAppliesYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blogpress.yaml")
	yamlDoc := `
server:
  port: "9000"
auth:
  jwtSecret: from-file
  tokenTtl: 30m
notifications:
  webhookUrl: https://hooks.example.com/feedback
  maxAttempts: 3
storage:
  bucket: covers
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("NOTIFY_MAX_ATTEMPTS", "7")
	t.Setenv("S3_BUCKET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "https://hooks.example.com/feedback", cfg.Notifications.WebhookURL)
	assert.Equal(t, 7, cfg.Notifications.MaxAttempts, "env wins over yaml")
	assert.Equal(t, "covers", cfg.Storage.Bucket)
	// untouched defaults survive a partial file
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 20, cfg.Notifications.BatchSize)
}

func TestLoadRejectsUnknownEmbeddingProvider(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("EMBEDDING_PROVIDER", "cohere")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMBEDDING_PROVIDER")
}

func TestLoadPicksProviderKey(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("EMBEDDING_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Embeddings.Provider)
	assert.Equal(t, "g-key", cfg.Embeddings.APIKey)
}

func TestStorageEnabled(t *testing.T) {
	assert.False(t, StorageConfig{Bucket: "blog-images"}.Enabled())
	assert.True(t, StorageConfig{Bucket: "blog-images", Region: "eu-west-1"}.Enabled())
	assert.True(t, StorageConfig{Bucket: "blog-images", Endpoint: "http://minio:9000"}.Enabled())
}
