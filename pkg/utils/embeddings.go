package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingClientInterface turns post text into a vector for similarity search.
type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	Model() string
}

// NewEmbeddingClient builds the client for provider ("openai" or "gemini").
func NewEmbeddingClient(ctx context.Context, provider, apiKey, model string) (EmbeddingClientInterface, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("missing api key for embedding provider %q", provider)
	}
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIEmbeddingClient(apiKey, model), nil
	case "gemini":
		return NewGeminiEmbeddingClient(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
