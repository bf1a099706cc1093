package utils

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAIEmbeddingClient struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbeddingClient(apiKey, model string) *OpenAIEmbeddingClient {
	m := openai.SmallEmbedding3
	if model != "" {
		m = openai.EmbeddingModel(model)
	}
	return &OpenAIEmbeddingClient{client: openai.NewClient(apiKey), model: m}
}

func (c *OpenAIEmbeddingClient) Model() string { return string(c.model) }

func (c *OpenAIEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.model,
	})
	if err != nil {
		return pgvector.Vector{}, err
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, errors.New("openai: empty embedding response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}
