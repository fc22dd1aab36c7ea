// Package embeddings turns product records into vectors and pushes them into
// the vector store.
package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const embeddingModel = openai.SmallEmbedding3

type Client struct {
	api *openai.Client
}

func NewClient(api *openai.Client) *Client {
	return &Client{api: api}
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: embeddingModel,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding: empty response")
	}
	return resp.Data[0].Embedding, nil
}
