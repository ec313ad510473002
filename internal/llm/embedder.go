package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// DefaultEmbeddingModel is used when no model is configured.
	DefaultEmbeddingModel = "text-embedding-3-small"
	// EmbeddingDimension is the fixed dimension of all content vectors. The
	// assets table declares vector(1536), so this must not change without a
	// migration.
	EmbeddingDimension = 1536
)

// Embedder converts text into fixed-dimension vectors via the OpenAI
// embeddings API.
type Embedder struct {
	client openai.Client
	model  string
}

// NewEmbedder creates an embedder. baseURL may be empty for the provider
// default; model may be empty for DefaultEmbeddingModel.
func NewEmbedder(apiKey, baseURL, model string) *Embedder {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}

	return &Embedder{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Embed generates the embedding for a single text. A provider failure is
// returned as-is; callers decide whether it is fatal.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Dimensions: openai.Int(int64(EmbeddingDimension)),
	})
	if err != nil {
		return nil, fmt.Errorf("generate embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

// ModelName returns the embedding model identifier.
func (e *Embedder) ModelName() string {
	return e.model
}
