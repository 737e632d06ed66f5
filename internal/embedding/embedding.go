package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"study-assistant/internal/config"
	"study-assistant/internal/models"
)

// NewEmbedder creates the embedder for the configured provider.
func NewEmbedder(ctx context.Context, llmConfig *config.LLMConfig) (embeddings.Embedder, error) {
	log.Debug().Interface("config", map[string]string{
		"provider":        llmConfig.Provider,
		"base_url":        llmConfig.BaseURL,
		"embedding_model": llmConfig.Model,
	}).Msg("Creating embedder")

	var (
		client embeddings.EmbedderClient
		err    error
	)
	switch llmConfig.Provider {
	case config.ProviderGoogleAI, "":
		client, err = googleai.New(ctx,
			googleai.WithAPIKey(llmConfig.Key),
			googleai.WithDefaultEmbeddingModel(llmConfig.Model),
		)
	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithEmbeddingModel(llmConfig.Model),
		}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		client, err = openai.New(opts...)
	case config.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(llmConfig.Model)}
		if llmConfig.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(llmConfig.BaseURL))
		}
		client, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q", llmConfig.Provider)
	}
	if err != nil {
		return nil, &models.GenerationError{Op: "create embedder", Err: err}
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, &models.GenerationError{Op: "create embedder", Err: err}
	}
	return embedder, nil
}

// GenerateEmbeddings embeds all chunks in one batched call, returning one vector per chunk.
func GenerateEmbeddings(ctx context.Context, embedder embeddings.Embedder, chunks []models.Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		log.Info().Msg("No chunks to embed")
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, &models.GenerationError{Op: "embed documents", Err: err}
	}
	if len(vectors) != len(chunks) {
		return nil, &models.GenerationError{
			Op:  "embed documents",
			Err: fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks)),
		}
	}
	return vectors, nil
}

// GenerateQueryEmbedding embeds a single query string.
func GenerateQueryEmbedding(ctx context.Context, embedder embeddings.Embedder, query string) ([]float32, error) {
	vector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, &models.GenerationError{Op: "embed query", Err: err}
	}
	if len(vector) == 0 {
		return nil, &models.GenerationError{Op: "embed query", Err: fmt.Errorf("empty vector")}
	}
	return vector, nil
}
