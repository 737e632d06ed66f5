package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-assistant/internal/config"
	"study-assistant/internal/models"
)

type stubEmbedder struct {
	docs  [][]float32
	query []float32
	err   error
	texts []string
}

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	s.texts = texts
	return s.docs, s.err
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.query, s.err
}

func TestGenerateEmbeddings(t *testing.T) {
	stub := &stubEmbedder{docs: [][]float32{{1, 0}, {0, 1}}}
	chunks := []models.Chunk{{ChunkID: 1, Content: "a"}, {ChunkID: 2, Content: "b"}}

	vectors, err := GenerateEmbeddings(context.Background(), stub, chunks)
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
	assert.Equal(t, []string{"a", "b"}, stub.texts)
}

func TestGenerateEmbeddings_Empty(t *testing.T) {
	vectors, err := GenerateEmbeddings(context.Background(), &stubEmbedder{}, nil)
	assert.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestGenerateEmbeddings_Errors(t *testing.T) {
	chunks := []models.Chunk{{ChunkID: 1, Content: "a"}}

	_, err := GenerateEmbeddings(context.Background(), &stubEmbedder{err: errors.New("invalid key")}, chunks)
	assert.True(t, models.IsGeneration(err))

	_, err = GenerateEmbeddings(context.Background(), &stubEmbedder{docs: [][]float32{{1}, {2}}}, chunks)
	assert.ErrorContains(t, err, "got 2 vectors for 1 chunks")
}

func TestGenerateQueryEmbedding(t *testing.T) {
	v, err := GenerateQueryEmbedding(context.Background(), &stubEmbedder{query: []float32{0.5}}, "q")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, v)

	_, err = GenerateQueryEmbedding(context.Background(), &stubEmbedder{}, "q")
	assert.True(t, models.IsGeneration(err))
}

func TestNewEmbedder_UnsupportedProvider(t *testing.T) {
	_, err := NewEmbedder(context.Background(), &config.LLMConfig{Provider: "bard"})
	assert.ErrorContains(t, err, "unsupported provider")
}
