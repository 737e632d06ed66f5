package chromemdb

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"study-assistant/internal/embedding"
	"study-assistant/internal/models"
)

const (
	DefaultTopK = 4

	metaChunkID  = "chunk_id"
	metaDocument = "document"
)

// VectorDBManager keeps one in-memory chromem collection per document, named by the
// document key. A collection is built the first time a document is searched and reused until
// Forget is called for its key.
type VectorDBManager struct {
	db       *chromem.DB
	embedder embeddings.Embedder
	topK     int
}

func NewVectorDBManager(embedder embeddings.Embedder, topK int) *VectorDBManager {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &VectorDBManager{
		db:       chromem.NewDB(),
		embedder: embedder,
		topK:     topK,
	}
}

func (m *VectorDBManager) TopK() int { return m.topK }

// embeddingFunc lets chromem embed text queries with the same embedder as the documents.
func (m *VectorDBManager) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embedding.GenerateQueryEmbedding(ctx, m.embedder, text)
	}
}

// Has reports whether an index for key is ready.
func (m *VectorDBManager) Has(key string) bool {
	c := m.db.GetCollection(key, nil)
	return c != nil && c.Count() > 0
}

// GetOrCreateCollection returns the collection for doc, embedding all chunks in one batch
// when it does not exist yet (or is incomplete).
func (m *VectorDBManager) GetOrCreateCollection(ctx context.Context, doc *models.Document) (*chromem.Collection, error) {
	if doc == nil || doc.Key == "" {
		return nil, fmt.Errorf("document key is required")
	}
	if c := m.db.GetCollection(doc.Key, m.embeddingFunc()); c != nil && c.Count() == len(doc.Chunks) {
		log.Debug().Str("document", doc.Name).Str("key", doc.Key).Msg("Reusing vector index")
		return c, nil
	}

	vectors, err := embedding.GenerateEmbeddings(ctx, m.embedder, doc.Chunks)
	if err != nil {
		return nil, err
	}

	c, err := m.db.GetOrCreateCollection(doc.Key, map[string]string{metaDocument: doc.Name}, m.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}

	docs := make([]chromem.Document, len(doc.Chunks))
	for i, chunk := range doc.Chunks {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("%s-%d", doc.Key, chunk.ChunkID),
			Content:   chunk.Content,
			Metadata:  map[string]string{metaChunkID: strconv.Itoa(chunk.ChunkID), metaDocument: doc.Name},
			Embedding: vectors[i],
		}
	}
	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		_ = m.db.DeleteCollection(doc.Key)
		return nil, fmt.Errorf("failed to add documents: %w", err)
	}

	log.Info().Str("document", doc.Name).Int("chunks", len(docs)).Msg("Built vector index")
	return c, nil
}

// Search returns the top-k chunks of doc most similar to query, best first.
func (m *VectorDBManager) Search(ctx context.Context, doc *models.Document, query string) ([]models.Chunk, error) {
	if len(doc.Chunks) == 0 {
		return nil, nil
	}
	c, err := m.GetOrCreateCollection(ctx, doc)
	if err != nil {
		return nil, err
	}

	queryEmbedding, err := embedding.GenerateQueryEmbedding(ctx, m.embedder, query)
	if err != nil {
		return nil, err
	}

	results, err := m.SearchWithQueryOptions(ctx, c, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       min(m.topK, c.Count()),
	})
	if err != nil {
		return nil, err
	}

	chunks := make([]models.Chunk, 0, len(results))
	for _, r := range results {
		id, _ := strconv.Atoi(r.Metadata[metaChunkID])
		chunks = append(chunks, models.Chunk{ChunkID: id, Content: r.Content})
	}
	return chunks, nil
}

// SearchWithQueryOptions runs a similarity query against c.
func (m *VectorDBManager) SearchWithQueryOptions(ctx context.Context, c *chromem.Collection, opts chromem.QueryOptions) ([]chromem.Result, error) {
	if opts.QueryText == "" && opts.QueryEmbedding == nil {
		return nil, fmt.Errorf("either query or embedding must be provided")
	}

	results, err := c.QueryWithOptions(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}
	return results, nil
}

// Forget drops the index for key. Called when a session replaces its document.
func (m *VectorDBManager) Forget(key string) error {
	if key == "" || m.db.GetCollection(key, nil) == nil {
		return nil
	}
	if err := m.db.DeleteCollection(key); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	log.Debug().Str("key", key).Msg("Dropped vector index")
	return nil
}
