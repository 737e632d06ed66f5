package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"study-assistant/internal/chromemdb"
	"study-assistant/internal/llmservice"
	"study-assistant/internal/models"
	"study-assistant/internal/prompt"
)

// RAG answers questions about a document from the chunks most similar to the question.
type RAG struct {
	index *chromemdb.VectorDBManager
	llm   *llmservice.Client
}

func NewRAG(index *chromemdb.VectorDBManager, llm *llmservice.Client) *RAG {
	return &RAG{index: index, llm: llm}
}

// Query retrieves context for query from doc and asks the model. A failed embedding or
// generation call aborts the turn; no partial answer is returned.
func (r *RAG) Query(ctx context.Context, doc *models.Document, query string) (*models.PromptResponse, error) {
	if doc == nil {
		return nil, models.ErrNoDocument
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("question", "is required")
	}

	chunks, err := r.index.Search(ctx, doc, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	contexts := make([]string, len(chunks))
	for i, c := range chunks {
		contexts[i] = c.Content
	}
	log.Debug().Str("document", doc.Name).Int("chunks", len(chunks)).Msg("Retrieved context")

	answer, err := r.llm.Generate(ctx, prompt.Build(prompt.TaskChat, prompt.Params{
		Question: query,
		Context:  contexts,
	}))
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}

	return &models.PromptResponse{
		Query:   query,
		Source:  strings.Join(contexts, models.ContextSeparator),
		Content: answer,
		Sources: chunks,
	}, nil
}

// Forget drops the cached index of a document that is no longer in use.
func (r *RAG) Forget(key string) error {
	return r.index.Forget(key)
}
