package rag

import (
	"context"
	"fmt"

	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/pkg/embedding"
	"maumjari-counsel-be/pkg/store"
)

// Config encapsulates search parameters
type Config struct {
	TopK      int
	Threshold float64
}

// DefaultConfig matches the chat path: two passages, no score floor.
func DefaultConfig() Config {
	return Config{TopK: 2, Threshold: 0.0}
}

// Retriever embeds a query and runs a vector search over knowledge chunks.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	chunks            contract.KnowledgeChunkRepository
	logger            logger.ILogger
}

func NewRetriever(embeddingProvider embedding.EmbeddingProvider, chunks contract.KnowledgeChunkRepository, log logger.ILogger) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		chunks:            chunks,
		logger:            log,
	}
}

// Search returns passages ordered by similarity, best first.
func (r *Retriever) Search(ctx context.Context, query string, cfg Config) ([]store.Document, error) {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}

	embeddingRes, err := r.embeddingProvider.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := r.chunks.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, cfg.TopK, cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	docs := make([]store.Document, 0, len(scored))
	for _, res := range scored {
		docs = append(docs, store.Document{
			ID:       res.Chunk.Id.String(),
			Source:   res.Chunk.Source,
			Page:     res.Chunk.Page,
			Content:  res.Chunk.Content,
			Score:    res.Similarity,
			Metadata: res.Chunk.Metadata,
		})
	}

	r.logger.Debug("Retriever", "Knowledge search finished", map[string]interface{}{
		"top_k":   cfg.TopK,
		"results": len(docs),
	})
	return docs, nil
}
