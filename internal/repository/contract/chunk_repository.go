package contract

import (
	"context"

	"rag-chatbot-be/internal/entity"
)

// ScoredChunk wraps a Chunk with its combined retrieval score
type ScoredChunk struct {
	Chunk *entity.Chunk
	Score float64 // 0.0 to 1.0 (1.0 = best match)
}

// ParentGroup is an aggregate of all chunks sharing one parent document.
type ParentGroup struct {
	ParentId   string
	Title      string
	ChunkCount int64
}

type ChunkRepository interface {
	UpsertBulk(ctx context.Context, chunks []*entity.Chunk) error
	DeleteByParentId(ctx context.Context, parentId string) (int64, error)
	// HybridSearch blends lexical rank with vector similarity. A nil
	// queryVector degrades to lexical-only; an empty queryText to vector-only.
	HybridSearch(ctx context.Context, queryText string, queryVector []float32, topK int) ([]*ScoredChunk, error)
	ListGroupedByParent(ctx context.Context) ([]*ParentGroup, error)
	CountChunks(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
