package rag

import (
	"context"

	"rag-chatbot-be/internal/pkg/apperrors"
	"rag-chatbot-be/internal/repository/contract"
)

const excerptLength = 300

// Retriever turns hybrid search rows into scored candidates.
type Retriever struct {
	repo contract.ChunkRepository
}

func NewRetriever(repo contract.ChunkRepository) *Retriever {
	return &Retriever{repo: repo}
}

func (r *Retriever) Retrieve(ctx context.Context, queryText string, queryVector []float32, topK int) ([]*Candidate, error) {
	scored, err := r.repo.HybridSearch(ctx, queryText, queryVector, topK)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindRetrievalUnavailable, "retrieval backend is unavailable", err)
	}

	candidates := make([]*Candidate, len(scored))
	for i, s := range scored {
		candidates[i] = &Candidate{
			Id:         s.Chunk.Id,
			Title:      s.Chunk.Title,
			Content:    s.Chunk.Content,
			Excerpt:    buildExcerpt(s.Chunk.Content),
			Score:      s.Score,
			ChunkIndex: s.Chunk.ChunkIndex,
			Metadata:   s.Chunk.Metadata,
		}
	}
	return candidates, nil
}

func buildExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength])
}
