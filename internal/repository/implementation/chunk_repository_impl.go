package implementation

import (
	"context"
	"fmt"

	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/mapper"
	"rag-chatbot-be/internal/model"
	"rag-chatbot-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Weights for blending vector similarity with lexical rank. ts_rank is
// unbounded so it is squashed to (0,1) with r/(r+1) before mixing.
const (
	vectorWeight  = 0.6
	lexicalWeight = 0.4
)

type ChunkRepositoryImpl struct {
	db                 *gorm.DB
	mapper             *mapper.ChunkMapper
	useSemanticRanking bool
}

func NewChunkRepository(db *gorm.DB, useSemanticRanking bool) contract.ChunkRepository {
	return &ChunkRepositoryImpl{
		db:                 db,
		mapper:             mapper.NewChunkMapper(),
		useSemanticRanking: useSemanticRanking,
	}
}

func (r *ChunkRepositoryImpl) UpsertBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.Chunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	// Re-uploading the same document replaces its chunks in place.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		CreateInBatches(models, 100).Error
}

func (r *ChunkRepositoryImpl) DeleteByParentId(ctx context.Context, parentId string) (int64, error) {
	res := r.db.WithContext(ctx).Where("parent_id = ?", parentId).Delete(&model.Chunk{})
	return res.RowsAffected, res.Error
}

type scoredRow struct {
	model.Chunk
	Score float64
}

func (r *ChunkRepositoryImpl) HybridSearch(ctx context.Context, queryText string, queryVector []float32, topK int) ([]*contract.ScoredChunk, error) {
	if topK <= 0 {
		topK = 5
	}

	switch {
	case len(queryVector) == 0 && queryText == "":
		return nil, fmt.Errorf("hybrid search requires a query text or a query vector")
	case len(queryVector) == 0:
		return r.lexicalSearch(ctx, queryText, topK)
	case queryText == "":
		return r.vectorSearch(ctx, queryVector, topK)
	}

	rankFn := "ts_rank"
	if r.useSemanticRanking {
		// ts_rank_cd weighs term proximity; fall back to plain ranking
		// when the server rejects it (e.g. stripped tsvector builds).
		rankFn = "ts_rank_cd"
	}

	rows, err := r.hybridQuery(ctx, rankFn, queryText, queryVector, topK)
	if err != nil && rankFn == "ts_rank_cd" {
		rows, err = r.hybridQuery(ctx, "ts_rank", queryText, queryVector, topK)
	}
	if err != nil {
		return nil, err
	}
	return r.toScored(rows), nil
}

func (r *ChunkRepositoryImpl) hybridQuery(ctx context.Context, rankFn, queryText string, queryVector []float32, topK int) ([]scoredRow, error) {
	vec := pgvector.NewVector(queryVector)
	rank := fmt.Sprintf("%s(to_tsvector('english', content), websearch_to_tsquery('english', ?))", rankFn)

	var rows []scoredRow
	err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT chunks.*,
		       (? * (1 - (embedding <=> ?)) + ? * (%s / (%s + 1))) AS score
		FROM chunks
		ORDER BY score DESC
		LIMIT ?`, rank, rank),
		vectorWeight, vec, lexicalWeight, queryText, queryText, topK,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ChunkRepositoryImpl) lexicalSearch(ctx context.Context, queryText string, topK int) ([]*contract.ScoredChunk, error) {
	var rows []scoredRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT chunks.*,
		       (ts_rank(to_tsvector('english', content), websearch_to_tsquery('english', ?)) /
		        (ts_rank(to_tsvector('english', content), websearch_to_tsquery('english', ?)) + 1)) AS score
		FROM chunks
		WHERE to_tsvector('english', content) @@ websearch_to_tsquery('english', ?)
		ORDER BY score DESC
		LIMIT ?`,
		queryText, queryText, queryText, topK,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.toScored(rows), nil
}

func (r *ChunkRepositoryImpl) vectorSearch(ctx context.Context, queryVector []float32, topK int) ([]*contract.ScoredChunk, error) {
	vec := pgvector.NewVector(queryVector)
	var rows []scoredRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT chunks.*, (1 - (embedding <=> ?)) AS score
		FROM chunks
		ORDER BY score DESC
		LIMIT ?`,
		vec, topK,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.toScored(rows), nil
}

func (r *ChunkRepositoryImpl) toScored(rows []scoredRow) []*contract.ScoredChunk {
	scored := make([]*contract.ScoredChunk, len(rows))
	for i := range rows {
		scored[i] = &contract.ScoredChunk{
			Chunk: r.mapper.ToEntity(&rows[i].Chunk),
			Score: rows[i].Score,
		}
	}
	return scored
}

func (r *ChunkRepositoryImpl) ListGroupedByParent(ctx context.Context) ([]*contract.ParentGroup, error) {
	var groups []*contract.ParentGroup
	err := r.db.WithContext(ctx).
		Table("chunks").
		Select("parent_id, max(title) AS title, count(*) AS chunk_count").
		Group("parent_id").
		Order("parent_id").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *ChunkRepositoryImpl) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Chunk{}).Count(&count).Error
	return count, err
}

func (r *ChunkRepositoryImpl) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
