package mapper

import (
	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(e *model.Chunk) *entity.Chunk {
	if e == nil {
		return nil
	}

	return &entity.Chunk{
		Id:         e.Id,
		ParentId:   e.ParentId,
		Title:      e.Title,
		Content:    e.Content,
		Embedding:  e.Embedding.Slice(),
		Metadata:   map[string]interface{}(e.Metadata),
		ChunkIndex: e.ChunkIndex,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChunkMapper) ToModel(e *entity.Chunk) *model.Chunk {
	if e == nil {
		return nil
	}

	return &model.Chunk{
		Id:         e.Id,
		ParentId:   e.ParentId,
		Title:      e.Title,
		Content:    e.Content,
		Metadata:   datatypes.JSONMap(e.Metadata),
		Embedding:  pgvector.NewVector(e.Embedding),
		ChunkIndex: e.ChunkIndex,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChunkMapper) ToEntities(chunks []*model.Chunk) []*entity.Chunk {
	entities := make([]*entity.Chunk, len(chunks))
	for i, e := range chunks {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *ChunkMapper) ToModels(chunks []*entity.Chunk) []*model.Chunk {
	models := make([]*model.Chunk, len(chunks))
	for i, e := range chunks {
		models[i] = m.ToModel(e)
	}
	return models
}
