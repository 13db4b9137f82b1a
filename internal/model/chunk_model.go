package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Chunk rows are created by cmd/migrate so the vector dimension stays
// configurable; the gorm tags here only describe the existing schema.
type Chunk struct {
	Id         string            `gorm:"type:text;primaryKey"`
	ParentId   string            `gorm:"type:text;not null;index"`
	Title      string            `gorm:"type:text"`
	Content    string            `gorm:"type:text"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	Embedding  pgvector.Vector   `gorm:"type:vector"`
	ChunkIndex int               `gorm:"default:0"` // 0-based index for ordering
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
}

func (Chunk) TableName() string {
	return "chunks"
}
