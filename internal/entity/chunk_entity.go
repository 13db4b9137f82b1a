package entity

import "time"

// Chunk is a retrievable slice of an uploaded document. Id is derived from
// the parent document id plus the chunk ordinal, e.g. "doc-123_2".
type Chunk struct {
	Id         string
	ParentId   string
	Title      string
	Content    string
	Embedding  []float32
	Metadata   map[string]interface{}
	ChunkIndex int
	CreatedAt  time.Time
}
