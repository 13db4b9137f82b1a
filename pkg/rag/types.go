package rag

import (
	"fmt"
)

// Candidate is a retrieved chunk that survived (or is awaiting) relevance
// filtering, carried through prompting and citation building.
type Candidate struct {
	Id         string
	Title      string
	Content    string
	Excerpt    string
	Score      float64
	ChunkIndex int
	Metadata   map[string]interface{}
}

// PositionLabel renders the citation position for this candidate: the page
// number when extraction recorded one, the chunk ordinal otherwise.
func (c *Candidate) PositionLabel() string {
	if page, ok := coerceInt(c.Metadata["page_number"]); ok {
		return fmt.Sprintf("page_%d", page)
	}
	return fmt.Sprintf("chunk_%d", c.ChunkIndex)
}

func coerceInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case float32:
		return int(v), true
	}
	return 0, false
}
