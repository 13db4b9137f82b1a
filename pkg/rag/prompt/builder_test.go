package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rag-chatbot-be/pkg/rag"
)

func TestStrictBuilderIncludesContextAndQuestion(t *testing.T) {
	candidates := []*rag.Candidate{
		{
			Id:         "doc-1_2",
			Title:      "Return_Policy.pdf",
			Content:    "Returns are accepted within 30 days.",
			ChunkIndex: 2,
			Metadata:   map[string]interface{}{"chunk_index": 2},
		},
		{
			Id:         "doc-2_0",
			Title:      "Shipping.pdf",
			Content:    "Shipping takes 3-5 business days.",
			ChunkIndex: 0,
		},
	}

	out := NewStrictBuilder("What is our return policy?", candidates).Build()

	assert.Contains(t, out, "CRITICAL RULES:")
	assert.Contains(t, out, "[1] Document ID: doc-1_2")
	assert.Contains(t, out, "Title: Return_Policy.pdf")
	assert.Contains(t, out, "Position: chunk_2")
	assert.Contains(t, out, "[2] Document ID: doc-2_0")
	assert.Contains(t, out, "Returns are accepted within 30 days.")
	assert.Contains(t, out, "Question: What is our return policy?")
}

func TestStrictBuilderOrdersCandidatesByRank(t *testing.T) {
	candidates := []*rag.Candidate{
		{Id: "first", Title: "A", Content: "alpha"},
		{Id: "second", Title: "B", Content: "beta"},
	}

	out := NewStrictBuilder("q", candidates).Build()
	assert.Less(t, strings.Index(out, "[1] Document ID: first"), strings.Index(out, "[2] Document ID: second"))
}

func TestStrictBuilderFallsBackToIdForTitle(t *testing.T) {
	out := NewStrictBuilder("q", []*rag.Candidate{{Id: "doc-9_0", Content: "text"}}).Build()
	assert.Contains(t, out, "Title: doc-9_0")
}

func TestStrictBuilderForbidsOutsideKnowledge(t *testing.T) {
	out := NewStrictBuilder("q", nil).Build()
	assert.Contains(t, out, "NEVER use your general knowledge")
	assert.Contains(t, out, "Answer ONLY from the context above")
}
