package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-chatbot-be/pkg/rag"
)

func returnPolicyCandidate() *rag.Candidate {
	return &rag.Candidate{
		Id:         "doc-1_2",
		Title:      "Return_Policy.pdf",
		Score:      0.85,
		ChunkIndex: 2,
		Metadata:   map[string]interface{}{"chunk_index": 2},
	}
}

func TestNormalizeStripsInlineCitations(t *testing.T) {
	raw := "**Answer**\n\nReturns are accepted within 30 days [Source: Return_Policy.pdf]."

	out := Normalize(raw, []*rag.Candidate{returnPolicyCandidate()})

	assert.NotContains(t, strings.TrimSuffix(out, "Sources: [Source: Return_Policy.pdf - chunk_2]"), "[Source:")
	assert.True(t, strings.HasPrefix(out, "**Answer**"))
}

func TestNormalizeSingleSourcesFooter(t *testing.T) {
	raw := "**Answer**\n\nReturns are accepted within 30 days.\n\nSources: [Source: Stale.pdf - chunk_9]"

	out := Normalize(raw, []*rag.Candidate{returnPolicyCandidate()})

	require.Equal(t, 1, strings.Count(out, "Sources:"))
	assert.Contains(t, out, "Sources: [Source: Return_Policy.pdf - chunk_2]")
	assert.NotContains(t, out, "Stale.pdf")
}

func TestNormalizeScenarioReturnPolicy(t *testing.T) {
	raw := "The return policy allows refunds within 30 days of purchase."

	out := Normalize(raw, []*rag.Candidate{returnPolicyCandidate()})

	assert.True(t, strings.HasPrefix(out, "**Answer**"))
	assert.Equal(t, 1, strings.Count(out, "Sources: [Source: Return_Policy.pdf - chunk_2]"))
	assert.True(t, strings.HasSuffix(out, "Sources: [Source: Return_Policy.pdf - chunk_2]"))
}

func TestNormalizeRepairsMalformedPrefix(t *testing.T) {
	tests := []string{
		"|AnswerReturns take 30 days.",
		"Answer: Returns take 30 days.",
		"**Answer** Returns take 30 days.",
		"answer - Returns take 30 days.",
	}

	for _, raw := range tests {
		out := Normalize(raw, nil)
		assert.True(t, strings.HasPrefix(out, "**Answer**"), raw)
		assert.Contains(t, out, "Returns take 30 days.", raw)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := "Refunds are processed in 5 days [Source: Policy.pdf]."
	sources := []*rag.Candidate{returnPolicyCandidate()}

	once := Normalize(raw, sources)
	twice := Normalize(once, sources)
	assert.Equal(t, once, twice)
}

func TestNormalizeCompactsBlankLines(t *testing.T) {
	raw := "**Answer**\n\n\n\n\nFirst point.\n\n\n\nSecond point."

	out := Normalize(raw, nil)
	assert.NotContains(t, out, "\n\n\n")
	assert.Contains(t, out, "First point.")
	assert.Contains(t, out, "Second point.")
}

func TestNormalizeStripsInvisibleCharacters(t *testing.T) {
	raw := "\uFEFF**Answer**\n\nRefunds​ take 5 days."

	out := Normalize(raw, nil)
	assert.NotContains(t, out, "\uFEFF")
	assert.NotContains(t, out, "​")
	assert.Contains(t, out, "Refunds take 5 days.")
}

func TestNormalizeEmptyInput(t *testing.T) {
	assert.Equal(t, "", Normalize("", []*rag.Candidate{returnPolicyCandidate()}))
}

func TestBuildSourcesFooterDedupesByChunk(t *testing.T) {
	chunk2 := returnPolicyCandidate()
	chunk5 := &rag.Candidate{Id: "doc-2_5", Title: "FAQ.docx", ChunkIndex: 5}

	footer := BuildSourcesFooter([]*rag.Candidate{chunk2, chunk5, chunk2})
	assert.Equal(t, "Sources: [Source: Return_Policy.pdf - chunk_2], [Source: FAQ.docx - chunk_5]", footer)
}

func TestBuildSourcesFooterUsesPageNumber(t *testing.T) {
	c := &rag.Candidate{
		Id:         "doc-3_0",
		Title:      "Manual.pdf",
		ChunkIndex: 0,
		Metadata:   map[string]interface{}{"page_number": float64(12)},
	}

	footer := BuildSourcesFooter([]*rag.Candidate{c})
	assert.Equal(t, "Sources: [Source: Manual.pdf - page_12]", footer)
}

func TestBuildSourcesFooterEmpty(t *testing.T) {
	assert.Equal(t, "", BuildSourcesFooter(nil))
}

func TestIsNoInfoResponse(t *testing.T) {
	assert.True(t, IsNoInfoResponse(""))
	assert.True(t, IsNoInfoResponse("I cannot find this information in the available documents."))
	assert.True(t, IsNoInfoResponse("That detail is not available in the provided context."))
	assert.False(t, IsNoInfoResponse("Returns are accepted within 30 days."))
}
