package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByRelevanceThreshold(t *testing.T) {
	candidates := []*Candidate{
		{Id: "a", Score: 0.9},
		{Id: "b", Score: 0.69},
		{Id: "c", Score: 0.7},
		{Id: "d", Score: 0.3},
	}

	filtered := FilterByRelevance(candidates, 0.7)
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Id)
	assert.Equal(t, "c", filtered[1].Id)
}

func TestFilterByRelevanceSortsDescending(t *testing.T) {
	candidates := []*Candidate{
		{Id: "low", Score: 0.71},
		{Id: "high", Score: 0.95},
		{Id: "mid", Score: 0.8},
	}

	filtered := FilterByRelevance(candidates, 0.7)
	require.Len(t, filtered, 3)
	assert.Equal(t, []string{"high", "mid", "low"}, []string{filtered[0].Id, filtered[1].Id, filtered[2].Id})
}

func TestFilterByRelevanceStableOnTies(t *testing.T) {
	candidates := []*Candidate{
		{Id: "first", Score: 0.8},
		{Id: "second", Score: 0.8},
		{Id: "third", Score: 0.8},
	}

	filtered := FilterByRelevance(candidates, 0.7)
	require.Len(t, filtered, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{filtered[0].Id, filtered[1].Id, filtered[2].Id})
}

func TestFilterByRelevanceEmpty(t *testing.T) {
	filtered := FilterByRelevance(nil, 0.7)
	assert.Empty(t, filtered)

	filtered = FilterByRelevance([]*Candidate{{Id: "a", Score: 0.1}}, 0.7)
	assert.Empty(t, filtered)
}

func TestCandidatePositionLabel(t *testing.T) {
	withPage := &Candidate{ChunkIndex: 4, Metadata: map[string]interface{}{"page_number": float64(7)}}
	assert.Equal(t, "page_7", withPage.PositionLabel())

	withoutPage := &Candidate{ChunkIndex: 2, Metadata: map[string]interface{}{}}
	assert.Equal(t, "chunk_2", withoutPage.PositionLabel())

	nilMeta := &Candidate{ChunkIndex: 0}
	assert.Equal(t, "chunk_0", nilMeta.PositionLabel())
}
