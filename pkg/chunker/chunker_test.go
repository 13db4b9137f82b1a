package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-chatbot-be/internal/pkg/apperrors"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%c", 'a'+rune(i%26))
	}
	return strings.Join(parts, " ")
}

func TestChunkDocumentSingleChunk(t *testing.T) {
	text := words(400)

	chunks, err := ChunkDocument(text, "policy.txt", "doc-1", 500)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "doc-1_0", chunks[0].Id)
	assert.Equal(t, "doc-1", chunks[0].ParentId)
	assert.Equal(t, text, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, "policy.txt", chunks[0].Metadata["filename"])
	assert.Equal(t, 0, chunks[0].Metadata["chunk_index"])
}

func TestChunkDocumentSplitsAtWordLimit(t *testing.T) {
	text := words(1200)

	chunks, err := ChunkDocument(text, "policy.txt", "doc-1", 500)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, 500, len(strings.Fields(chunks[0].Content)))
	assert.Equal(t, 500, len(strings.Fields(chunks[1].Content)))
	assert.Equal(t, 200, len(strings.Fields(chunks[2].Content)))

	joined := strings.Join([]string{chunks[0].Content, chunks[1].Content, chunks[2].Content}, " ")
	assert.Equal(t, text, joined)

	for i, c := range chunks {
		assert.Equal(t, fmt.Sprintf("doc-1_%d", i), c.Id)
		assert.Equal(t, i, c.ChunkIndex)
	}
}

func TestChunkDocumentHeadingDoesNotSplit(t *testing.T) {
	text := words(40) + "\nRETURNS AND REFUNDS\n" + words(37)

	chunks, err := ChunkDocument(text, "policy.txt", "doc-1", 500)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "RETURNS AND REFUNDS", chunks[0].Metadata["section"])
	assert.Contains(t, chunks[0].Content, "RETURNS AND REFUNDS")
}

func TestChunkDocumentSectionTagCarriesAcrossSplits(t *testing.T) {
	text := "INTRODUCTION\n" + words(10) + "\nRETURNS AND REFUNDS\n" + words(30)

	chunks, err := ChunkDocument(text, "policy.txt", "doc-1", 25)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	for _, c := range chunks {
		assert.Equal(t, "RETURNS AND REFUNDS", c.Metadata["section"])
	}
}

func TestChunkDocumentEmptyText(t *testing.T) {
	_, err := ChunkDocument("   \n\t ", "policy.txt", "doc-1", 500)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestHeadingDetection(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"CHAPTER ONE", true},
		{"Section 4.2 Returns", true},
		{"1.2 Eligibility", true},
		{"RETURNS AND REFUNDS", true},
		{"- bullet item", false},
		{"• bullet item", false},
		{"a plain sentence about returns", false},
		{strings.Repeat("LONG ", 40), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isHeading(tt.line), tt.line)
	}
}
