package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-chatbot-be/internal/dto"
	"rag-chatbot-be/internal/pkg/apperrors"
	"rag-chatbot-be/internal/repository/contract"
	"rag-chatbot-be/pkg/extractor"
)

type fakePublisher struct {
	published        []dto.DocumentIndexedMessage
	publishedDeletes []dto.DocumentDeletedMessage
}

func (f *fakePublisher) PublishDocumentIndexed(ctx context.Context, msg dto.DocumentIndexedMessage) error {
	f.published = append(f.published, msg)
	return nil
}

func (f *fakePublisher) PublishDocumentDeleted(ctx context.Context, msg dto.DocumentDeletedMessage) error {
	f.publishedDeletes = append(f.publishedDeletes, msg)
	return nil
}

func newTestDocumentService(repo *fakeChunkRepo, embedder *fakeEmbedder, pub *fakePublisher) IDocumentService {
	return NewDocumentService(
		repo,
		extractor.NewService(nil),
		embedder,
		pub,
		nopLogger{},
		1024*1024,
		500,
	)
}

func manyWords(n int) []byte {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "refund"
	}
	return []byte(strings.Join(parts, " "))
}

func TestIngestChunksAndIndexes(t *testing.T) {
	repo := &fakeChunkRepo{}
	pub := &fakePublisher{}

	res, err := newTestDocumentService(repo, &fakeEmbedder{}, pub).Ingest(context.Background(), "Return Policy.txt", manyWords(1000))
	require.NoError(t, err)

	assert.Equal(t, "Return_Policy.txt", res.Id)
	assert.Equal(t, "Return Policy.txt", res.Title)
	assert.Equal(t, 2, res.ChunkCount)

	require.Len(t, repo.upserted, 1)
	chunks := repo.upserted[0]
	require.Len(t, chunks, 2)
	assert.Equal(t, "Return_Policy.txt_0", chunks[0].Id)
	assert.Equal(t, "Return_Policy.txt_1", chunks[1].Id)
	assert.Equal(t, chunks[0].ParentId, chunks[1].ParentId)

	for _, c := range chunks {
		assert.Len(t, c.Embedding, 3)
		assert.NotEmpty(t, c.Metadata["uploaded_at"])
	}

	require.Len(t, pub.published, 1)
	assert.Equal(t, "Return_Policy.txt", pub.published[0].ParentId)
	assert.Equal(t, 2, pub.published[0].ChunkCount)
}

func TestIngestReplacesShrunkenDocument(t *testing.T) {
	repo := &fakeChunkRepo{}
	svc := newTestDocumentService(repo, &fakeEmbedder{}, &fakePublisher{})

	res, err := svc.Ingest(context.Background(), "doc.txt", manyWords(1000))
	require.NoError(t, err)
	assert.Equal(t, 2, res.ChunkCount)

	res, err = svc.Ingest(context.Background(), "doc.txt", manyWords(200))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ChunkCount)

	// Old chunks are cleared before each index write, so the shortened
	// re-upload leaves no stale higher-ordinal chunks behind.
	assert.Equal(t, []string{"delete:doc.txt", "upsert", "delete:doc.txt", "upsert"}, repo.ops)
	require.Len(t, repo.upserted, 2)
	assert.Len(t, repo.upserted[1], 1)
	assert.Equal(t, "doc.txt_0", repo.upserted[1][0].Id)
}

func TestIngestRejectsOversizedFile(t *testing.T) {
	repo := &fakeChunkRepo{}

	svc := NewDocumentService(repo, extractor.NewService(nil), &fakeEmbedder{}, &fakePublisher{}, nopLogger{}, 10, 500)
	_, err := svc.Ingest(context.Background(), "big.txt", []byte("this file is larger than ten bytes"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSizeLimit))
	assert.Empty(t, repo.upserted)
}

func TestIngestRejectsUnsupportedType(t *testing.T) {
	repo := &fakeChunkRepo{}

	_, err := newTestDocumentService(repo, &fakeEmbedder{}, &fakePublisher{}).Ingest(context.Background(), "photo.png", []byte("binary"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestIngestRejectsEmptyFile(t *testing.T) {
	repo := &fakeChunkRepo{}

	_, err := newTestDocumentService(repo, &fakeEmbedder{}, &fakePublisher{}).Ingest(context.Background(), "empty.txt", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestIngestEmbeddingFailureSkipsIndexing(t *testing.T) {
	repo := &fakeChunkRepo{}
	embedder := &fakeEmbedder{err: apperrors.New(apperrors.KindConfigurationConflict, "embedding dimension mismatch: expected 1536, got 8")}

	_, err := newTestDocumentService(repo, embedder, &fakePublisher{}).Ingest(context.Background(), "doc.txt", manyWords(10))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConfigurationConflict))
	assert.Empty(t, repo.upserted)
}

func TestListGroupsByParent(t *testing.T) {
	repo := &fakeChunkRepo{groups: []*contract.ParentGroup{
		{ParentId: "a.txt", Title: "a.txt", ChunkCount: 2},
		{ParentId: "b.pdf", Title: "b.pdf", ChunkCount: 5},
	}}

	res, err := newTestDocumentService(repo, &fakeEmbedder{}, &fakePublisher{}).List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "a.txt", res.Documents[0].Id)
	assert.Equal(t, int64(5), res.Documents[1].Metadata.ChunkCount)
}

func TestDeleteByParent(t *testing.T) {
	repo := &fakeChunkRepo{}
	pub := &fakePublisher{}

	res, err := newTestDocumentService(repo, &fakeEmbedder{}, pub).Delete(context.Background(), "a.txt")
	require.NoError(t, err)

	assert.Equal(t, "a.txt", res.Id)
	assert.Equal(t, int64(3), res.ChunksDeleted)
	assert.Equal(t, []string{"a.txt"}, repo.deleted)

	require.Len(t, pub.publishedDeletes, 1)
	assert.Equal(t, "a.txt", pub.publishedDeletes[0].ParentId)
	assert.Equal(t, int64(3), pub.publishedDeletes[0].ChunksDeleted)
}

func TestDeleteRequiresId(t *testing.T) {
	repo := &fakeChunkRepo{}

	_, err := newTestDocumentService(repo, &fakeEmbedder{}, &fakePublisher{}).Delete(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
