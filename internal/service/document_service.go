package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"rag-chatbot-be/internal/dto"
	"rag-chatbot-be/internal/pkg/apperrors"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/internal/repository/contract"
	"rag-chatbot-be/pkg/chunker"
	"rag-chatbot-be/pkg/extractor"
)

const documentListCacheKey = "documents:list"

// Embedder is the slice of the embedding adapter the services need.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type IDocumentService interface {
	Ingest(ctx context.Context, filename string, fileBytes []byte) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context) (*dto.ListDocumentsResponse, error)
	Delete(ctx context.Context, parentId string) (*dto.DeleteDocumentResponse, error)
}

type documentService struct {
	repo           contract.ChunkRepository
	extractor      *extractor.Service
	embedder       Embedder
	publisher      IPublisherService
	logger         logger.ILogger
	cache          *gocache.Cache
	maxUploadBytes int64
	chunkSizeWords int
}

func NewDocumentService(
	repo contract.ChunkRepository,
	ex *extractor.Service,
	embedder Embedder,
	publisher IPublisherService,
	l logger.ILogger,
	maxUploadBytes int64,
	chunkSizeWords int,
) IDocumentService {
	return &documentService{
		repo:           repo,
		extractor:      ex,
		embedder:       embedder,
		publisher:      publisher,
		logger:         l,
		cache:          gocache.New(30*time.Second, time.Minute),
		maxUploadBytes: maxUploadBytes,
		chunkSizeWords: chunkSizeWords,
	}
}

func (s *documentService) Ingest(ctx context.Context, filename string, fileBytes []byte) (*dto.UploadDocumentResponse, error) {
	if len(fileBytes) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "uploaded file is empty")
	}
	if int64(len(fileBytes)) > s.maxUploadBytes {
		return nil, apperrors.New(apperrors.KindSizeLimit,
			fmt.Sprintf("file exceeds the %d byte upload limit", s.maxUploadBytes))
	}

	text, err := s.extractor.Extract(fileBytes, filename)
	if err != nil {
		return nil, err
	}

	parentId := deriveParentId(filename)
	chunks, err := chunker.ChunkDocument(text, filename, parentId, s.chunkSizeWords)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	uploadedAt := time.Now().UTC().Format(time.RFC3339)
	for i, c := range chunks {
		c.Embedding = vectors[i]
		c.Metadata["uploaded_at"] = uploadedAt
	}

	// Clear any previous version first so a shorter re-upload cannot leave
	// stale higher-ordinal chunks behind.
	if _, err := s.repo.DeleteByParentId(ctx, parentId); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to replace existing document chunks", err)
	}

	if err := s.repo.UpsertBulk(ctx, chunks); err != nil {
		if strings.Contains(err.Error(), "dimensions") {
			return nil, apperrors.Wrap(apperrors.KindConfigurationConflict,
				"index vector dimensionality does not match the embedding configuration", err)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to index document chunks", err)
	}

	s.cache.Delete(documentListCacheKey)

	// Downstream notification is best-effort; ingestion already succeeded.
	if err := s.publisher.PublishDocumentIndexed(ctx, dto.DocumentIndexedMessage{
		ParentId:   parentId,
		Filename:   filename,
		ChunkCount: len(chunks),
	}); err != nil {
		s.logger.Warn("document_service", "failed to publish indexed event", map[string]interface{}{
			"parent_id": parentId,
			"error":     err.Error(),
		})
	}

	s.logger.Info("document_service", "document indexed", map[string]interface{}{
		"parent_id":   parentId,
		"filename":    filename,
		"chunk_count": len(chunks),
	})

	return &dto.UploadDocumentResponse{
		Id:         parentId,
		Title:      filename,
		ChunkCount: len(chunks),
	}, nil
}

func (s *documentService) List(ctx context.Context) (*dto.ListDocumentsResponse, error) {
	if cached, found := s.cache.Get(documentListCacheKey); found {
		return cached.(*dto.ListDocumentsResponse), nil
	}

	groups, err := s.repo.ListGroupedByParent(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindRetrievalUnavailable, "failed to list documents", err)
	}

	documents := make([]dto.DocumentSummary, len(groups))
	for i, g := range groups {
		documents[i] = dto.DocumentSummary{
			Id:    g.ParentId,
			Title: g.Title,
			Metadata: dto.DocumentMetadata{
				ChunkCount: g.ChunkCount,
			},
		}
	}

	res := &dto.ListDocumentsResponse{
		Documents: documents,
		Count:     len(documents),
	}
	s.cache.Set(documentListCacheKey, res, gocache.DefaultExpiration)
	return res, nil
}

func (s *documentService) Delete(ctx context.Context, parentId string) (*dto.DeleteDocumentResponse, error) {
	if strings.TrimSpace(parentId) == "" {
		return nil, apperrors.New(apperrors.KindValidation, "document id is required")
	}

	deleted, err := s.repo.DeleteByParentId(ctx, parentId)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to delete document chunks", err)
	}

	s.cache.Delete(documentListCacheKey)

	if err := s.publisher.PublishDocumentDeleted(ctx, dto.DocumentDeletedMessage{
		ParentId:      parentId,
		ChunksDeleted: deleted,
	}); err != nil {
		s.logger.Warn("document_service", "failed to publish deleted event", map[string]interface{}{
			"parent_id": parentId,
			"error":     err.Error(),
		})
	}

	s.logger.Info("document_service", "document deleted", map[string]interface{}{
		"parent_id":      parentId,
		"chunks_deleted": deleted,
	})

	return &dto.DeleteDocumentResponse{
		Id:            parentId,
		ChunksDeleted: deleted,
	}, nil
}

var parentIdSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// deriveParentId keeps ids deterministic per filename so re-uploading a
// document replaces its previous chunks wholesale.
func deriveParentId(filename string) string {
	id := parentIdSanitizeRe.ReplaceAllString(filename, "_")
	return strings.Trim(id, "_")
}
