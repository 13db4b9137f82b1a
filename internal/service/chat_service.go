package service

import (
	"context"
	"time"

	"rag-chatbot-be/internal/dto"
	"rag-chatbot-be/internal/pkg/apperrors"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/internal/repository/contract"
	"rag-chatbot-be/pkg/llm"
	"rag-chatbot-be/pkg/rag"
	"rag-chatbot-be/pkg/rag/answer"
	"rag-chatbot-be/pkg/rag/prompt"
	"rag-chatbot-be/pkg/tokens"
)

// StreamSink receives answer fragments as the model produces them.
type StreamSink interface {
	OnDelta(delta string) error
}

type IChatService interface {
	Answer(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	AnswerStream(ctx context.Context, req *dto.ChatRequest, sink StreamSink) (*dto.ChatResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

type ChatDefaults struct {
	TopK        int
	Temperature float64
	MaxTokens   int
}

type chatService struct {
	embedder    Embedder
	retriever   *rag.Retriever
	llmProvider llm.Provider
	repo        contract.ChunkRepository
	counter     *tokens.Counter
	logger      logger.ILogger
	threshold   float64
	defaults    ChatDefaults
}

func NewChatService(
	embedder Embedder,
	retriever *rag.Retriever,
	llmProvider llm.Provider,
	repo contract.ChunkRepository,
	counter *tokens.Counter,
	l logger.ILogger,
	threshold float64,
	defaults ChatDefaults,
) IChatService {
	return &chatService{
		embedder:    embedder,
		retriever:   retriever,
		llmProvider: llmProvider,
		repo:        repo,
		counter:     counter,
		logger:      l,
		threshold:   threshold,
		defaults:    defaults,
	}
}

func (s *chatService) Answer(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	return s.run(ctx, req, nil)
}

func (s *chatService) AnswerStream(ctx context.Context, req *dto.ChatRequest, sink StreamSink) (*dto.ChatResponse, error) {
	return s.run(ctx, req, sink)
}

// run executes the pipeline: embed the query, retrieve and filter context,
// then either short-circuit with the insufficient-context reply or prompt the
// model and normalize its output. A non-nil sink streams deltas as they come.
func (s *chatService) run(ctx context.Context, req *dto.ChatRequest, sink StreamSink) (*dto.ChatResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = s.defaults.TopK
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = s.defaults.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.defaults.MaxTokens
	}

	queryVector, err := s.embedOne(ctx, req.Message)
	if err != nil {
		s.logger.Error("chat_service", "query embedding failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	candidates, err := s.retriever.Retrieve(ctx, req.Message, queryVector, topK)
	if err != nil {
		s.logger.Error("chat_service", "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	filtered := rag.FilterByRelevance(candidates, s.threshold)

	s.logger.Debug("chat_service", "context filtered", map[string]interface{}{
		"retrieved": len(candidates),
		"retained":  len(filtered),
		"threshold": s.threshold,
	})

	if len(filtered) == 0 {
		return insufficientContextResponse(0), nil
	}

	strictPrompt := prompt.NewStrictBuilder(req.Message, filtered).Build()
	history := []llm.Message{{Role: "system", Content: strictPrompt}}
	opts := []llm.Option{
		llm.WithTemperature(temperature),
		llm.WithMaxTokens(maxTokens),
	}

	var result *llm.ChatResult
	if sink != nil {
		result, err = s.llmProvider.ChatStream(ctx, history, sink.OnDelta, opts...)
	} else {
		result, err = s.llmProvider.Chat(ctx, history, opts...)
	}
	if err != nil {
		s.logger.Error("chat_service", "generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, apperrors.Wrap(apperrors.KindGeneration, "answer generation failed", err)
	}

	tokensUsed := result.TokensUsed
	if tokensUsed == 0 {
		tokensUsed = s.counter.CountAll(strictPrompt, result.Content)
	}

	if answer.IsNoInfoResponse(result.Content) {
		return insufficientContextResponse(tokensUsed), nil
	}

	normalized := answer.Normalize(result.Content, filtered)

	return &dto.ChatResponse{
		Answer:               normalized,
		Sources:              toSourceDocuments(filtered),
		HasSufficientContext: true,
		TokensUsed:           tokensUsed,
	}, nil
}

func (s *chatService) embedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embedder.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *chatService) Health(ctx context.Context) *dto.HealthResponse {
	deps := make(map[string]dto.DependencyHealth, 3)

	deps["database"] = probe(func() error { return s.repo.Ping(ctx) })
	deps["index"] = probe(func() error {
		_, err := s.repo.CountChunks(ctx)
		return err
	})
	deps["chat_model"] = probe(func() error {
		_, err := s.llmProvider.Chat(ctx, []llm.Message{{Role: "user", Content: "ping"}}, llm.WithMaxTokens(1))
		return err
	})

	status := "healthy"
	for _, d := range deps {
		if d.Status != "ok" {
			status = "degraded"
			break
		}
	}

	return &dto.HealthResponse{
		Status:       status,
		Dependencies: deps,
	}
}

func probe(check func() error) dto.DependencyHealth {
	start := time.Now()
	err := check()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return dto.DependencyHealth{Status: "error", LatencyMs: latency, Error: err.Error()}
	}
	return dto.DependencyHealth{Status: "ok", LatencyMs: latency}
}

func insufficientContextResponse(tokensUsed int) *dto.ChatResponse {
	return &dto.ChatResponse{
		Answer:               rag.InsufficientContextMessage,
		Sources:              []dto.SourceDocument{},
		HasSufficientContext: false,
		TokensUsed:           tokensUsed,
		SuggestedActions:     rag.SuggestedActions(),
	}
}

func toSourceDocuments(candidates []*rag.Candidate) []dto.SourceDocument {
	sources := make([]dto.SourceDocument, len(candidates))
	for i, c := range candidates {
		metadata := c.Metadata
		if metadata == nil {
			metadata = map[string]interface{}{}
		}
		sources[i] = dto.SourceDocument{
			Id:             c.Id,
			Title:          c.Title,
			RelevanceScore: c.Score,
			Excerpt:        c.Excerpt,
			Metadata:       metadata,
		}
	}
	return sources
}
