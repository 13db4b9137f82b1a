package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"rag-chatbot-be/internal/pkg/apperrors"
)

const (
	subBatchSize = 16
	maxRetries   = 4 // total attempts = 1 + maxRetries
)

// Adapter wraps a Provider with sub-batching, bounded retry, and dimension
// validation. Output vectors are aligned with input order across batches.
type Adapter struct {
	provider      Provider
	dimensions    int
	retryInterval time.Duration
}

func NewAdapter(provider Provider, dimensions int) *Adapter {
	return &Adapter{
		provider:      provider,
		dimensions:    dimensions,
		retryInterval: 500 * time.Millisecond,
	}
}

func (a *Adapter) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += subBatchSize {
		end := start + subBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := a.embedWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (a *Adapter) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := a.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (a *Adapter) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	op := func() ([][]float32, error) {
		vectors, err := a.provider.EmbedBatch(ctx, texts)
		if err != nil {
			if !isRetryable(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		for _, v := range vectors {
			if len(v) != a.dimensions {
				return nil, backoff.Permanent(apperrors.New(
					apperrors.KindConfigurationConflict,
					fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", a.dimensions, len(v)),
				))
			}
		}
		return vectors, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = a.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx)

	vectors, err := backoff.RetryWithData(op, policy)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindConfigurationConflict) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.KindEmbeddingService, "embedding generation failed", err)
	}
	return vectors, nil
}

// Client errors other than 429 will not succeed on retry.
func isRetryable(err error) bool {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		if upstream.StatusCode >= 400 && upstream.StatusCode < 500 && upstream.StatusCode != http.StatusTooManyRequests {
			return false
		}
	}
	return true
}
