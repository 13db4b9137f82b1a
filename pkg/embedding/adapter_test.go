package embedding

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-chatbot-be/internal/pkg/apperrors"
)

type fakeProvider struct {
	dims     int
	calls    int
	failures int
	failWith error
	batches  [][]string
}

func (p *fakeProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	p.calls++
	p.batches = append(p.batches, texts)

	if p.failures > 0 {
		p.failures--
		return nil, p.failWith
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, p.dims)
		v[0] = float32(len(text))
		vectors[i] = v
	}
	return vectors, nil
}

func TestAdapterSubBatchesAndPreservesOrder(t *testing.T) {
	provider := &fakeProvider{dims: 4}
	adapter := NewAdapter(provider, 4)

	texts := make([]string, 40)
	for i := range texts {
		texts[i] = fmt.Sprintf("%0*d", i+1, 0) // length i+1
	}

	vectors, err := adapter.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 40)

	assert.Equal(t, 3, provider.calls)
	assert.Len(t, provider.batches[0], 16)
	assert.Len(t, provider.batches[2], 8)

	for i, v := range vectors {
		assert.Equal(t, float32(i+1), v[0], "vector %d out of order", i)
	}
}

func TestAdapterRetriesTransientFailures(t *testing.T) {
	provider := &fakeProvider{
		dims:     4,
		failures: 2,
		failWith: &UpstreamError{StatusCode: http.StatusTooManyRequests, Body: "throttled"},
	}
	adapter := NewAdapter(provider, 4)
	adapter.retryInterval = time.Millisecond

	vectors, err := adapter.EmbedBatch(context.Background(), []string{"hello"})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, 3, provider.calls)
}

func TestAdapterDoesNotRetryClientErrors(t *testing.T) {
	provider := &fakeProvider{
		dims:     4,
		failures: 10,
		failWith: &UpstreamError{StatusCode: http.StatusUnauthorized, Body: "bad key"},
	}
	adapter := NewAdapter(provider, 4)

	_, err := adapter.EmbedBatch(context.Background(), []string{"hello"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindEmbeddingService))
	assert.Equal(t, 1, provider.calls)
}

func TestAdapterDimensionMismatch(t *testing.T) {
	provider := &fakeProvider{dims: 8}
	adapter := NewAdapter(provider, 1536)

	_, err := adapter.EmbedBatch(context.Background(), []string{"hello"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConfigurationConflict))
	assert.Contains(t, err.Error(), "expected 1536, got 8")
	assert.Equal(t, 1, provider.calls)
}

func TestAdapterExhaustedRetries(t *testing.T) {
	provider := &fakeProvider{
		dims:     4,
		failures: 100,
		failWith: &UpstreamError{StatusCode: http.StatusInternalServerError, Body: "boom"},
	}
	adapter := NewAdapter(provider, 4)
	adapter.retryInterval = time.Millisecond

	_, err := adapter.EmbedBatch(context.Background(), []string{"hello"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindEmbeddingService))
	assert.Equal(t, 5, provider.calls)
}
