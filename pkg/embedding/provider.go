package embedding

import (
	"context"
	"fmt"
)

// Provider generates embeddings for a batch of texts. Implementations must
// return one vector per input text, in input order.
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// UpstreamError reports a non-2xx response from the embedding backend so the
// adapter can decide whether the call is worth retrying.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("embedding backend returned status %d: %s", e.StatusCode, e.Body)
}
