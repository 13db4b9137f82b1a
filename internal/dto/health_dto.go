package dto

type DependencyHealth struct {
	Status    string `json:"status"` // "ok" or "error"
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status       string                      `json:"status"` // "healthy" or "degraded"
	Dependencies map[string]DependencyHealth `json:"dependencies"`
}
