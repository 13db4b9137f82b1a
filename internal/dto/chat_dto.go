package dto

// ChatMessage is one prior conversation turn. History is accepted and
// validated but never folded into the grounding prompt.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Message     string        `json:"message" validate:"required"`
	History     []ChatMessage `json:"history" validate:"omitempty,max=20,dive"`
	TopK        int           `json:"top_k" validate:"omitempty,min=1,max=50"`
	Temperature float64       `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   int           `json:"max_tokens" validate:"omitempty,min=1,max=4096"`
}

type SourceDocument struct {
	Id             string                 `json:"id"`
	Title          string                 `json:"title"`
	RelevanceScore float64                `json:"relevance_score"`
	Excerpt        string                 `json:"excerpt"`
	Metadata       map[string]interface{} `json:"metadata"`
}

type ChatResponse struct {
	Answer               string           `json:"answer"`
	Sources              []SourceDocument `json:"sources"`
	HasSufficientContext bool             `json:"has_sufficient_context"`
	TokensUsed           int              `json:"tokens_used"`
	SuggestedActions     []string         `json:"suggested_actions,omitempty"`
}
