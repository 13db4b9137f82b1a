package rag

// InsufficientContextMessage is the fixed reply when no candidate survives
// relevance filtering or the model reports missing information.
const InsufficientContextMessage = "I don't have enough information in the knowledge base to answer this question. " +
	"Please upload relevant documents or rephrase your query."

// SuggestedActions accompany an insufficient-context reply.
func SuggestedActions() []string {
	return []string{
		"Upload relevant documents",
		"Try different keywords",
		"Check available documents",
	}
}
