package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"rag-chatbot-be/pkg/rag"
)

// StrictBuilder assembles a grounded prompt: a strict system instruction
// followed by the filtered context and the question. Conversation history is
// never included; answers must come from the supplied context alone.
type StrictBuilder struct {
	question   string
	candidates []*rag.Candidate
}

func NewStrictBuilder(question string, candidates []*rag.Candidate) *StrictBuilder {
	return &StrictBuilder{
		question:   question,
		candidates: candidates,
	}
}

func (b *StrictBuilder) Build() string {
	var prompt strings.Builder

	b.writeRules(&prompt)
	b.writeFormatting(&prompt)
	b.writeContext(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *StrictBuilder) writeRules(prompt *strings.Builder) {
	prompt.WriteString("You are a helpful AI assistant that ONLY answers questions based on the provided context documents.\n\n")
	prompt.WriteString("CRITICAL RULES:\n")
	prompt.WriteString("1. Use ONLY information from the context provided below\n")
	prompt.WriteString("2. If the context doesn't contain the answer, say \"I cannot find this information in the available documents\"\n")
	prompt.WriteString("3. NEVER use your general knowledge or training data\n")
	prompt.WriteString("4. Do NOT place any [Source: ...] citations inline\n")
	prompt.WriteString("5. Keep source references only in a single final footer line\n")
	prompt.WriteString("6. If information is missing, clearly state what is unavailable\n\n")
}

func (b *StrictBuilder) writeFormatting(prompt *strings.Builder) {
	prompt.WriteString("Formatting:\n")
	prompt.WriteString("- Start with exact \"**Answer**\" on its own line\n")
	prompt.WriteString("- Use clear Markdown headings and bullet points for multi-point answers\n")
	prompt.WriteString("- Keep spacing readable with blank lines between sections\n")
	prompt.WriteString("- If using a table, output valid Markdown table syntax with header separator rows\n")
	prompt.WriteString("- Output must be valid Markdown\n")
	prompt.WriteString("- End with one footer line only:\n")
	prompt.WriteString("  Sources: [Source: <document_title> - <position>], [Source: <document_title> - <position>]\n\n")
}

func (b *StrictBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("Context Documents:\n")
	for idx, c := range b.candidates {
		title := c.Title
		if title == "" {
			title = c.Id
		}

		metadataText := "{}"
		if len(c.Metadata) > 0 {
			if raw, err := json.Marshal(c.Metadata); err == nil {
				metadataText = string(raw)
			}
		}

		fmt.Fprintf(prompt, "[%d] Document ID: %s\nTitle: %s\nPosition: %s\nMetadata: %s\n%s\n\n",
			idx+1, c.Id, title, c.PositionLabel(), metadataText, c.Content)
	}
}

func (b *StrictBuilder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("Question: ")
	prompt.WriteString(b.question)
	prompt.WriteString("\n\n")
	prompt.WriteString("Remember: Answer ONLY from the context above. All [Source: ...] citations must appear ONLY in the Sources block at the very end - never inline.")
}
