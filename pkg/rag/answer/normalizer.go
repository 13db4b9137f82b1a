package answer

import (
	"regexp"
	"strings"

	"rag-chatbot-be/pkg/rag"
)

var (
	inlineSourceRe   = regexp.MustCompile(`(?i)\[Source:.*?\]`)
	trailingSourceRe = regexp.MustCompile(`(?is)\n*\**\s*Sources\s*:.*$`)
	hrLineRe         = regexp.MustCompile(`(?m)^---\s*$`)

	answerPrefixRe = regexp.MustCompile(`(?i)^(?:\*{0,2}\s*)?answer(?:\*{0,2})\s*[:\-]?\s*`)

	headingAfterColonRe = regexp.MustCompile(`(:)\s*(#{2,6}\s)`)
	inlineHeadingRe     = regexp.MustCompile(`([^\n])(#{2,6}\s)`)
	sentenceDashRe      = regexp.MustCompile(`([.!?])\s*-\s+`)
	headingDashRe       = regexp.MustCompile(`(#{2,6}[^\n]*)\s*-\s+`)
	trailingSpaceRe     = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe          = regexp.MustCompile(`\n{3,}`)
)

// Normalize strips inline citations and any model-written sources block,
// repairs formatting, guarantees the "**Answer**" prefix, and appends a
// single consolidated footer built from the surviving candidates. Pass an
// empty candidate list to omit the footer.
func Normalize(raw string, sources []*rag.Candidate) string {
	if raw == "" {
		return raw
	}

	cleaned := strings.ReplaceAll(raw, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\u200B", "")
	cleaned = strings.ReplaceAll(cleaned, "\uFEFF", "")

	cleaned = inlineSourceRe.ReplaceAllString(cleaned, "")
	cleaned = trailingSourceRe.ReplaceAllString(cleaned, "")
	cleaned = hrLineRe.ReplaceAllString(cleaned, "")

	cleaned = repairMalformedPrefix(cleaned)
	cleaned = normalizeMarkdownStructure(cleaned)
	cleaned = formatBulletsIfNeeded(cleaned)
	cleaned = compactBlankLines(cleaned)

	if !strings.HasPrefix(cleaned, "**Answer**") {
		cleaned = strings.TrimSpace("**Answer**\n\n" + cleaned)
	}

	cleaned = compactBlankLines(cleaned)

	footer := BuildSourcesFooter(sources)
	if footer != "" {
		cleaned = cleaned + "\n\n" + footer
	}
	return cleaned
}

// BuildSourcesFooter renders the consolidated citation line: one entry per
// distinct chunk, first-seen rank order, comma separated.
func BuildSourcesFooter(sources []*rag.Candidate) string {
	if len(sources) == 0 {
		return ""
	}

	seen := make(map[string]bool, len(sources))
	entries := make([]string, 0, len(sources))
	for _, s := range sources {
		if seen[s.Id] {
			continue
		}
		seen[s.Id] = true

		title := s.Title
		if title == "" {
			title = s.Id
		}
		entries = append(entries, "[Source: "+title+" - "+s.PositionLabel()+"]")
	}

	return "Sources: " + strings.Join(entries, ", ")
}

// IsNoInfoResponse detects model output that admits the context lacked the
// answer, so the caller can return the insufficient-context shape instead.
func IsNoInfoResponse(text string) bool {
	if text == "" {
		return true
	}

	lower := strings.ToLower(text)
	markers := []string{
		"i cannot find this information in the available documents",
		"i don't have enough information in the knowledge base",
		"not available in the provided context",
	}
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Fixes malformed answer prefixes like "|AnswerText" or "Answer:" so the
// canonical "**Answer**" heading can be re-applied.
func repairMalformedPrefix(text string) string {
	cleaned := strings.TrimLeft(text, "|` \n")
	cleaned = answerPrefixRe.ReplaceAllString(cleaned, "")
	cleaned = stripAnswerRunOn(cleaned)
	return strings.TrimSpace(cleaned)
}

// Handles run-on output like "AnswerThe policy is..." where the prefix glues
// straight onto a capitalized sentence.
func stripAnswerRunOn(text string) string {
	const prefix = "answer"
	if len(text) <= len(prefix) {
		return text
	}
	if !strings.EqualFold(text[:len(prefix)], prefix) {
		return text
	}
	next := text[len(prefix)]
	if next >= 'A' && next <= 'Z' {
		return text[len(prefix):]
	}
	return text
}

func normalizeMarkdownStructure(text string) string {
	normalized := headingAfterColonRe.ReplaceAllString(text, "$1\n\n$2")
	normalized = inlineHeadingRe.ReplaceAllString(normalized, "$1\n\n$2")
	normalized = sentenceDashRe.ReplaceAllString(normalized, "$1\n- ")
	normalized = headingDashRe.ReplaceAllString(normalized, "$1\n- ")
	normalized = trailingSpaceRe.ReplaceAllString(normalized, "\n")
	normalized = blankRunRe.ReplaceAllString(normalized, "\n\n")
	return strings.TrimSpace(normalized)
}

// Converts single-line " - " run-ons into a proper bullet list.
func formatBulletsIfNeeded(text string) string {
	if strings.Contains(text, "\n") || !strings.Contains(text, " - ") {
		return text
	}

	rawParts := strings.Split(text, " - ")
	parts := make([]string, 0, len(rawParts))
	for _, p := range rawParts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) < 3 {
		return text
	}

	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = "- " + p
	}
	return strings.Join(lines, "\n")
}

func compactBlankLines(text string) string {
	if text == "" {
		return text
	}

	const maxBlankLines = 1

	text = strings.ReplaceAll(text, "\u200B", "")
	text = strings.ReplaceAll(text, "\uFEFF", "")

	var compacted []string
	blankCount := 0
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.ReplaceAll(rawLine, "\u00A0", " ")
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blankCount++
			if blankCount <= maxBlankLines {
				compacted = append(compacted, "")
			}
			continue
		}

		blankCount = 0
		compacted = append(compacted, line)
	}

	return strings.TrimSpace(strings.Join(compacted, "\n"))
}
