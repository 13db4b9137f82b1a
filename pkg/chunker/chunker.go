package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/pkg/apperrors"
)

const DefaultChunkSizeWords = 500

var (
	namedHeadingRe    = regexp.MustCompile(`(?i)^(part|section|chapter|article|appendix)\b`)
	numberedHeadingRe = regexp.MustCompile(`^\d+(\.\d+)*[.)]?\s+\S`)
)

// ChunkDocument splits extracted document text into word-bounded chunks.
// Headings only update the section tag carried in chunk metadata; they do
// not force a boundary, so short documents always produce a single chunk.
// Chunk ids are "<parentID>_<ordinal>".
func ChunkDocument(text, title, parentID string, chunkSize int) ([]*entity.Chunk, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSizeWords
	}

	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.KindValidation, "no text extracted from document")
	}

	var (
		chunks  []*entity.Chunk
		buf     []string
		section string
	)

	now := time.Now()

	flush := func() {
		if len(buf) == 0 {
			return
		}
		idx := len(chunks)
		metadata := map[string]interface{}{
			"parent_id":   parentID,
			"filename":    title,
			"source":      title,
			"chunk_index": idx,
		}
		if section != "" {
			metadata["section"] = section
		}
		chunks = append(chunks, &entity.Chunk{
			Id:         fmt.Sprintf("%s_%d", parentID, idx),
			ParentId:   parentID,
			Title:      title,
			Content:    strings.Join(buf, " "),
			Metadata:   metadata,
			ChunkIndex: idx,
			CreatedAt:  now,
		})
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if isHeading(trimmed) {
			section = trimmed
		}

		for _, word := range strings.Fields(trimmed) {
			buf = append(buf, word)
			if len(buf) >= chunkSize {
				flush()
			}
		}
	}
	flush()

	if len(chunks) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "no text extracted from document")
	}

	return chunks, nil
}

func isHeading(line string) bool {
	if len(line) > 140 {
		return false
	}
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•") {
		return false
	}
	if namedHeadingRe.MatchString(line) || numberedHeadingRe.MatchString(line) {
		return true
	}
	// Short ALL-CAPS lines read as headings in most policy documents.
	if line == strings.ToUpper(line) && line != strings.ToLower(line) && len(strings.Fields(line)) <= 10 {
		return true
	}
	return false
}
