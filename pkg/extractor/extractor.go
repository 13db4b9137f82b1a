package extractor

import (
	"path/filepath"
	"regexp"
	"strings"

	"rag-chatbot-be/internal/pkg/apperrors"
)

// PDFExtractor pulls text out of a PDF payload. Implementations cover local
// parsing and a remote layout-analysis service; a nil extractor means PDF
// support was not configured.
type PDFExtractor interface {
	Extract(fileBytes []byte, filename string) (string, error)
}

type Service struct {
	pdf PDFExtractor
}

func NewService(pdf PDFExtractor) *Service {
	return &Service{pdf: pdf}
}

// Extract dispatches on file extension and returns normalized plain text.
func (s *Service) Extract(fileBytes []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return normalizeText(extractTxt(fileBytes)), nil
	case ".docx":
		text, err := extractDocx(fileBytes)
		if err != nil {
			return "", err
		}
		return normalizeText(text), nil
	case ".pdf":
		if s.pdf == nil {
			return "", apperrors.New(apperrors.KindExtractionUnavailable, "PDF extraction is not configured")
		}
		text, err := s.pdf.Extract(fileBytes, filename)
		if err != nil {
			return "", err
		}
		return normalizeText(text), nil
	default:
		return "", apperrors.New(apperrors.KindValidation, "Unsupported file type: "+filepath.Ext(filename))
	}
}

var (
	crlfRe       = regexp.MustCompile(`\r\n?`)
	trailingWsRe = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

func normalizeText(text string) string {
	text = crlfRe.ReplaceAllString(text, "\n")
	text = trailingWsRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
