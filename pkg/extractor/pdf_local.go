package extractor

import (
	"bytes"

	"github.com/ledongthuc/pdf"

	"rag-chatbot-be/internal/pkg/apperrors"
)

// LocalPDFExtractor parses PDFs in-process. Good enough for digital PDFs;
// scanned documents need the layout service instead.
type LocalPDFExtractor struct{}

func NewLocalPDFExtractor() *LocalPDFExtractor {
	return &LocalPDFExtractor{}
}

func (e *LocalPDFExtractor) Extract(fileBytes []byte, filename string) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindValidation, "failed to open PDF: "+filename, err)
	}

	var buf bytes.Buffer
	b, err := r.GetPlainText()
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindExtractionService, "failed to extract PDF text: "+filename, err)
	}

	if _, err := buf.ReadFrom(b); err != nil {
		return "", apperrors.Wrap(apperrors.KindExtractionService, "failed to read PDF text: "+filename, err)
	}

	return buf.String(), nil
}
