package extractor

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-chatbot-be/internal/pkg/apperrors"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTxt(t *testing.T) {
	svc := NewService(nil)

	text, err := svc.Extract([]byte("line one\r\nline two\r\n\r\n\r\n\r\nline three  \n"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n\nline three", text)
}

func TestExtractTxtStripsBOM(t *testing.T) {
	svc := NewService(nil)

	text, err := svc.Extract(append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtractDocx(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	svc := NewService(nil)
	text, err := svc.Extract(buildDocx(t, docXML), "report.docx")
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
}

func TestExtractDocxInvalidArchive(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Extract([]byte("not a zip"), "report.docx")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestExtractUnsupportedType(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Extract([]byte("data"), "image.png")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestExtractPDFNotConfigured(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Extract([]byte("%PDF-1.4"), "doc.pdf")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindExtractionUnavailable))
}
