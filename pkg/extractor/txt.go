package extractor

import (
	"bytes"
	"unicode/utf8"
)

// extractTxt decodes a plain text payload, stripping a UTF-8 BOM and
// replacing invalid byte sequences rather than failing the upload.
func extractTxt(fileBytes []byte) string {
	fileBytes = bytes.TrimPrefix(fileBytes, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(fileBytes) {
		return string(fileBytes)
	}
	return string(bytes.ToValidUTF8(fileBytes, []byte("�")))
}
