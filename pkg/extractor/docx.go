package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"rag-chatbot-be/internal/pkg/apperrors"
)

// DOCX is a zip archive; the document body lives in word/document.xml.
// Paragraph elements (w:p) become newlines, text runs (w:t) are concatenated.
func extractDocx(fileBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindValidation, "file is not a valid DOCX archive", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", apperrors.New(apperrors.KindValidation, "DOCX archive has no document body")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindValidation, "failed to open DOCX document body", err)
	}
	defer rc.Close()

	return parseDocumentXML(rc)
}

func parseDocumentXML(r io.Reader) (string, error) {
	var sb strings.Builder
	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", apperrors.Wrap(apperrors.KindValidation, "malformed DOCX document body", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				var text string
				if err := decoder.DecodeElement(&text, &el); err != nil {
					return "", apperrors.Wrap(apperrors.KindValidation, "malformed DOCX text run", err)
				}
				sb.WriteString(text)
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			if el.Name.Local == "p" {
				sb.WriteString("\n")
			}
		}
	}

	return sb.String(), nil
}
