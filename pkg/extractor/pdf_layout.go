package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rag-chatbot-be/internal/pkg/apperrors"
)

const (
	layoutAPIVersion   = "2023-07-31"
	layoutPollInterval = 2 * time.Second
	layoutMaxPolls     = 60
)

// LayoutPDFExtractor calls a document-intelligence layout service. The
// analyze call is asynchronous: submit the payload, then poll the operation
// URL until the result is ready.
type LayoutPDFExtractor struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewLayoutPDFExtractor(endpoint, apiKey string) *LayoutPDFExtractor {
	return &LayoutPDFExtractor{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type layoutResult struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Content string `json:"content"`
	} `json:"analyzeResult"`
}

func (e *LayoutPDFExtractor) Extract(fileBytes []byte, filename string) (string, error) {
	opURL, err := e.submit(fileBytes)
	if err != nil {
		return "", err
	}

	for i := 0; i < layoutMaxPolls; i++ {
		time.Sleep(layoutPollInterval)

		result, err := e.poll(opURL)
		if err != nil {
			return "", err
		}

		switch result.Status {
		case "succeeded":
			return result.AnalyzeResult.Content, nil
		case "failed":
			return "", apperrors.New(apperrors.KindExtractionService, "layout analysis failed for "+filename)
		}
	}

	return "", apperrors.New(apperrors.KindExtractionService, "layout analysis timed out for "+filename)
}

func (e *LayoutPDFExtractor) submit(fileBytes []byte) (string, error) {
	url := fmt.Sprintf("%s/formrecognizer/documentModels/prebuilt-layout:analyze?api-version=%s", e.endpoint, layoutAPIVersion)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(fileBytes))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindExtractionService, "failed to build layout request", err)
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Ocp-Apim-Subscription-Key", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindExtractionService, "layout service is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", apperrors.New(apperrors.KindExtractionService,
			fmt.Sprintf("layout service rejected the document (status %d): %s", resp.StatusCode, string(body)))
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", apperrors.New(apperrors.KindExtractionService, "layout service returned no operation location")
	}
	return opURL, nil
}

func (e *LayoutPDFExtractor) poll(opURL string) (*layoutResult, error) {
	req, err := http.NewRequest(http.MethodGet, opURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindExtractionService, "failed to build poll request", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindExtractionService, "layout service is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.KindExtractionService,
			fmt.Sprintf("layout poll failed with status %d", resp.StatusCode))
	}

	var result layoutResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Wrap(apperrors.KindExtractionService, "layout service returned malformed response", err)
	}
	return &result, nil
}
