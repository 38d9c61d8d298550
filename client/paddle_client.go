package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// PaddleClient talks to a PaddleOCR HTTP sidecar. It is an optional faster
// recognition engine; when no endpoint is configured the recognition path
// runs on Tesseract alone.
type PaddleClient struct {
	apiURL     string
	httpClient *http.Client
}

func NewPaddleClient(apiURL string) *PaddleClient {
	log.Printf("PaddleOCR client initialized with endpoint %s", apiURL)
	return &PaddleClient{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ExtractTextFromFile sends one page image to the sidecar and concatenates
// the recognized lines.
func (p *PaddleClient) ExtractTextFromFile(imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	payload := map[string]interface{}{
		"images": []string{base64.StdEncoding.EncodeToString(data)},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := p.httpClient.Post(p.apiURL, "application/json", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results [][]struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}

	var textBuilder strings.Builder
	if len(result.Results) > 0 {
		for _, line := range result.Results[0] {
			textBuilder.WriteString(line.Text)
			textBuilder.WriteString("\n")
		}
	}

	extracted := textBuilder.String()
	if extracted == "" {
		return "", fmt.Errorf("PaddleOCR extracted no text from image")
	}
	return extracted, nil
}
