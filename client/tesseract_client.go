package client

import (
	"fmt"
	"log"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient wraps the Tesseract engine for page-image recognition.
// The language is configurable; Indonesian factures want "ind".
type TesseractClient struct {
	dataPath string
	language string
}

func NewTesseractClient(dataPath, language string) *TesseractClient {
	if language == "" {
		language = "eng"
	}
	return &TesseractClient{
		dataPath: dataPath,
		language: language,
	}
}

// ExtractTextFromFile runs Tesseract over a single image file.
func (tc *TesseractClient) ExtractTextFromFile(imagePath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	client.SetTessdataPrefix(tc.dataPath)

	if err := client.SetLanguage(tc.language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}

// ExtractTextAndConfidence also reports the mean word confidence, useful
// when deciding whether a recognition pass is trustworthy.
func (tc *TesseractClient) ExtractTextAndConfidence(imagePath string) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	client.SetTessdataPrefix(tc.dataPath)
	if err := client.SetLanguage(tc.language); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return text, 0, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}

	avgConf := 0.0
	if len(boxes) > 0 {
		avgConf = totalConf / float64(len(boxes))
	}
	return text, avgConf, nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	log.Println("Tesseract client closed")
}
