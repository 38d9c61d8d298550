package service

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mariaherliana/fusionpdf/dto"
	"github.com/mariaherliana/fusionpdf/utils"
)

// OCRClient is any engine that can read text off a single page-image file.
type OCRClient interface {
	ExtractTextFromFile(imagePath string) (string, error)
}

// ExtractionService turns raw document bytes into canonical monetary values:
// text acquisition (structured first, recognition fallback), label location,
// candidate selection and normalization.
type ExtractionService struct {
	processor  PDFProcessor
	ocr        OCRClient
	primaryOCR OCRClient // optional engine tried before ocr, may be nil
	ocrTimeout time.Duration
}

func NewExtractionService(processor PDFProcessor, ocr OCRClient, primaryOCR OCRClient, ocrTimeout time.Duration) *ExtractionService {
	if ocrTimeout <= 0 {
		ocrTimeout = 60 * time.Second
	}
	return &ExtractionService{
		processor:  processor,
		ocr:        ocr,
		primaryOCR: primaryOCR,
		ocrTimeout: ocrTimeout,
	}
}

// AcquireText returns the line-oriented text of one document. The structured
// path runs first; when it yields fewer than minTextChars characters the
// document is likely scanned and the recognition path takes over, bounded by
// the per-document OCR timeout. Acquisition never returns an error: total
// failure degrades to empty text so every extraction resolves to absent.
func (s *ExtractionService) AcquireText(ctx context.Context, pdfData []byte, minTextChars int) dto.ExtractedText {
	if minTextChars <= 0 {
		minTextChars = dto.DefaultCompareOptions().MinTextChars
	}

	text, err := s.processor.ExtractText(pdfData)
	if err != nil {
		log.Printf("PDF text extraction failed: %v", err)
	}
	if len(strings.TrimSpace(text)) >= minTextChars {
		return dto.ExtractedText{Lines: utils.SplitLines(text), Source: dto.SourceText}
	}

	log.Printf("PDF yielded %d chars of embedded text, attempting image-based OCR", len(strings.TrimSpace(text)))
	ocrText := s.recognizeText(ctx, pdfData)
	if strings.TrimSpace(ocrText) != "" {
		return dto.ExtractedText{Lines: utils.SplitLines(ocrText), Source: dto.SourceOCR}
	}

	// keep whatever little the structured path found
	if strings.TrimSpace(text) != "" {
		return dto.ExtractedText{Lines: utils.SplitLines(text), Source: dto.SourceText}
	}
	return dto.ExtractedText{Source: dto.SourceNone}
}

// ExtractValue runs locate, select, normalize over already-acquired text.
// Every failure mode degrades to an absent Amount.
func (s *ExtractionService) ExtractValue(text dto.ExtractedText, label string, opts dto.CompareOptions) dto.Amount {
	if len(text.Lines) == 0 || strings.TrimSpace(label) == "" {
		return dto.Amount{}
	}

	scan := utils.ScanOptions{WindowLines: opts.WindowLines, Policy: opts.Policy}

	labelLines := utils.FindLabelLines(text.Lines, label)
	if len(labelLines) == 0 {
		// last resort: whole-document scan behind a magnitude floor
		if value, ok := utils.FallbackAmount(text.Lines); ok {
			return dto.Amount{Value: value, Found: true}
		}
		return dto.Amount{}
	}

	if value, ok := utils.SelectAmount(text.Lines, labelLines, scan); ok {
		return dto.Amount{Value: value, Found: true}
	}
	return dto.Amount{}
}

// ExtractValueFromPDF is the single-document entry point:
// (document bytes, label) -> canonical value or absent.
func (s *ExtractionService) ExtractValueFromPDF(ctx context.Context, pdfData []byte, label string, opts dto.CompareOptions) dto.Amount {
	text := s.AcquireText(ctx, pdfData, opts.MinTextChars)
	return s.ExtractValue(text, label, opts)
}

// recognizeText renders page images and OCRs them, abandoning the pass when
// the per-document timeout expires. Timeout means empty text, not an error.
func (s *ExtractionService) recognizeText(ctx context.Context, pdfData []byte) string {
	ctx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()

	done := make(chan string, 1)
	go func() {
		done <- s.ocrAllPages(pdfData)
	}()

	select {
	case text := <-done:
		return text
	case <-ctx.Done():
		log.Printf("OCR pass abandoned: %v", ctx.Err())
		return ""
	}
}

func (s *ExtractionService) ocrAllPages(pdfData []byte) string {
	images, err := s.processor.ExtractImages(pdfData)
	if err != nil || len(images) == 0 {
		log.Printf("failed to extract page images: %v", err)
		return ""
	}

	var combined strings.Builder
	for _, img := range images {
		tempImg, err := saveImageToTempFile(img)
		if err != nil {
			log.Printf("failed to save temp image for OCR: %v", err)
			continue
		}

		pageText, ocrErr := s.ocrPage(tempImg)
		os.Remove(tempImg)
		if ocrErr != nil {
			log.Printf("OCR failed for a page: %v", ocrErr)
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
	}
	return combined.String()
}

// ocrPage tries the primary engine first when one is configured and falls
// back to the required engine on failure or near-empty output.
func (s *ExtractionService) ocrPage(imagePath string) (string, error) {
	if s.primaryOCR != nil {
		text, err := s.primaryOCR.ExtractTextFromFile(imagePath)
		if err == nil && len(strings.TrimSpace(text)) >= 10 {
			return text, nil
		}
	}
	return s.ocr.ExtractTextFromFile(imagePath)
}

// saveImageToTempFile saves an image.Image to a temporary PNG file.
func saveImageToTempFile(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "ocr-img-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image file: %w", err)
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return tempFile.Name(), nil
}
