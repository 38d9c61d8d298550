package service

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariaherliana/fusionpdf/dto"
)

// fakeProcessor serves canned text keyed by document content and merges by
// plain concatenation.
type fakeProcessor struct {
	texts    map[string]string
	textErr  error
	imageErr error
	mergeErr error
}

func (f *fakeProcessor) ExtractText(pdfData []byte) (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.texts[string(pdfData)], nil
}

func (f *fakeProcessor) ExtractImages(pdfData []byte) ([]image.Image, error) {
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return []image.Image{image.NewRGBA(image.Rect(0, 0, 8, 8))}, nil
}

func (f *fakeProcessor) Merge(first, second []byte) ([]byte, error) {
	if f.mergeErr != nil {
		return nil, f.mergeErr
	}
	merged := append([]byte{}, first...)
	return append(merged, second...), nil
}

type fakeOCR struct {
	text  string
	err   error
	delay time.Duration
}

func (f *fakeOCR) ExtractTextFromFile(imagePath string) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.text, f.err
}

func TestAcquireTextStructuredPath(t *testing.T) {
	processor := &fakeProcessor{texts: map[string]string{
		"doc": "Sub Total: 1.000.000\nVAT: 110.000",
	}}
	svc := NewExtractionService(processor, &fakeOCR{err: errors.New("should not be called")}, nil, time.Second)

	text := svc.AcquireText(context.Background(), []byte("doc"), 10)

	assert.Equal(t, dto.SourceText, text.Source)
	require.Len(t, text.Lines, 2)
	assert.Equal(t, "Sub Total: 1.000.000", text.Lines[0])
}

func TestAcquireTextFallsBackToOCR(t *testing.T) {
	processor := &fakeProcessor{texts: map[string]string{"doc": "x"}}
	ocr := &fakeOCR{text: "Sub Total: 1.000.000"}
	svc := NewExtractionService(processor, ocr, nil, time.Second)

	text := svc.AcquireText(context.Background(), []byte("doc"), 10)

	assert.Equal(t, dto.SourceOCR, text.Source)
	assert.Contains(t, text.Lines[0], "Sub Total")
}

func TestAcquireTextOCRTimeout(t *testing.T) {
	processor := &fakeProcessor{}
	ocr := &fakeOCR{text: "never delivered", delay: 500 * time.Millisecond}
	svc := NewExtractionService(processor, ocr, nil, 50*time.Millisecond)

	text := svc.AcquireText(context.Background(), []byte("doc"), 10)

	assert.Equal(t, dto.SourceNone, text.Source)
	assert.Empty(t, text.Lines)
}

func TestAcquireTextTotalFailureIsNotAnError(t *testing.T) {
	processor := &fakeProcessor{
		textErr:  errors.New("broken xref"),
		imageErr: errors.New("no images"),
	}
	svc := NewExtractionService(processor, &fakeOCR{}, nil, time.Second)

	text := svc.AcquireText(context.Background(), []byte("doc"), 10)

	assert.Equal(t, dto.SourceNone, text.Source)
	assert.Empty(t, text.Lines)
}

func TestAcquireTextKeepsShortStructuredTextWhenOCRFails(t *testing.T) {
	processor := &fakeProcessor{
		texts:    map[string]string{"doc": "Total 5.000"},
		imageErr: errors.New("no images"),
	}
	svc := NewExtractionService(processor, &fakeOCR{}, nil, time.Second)

	text := svc.AcquireText(context.Background(), []byte("doc"), 100)

	assert.Equal(t, dto.SourceText, text.Source)
	assert.Equal(t, "Total 5.000", text.Lines[0])
}

func TestExtractValue(t *testing.T) {
	svc := NewExtractionService(&fakeProcessor{}, &fakeOCR{}, nil, time.Second)
	opts := dto.DefaultCompareOptions()

	text := dto.ExtractedText{
		Lines:  []string{"PT Contoh", "Sub Total: 1.000.000", "VAT 11%: 110.000"},
		Source: dto.SourceText,
	}

	amount := svc.ExtractValue(text, "Sub Total", opts)
	assert.True(t, amount.Found)
	assert.Equal(t, 1000000.0, amount.Value)

	amount = svc.ExtractValue(text, "VAT", opts)
	assert.True(t, amount.Found)
	assert.Equal(t, 110000.0, amount.Value)
}

func TestExtractValueLabelNotFoundUsesFallbackFloor(t *testing.T) {
	svc := NewExtractionService(&fakeProcessor{}, &fakeOCR{}, nil, time.Second)
	opts := dto.DefaultCompareOptions()

	// no label, but one number above the floor
	text := dto.ExtractedText{Lines: []string{"Page 1 of 2", "Amount due 2.750.000"}}
	amount := svc.ExtractValue(text, "Sub Total", opts)
	assert.True(t, amount.Found)
	assert.Equal(t, 2750000.0, amount.Value)

	// no label and only trivial numbers: absent, not a guess
	text = dto.ExtractedText{Lines: []string{"Page 1 of 2", "item 42"}}
	amount = svc.ExtractValue(text, "Sub Total", opts)
	assert.False(t, amount.Found)
}

func TestExtractValueEmptyTextIsAbsent(t *testing.T) {
	svc := NewExtractionService(&fakeProcessor{}, &fakeOCR{}, nil, time.Second)

	amount := svc.ExtractValue(dto.ExtractedText{Source: dto.SourceNone}, "Sub Total", dto.DefaultCompareOptions())

	assert.False(t, amount.Found)
}

func TestExtractValueFromPDF(t *testing.T) {
	processor := &fakeProcessor{texts: map[string]string{
		"doc": "Invoice INV-042\nSub Total: 1.234,56\nVAT: 135,80",
	}}
	svc := NewExtractionService(processor, &fakeOCR{}, nil, time.Second)

	opts := dto.DefaultCompareOptions()
	opts.MinTextChars = 1

	amount := svc.ExtractValueFromPDF(context.Background(), []byte("doc"), "Sub Total", opts)

	assert.True(t, amount.Found)
	assert.Equal(t, 1234.56, amount.Value)
}
