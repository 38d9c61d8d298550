package service

import (
	"context"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/mariaherliana/fusionpdf/dto"
)

// FusionService orchestrates pair comparison, merge gating and batch runs.
type FusionService struct {
	extraction *ExtractionService
	processor  PDFProcessor
	workers    int
}

func NewFusionService(extraction *ExtractionService, processor PDFProcessor, workers int) *FusionService {
	if workers <= 0 {
		workers = 4
	}
	return &FusionService{
		extraction: extraction,
		processor:  processor,
		workers:    workers,
	}
}

// ComparePair extracts the configured label pairs from both documents and
// compares them. Overall match requires every pair to match; the merge is
// recommended on match or an explicit force flag.
func (s *FusionService) ComparePair(ctx context.Context, invoice, facture []byte, opts dto.CompareOptions) *dto.PairDecision {
	opts = opts.WithDefaults()

	absTol, relTol := opts.AbsTol, opts.RelTol
	if opts.Strict {
		absTol, relTol = 0, 0
	}

	// the two documents have no data dependency; acquire them concurrently
	var invText, facText dto.ExtractedText
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		invText = s.extraction.AcquireText(ctx, invoice, opts.MinTextChars)
	}()
	go func() {
		defer wg.Done()
		facText = s.extraction.AcquireText(ctx, facture, opts.MinTextChars)
	}()
	wg.Wait()

	decision := &dto.PairDecision{
		Match:         true,
		InvoiceSource: invText.Source,
		FactureSource: facText.Source,
	}

	for _, pair := range opts.Labels {
		result := CompareAmounts(
			s.extraction.ExtractValue(invText, pair.Invoice, opts),
			s.extraction.ExtractValue(facText, pair.Facture, opts),
			absTol, relTol,
		)
		result.InvoiceLabel = pair.Invoice
		result.FactureLabel = pair.Facture
		decision.Results = append(decision.Results, result)
		if !result.Match {
			decision.Match = false
		}
	}

	decision.MergeRecommended = decision.Match || opts.ForceMerge

	if opts.DecodeQR {
		decision.QRPayload = s.decodeQR(facture)
	}
	return decision
}

// MergePair concatenates invoice pages then facture pages. Callers gate it
// on the pair decision or an explicit force.
func (s *FusionService) MergePair(invoice, facture []byte) ([]byte, error) {
	return s.processor.Merge(invoice, facture)
}

// BatchOutcome bundles the batch report with the merged documents of the
// pairs whose merge proceeded, keyed by pair name.
type BatchOutcome struct {
	Report *dto.BatchReport
	Merged map[string][]byte
}

// CompareBatch pairs invoices and factures by basename, runs every pair
// through ComparePair on a bounded worker pool and merges the pairs whose
// decision allows it. A failing pair never aborts its siblings; inputs with
// no counterpart are reported, not dropped.
func (s *FusionService) CompareBatch(ctx context.Context, invoices, factures map[string][]byte, opts dto.CompareOptions) *BatchOutcome {
	opts = opts.WithDefaults()

	invByBase := make(map[string]string, len(invoices))
	for name := range invoices {
		invByBase[baseName(name)] = name
	}
	facByBase := make(map[string]string, len(factures))
	for name := range factures {
		facByBase[baseName(name)] = name
	}

	report := &dto.BatchReport{
		UnpairedInvoices: []string{},
		UnpairedFactures: []string{},
	}

	var pairNames []string
	for base, invName := range invByBase {
		if _, ok := facByBase[base]; ok {
			pairNames = append(pairNames, base)
		} else {
			report.UnpairedInvoices = append(report.UnpairedInvoices, invName)
		}
	}
	for base, facName := range facByBase {
		if _, ok := invByBase[base]; !ok {
			report.UnpairedFactures = append(report.UnpairedFactures, facName)
		}
	}
	sort.Strings(pairNames)
	sort.Strings(report.UnpairedInvoices)
	sort.Strings(report.UnpairedFactures)

	merged := make(map[string][]byte)
	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for base := range jobs {
				invoice := invoices[invByBase[base]]
				facture := factures[facByBase[base]]

				decision := s.ComparePair(ctx, invoice, facture, opts)
				decision.Name = base

				result := dto.PairResult{Name: base, Decision: decision}
				var mergedPDF []byte
				if decision.MergeRecommended {
					var err error
					mergedPDF, err = s.MergePair(invoice, facture)
					if err != nil {
						log.Printf("merge failed for pair %s: %v", base, err)
						result.Error = err.Error()
					} else {
						result.Merged = true
					}
				}

				mu.Lock()
				report.Pairs = append(report.Pairs, result)
				if result.Merged {
					merged[base] = mergedPDF
				}
				mu.Unlock()
			}
		}()
	}

	for _, base := range pairNames {
		jobs <- base
	}
	close(jobs)
	wg.Wait()

	// workers finish in arbitrary order; the report stays deterministic
	sort.Slice(report.Pairs, func(i, j int) bool {
		return report.Pairs[i].Name < report.Pairs[j].Name
	})
	for _, pair := range report.Pairs {
		switch {
		case pair.Error != "":
			report.Failed++
		case pair.Decision.Match:
			report.Matched++
		default:
			report.Mismatched++
		}
	}

	return &BatchOutcome{Report: report, Merged: merged}
}

// decodeQR scans the facture's page images for a QR code, the verification
// barcode Indonesian e-Faktur documents carry. Best effort: any failure
// leaves the payload empty.
func (s *FusionService) decodeQR(pdfData []byte) string {
	images, err := s.processor.ExtractImages(pdfData)
	if err != nil || len(images) == 0 {
		return ""
	}

	reader := qrcode.NewQRCodeReader()
	for _, img := range images {
		bmp, err := gozxing.NewBinaryBitmapFromImage(img)
		if err != nil {
			continue
		}
		result, err := reader.Decode(bmp, nil)
		if err != nil {
			continue
		}
		return result.GetText()
	}
	return ""
}

// baseName strips directory and extension so "inv/0091.pdf" pairs with
// "0091.PDF".
func baseName(name string) string {
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
