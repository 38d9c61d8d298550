package handler

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mariaherliana/fusionpdf/dto"
	"github.com/mariaherliana/fusionpdf/service"
)

type FusionHandler struct {
	fusionService *service.FusionService
	defaults      dto.CompareOptions
}

func NewFusionHandler(fusionService *service.FusionService, defaults dto.CompareOptions) *FusionHandler {
	return &FusionHandler{
		fusionService: fusionService,
		defaults:      defaults,
	}
}

// ComparePair handles POST /compare: one invoice, one facture, a decision
// and, when the merge proceeds, the merged document.
func (h *FusionHandler) ComparePair(c *gin.Context) {
	log.Println("Received pair comparison request")

	invoice, facture, ok := h.readPair(c)
	if !ok {
		return
	}
	opts := h.parseOptions(c)

	decision := h.fusionService.ComparePair(c.Request.Context(), invoice, facture, opts)

	response := &dto.CompareResponse{
		Decision:    decision,
		ProcessedAt: time.Now().Format(time.RFC3339),
	}

	if decision.MergeRecommended {
		merged, err := h.fusionService.MergePair(invoice, facture)
		if err != nil {
			h.sendError(c, http.StatusUnprocessableEntity, "Failed to merge documents", err)
			return
		}
		response.MergedPDF = merged
	}

	c.JSON(http.StatusOK, response)
}

// MergePair handles POST /merge: returns the merged PDF stream, gated by the
// comparison decision or the force flag.
func (h *FusionHandler) MergePair(c *gin.Context) {
	invoice, facture, ok := h.readPair(c)
	if !ok {
		return
	}
	opts := h.parseOptions(c)

	decision := h.fusionService.ComparePair(c.Request.Context(), invoice, facture, opts)
	if !decision.MergeRecommended {
		c.JSON(http.StatusConflict, gin.H{
			"error":    "VALUES_DO_NOT_MATCH",
			"decision": decision,
		})
		return
	}

	merged, err := h.fusionService.MergePair(invoice, facture)
	if err != nil {
		h.sendError(c, http.StatusUnprocessableEntity, "Failed to merge documents", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="merged.pdf"`)
	c.Data(http.StatusOK, "application/pdf", merged)
}

// CompareBulk handles POST /compare/bulk. Invoices and factures are paired
// by basename; the report lists every pair plus the unpaired leftovers.
// ?format=csv returns the summary table instead of JSON.
func (h *FusionHandler) CompareBulk(c *gin.Context) {
	log.Println("Received bulk comparison request")

	invoices, factures, ok := h.readBulk(c)
	if !ok {
		return
	}
	opts := h.parseOptions(c)

	outcome := h.fusionService.CompareBatch(c.Request.Context(), invoices, factures, opts)

	if c.Query("format") == "csv" {
		h.writeReportCSV(c, outcome.Report)
		return
	}

	c.JSON(http.StatusOK, &dto.BulkCompareResponse{
		Report:      outcome.Report,
		ProcessedAt: time.Now().Format(time.RFC3339),
	})
}

// MergeBulk handles POST /merge/bulk: a zip of the merged documents for
// every pair whose merge proceeded.
func (h *FusionHandler) MergeBulk(c *gin.Context) {
	invoices, factures, ok := h.readBulk(c)
	if !ok {
		return
	}
	opts := h.parseOptions(c)

	outcome := h.fusionService.CompareBatch(c.Request.Context(), invoices, factures, opts)
	if len(outcome.Merged) == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "NO_MERGEABLE_PAIRS",
			"report": outcome.Report,
		})
		return
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, pair := range outcome.Report.Pairs {
		merged, ok := outcome.Merged[pair.Name]
		if !ok {
			continue
		}
		entry, err := zw.Create(pair.Name + "_merged.pdf")
		if err != nil {
			h.sendError(c, http.StatusInternalServerError, "Failed to build archive", err)
			return
		}
		if _, err := entry.Write(merged); err != nil {
			h.sendError(c, http.StatusInternalServerError, "Failed to build archive", err)
			return
		}
	}
	if err := zw.Close(); err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to build archive", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="merged_results.zip"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func (h *FusionHandler) readPair(c *gin.Context) (invoice, facture []byte, ok bool) {
	request := &dto.CompareRequest{}
	var err error
	request.Invoice, err = c.FormFile("invoice")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Invoice file is required", err)
		return nil, nil, false
	}
	request.Facture, err = c.FormFile("facture")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Facture file is required", err)
		return nil, nil, false
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return nil, nil, false
	}

	invoice, err = readFileHeader(request.Invoice)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read invoice", err)
		return nil, nil, false
	}
	facture, err = readFileHeader(request.Facture)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read facture", err)
		return nil, nil, false
	}
	return invoice, facture, true
}

func (h *FusionHandler) readBulk(c *gin.Context) (invoices, factures map[string][]byte, ok bool) {
	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return nil, nil, false
	}

	request := &dto.BulkCompareRequest{
		Invoices: form.File["invoices[]"],
		Factures: form.File["factures[]"],
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return nil, nil, false
	}

	log.Printf("Processing %d invoices against %d factures", len(request.Invoices), len(request.Factures))

	invoices, err = readFileHeaders(request.Invoices)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read invoices", err)
		return nil, nil, false
	}
	factures, err = readFileHeaders(request.Factures)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read factures", err)
		return nil, nil, false
	}
	return invoices, factures, true
}

// parseOptions builds CompareOptions from the configured defaults plus any
// form overrides. Bad numeric fields fall back silently to the defaults.
func (h *FusionHandler) parseOptions(c *gin.Context) dto.CompareOptions {
	opts := h.defaults

	labels := dto.DefaultCompareOptions().Labels
	if len(opts.Labels) == 2 {
		copy(labels, opts.Labels)
	}
	if v := c.PostForm("invoice_label_1"); v != "" {
		labels[0].Invoice = v
	}
	if v := c.PostForm("invoice_label_2"); v != "" {
		labels[1].Invoice = v
	}
	if v := c.PostForm("facture_label_1"); v != "" {
		labels[0].Facture = v
	}
	if v := c.PostForm("facture_label_2"); v != "" {
		labels[1].Facture = v
	}
	opts.Labels = labels

	if v := c.PostForm("abs_tol"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			opts.AbsTol = f
		}
	}
	if v := c.PostForm("rel_tol"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			opts.RelTol = f
		}
	}
	if v := c.PostForm("window_lines"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts.WindowLines = n
		}
	}
	if v := c.PostForm("policy"); v != "" {
		switch dto.SelectionPolicy(v) {
		case dto.PolicyRightmost, dto.PolicyLargest:
			opts.Policy = dto.SelectionPolicy(v)
		}
	}
	opts.Strict = c.PostForm("strict") == "true"
	opts.ForceMerge = c.PostForm("force_merge") == "true"
	opts.DecodeQR = c.PostForm("decode_qr") == "true"

	return opts
}

func (h *FusionHandler) writeReportCSV(c *gin.Context, report *dto.BatchReport) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"pair", "match", "merged", "reason", "invoice_value", "facture_value", "error"})
	for _, pair := range report.Pairs {
		reason := ""
		invoiceValue, factureValue := "", ""
		if pair.Decision != nil && len(pair.Decision.Results) > 0 {
			first := pair.Decision.Results[0]
			reason = first.Reason
			if first.Invoice.Found {
				invoiceValue = strconv.FormatFloat(first.Invoice.Value, 'f', 2, 64)
			}
			if first.Facture.Found {
				factureValue = strconv.FormatFloat(first.Facture.Value, 'f', 2, 64)
			}
		}
		w.Write([]string{
			pair.Name,
			strconv.FormatBool(pair.Decision != nil && pair.Decision.Match),
			strconv.FormatBool(pair.Merged),
			reason,
			invoiceValue,
			factureValue,
			pair.Error,
		})
	}
	for _, name := range report.UnpairedInvoices {
		w.Write([]string{name, "", "", "UNPAIRED_INVOICE", "", "", ""})
	}
	for _, name := range report.UnpairedFactures {
		w.Write([]string{name, "", "", "UNPAIRED_FACTURE", "", "", ""})
	}
	w.Flush()

	c.Header("Content-Disposition", `attachment; filename="comparison_summary.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// sendError sends a structured error response
func (h *FusionHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "COMPARISON_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fh.Filename, err)
	}
	return data, nil
}

func readFileHeaders(fhs []*multipart.FileHeader) (map[string][]byte, error) {
	files := make(map[string][]byte, len(fhs))
	for _, fh := range fhs {
		data, err := readFileHeader(fh)
		if err != nil {
			return nil, err
		}
		files[fh.Filename] = data
	}
	return files, nil
}
