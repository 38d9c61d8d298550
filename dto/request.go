package dto

import (
	"errors"
	"mime/multipart"
)

// CompareRequest represents a single invoice/facture comparison upload.
type CompareRequest struct {
	Invoice *multipart.FileHeader `form:"invoice" binding:"required"`
	Facture *multipart.FileHeader `form:"facture" binding:"required"`
}

// Validate performs basic validation on the request
func (r *CompareRequest) Validate() error {
	if r.Invoice == nil {
		return errors.New("invoice file is required")
	}
	if r.Facture == nil {
		return errors.New("facture file is required")
	}
	return nil
}

// BulkCompareRequest represents a bulk comparison upload. Invoices and
// factures are paired later by basename.
type BulkCompareRequest struct {
	Invoices []*multipart.FileHeader `form:"invoices[]" binding:"required"`
	Factures []*multipart.FileHeader `form:"factures[]" binding:"required"`
}

// Validate performs basic validation on the request
func (r *BulkCompareRequest) Validate() error {
	if len(r.Invoices) == 0 {
		return errors.New("at least one invoice file is required")
	}
	if len(r.Factures) == 0 {
		return errors.New("at least one facture file is required")
	}
	return nil
}
