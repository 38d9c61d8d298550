package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// CompareResponse is the final response for a single comparison. MergedPDF is
// populated (base64 by encoding/json) only when the merge proceeded.
type CompareResponse struct {
	Decision    *PairDecision `json:"decision"`
	MergedPDF   []byte        `json:"merged_pdf,omitempty"`
	ProcessedAt string        `json:"processed_at"`
}

// BulkCompareResponse is the final response for a bulk comparison.
type BulkCompareResponse struct {
	Report      *BatchReport `json:"report"`
	ProcessedAt string       `json:"processed_at"`
}
