package dto

// Comparison reason codes. Exactly one is set on every ComparisonResult.
const (
	ReasonMissing      = "MISSING"
	ReasonAbsTolerance = "ABS_WITHIN_TOLERANCE"
	ReasonRelTolerance = "REL_WITHIN_TOLERANCE"
	ReasonDiffers      = "DIFFERS"
)

// SelectionPolicy picks which monetary token wins when a label line holds
// several.
type SelectionPolicy string

const (
	// PolicyRightmost prefers the last token on the matched line; amounts
	// conventionally sit right-aligned after the label.
	PolicyRightmost SelectionPolicy = "rightmost"
	// PolicyLargest prefers the token with the most digits (ties broken by
	// numeric value), which survives dates and footnote markers earlier on
	// the line.
	PolicyLargest SelectionPolicy = "largest"
)

// Text acquisition source tags, kept for diagnostics.
const (
	SourceText = "text" // embedded PDF text objects
	SourceOCR  = "ocr"  // recognition pass over rendered page images
	SourceNone = "none" // both strategies produced nothing
)

// Amount is a normalized monetary value. Found distinguishes a real zero or
// negative amount from "nothing was extracted"; no sentinel numbers.
type Amount struct {
	Value float64 `json:"value"`
	Found bool    `json:"found"`
}

// ExtractedText is the line-oriented text of one document, tagged with the
// strategy that produced it.
type ExtractedText struct {
	Lines  []string `json:"-"`
	Source string   `json:"source"`
}

// LabelPair names the label to search on each side of a document pair.
type LabelPair struct {
	Invoice string `json:"invoice"`
	Facture string `json:"facture"`
}

// CompareOptions carries every per-call knob explicitly; nothing in the
// engine reads ambient state.
type CompareOptions struct {
	Labels       []LabelPair     `json:"labels"`
	AbsTol       float64         `json:"abs_tol"`
	RelTol       float64         `json:"rel_tol"`
	Strict       bool            `json:"strict"`
	WindowLines  int             `json:"window_lines"`
	Policy       SelectionPolicy `json:"policy"`
	ForceMerge   bool            `json:"force_merge"`
	DecodeQR     bool            `json:"decode_qr"`
	MinTextChars int             `json:"min_text_chars"`
}

// DefaultCompareOptions returns the label pairs and tolerances the tool has
// always shipped with: an invoice subtotal/VAT against the matching figures
// of an Indonesian e-Faktur.
func DefaultCompareOptions() CompareOptions {
	return CompareOptions{
		Labels: []LabelPair{
			{Invoice: "Sub Total", Facture: "Harga Jual / Penggantian / Uang Muka / Termin"},
			{Invoice: "VAT", Facture: "Jumlah PPN (Pajak Pertambahan Nilai)"},
		},
		AbsTol:       1.0,
		RelTol:       0.005,
		WindowLines:  2,
		Policy:       PolicyLargest,
		MinTextChars: 80,
	}
}

// WithDefaults fills unset fields from DefaultCompareOptions. A zero
// tolerance pair is only honored in strict mode.
func (o CompareOptions) WithDefaults() CompareOptions {
	def := DefaultCompareOptions()
	if len(o.Labels) == 0 {
		o.Labels = def.Labels
	}
	if !o.Strict && o.AbsTol == 0 && o.RelTol == 0 {
		o.AbsTol, o.RelTol = def.AbsTol, def.RelTol
	}
	if o.Policy == "" {
		o.Policy = def.Policy
	}
	if o.MinTextChars <= 0 {
		o.MinTextChars = def.MinTextChars
	}
	return o
}

// ComparisonResult is the outcome of comparing one label pair.
type ComparisonResult struct {
	InvoiceLabel string  `json:"invoice_label"`
	FactureLabel string  `json:"facture_label"`
	Invoice      Amount  `json:"invoice"`
	Facture      Amount  `json:"facture"`
	Match        bool    `json:"match"`
	Reason       string  `json:"reason"`
	Diff         float64 `json:"diff"`
}

// PairDecision aggregates all label-pair results for one invoice/facture
// pair into a single merge recommendation.
type PairDecision struct {
	Name             string             `json:"name,omitempty"`
	Results          []ComparisonResult `json:"results"`
	Match            bool               `json:"match"`
	MergeRecommended bool               `json:"merge_recommended"`
	InvoiceSource    string             `json:"invoice_source"`
	FactureSource    string             `json:"facture_source"`
	QRPayload        string             `json:"qr_payload,omitempty"`
}

// PairResult is one row of a batch report.
type PairResult struct {
	Name     string        `json:"name"`
	Decision *PairDecision `json:"decision,omitempty"`
	Merged   bool          `json:"merged"`
	Error    string        `json:"error,omitempty"`
}

// BatchReport summarizes a bulk comparison run. Unpaired inputs are listed,
// never silently dropped.
type BatchReport struct {
	Pairs            []PairResult `json:"pairs"`
	Matched          int          `json:"matched"`
	Mismatched       int          `json:"mismatched"`
	Failed           int          `json:"failed"`
	UnpairedInvoices []string     `json:"unpaired_invoices"`
	UnpairedFactures []string     `json:"unpaired_factures"`
}
