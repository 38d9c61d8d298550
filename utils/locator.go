package utils

import (
	"regexp"
	"strings"
)

// letterSpacedVAT matches the VAT phrase class regardless of how OCR renders
// it: "VAT", "V A T", "V.A.T.", "V-A-T".
var letterSpacedVAT = regexp.MustCompile(`(?i)v[\s.\-]*a[\s.\-]*t`)

// vatAliases are the label spellings routed to the letter-spaced pattern
// instead of the literal path.
var vatAliases = map[string]bool{
	"vat":    true,
	"v.a.t":  true,
	"v.a.t.": true,
	"ppn":    true,
}

// LabelPattern compiles the matcher for a label. Known tax-label aliases use
// the letter-spaced phrase pattern; every other label matches its literal
// text, case-insensitive, with regexp metacharacters escaped.
func LabelPattern(label string) *regexp.Regexp {
	if vatAliases[strings.ToLower(strings.TrimSpace(label))] {
		return letterSpacedVAT
	}
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label))
}

// FindLabelLines returns the index of every line where the label occurs, in
// document order. No cap on the number of matches.
func FindLabelLines(lines []string, label string) []int {
	re := LabelPattern(label)
	var indices []int
	for i, line := range lines {
		if re.MatchString(line) {
			indices = append(indices, i)
		}
	}
	return indices
}

// SplitLines breaks acquired document text into the line sequence the
// locator and selector operate on. Non-breaking spaces are folded to plain
// spaces first; OCR output is full of them.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\u202f", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
