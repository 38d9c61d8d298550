package utils

import (
	"regexp"
	"strings"

	"github.com/mariaherliana/fusionpdf/dto"
)

// moneyToken matches monetary-number shapes: digits grouped in threes with
// `.`/`,` separators and an optional 2-digit decimal group, a plain decimal
// number, or a bare digit run.
var moneyToken = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{2})?|\d+[.,]\d{2}|\d+`)

// FallbackMinValue is the magnitude floor applied only by the whole-document
// fallback scan, so a last-resort guess never returns a trivial number.
const FallbackMinValue = 1000.0

// ScanOptions controls the candidate scan around a located label.
type ScanOptions struct {
	WindowLines int
	Policy      dto.SelectionPolicy
}

// candidate is one numeric-looking token found near a label, already
// normalized. Normalization happens here exactly once per token.
type candidate struct {
	raw   string
	value float64
	line  int
	start int
}

// SelectAmount scans each label line plus up to WindowLines following lines
// for monetary tokens and reduces them to at most one canonical value. Label
// locations are visited in document order; the first location yielding any
// surviving candidate wins.
func SelectAmount(lines []string, labelLines []int, opts ScanOptions) (float64, bool) {
	for _, li := range labelLines {
		var cands []candidate
		for off := 0; off <= opts.WindowLines && li+off < len(lines); off++ {
			cands = append(cands, lineCandidates(lines[li+off], li+off, 0)...)
		}
		if len(cands) == 0 {
			continue
		}
		return pick(cands, opts.Policy).value, true
	}
	return 0, false
}

// FallbackAmount is the last-resort scan over the whole document, used only
// when the label never matched. The magnitude floor filters out dates,
// counters and footnote numbers.
func FallbackAmount(lines []string) (float64, bool) {
	var cands []candidate
	for i, line := range lines {
		cands = append(cands, lineCandidates(line, i, FallbackMinValue)...)
	}
	if len(cands) == 0 {
		return 0, false
	}
	// rightmost has no meaning document-wide; always take the strongest.
	return pick(cands, dto.PolicyLargest).value, true
}

// lineCandidates extracts and normalizes the surviving monetary tokens on
// one line. Tokens in percent context are tax rates, not amounts.
func lineCandidates(line string, lineIdx int, minValue float64) []candidate {
	var out []candidate
	for _, loc := range moneyToken.FindAllStringIndex(line, -1) {
		raw := line[loc[0]:loc[1]]
		if percentContext(line, loc[0], loc[1]) {
			continue
		}
		value, ok := NormalizeNumberToken(raw)
		if !ok {
			continue
		}
		if minValue > 0 && value < minValue {
			continue
		}
		out = append(out, candidate{raw: raw, value: value, line: lineIdx, start: loc[0]})
	}
	return out
}

// percentContext reports whether the token's immediate neighborhood marks it
// as a rate: a percent sign or the word "percent" just after it, or a
// percent sign directly before.
func percentContext(line string, start, end int) bool {
	lo := start - 2
	if lo < 0 {
		lo = 0
	}
	hi := end + 8
	if hi > len(line) {
		hi = len(line)
	}
	window := strings.ToLower(line[lo:hi])
	return strings.Contains(window, "%") || strings.Contains(window, "percent")
}

func pick(cands []candidate, policy dto.SelectionPolicy) candidate {
	if policy == dto.PolicyRightmost {
		// last surviving token on the first line that produced any
		best := cands[0]
		for _, c := range cands {
			if c.line != best.line {
				break
			}
			best = c
		}
		return best
	}
	// PolicyLargest: most digits wins, numeric value breaks ties.
	best := cands[0]
	for _, c := range cands[1:] {
		cd, bd := digitCount(c.raw), digitCount(best.raw)
		if cd > bd || (cd == bd && c.value > best.value) {
			best = c
		}
	}
	return best
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
