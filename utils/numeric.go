package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numericNoise       = regexp.MustCompile(`[^\d.,\-]`)
	dotThousandsTail   = regexp.MustCompile(`\.\d{3}$`)
	commaThousandsTail = regexp.MustCompile(`,\d{3}$`)
)

// NormalizeNumberToken converts a numeric token written with mixed `.`/`,`
// separators into a float64. Currency symbols and other noise characters are
// stripped first. The second return value reports whether a value was parsed
// at all; zero and negative amounts are legitimate, so absence is never
// encoded as a number.
//
// When both separators appear the rightmost one is the decimal separator and
// the other marks thousands. A single separator followed by exactly three
// digits at the end of the token is read as a thousands separator, so
// "1.234" means one thousand two hundred thirty four.
func NormalizeNumberToken(token string) (float64, bool) {
	s := numericNoise.ReplaceAllString(strings.TrimSpace(token), "")
	if s == "" {
		return 0, false
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// comma decimal, dot thousands
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// dot decimal, comma thousands
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasDot:
		if strings.Count(s, ".") > 1 || dotThousandsTail.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		}
	case hasComma:
		if strings.Count(s, ",") > 1 || commaThousandsTail.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
