package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindLabelLines(t *testing.T) {
	lines := []string{
		"PT Contoh Sejahtera",
		"Invoice No. INV-2024/091",
		"Sub Total: 1.000.000",
		"Shipping: 25.000",
		"sub total after discount 975.000",
	}

	assert.Equal(t, []int{2, 4}, FindLabelLines(lines, "Sub Total"))
	assert.Empty(t, FindLabelLines(lines, "Grand Total"))
}

func TestFindLabelLinesEscapesMetaCharacters(t *testing.T) {
	lines := []string{
		"Harga Jual / Penggantian / Uang Muka / Termin 2.500.000",
		"Dikurangi Potongan Harga",
	}

	assert.Equal(t, []int{0}, FindLabelLines(lines, "Harga Jual / Penggantian / Uang Muka / Termin"))
	// a label with regexp specials must match literally, not as a pattern
	assert.Empty(t, FindLabelLines(lines, "Termin (DP)"))
}

func TestFindLabelLinesLetterSpacedVAT(t *testing.T) {
	for _, line := range []string{
		"VAT 11%: 110.000",
		"V A T 110.000",
		"V.A.T. 110.000",
		"v-a-t 110.000",
	} {
		assert.Equal(t, []int{0}, FindLabelLines([]string{line}, "VAT"), "line %q", line)
		assert.Equal(t, []int{0}, FindLabelLines([]string{line}, "PPN"), "line %q", line)
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("Sub Total 1.000\r\nVAT 110")

	assert.Equal(t, []string{"Sub Total 1.000", "VAT 110"}, lines)
}
