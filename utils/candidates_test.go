package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mariaherliana/fusionpdf/dto"
)

func TestSelectAmountExcludesPercentTokens(t *testing.T) {
	lines := []string{"VAT 11% of 1.000.000 is 110.000"}
	labelLines := FindLabelLines(lines, "VAT")

	largest, ok := SelectAmount(lines, labelLines, ScanOptions{Policy: dto.PolicyLargest})
	assert.True(t, ok)
	assert.Equal(t, 1000000.0, largest)

	rightmost, ok := SelectAmount(lines, labelLines, ScanOptions{Policy: dto.PolicyRightmost})
	assert.True(t, ok)
	assert.Equal(t, 110000.0, rightmost)

	// either policy, never the rate
	assert.NotEqual(t, 11.0, largest)
	assert.NotEqual(t, 11.0, rightmost)
}

func TestSelectAmountRightmostOnLine(t *testing.T) {
	lines := []string{"Sub Total 31/12/2024 1.500.000"}

	got, ok := SelectAmount(lines, []int{0}, ScanOptions{Policy: dto.PolicyRightmost})
	assert.True(t, ok)
	assert.Equal(t, 1500000.0, got)
}

func TestSelectAmountLargestSurvivesDateFragments(t *testing.T) {
	// date fragments carry fewer digits than the amount
	lines := []string{"Sub Total 1.500.000 (ref 31/12/2024)"}

	got, ok := SelectAmount(lines, []int{0}, ScanOptions{Policy: dto.PolicyLargest})
	assert.True(t, ok)
	assert.Equal(t, 1500000.0, got)
}

func TestSelectAmountScansWindowLines(t *testing.T) {
	lines := []string{
		"Jumlah PPN (Pajak Pertambahan Nilai)",
		"",
		"110.000",
	}

	_, ok := SelectAmount(lines, []int{0}, ScanOptions{WindowLines: 1, Policy: dto.PolicyLargest})
	assert.False(t, ok, "amount sits outside a 1-line window")

	got, ok := SelectAmount(lines, []int{0}, ScanOptions{WindowLines: 2, Policy: dto.PolicyLargest})
	assert.True(t, ok)
	assert.Equal(t, 110000.0, got)
}

func TestSelectAmountNoCandidate(t *testing.T) {
	lines := []string{"Sub Total to be confirmed"}

	_, ok := SelectAmount(lines, []int{0}, ScanOptions{Policy: dto.PolicyLargest})
	assert.False(t, ok)
}

func TestFallbackAmountAppliesMagnitudeFloor(t *testing.T) {
	lines := []string{
		"Page 1 of 2",
		"Issued 2024",
		"Amount due 2.750.000",
	}

	got, ok := FallbackAmount(lines)
	assert.True(t, ok)
	assert.Equal(t, 2750000.0, got)

	_, ok = FallbackAmount([]string{"Page 1 of 2", "item 42"})
	assert.False(t, ok, "nothing above the floor")
}
