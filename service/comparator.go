package service

import (
	"math"

	"github.com/mariaherliana/fusionpdf/dto"
)

// CompareAmounts decides match/mismatch between two canonical values under
// the tolerance policy. It is a pure function of its inputs: no state, no
// ordering dependency between calls.
//
// Decision order, first hit wins: either side absent (MISSING), absolute
// difference within absTol, relative difference within relTol (denominator
// floored at 1 so tiny facture values cannot blow it up), otherwise DIFFERS
// with the signed difference kept for diagnostics. Strict comparison is just
// both tolerances at zero.
func CompareAmounts(a, b dto.Amount, absTol, relTol float64) dto.ComparisonResult {
	result := dto.ComparisonResult{Invoice: a, Facture: b}

	if !a.Found || !b.Found {
		result.Reason = dto.ReasonMissing
		return result
	}

	diff := a.Value - b.Value
	result.Diff = diff

	if math.Abs(diff) <= absTol {
		result.Match = true
		result.Reason = dto.ReasonAbsTolerance
		return result
	}

	denom := math.Max(math.Abs(b.Value), 1.0)
	if math.Abs(diff)/denom <= relTol {
		result.Match = true
		result.Reason = dto.ReasonRelTolerance
		return result
	}

	result.Reason = dto.ReasonDiffers
	return result
}
