// Package mwu implements the two-sided Mann-Whitney U test for two
// independent samples. The test makes no assumption of equal variance or of
// normality in either sample.
package mwu

import "fmt"

// exactMaxN is the largest per-group size for which the exact U distribution
// is enumerated. Beyond this the normal approximation is indistinguishable
// from the exact result at any precision we report.
const exactMaxN = 25

// Test computes the U statistic and two-sided P-value for the two samples.
// The exact null distribution is used when both samples are small and the
// pooled values contain no ties; otherwise the tie-corrected normal
// approximation is used.
func Test(x, y []float64) (u, p float64, err error) {
	if len(x) == 0 || len(y) == 0 {
		return 0, 0, fmt.Errorf("mwu: both samples must be non-empty (got %d and %d)", len(x), len(y))
	}

	if len(x) <= exactMaxN && len(y) <= exactMaxN && !hasTies(x, y) {
		return Exact(x, y)
	}

	return Approx(x, y)
}

func hasTies(x, y []float64) bool {
	seen := make(map[float64]struct{}, len(x)+len(y))

	for _, v := range x {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}

	for _, v := range y {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}

	return false
}
