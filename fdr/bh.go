// Package fdr provides multiple-testing correction for families of P-values.
package fdr

import (
	"fmt"
	"math"
	"sort"
)

// Adjusted is the corrected record for one input P-value. Output positions
// match input positions.
type Adjusted struct {
	P         float64
	PAdjusted float64
	Reject    bool
}

// BenjaminiHochberg applies the Benjamini-Hochberg step-up procedure to a
// family of P-values at false-discovery rate alpha. The i'th output record
// corresponds to the i'th input value. Adjusted values are the step-up
// cumulative minimum of p*n/rank, clipped to 1. The procedure is
// deterministic: the same family always yields the same records.
func BenjaminiHochberg(p []float64, alpha float64) ([]Adjusted, error) {
	out := make([]Adjusted, len(p))
	if len(p) == 0 {
		return out, nil
	}

	order := make([]int, len(p))
	for i, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("fdr: P-value %v at position %d is outside [0, 1]", v, i)
		}
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return p[order[a]] < p[order[b]] })

	n := float64(len(p))

	// Find the largest rank whose P-value sits at or under its step-up line;
	// every hypothesis at or below that rank is rejected.
	maxRejectRank := -1
	for rank, idx := range order {
		if p[idx] <= float64(rank+1)/n*alpha {
			maxRejectRank = rank
		}
	}

	running := 1.0
	for rank := len(order) - 1; rank >= 0; rank-- {
		idx := order[rank]

		adjusted := p[idx] * n / float64(rank+1)
		if adjusted < running {
			running = adjusted
		}

		out[idx] = Adjusted{
			P:         p[idx],
			PAdjusted: running,
			Reject:    rank <= maxRejectRank,
		}
	}

	return out, nil
}
