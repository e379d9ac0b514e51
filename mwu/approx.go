package mwu

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Approx computes the two-sided P-value from the normal approximation to the
// U distribution, using average ranks, the tie-corrected variance, and a 0.5
// continuity correction. When every pooled value is identical the tie
// correction collapses the variance to zero; that configuration carries no
// evidence against the null and yields P = 1.
func Approx(x, y []float64) (u, p float64, err error) {
	if len(x) == 0 || len(y) == 0 {
		return 0, 0, fmt.Errorf("mwu: both samples must be non-empty (got %d and %d)", len(x), len(y))
	}

	n1, n2 := float64(len(x)), float64(len(y))
	n := n1 + n2

	ranks, tieTerm := rankAll(x, y)

	var r1 float64
	for i := 0; i < len(x); i++ {
		r1 += ranks[i]
	}

	u1 := r1 - n1*(n1+1)/2
	u = u1
	if u2 := n1*n2 - u1; u2 > u {
		u = u2
	}

	mu := n1 * n2 / 2
	sigma2 := n1 * n2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if sigma2 <= 0 {
		return u, 1, nil
	}

	z := (u - mu - 0.5) / math.Sqrt(sigma2)

	p = 2 * distuv.Normal{Mu: 0, Sigma: 1}.Survival(z)
	if p > 1 {
		p = 1
	}

	return u, p, nil
}

// rankAll assigns 1-based average ranks to the pooled sample. The returned
// ranks are aligned with x followed by y. tieTerm is sum(t^3 - t) over tie
// groups of size t, for the tie-corrected variance.
func rankAll(x, y []float64) (ranks []float64, tieTerm float64) {
	n := len(x) + len(y)

	pooled := make([]float64, 0, n)
	pooled = append(pooled, x...)
	pooled = append(pooled, y...)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return pooled[idx[a]] < pooled[idx[b]] })

	ranks = make([]float64, n)

	for i := 0; i < n; {
		j := i
		for j < n && pooled[idx[j]] == pooled[idx[i]] {
			j++
		}

		// Positions i..j-1 hold ranks i+1..j; ties share the average.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}

		t := float64(j - i)
		tieTerm += t*t*t - t

		i = j
	}

	return ranks, tieTerm
}
