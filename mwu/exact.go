package mwu

import (
	"fmt"

	"github.com/BenLubar/memoize"
)

// The U distribution depends only on the two group sizes, and a real source
// asks for the same sizes once per protein, so the tables are memoized.
var memoizedUCounts = memoize.Memoize(uCounts)

// Exact computes the two-sided P-value from the exact null distribution of
// U: twice the probability mass at or below the smaller of the two U
// statistics, clipped to 1. Only valid when the pooled sample contains no
// ties; Test checks that before dispatching here.
func Exact(x, y []float64) (u, p float64, err error) {
	if len(x) == 0 || len(y) == 0 {
		return 0, 0, fmt.Errorf("mwu: both samples must be non-empty (got %d and %d)", len(x), len(y))
	}

	n1, n2 := float64(len(x)), float64(len(y))

	u1 := pairU(x, y)
	u = u1
	if u2 := n1*n2 - u1; u2 > u {
		u = u2
	}
	umin := n1*n2 - u

	counts := memoizedUCounts.(func(int, int) []float64)(len(x), len(y))

	var le, total float64
	for i, c := range counts {
		total += c
		if float64(i) <= umin {
			le += c
		}
	}

	p = 2 * le / total
	if p > 1 {
		p = 1
	}

	return u, p, nil
}

// pairU counts the pairs (xi, yj) won by x, with half credit for ties.
func pairU(x, y []float64) float64 {
	var u float64

	for _, xv := range x {
		for _, yv := range y {
			if xv > yv {
				u++
			} else if xv == yv {
				u += 0.5
			}
		}
	}

	return u
}

// uCounts returns the number of rank arrangements yielding each U value for
// group sizes n and m, indexed by U from 0 through n*m. U for the first
// group is its rank sum minus n*(n+1)/2, so we tabulate rank sums of all
// n-subsets of ranks 1..n+m.
func uCounts(n, m int) []float64 {
	total := n + m
	maxSum := total * (total + 1) / 2

	ways := make([][]float64, n+1)
	for i := range ways {
		ways[i] = make([]float64, maxSum+1)
	}
	ways[0][0] = 1

	for r := 1; r <= total; r++ {
		top := n
		if r < top {
			top = r
		}
		for k := top; k >= 1; k-- {
			row, prev := ways[k], ways[k-1]
			for s := maxSum; s >= r; s-- {
				if prev[s-r] != 0 {
					row[s] += prev[s-r]
				}
			}
		}
	}

	offset := n * (n + 1) / 2
	counts := make([]float64, n*m+1)
	for i := range counts {
		counts[i] = ways[n][i+offset]
	}

	return counts
}
