package mwu

import (
	"math"
	"testing"
)

type expectations struct {
	X []float64
	Y []float64

	U float64
	P float64
}

// Truth values cross-checked against scipy.stats.mannwhitneyu
// (alternative="two-sided").
func TestExact(t *testing.T) {
	for _, v := range []expectations{
		{[]float64{1, 2}, []float64{3, 4}, 4, 0.333333333333},
		{[]float64{1, 3}, []float64{2, 4}, 3, 0.666666666667},
		{[]float64{1, 2, 3}, []float64{4, 5, 6}, 9, 0.1},
		{[]float64{4, 5, 6}, []float64{1, 2, 3}, 9, 0.1},
		{[]float64{1, 4, 5}, []float64{2, 3, 6}, 5, 1},
		{[]float64{1, 2, 3, 4}, []float64{5, 6}, 8, 0.133333333333},
	} {
		u, p, err := Test(v.X, v.Y)
		if err != nil {
			t.Fatalf("Error with input %+v: %v", v, err)
		}
		if math.Abs(u-v.U) > 1e-9 {
			t.Fatalf("\nError with input: %+v\nU: %f\nExpected: %f\n", v, u, v.U)
		}
		if math.Abs(p-v.P) > 1e-9 {
			t.Fatalf("\nError with input: %+v\nP: %.12f\nExpected: %.12f\nDiff: %.12f\n", v, p, v.P, p-v.P)
		}
	}
}

// Repeated calls with the same group sizes share one memoized distribution
// table; the table must come back intact for every caller.
func TestExactSharedDistribution(t *testing.T) {
	_, p1, err := Exact([]float64{1, 2, 3}, []float64{4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}

	_, p2, err := Exact([]float64{1, 4, 5}, []float64{2, 3, 6})
	if err != nil {
		t.Fatal(err)
	}
	if p2 != 1 {
		t.Fatalf("Second 3v3 call: P %.12f, expected 1", p2)
	}

	_, p3, err := Exact([]float64{1, 2, 3}, []float64{4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(p1-0.1) > 1e-9 || p1 != p3 {
		t.Fatalf("Repeated 3v3 calls drifted: first P %.12f, third P %.12f, expected both 0.1", p1, p3)
	}
}

func TestApproxWithTies(t *testing.T) {
	// Pooled ties force the normal approximation even at small N.
	u, p, err := Test([]float64{1, 1}, []float64{100, 100})
	if err != nil {
		t.Fatal(err)
	}
	if expected := 4.0; u != expected {
		t.Fatalf("U: %f, expected %f", u, expected)
	}
	if expected := 0.193932; math.Abs(p-expected) > 1e-4 {
		t.Fatalf("P: %.6f, expected %.6f", p, expected)
	}
}

func TestAllValuesIdentical(t *testing.T) {
	x := make([]float64, 15)
	y := make([]float64, 15)
	for i := range x {
		x[i], y[i] = 1, 1
	}

	u, p, err := Test(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if expected := 112.5; u != expected {
		t.Fatalf("U: %f, expected %f", u, expected)
	}
	if p != 1 {
		t.Fatalf("P: %f, expected 1 when every pooled value is identical", p)
	}
}

func TestEmptyInput(t *testing.T) {
	if _, _, err := Test(nil, []float64{1}); err == nil {
		t.Fatal("expected an error for an empty sample")
	}
	if _, _, err := Test([]float64{1}, nil); err == nil {
		t.Fatal("expected an error for an empty sample")
	}
}

// The approximation should land close to the exact distribution on tie-free
// data near the exact-path size limit.
func TestExactApproxAgreement(t *testing.T) {
	x := make([]float64, 20)
	y := make([]float64, 20)
	for i := range x {
		x[i] = float64(2 * i)
		y[i] = float64(2*i + 1)
	}

	_, pExact, err := Exact(x, y)
	if err != nil {
		t.Fatal(err)
	}

	_, pApprox, err := Approx(x, y)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(pExact-pApprox) > 0.02 {
		t.Fatalf("Exact P %.6f and approximate P %.6f diverge", pExact, pApprox)
	}
}
