// Package diffexp compares protein abundance between healthy and unhealthy
// sample groups. For every protein in every sample type it computes a
// Mann-Whitney U P-value and a log2 fold-change, then corrects the defined
// P-values for multiple testing in a single Benjamini-Hochberg pass per data
// source.
package diffexp

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/guregu/null.v3"

	"github.com/paynelab/proteomisc/fdr"
	"github.com/paynelab/proteomisc/mwu"
)

// Params carries every knob of the evaluation. Nothing is read from package
// state, so two evaluations with equal Params and equal input always agree.
type Params struct {
	// Alpha is the false-discovery rate for the correction step.
	Alpha float64

	// MinSamples is the smallest per-group size (after dropping missing
	// measurements) for which a P-value is computed.
	MinSamples int

	// BulkMinSamples replaces MinSamples for the sample types named in
	// BulkTypes, which pool many cells per sample and so support inference
	// at much smaller group sizes.
	BulkMinSamples int

	BulkTypes []string
}

// DefaultParams applies the intended thresholds: 2 for pooled sample types,
// 15 otherwise. The earlier notebook runs never applied the 15-sample
// threshold (a defect in that code), so set MinSamples to 2 to reproduce the
// numbers published from those runs.
func DefaultParams() Params {
	return Params{
		Alpha:          0.05,
		MinSamples:     15,
		BulkMinSamples: 2,
		BulkTypes:      []string{"bulk", "pbulk"},
	}
}

func (p Params) minSamples(sampleType string) int {
	for _, t := range p.BulkTypes {
		if t == sampleType {
			return p.BulkMinSamples
		}
	}

	return p.MinSamples
}

// Abundances maps a protein to its per-sample measurement vector within one
// group. An invalid element is a missing measurement.
type Abundances map[string][]null.Float

// Cohort is the pair of groups compared for one sample type.
type Cohort struct {
	Healthy   Abundances
	Unhealthy Abundances
}

// Evaluate runs the differential-expression procedure over one data source:
// a cohort per sample type. raw holds one record per (sample type, protein)
// including records with an undefined P-value; corrected holds the
// defined-P subset of raw, adjusted in a single Benjamini-Hochberg batch
// spanning all sample types of the source. Records are ordered by sample
// type, then protein, so equal inputs produce identical output regardless
// of map iteration or input file ordering.
func Evaluate(cohorts map[string]Cohort, params Params) (raw []Result, corrected []CorrectedResult, err error) {
	sampleTypes := make([]string, 0, len(cohorts))
	for st := range cohorts {
		sampleTypes = append(sampleTypes, st)
	}
	sort.Strings(sampleTypes)

	for _, st := range sampleTypes {
		cohort := cohorts[st]

		proteins, err := sharedProteins(st, cohort)
		if err != nil {
			return nil, nil, err
		}

		minSamples := params.minSamples(st)

		for _, protein := range proteins {
			healthy := dropMissing(cohort.Healthy[protein])
			unhealthy := dropMissing(cohort.Unhealthy[protein])

			var p null.Float
			if len(healthy) >= minSamples && len(unhealthy) >= minSamples {
				_, pv, err := mwu.Test(healthy, unhealthy)
				if err != nil {
					return nil, nil, pfx.Err(err)
				}
				p = null.FloatFrom(pv)
			}

			raw = append(raw, Result{
				SampleType:     st,
				Protein:        protein,
				P:              p,
				Log2FoldChange: log2FoldChange(healthy, unhealthy),
			})
		}
	}

	return correct(raw, params.Alpha)
}

// correct runs the single correction batch over the defined-P subset of raw,
// in raw order. An empty subset short-circuits to an empty corrected slice:
// the correction procedure is only defined over a non-empty family.
func correct(raw []Result, alpha float64) ([]Result, []CorrectedResult, error) {
	var defined []int
	var pvalues []float64
	for i, r := range raw {
		if r.P.Valid {
			defined = append(defined, i)
			pvalues = append(pvalues, r.P.Float64)
		}
	}

	corrected := make([]CorrectedResult, 0, len(defined))
	if len(defined) == 0 {
		return raw, corrected, nil
	}

	adjusted, err := fdr.BenjaminiHochberg(pvalues, alpha)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	for i, rawIdx := range defined {
		r := raw[rawIdx]
		corrected = append(corrected, CorrectedResult{
			SampleType:     r.SampleType,
			Protein:        r.Protein,
			P:              adjusted[i].P,
			PAdjusted:      adjusted[i].PAdjusted,
			Reject:         adjusted[i].Reject,
			Log2FoldChange: r.Log2FoldChange,
		})
	}

	return raw, corrected, nil
}

// sharedProteins returns the cohort's protein set in ascending order,
// failing fast if a protein appears in one group but not the other. Both
// groups of a sample type come from the same table, so a one-sided protein
// means the caller mixed mismatched sources.
func sharedProteins(sampleType string, cohort Cohort) ([]string, error) {
	proteins := make([]string, 0, len(cohort.Healthy))
	for p := range cohort.Healthy {
		if _, ok := cohort.Unhealthy[p]; !ok {
			return nil, fmt.Errorf("diffexp: protein %q of sample type %q is absent from the unhealthy group", p, sampleType)
		}
		proteins = append(proteins, p)
	}

	for p := range cohort.Unhealthy {
		if _, ok := cohort.Healthy[p]; !ok {
			return nil, fmt.Errorf("diffexp: protein %q of sample type %q is absent from the healthy group", p, sampleType)
		}
	}

	sort.Strings(proteins)

	return proteins, nil
}

func dropMissing(in []null.Float) []float64 {
	out := make([]float64, 0, len(in))
	for _, v := range in {
		if v.Valid {
			out = append(out, v.Float64)
		}
	}

	return out
}

// log2FoldChange is log2(mean unhealthy / mean healthy) over the cleaned
// vectors. It is computed independently of the sample-size threshold, and is
// undefined when either vector is empty, either mean is zero, or the ratio
// is not positive.
func log2FoldChange(healthy, unhealthy []float64) null.Float {
	if len(healthy) == 0 || len(unhealthy) == 0 {
		return null.Float{}
	}

	mh := stat.Mean(healthy, nil)
	mu := stat.Mean(unhealthy, nil)
	if mh == 0 || mu == 0 {
		return null.Float{}
	}

	ratio := mu / mh
	if ratio <= 0 {
		return null.Float{}
	}

	return null.FloatFrom(math.Log2(ratio))
}
