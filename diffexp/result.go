package diffexp

import "gopkg.in/guregu/null.v3"

// Result is the uncorrected record for one (sample type, protein) pair. P is
// invalid when either cleaned group fell below the minimum sample size;
// Log2FoldChange is invalid when either group mean is unusable. Both can be
// invalid independently.
type Result struct {
	SampleType     string     `csv:"sample_type"`
	Protein        string     `csv:"protein"`
	P              null.Float `csv:"pvalue"`
	Log2FoldChange null.Float `csv:"log2_fold_change"`
}

// CorrectedResult augments a defined-P Result with its Benjamini-Hochberg
// adjustment. Only records with a defined uncorrected P are ever corrected,
// so P here is a plain float.
type CorrectedResult struct {
	SampleType     string     `csv:"sample_type"`
	Protein        string     `csv:"protein"`
	P              float64    `csv:"pvalue"`
	PAdjusted      float64    `csv:"pvalue_adjusted"`
	Reject         bool       `csv:"reject_null"`
	Log2FoldChange null.Float `csv:"log2_fold_change"`
}
