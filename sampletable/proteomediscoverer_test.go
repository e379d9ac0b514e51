package sampletable

import (
	"reflect"
	"strings"
	"testing"
)

const pdDesignTSV = `FileName	Condition	Biorep
Bulk_Healthy_01.raw	Bulk_Healthy	1
Bulk_Unhealthy_01.raw	Bulk_Unhealthy	1
`

const pdInputFilesTSV = `File ID	File Name
F1	D:\proteomics\raw\Bulk_Healthy_01.raw
F2	D:\proteomics\raw\Bulk_Unhealthy_01.raw
`

const pdProteinsTSV = `Accession	Contaminant	Exp. q-value: Combined	Abundance: F1: Sample	Abundance: F2: Sample	Found in Sample: F1: Sample	Found in Sample: F2: Sample
P10001	FALSE	0.001	10	20	High	High
P10002	TRUE	0.001	1	2	High	High
P10003	FALSE	0.5	1	2	High	High
P10004	FALSE	0.002		30	Not Found	High
`

func TestLoadProteomeDiscovererQuant(t *testing.T) {
	tbl, err := LoadProteomeDiscoverer(
		strings.NewReader(pdProteinsTSV),
		strings.NewReader(pdInputFilesTSV),
		strings.NewReader(pdDesignTSV),
		Quant,
	)
	if err != nil {
		t.Fatal(err)
	}

	// The contaminant row and the row above the q-value cutoff are gone.
	if got, want := tbl.Proteins(), []string{"P10001", "P10004"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Proteins: got %v, want %v", got, want)
	}

	if tbl.Len() != 2 {
		t.Fatalf("Got %d sample rows, expected 2", tbl.Len())
	}
	if got, want := tbl.Key(0), (Key{SampleType: "bulk", Condition: "healthy", Num: 1}); got != want {
		t.Fatalf("Row 0 key: got %+v, want %+v", got, want)
	}

	healthy := tbl.Row(0)
	if !healthy[0].Valid || healthy[0].Float64 != 10 {
		t.Fatalf("Healthy P10001: got %+v, want 10", healthy[0])
	}
	if healthy[1].Valid {
		t.Fatalf("Healthy P10004 is a missing measurement, got %+v", healthy[1])
	}

	unhealthy := tbl.Row(1)
	if !unhealthy[1].Valid || unhealthy[1].Float64 != 30 {
		t.Fatalf("Unhealthy P10004: got %+v, want 30", unhealthy[1])
	}
}

func TestLoadProteomeDiscovererFound(t *testing.T) {
	tbl, err := LoadProteomeDiscoverer(
		strings.NewReader(pdProteinsTSV),
		strings.NewReader(pdInputFilesTSV),
		strings.NewReader(pdDesignTSV),
		Found,
	)
	if err != nil {
		t.Fatal(err)
	}

	healthy := tbl.Row(0)
	if !healthy[0].Valid || healthy[0].Float64 != 1 {
		t.Fatalf("Healthy P10001 was found and should map to 1, got %+v", healthy[0])
	}
	if healthy[1].Valid {
		t.Fatalf("Healthy P10004 was not found and should be missing, got %+v", healthy[1])
	}
}

func TestLoadProteomeDiscovererMissingJoin(t *testing.T) {
	const inputFiles = `File ID	File Name
F1	D:\proteomics\raw\Bulk_Healthy_01.raw
`

	if _, err := LoadProteomeDiscoverer(
		strings.NewReader(pdProteinsTSV),
		strings.NewReader(inputFiles),
		strings.NewReader(pdDesignTSV),
		Quant,
	); err == nil {
		t.Fatal("A sample column without an input files entry must be an error")
	}
}

func TestPDSampleID(t *testing.T) {
	for _, v := range []struct {
		col     string
		measure Measure
		id      string
		ok      bool
	}{
		{"Abundance: F12: Sample", Quant, "F12", true},
		{"Found in Sample: F3: Sample", Found, "F3", true},
		{"Abundance: F12: Sample", Found, "", false},
		{"Accession", Quant, "", false},
	} {
		id, ok := pdSampleID(v.col, v.measure)
		if id != v.id || ok != v.ok {
			t.Fatalf("pdSampleID(%q, %v): got (%q, %v), want (%q, %v)", v.col, v.measure, id, ok, v.id, v.ok)
		}
	}
}
