package sampletable

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

const (
	mmAccessionCol  = "Protein Accession"
	mmIntensityPref = "Intensity_"
)

// mmDesignRow is one row of a MetaMorpheus ExperimentalDesign.tsv. The same
// table also names the Proteome Discoverer samples, so both loaders consume
// it.
type mmDesignRow struct {
	FileName  string `csv:"FileName"`
	Condition string `csv:"Condition"`
	Biorep    int    `csv:"Biorep"`
}

// LoadMetaMorpheus builds a sample table from a MetaMorpheus
// AllQuantifiedProteinGroups export and its ExperimentalDesign table.
// Contaminated and protein-free samples, and blank or QC acquisitions, are
// dropped during the load.
func LoadMetaMorpheus(proteins, design io.Reader) (*Table, error) {
	designRows, err := readDesign(design)
	if err != nil {
		return nil, err
	}

	// The intensity columns are labeled <Condition>_<Biorep>; the design
	// table ties that label back to the instrument file name.
	type sample struct {
		meta sampleMeta
		num  int
	}
	samples := make(map[string]sample, len(designRows))
	for _, d := range designRows {
		label := d.Condition + "_" + strconv.Itoa(d.Biorep)
		samples[label] = sample{meta: parseSampleMeta(trimExt(d.FileName)), num: d.Biorep}
	}

	r := csv.NewReader(proteins)
	r.Comma = '\t'
	r.LazyQuotes = true
	// The export writes a spurious trailing tab on every data line, so the
	// field count is not uniform.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, pfx.Err(err)
	}

	accCol := -1
	var sampleCols []int
	var sampleLabels []string
	for i, col := range header {
		switch {
		case col == mmAccessionCol:
			accCol = i
		case strings.HasPrefix(col, mmIntensityPref):
			sampleCols = append(sampleCols, i)
			sampleLabels = append(sampleLabels, strings.TrimPrefix(col, mmIntensityPref))
		}
	}
	if accCol < 0 {
		return nil, fmt.Errorf("sampletable: no %q column in the protein table", mmAccessionCol)
	}
	if len(sampleCols) == 0 {
		return nil, fmt.Errorf("sampletable: no %q columns in the protein table", mmIntensityPref)
	}

	// The export is proteins-by-samples; gather it column-major so the table
	// comes out samples-by-proteins.
	var accessions []string
	values := make([][]null.Float, len(sampleCols))
	for i := 1; ; i++ {
		line, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		if len(line) < len(header) {
			return nil, fmt.Errorf("sampletable: protein table line %d has %d fields, expected at least %d", i, len(line), len(header))
		}

		accessions = append(accessions, line[accCol])
		for j, c := range sampleCols {
			values[j] = append(values[j], parseCell(line[c]))
		}
	}

	t, err := NewTable(accessions)
	if err != nil {
		return nil, err
	}

	for j, label := range sampleLabels {
		s, ok := samples[label]
		if !ok {
			return nil, fmt.Errorf("sampletable: sample %q has no experimental design entry", label)
		}
		if s.meta.drop() {
			continue
		}

		key := Key{SampleType: s.meta.SampleType, Condition: s.meta.Condition, Num: s.num}
		if err := t.Append(key, values[j]); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func readDesign(design io.Reader) ([]*mmDesignRow, error) {
	gocsv.SetCSVReader(tsvReader)

	var rows []*mmDesignRow
	if err := gocsv.Unmarshal(design, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

// tsvReader tells gocsv to use tab as the delimiter.
func tsvReader(in io.Reader) gocsv.CSVReader {
	r := csv.NewReader(in)
	r.Comma = '\t'
	r.LazyQuotes = true
	return r
}
