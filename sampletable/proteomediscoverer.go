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

// Measure selects which per-sample columns of a Proteome Discoverer export
// populate the table.
type Measure int

const (
	// Quant uses the scaled abundance columns.
	Quant Measure = iota
	// Found uses the detection-call columns: a found protein maps to 1,
	// anything else to a missing cell.
	Found
)

const (
	pdAccessionCol   = "Accession"
	pdContaminantCol = "Contaminant"
	pdQValueCol      = "Exp. q-value: Combined"

	// Proteins with a combined experimental q-value above this are too
	// uncertain to carry into any analysis.
	pdMaxQValue = 0.01
)

// pdInputFileRow is one row of a Proteome Discoverer InputFiles export,
// mapping the fraction identifier used in column headers to the instrument
// file the fraction came from.
type pdInputFileRow struct {
	FileID   string `csv:"File ID"`
	FileName string `csv:"File Name"`
}

// LoadProteomeDiscoverer builds a sample table from a Proteome Discoverer
// Proteins export. inputFiles is the matching InputFiles export; design is
// the MetaMorpheus ExperimentalDesign table, which carries the project-wide
// sample numbering for both pipelines. Contaminant-flagged proteins and
// proteins above the q-value cutoff are dropped, as are contaminated,
// protein-free, blank, and QC samples.
func LoadProteomeDiscoverer(proteins, inputFiles, design io.Reader, measure Measure) (*Table, error) {
	designRows, err := readDesign(design)
	if err != nil {
		return nil, err
	}

	type sample struct {
		meta sampleMeta
		num  int
	}
	byFile := make(map[string]sample, len(designRows))
	for _, d := range designRows {
		name := trimExt(d.FileName)
		byFile[name] = sample{meta: parseSampleMeta(name), num: d.Biorep}
	}

	fileIDs, err := readInputFiles(inputFiles)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(proteins)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, pfx.Err(err)
	}

	accCol, contamCol, qCol := -1, -1, -1
	var sampleCols []int
	var sampleIDs []string
	for i, col := range header {
		switch col {
		case pdAccessionCol:
			accCol = i
		case pdContaminantCol:
			contamCol = i
		case pdQValueCol:
			qCol = i
		default:
			if id, ok := pdSampleID(col, measure); ok {
				sampleCols = append(sampleCols, i)
				sampleIDs = append(sampleIDs, id)
			}
		}
	}
	for col, idx := range map[string]int{pdAccessionCol: accCol, pdContaminantCol: contamCol, pdQValueCol: qCol} {
		if idx < 0 {
			return nil, fmt.Errorf("sampletable: no %q column in the protein table", col)
		}
	}
	if len(sampleCols) == 0 {
		return nil, fmt.Errorf("sampletable: no per-sample columns for the requested measure in the protein table")
	}

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

		if strings.EqualFold(strings.TrimSpace(line[contamCol]), "true") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(line[qCol]), 64)
		if err != nil || q > pdMaxQValue {
			continue
		}

		accessions = append(accessions, line[accCol])
		for j, c := range sampleCols {
			if measure == Found {
				values[j] = append(values[j], parseFoundCell(line[c]))
			} else {
				values[j] = append(values[j], parseCell(line[c]))
			}
		}
	}

	t, err := NewTable(accessions)
	if err != nil {
		return nil, err
	}

	for j, id := range sampleIDs {
		fileName, ok := fileIDs[id]
		if !ok {
			return nil, fmt.Errorf("sampletable: column sample %q has no input files entry", id)
		}

		s, ok := byFile[fileName]
		if !ok {
			return nil, fmt.Errorf("sampletable: file %q has no experimental design entry", fileName)
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

func readInputFiles(inputFiles io.Reader) (map[string]string, error) {
	gocsv.SetCSVReader(tsvReader)

	var rows []*pdInputFileRow
	if err := gocsv.Unmarshal(inputFiles, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.FileID] = trimExt(baseName(row.FileName))
	}

	return out, nil
}

// pdSampleID extracts the fraction identifier from a per-sample column
// header, e.g. "Abundance: F12: Sample" -> "F12".
func pdSampleID(col string, measure Measure) (string, bool) {
	prefix := "Abundance: "
	if measure == Found {
		prefix = "Found in Sample: "
	}
	const suffix = ": Sample"

	if !strings.HasPrefix(col, prefix) || !strings.HasSuffix(col, suffix) {
		return "", false
	}

	id := col[len(prefix) : len(col)-len(suffix)]
	if !strings.HasPrefix(id, "F") {
		return "", false
	}

	return id, true
}

// parseFoundCell converts a detection call to a presence cell.
func parseFoundCell(s string) null.Float {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "Not Found") {
		return null.Float{}
	}

	return null.FloatFrom(1)
}
