package sampletable

import (
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// sampleMeta is what a raw instrument file name tells us about a sample.
type sampleMeta struct {
	SampleType string
	Condition  string

	contaminated bool
	noProtein    bool
}

// parseSampleMeta decodes an instrument file name (extension already
// stripped) of the form <Type>_<Condition>_<rest>. Some runs inserted a
// spurious "_2_" segment, which is removed before splitting. "Psuedo-bulk"
// (misspelled that way in the acquisition templates) is normalized to pbulk.
// Conditions other than Healthy/Unhealthy (blank and QC acquisitions) map to
// an empty condition. File names ending in "bad" mark contaminated samples;
// "np" marks samples where no protein was recovered.
func parseSampleMeta(fileName string) sampleMeta {
	var m sampleMeta

	m.contaminated = strings.HasSuffix(fileName, "bad")
	m.noProtein = strings.HasSuffix(fileName, "np")

	parts := strings.Split(strings.ReplaceAll(fileName, "_2_", "_"), "_")

	sampleType := parts[0]
	if sampleType == "Psuedo-bulk" {
		sampleType = "pbulk"
	}
	m.SampleType = strings.ToLower(sampleType)

	if len(parts) > 1 {
		switch parts[1] {
		case "Healthy", "Unhealthy":
			m.Condition = strings.ToLower(parts[1])
		}
	}

	return m
}

// drop reports whether cleaning removes this sample from the table.
func (m sampleMeta) drop() bool {
	return m.contaminated || m.noProtein || m.SampleType == "qc" || m.SampleType == "blank"
}

// trimExt cuts the trailing extension (".raw") off an instrument file name.
func trimExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}

	return name
}

// baseName strips any Windows or POSIX directory prefix.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}

	return path
}

// parseCell converts one abundance cell. Empty and non-numeric cells are
// missing measurements.
func parseCell(s string) null.Float {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NaN") {
		return null.Float{}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}
	}

	return null.FloatFrom(v)
}
