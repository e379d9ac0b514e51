// diffexp runs the healthy-versus-unhealthy differential-expression analysis
// over one proteomics data source and writes the raw and corrected result
// tables as TSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/paynelab/proteomisc/diffexp"
	"github.com/paynelab/proteomisc/sampletable"
)

func main() {
	var (
		source         string
		proteinsPath   string
		designPath     string
		inputFilesPath string
		measure        string
		alpha          float64
		minSamples     int
		bulkMinSamples int
		bulkTypes      string
		out            string
	)

	defaults := diffexp.DefaultParams()

	flag.StringVar(&source, "source", "", "Data source: mm (MetaMorpheus) or pd (Proteome Discoverer)")
	flag.StringVar(&proteinsPath, "proteins", "", "Protein table: AllQuantifiedProteinGroups.tsv for mm, the Proteins export for pd")
	flag.StringVar(&designPath, "design", "", "MetaMorpheus ExperimentalDesign.tsv (required for both sources)")
	flag.StringVar(&inputFilesPath, "inputfiles", "", "Proteome Discoverer InputFiles export (pd only)")
	flag.StringVar(&measure, "measure", "quant", "pd only: quant (abundances) or found (detection calls)")
	flag.Float64Var(&alpha, "alpha", defaults.Alpha, "False-discovery rate for the correction step")
	flag.IntVar(&minSamples, "min_samples", defaults.MinSamples, "Minimum per-group sample count for non-pooled sample types. Set to 2 to reproduce the original analysis runs.")
	flag.IntVar(&bulkMinSamples, "bulk_min_samples", defaults.BulkMinSamples, "Minimum per-group sample count for pooled sample types")
	flag.StringVar(&bulkTypes, "bulk_types", strings.Join(defaults.BulkTypes, ","), "Comma-delimited pooled sample types")
	flag.StringVar(&out, "out", "diffexp", "Output prefix; writes <out>.raw.tsv and <out>.corrected.tsv")
	flag.Parse()

	if source == "" || proteinsPath == "" || designPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	tbl, err := loadTable(source, proteinsPath, designPath, inputFilesPath, measure)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded", tbl.Len(), "samples across", len(tbl.Proteins()), "proteins from the", source, "source")

	cohorts, err := diffexp.CohortsFromTable(tbl)
	if err != nil {
		log.Fatalln(err)
	}

	params := diffexp.Params{
		Alpha:          alpha,
		MinSamples:     minSamples,
		BulkMinSamples: bulkMinSamples,
		BulkTypes:      strings.Split(bulkTypes, ","),
	}

	raw, corrected, err := diffexp.Evaluate(cohorts, params)
	if err != nil {
		log.Fatalln(err)
	}

	if err := writeTSV(out+".raw.tsv", &raw); err != nil {
		log.Fatalln(err)
	}
	if err := writeTSV(out+".corrected.tsv", &corrected); err != nil {
		log.Fatalln(err)
	}

	log.Println("Wrote", len(raw), "raw and", len(corrected), "corrected records for", len(cohorts), "sample types")
}

func loadTable(source, proteinsPath, designPath, inputFilesPath, measure string) (*sampletable.Table, error) {
	proteins, err := os.Open(proteinsPath)
	if err != nil {
		return nil, err
	}
	defer proteins.Close()

	design, err := os.Open(designPath)
	if err != nil {
		return nil, err
	}
	defer design.Close()

	switch source {
	case "mm":
		return sampletable.LoadMetaMorpheus(proteins, design)
	case "pd":
		if inputFilesPath == "" {
			return nil, fmt.Errorf("the pd source requires --inputfiles")
		}

		inputFiles, err := os.Open(inputFilesPath)
		if err != nil {
			return nil, err
		}
		defer inputFiles.Close()

		var m sampletable.Measure
		switch measure {
		case "quant":
			m = sampletable.Quant
		case "found":
			m = sampletable.Found
		default:
			return nil, fmt.Errorf("invalid --measure %q: want quant or found", measure)
		}

		return sampletable.LoadProteomeDiscoverer(proteins, inputFiles, design, m)
	}

	return nil, fmt.Errorf("invalid --source %q: want mm or pd", source)
}
