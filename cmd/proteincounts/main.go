// proteincounts tallies how many proteins were measured in each sample of a
// proteomics data source and summarizes the counts by sample type and
// condition.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/paynelab/proteomisc/sampletable"
)

func main() {
	var (
		source         string
		proteinsPath   string
		designPath     string
		inputFilesPath string
		measure        string
	)

	flag.StringVar(&source, "source", "", "Data source: mm (MetaMorpheus) or pd (Proteome Discoverer)")
	flag.StringVar(&proteinsPath, "proteins", "", "Protein table: AllQuantifiedProteinGroups.tsv for mm, the Proteins export for pd")
	flag.StringVar(&designPath, "design", "", "MetaMorpheus ExperimentalDesign.tsv (required for both sources)")
	flag.StringVar(&inputFilesPath, "inputfiles", "", "Proteome Discoverer InputFiles export (pd only)")
	flag.StringVar(&measure, "measure", "quant", "pd only: quant (abundances) or found (detection calls)")
	flag.Parse()

	if source == "" || proteinsPath == "" || designPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	tbl, err := loadTable(source, proteinsPath, designPath, inputFilesPath, measure)
	if err != nil {
		log.Fatalln(err)
	}

	if err := printCounts(tbl); err != nil {
		log.Fatalln(err)
	}
}

func printCounts(tbl *sampletable.Table) error {
	fmt.Println(strings.Join([]string{"sample_type", "sample_condition", "sample_num", "proteins_count"}, "\t"))

	type groupID struct {
		sampleType string
		condition  string
	}
	groupCounts := make(map[groupID][]float64)
	var groups []groupID

	for i := 0; i < tbl.Len(); i++ {
		key := tbl.Key(i)

		count := 0
		for _, cell := range tbl.Row(i) {
			if cell.Valid {
				count++
			}
		}

		fmt.Printf("%s\t%s\t%d\t%d\n", key.SampleType, key.Condition, key.Num, count)

		group := groupID{key.SampleType, key.Condition}
		if _, ok := groupCounts[group]; !ok {
			groups = append(groups, group)
		}
		groupCounts[group] = append(groupCounts[group], float64(count))
	}

	sort.Slice(groups, func(a, b int) bool {
		if groups[a].sampleType != groups[b].sampleType {
			return groups[a].sampleType < groups[b].sampleType
		}
		return groups[a].condition < groups[b].condition
	})

	fmt.Println()
	fmt.Println(strings.Join([]string{"sample_type", "sample_condition", "n_samples", "sample_nums", "mean", "sd"}, "\t"))

	for _, group := range groups {
		counts := groupCounts[group]

		g, err := tbl.Group(group.sampleType, group.condition)
		if err != nil {
			return err
		}

		nums := make([]string, 0, g.Len())
		for _, n := range g.Nums() {
			nums = append(nums, strconv.Itoa(n))
		}

		mean, err := stats.Mean(counts)
		if err != nil {
			return err
		}

		sd, err := stats.StandardDeviation(counts)
		if err != nil {
			return err
		}

		fmt.Printf("%s\t%s\t%d\t%s\t%.1f\t%.1f\n",
			group.sampleType, group.condition, len(counts), strings.Join(nums, ","), mean, sd)
	}

	return nil
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
