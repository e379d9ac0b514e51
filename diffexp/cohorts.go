package diffexp

import (
	"fmt"

	"github.com/paynelab/proteomisc/sampletable"
)

// CohortsFromTable builds the evaluator input from a loaded sample table:
// one cohort per sample type carrying both a healthy and an unhealthy group.
// Sample types with neither condition (blanks that survived cleaning) are
// skipped; a sample type with exactly one of the two conditions is a
// structural mismatch and an error.
func CohortsFromTable(t *sampletable.Table) (map[string]Cohort, error) {
	proteins := t.Proteins()
	out := make(map[string]Cohort)

	for _, st := range t.SampleTypes() {
		hasHealthy := t.HasGroup(st, "healthy")
		hasUnhealthy := t.HasGroup(st, "unhealthy")

		if !hasHealthy && !hasUnhealthy {
			continue
		}
		if hasHealthy != hasUnhealthy {
			return nil, fmt.Errorf("diffexp: sample type %q has only one of the healthy/unhealthy groups", st)
		}

		healthy, err := groupAbundances(t, st, "healthy", proteins)
		if err != nil {
			return nil, err
		}

		unhealthy, err := groupAbundances(t, st, "unhealthy", proteins)
		if err != nil {
			return nil, err
		}

		out[st] = Cohort{Healthy: healthy, Unhealthy: unhealthy}
	}

	return out, nil
}

func groupAbundances(t *sampletable.Table, sampleType, condition string, proteins []string) (Abundances, error) {
	g, err := t.Group(sampleType, condition)
	if err != nil {
		return nil, err
	}

	out := make(Abundances, len(proteins))
	for _, p := range proteins {
		col, err := g.Column(p)
		if err != nil {
			return nil, err
		}
		out[p] = col
	}

	return out, nil
}
