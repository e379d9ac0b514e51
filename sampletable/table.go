// Package sampletable provides the typed sample-by-protein abundance table
// shared by the analysis tools: one row per acquired sample, one column per
// protein identifier, nullable cells for measurements the instrument did not
// produce. Tables are built once by a loader and are read-only afterwards.
package sampletable

import (
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// Key identifies one sample row: the acquisition category (bulk, pbulk,
// hfl1, ...), the health condition ("healthy", "unhealthy", or empty for
// blank and QC acquisitions), and the sample number within that pair.
type Key struct {
	SampleType string
	Condition  string
	Num        int
}

// Table is the wide abundance table. An invalid cell is a missing
// measurement, never zero.
type Table struct {
	proteins []string
	colIndex map[string]int
	keys     []Key
	cells    [][]null.Float
}

// NewTable creates an empty table with the given protein columns.
func NewTable(proteins []string) (*Table, error) {
	colIndex := make(map[string]int, len(proteins))
	for i, p := range proteins {
		if _, ok := colIndex[p]; ok {
			return nil, fmt.Errorf("sampletable: duplicate protein column %q", p)
		}
		colIndex[p] = i
	}

	return &Table{
		proteins: append([]string(nil), proteins...),
		colIndex: colIndex,
	}, nil
}

// Append adds one sample row. cells must align with Proteins().
func (t *Table) Append(key Key, cells []null.Float) error {
	if len(cells) != len(t.proteins) {
		return fmt.Errorf("sampletable: row for %+v has %d cells but the table has %d protein columns", key, len(cells), len(t.proteins))
	}

	t.keys = append(t.keys, key)
	t.cells = append(t.cells, append([]null.Float(nil), cells...))

	return nil
}

// Len is the number of sample rows.
func (t *Table) Len() int { return len(t.keys) }

// Proteins returns the protein columns in table order.
func (t *Table) Proteins() []string {
	return append([]string(nil), t.proteins...)
}

// Key returns the row key at position i.
func (t *Table) Key(i int) Key { return t.keys[i] }

// Row returns a copy of the abundance cells at position i, aligned with
// Proteins().
func (t *Table) Row(i int) []null.Float {
	return append([]null.Float(nil), t.cells[i]...)
}

// SampleTypes returns the distinct sample types in first-seen row order.
func (t *Table) SampleTypes() []string {
	seen := make(map[string]struct{})
	var out []string

	for _, k := range t.keys {
		if _, ok := seen[k.SampleType]; ok {
			continue
		}
		seen[k.SampleType] = struct{}{}
		out = append(out, k.SampleType)
	}

	return out
}

// HasGroup reports whether at least one row matches the (sample type,
// condition) pair.
func (t *Table) HasGroup(sampleType, condition string) bool {
	for _, k := range t.keys {
		if k.SampleType == sampleType && k.Condition == condition {
			return true
		}
	}

	return false
}

// Group selects the rows matching the (sample type, condition) pair, with
// those two key fields dropped from row identity. A pair matching no rows is
// a structural mismatch and an error.
func (t *Table) Group(sampleType, condition string) (*Group, error) {
	var rows []int
	for i, k := range t.keys {
		if k.SampleType == sampleType && k.Condition == condition {
			rows = append(rows, i)
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("sampletable: no rows for sample type %q, condition %q", sampleType, condition)
	}

	return &Group{t: t, rows: rows}, nil
}

// Group is the subset of a table's rows sharing one (sample type, condition)
// pair. Within a group only the sample number discriminates rows.
type Group struct {
	t    *Table
	rows []int
}

// Len is the number of samples in the group.
func (g *Group) Len() int { return len(g.rows) }

// Nums lists the group's sample numbers in row order.
func (g *Group) Nums() []int {
	out := make([]int, len(g.rows))
	for i, r := range g.rows {
		out[i] = g.t.keys[r].Num
	}

	return out
}

// Column returns the group's per-sample vector for one protein, in row
// order. A protein absent from the table is an error.
func (g *Group) Column(protein string) ([]null.Float, error) {
	c, ok := g.t.colIndex[protein]
	if !ok {
		return nil, fmt.Errorf("sampletable: no column for protein %q", protein)
	}

	out := make([]null.Float, len(g.rows))
	for i, r := range g.rows {
		out[i] = g.t.cells[r][c]
	}

	return out, nil
}
