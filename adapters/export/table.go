// Package export renders pipeline snapshots as flat tables for CSV and
// workbook output. Rendering is deterministic: the same snapshot always
// produces byte-identical output.
package export

import (
	"strconv"

	"gobioact/domain/activity"
	"gobioact/domain/descriptor"
	"gobioact/domain/stats"
)

// Table names, also used as file stems and sheet names
const (
	TableOriginal    = "original"
	TableCleaned     = "cleaned"
	TableClassified  = "classified"
	TablePotency     = "pIC50"
	TableDescriptors = "descriptors"
	TableResults     = "mann_whitney"
)

// Table is a header row plus data rows, without an index column
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// FormatFloat renders v with the shortest representation that round-trips
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OriginalTable renders raw records as received
func OriginalTable(records []activity.RawActivityRecord) Table {
	t := Table{
		Name:   TableOriginal,
		Header: []string{activity.ColActivityID, activity.ColMoleculeID, activity.ColStructure, activity.ColStandardValue, activity.ColStandardType},
		Rows:   make([][]string, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{r.ActivityID.String(), r.MoleculeID.String(), r.Structure, r.StandardValue, r.StandardType})
	}
	return t
}

// CleanedTable renders the preprocessed snapshot
func CleanedTable(records []activity.CleanedRecord) Table {
	t := Table{
		Name:   TableCleaned,
		Header: []string{activity.ColActivityID, activity.ColMoleculeID, activity.ColStructure, activity.ColStandardValue},
		Rows:   make([][]string, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{r.ActivityID.String(), r.MoleculeID.String(), r.Structure, FormatFloat(r.StandardValue)})
	}
	return t
}

// ClassifiedTable renders the classified snapshot
func ClassifiedTable(records []activity.ClassifiedRecord) Table {
	t := Table{
		Name:   TableClassified,
		Header: []string{activity.ColActivityID, activity.ColMoleculeID, activity.ColStructure, activity.ColStandardValue, activity.ColClass},
		Rows:   make([][]string, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{r.ActivityID.String(), r.MoleculeID.String(), r.Structure, FormatFloat(r.StandardValue), string(r.Class)})
	}
	return t
}

var potencyHeader = []string{activity.ColActivityID, activity.ColMoleculeID, activity.ColStructure, activity.ColClass, activity.ColPIC50}

// PotencyTable renders the pIC50 snapshot
func PotencyTable(records []activity.PotencyRecord) Table {
	t := Table{Name: TablePotency, Header: potencyHeader, Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		t.Rows = append(t.Rows, potencyRow(r))
	}
	return t
}

func potencyRow(r activity.PotencyRecord) []string {
	return []string{r.ActivityID.String(), r.MoleculeID.String(), r.Structure, string(r.Class), FormatFloat(r.PIC50)}
}

// DescriptorTable renders the descriptor snapshot, one column per requested
// descriptor in request order
func DescriptorTable(snapshot activity.DescriptorSnapshot) Table {
	header := append(append([]string{}, potencyHeader...), descriptor.Strings(snapshot.Descriptors)...)
	t := Table{Name: TableDescriptors, Header: header, Rows: make([][]string, 0, len(snapshot.Records))}
	for _, r := range snapshot.Records {
		row := potencyRow(r.PotencyRecord)
		for _, d := range snapshot.Descriptors {
			row = append(row, FormatFloat(r.Scores[d]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ResultsTable renders one row per tested column. Columns without a result
// keep their status and reason with empty statistics.
func ResultsTable(outcomes []stats.TestOutcome) Table {
	t := Table{
		Name: TableResults,
		Header: []string{"Descriptor", "Statistics", "P-value", "alpha", "Interpretation",
			"Method", "Status", "Reason", "n_active", "n_inactive", "median_active", "median_inactive"},
		Rows: make([][]string, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		if !o.Completed() {
			t.Rows = append(t.Rows, []string{o.Descriptor, "", "", FormatFloat(stats.Alpha), "", "", string(o.Status), o.Reason, "", "", "", ""})
			continue
		}
		r := o.Result
		t.Rows = append(t.Rows, []string{
			r.Descriptor,
			FormatFloat(r.Statistic),
			FormatFloat(r.PValue),
			FormatFloat(r.Alpha),
			string(r.Interpretation),
			string(r.Method),
			string(o.Status),
			"",
			strconv.Itoa(r.Active.N),
			strconv.Itoa(r.Inactive.N),
			FormatFloat(r.Active.Median),
			FormatFloat(r.Inactive.Median),
		})
	}
	return t
}
