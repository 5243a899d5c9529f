package stages

import (
	"fmt"

	"gobioact/adapters/stats/senses"
	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/domain/stage"
	"gobioact/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// HypothesisTestStage compares active against inactive records, one
// Mann-Whitney U test per column. Intermediate records never enter a group.
type HypothesisTestStage struct {
	sense *senses.MannWhitneySense
}

// NewHypothesisTestStage creates the hypothesis test stage
func NewHypothesisTestStage() *HypothesisTestStage {
	return &HypothesisTestStage{sense: senses.NewMannWhitneySense()}
}

// Name returns the stage name
func (s *HypothesisTestStage) Name() stage.StageName {
	return stage.StageHypothesisTest
}

// HypothesisOutput holds one outcome per tested column, in column order
type HypothesisOutput struct {
	Outcomes []stats.TestOutcome `json:"outcomes"`
	Audit    stage.StageAudit    `json:"audit"`
}

// Execute runs the tests. An empty active or inactive group yields an
// insufficient_data outcome for every column rather than an error. A column
// the snapshot does not carry is a configuration error, and a value the test
// cannot rank fails the stage.
func (s *HypothesisTestStage) Execute(snapshot activity.DescriptorSnapshot, columns []string) (HypothesisOutput, error) {
	if err := checkColumns(snapshot, columns); err != nil {
		return HypothesisOutput{}, err
	}

	audit := stage.NewStageAudit(s.Name(), len(snapshot.Records))
	var active, inactive []activity.DescriptorRecord
	for _, r := range snapshot.Records {
		switch r.Class {
		case activity.ClassActive:
			active = append(active, r)
		case activity.ClassInactive:
			inactive = append(inactive, r)
		default:
			audit.Skip(stage.SkipIntermediate, "")
		}
	}
	audit.OutputCount = len(active) + len(inactive)

	outcomes := make([]stats.TestOutcome, 0, len(columns))
	for _, col := range columns {
		o, err := s.testColumn(col, active, inactive)
		if err != nil {
			return HypothesisOutput{}, fmt.Errorf("column %s: %w", col, err)
		}
		outcomes = append(outcomes, o)
	}
	return HypothesisOutput{Outcomes: outcomes, Audit: audit}, nil
}

func (s *HypothesisTestStage) testColumn(column string, active, inactive []activity.DescriptorRecord) (stats.TestOutcome, error) {
	x := columnValues(active, column)
	y := columnValues(inactive, column)

	res, err := s.sense.Compare(x, y)
	if err != nil {
		if core.IsInsufficientData(err) {
			return stats.TestOutcome{
				Descriptor: column,
				Status:     stats.StatusInsufficientData,
				Reason:     insufficientReason(len(x), len(y)),
			}, nil
		}
		return stats.TestOutcome{}, err
	}

	return stats.TestOutcome{
		Descriptor: column,
		Status:     stats.StatusCompleted,
		Result: &stats.TestResult{
			Descriptor:     column,
			Test:           stats.TestMannWhitneyU,
			Statistic:      res.U1,
			PValue:         res.PValue,
			Alpha:          stats.Alpha,
			Interpretation: stats.Interpret(res.PValue, stats.Alpha),
			Method:         res.Method,
			Active:         summarize(activity.ClassActive, x),
			Inactive:       summarize(activity.ClassInactive, y),
		},
	}, nil
}

func checkColumns(snapshot activity.DescriptorSnapshot, columns []string) error {
	known := map[string]bool{activity.ColPIC50: true}
	for _, d := range snapshot.Descriptors {
		known[d.String()] = true
	}
	for _, c := range columns {
		if !known[c] {
			return core.NewUnknownDescriptorError(c)
		}
	}
	return nil
}

func columnValues(records []activity.DescriptorRecord, column string) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := r.Value(column); ok {
			out = append(out, v)
		}
	}
	return out
}

func insufficientReason(nActive, nInactive int) string {
	switch {
	case nActive == 0 && nInactive == 0:
		return "no active or inactive records"
	case nActive == 0:
		return "no active records"
	default:
		return fmt.Sprintf("no inactive records (%d active)", nActive)
	}
}

func summarize(class activity.BioactivityClass, values []float64) stats.GroupSummary {
	data := mstats.Float64Data(values)
	median, _ := data.Median()
	mean, _ := data.Mean()
	return stats.GroupSummary{Class: string(class), N: len(values), Median: median, Mean: mean}
}
