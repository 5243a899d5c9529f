package stages

import (
	"errors"
	"math"
	"testing"

	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/domain/descriptor"
	"gobioact/domain/stage"
	"gobioact/domain/stats"
	"gobioact/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMolecule reports a fixed weight; other properties derive from it
type fakeMolecule struct{ mw float64 }

func (m fakeMolecule) MolecularWeight() float64 { return m.mw }
func (m fakeMolecule) LogP() float64            { return m.mw / 100 }
func (m fakeMolecule) HBondDonors() int         { return int(m.mw) % 3 }
func (m fakeMolecule) HBondAcceptors() int      { return int(m.mw) % 5 }

// fakeParser maps structure strings to molecules and counts calls
type fakeParser struct {
	mols  map[string]float64
	calls int
}

func (p *fakeParser) Name() string { return "fake" }

func (p *fakeParser) Parse(structure string) (ports.Molecule, error) {
	p.calls++
	mw, ok := p.mols[structure]
	if !ok {
		return nil, core.ErrStructureParse
	}
	return fakeMolecule{mw: mw}, nil
}

func raw(id, value string) activity.RawActivityRecord {
	return activity.RawActivityRecord{
		ActivityID:    core.ActivityID(id),
		MoleculeID:    core.MoleculeID("CHEMBL" + id),
		Structure:     "C",
		StandardValue: value,
		StandardType:  activity.AssayTypeIC50,
	}
}

func TestPreprocess_DropsInvalidValues(t *testing.T) {
	in := []activity.RawActivityRecord{
		raw("1", "500"),
		raw("2", ""),
		raw("3", "abc"),
		raw("4", "-3"),
		raw("5", "NaN"),
		raw("6", "+Inf"),
		raw("7", " 12.5 "),
		raw("8", "0"),
	}
	wrongType := raw("9", "100")
	wrongType.StandardType = "Ki"
	in = append(in, wrongType)

	out := NewPreprocessStage().Execute(in)

	require.Len(t, out.Records, 3)
	assert.Equal(t, core.ActivityID("1"), out.Records[0].ActivityID)
	assert.Equal(t, 12.5, out.Records[1].StandardValue)
	assert.Equal(t, 0.0, out.Records[2].StandardValue)

	assert.Equal(t, 9, out.Audit.InputCount)
	assert.Equal(t, 3, out.Audit.OutputCount)
	assert.Equal(t, 2, out.Audit.SkipsByReason[stage.SkipMissingValue])
	assert.Equal(t, 1, out.Audit.SkipsByReason[stage.SkipMalformedValue])
	assert.Equal(t, 1, out.Audit.SkipsByReason[stage.SkipNegativeValue])
	assert.Equal(t, 1, out.Audit.SkipsByReason[stage.SkipNonFinite])
	assert.Equal(t, 1, out.Audit.SkipsByReason[stage.SkipStandardType])
	assert.Equal(t, 6, out.Audit.Dropped())
}

func TestPreprocess_EmptyInput(t *testing.T) {
	out := NewPreprocessStage().Execute(nil)
	assert.NotNil(t, out.Records)
	assert.Empty(t, out.Records)
	assert.Equal(t, 0, out.Audit.OutputCount)
}

func TestPreprocess_BlankStandardTypeAccepted(t *testing.T) {
	r := raw("1", "42")
	r.StandardType = ""
	out := NewPreprocessStage().Execute([]activity.RawActivityRecord{r})
	require.Len(t, out.Records, 1)
}

func TestCoercePotency(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		reason string
	}{
		{"1000", 1000, ""},
		{"1e3", 1000, ""},
		{"null", 0, stage.SkipMissingValue},
		{"None", 0, stage.SkipMissingValue},
		{"1,000", 0, stage.SkipMalformedValue},
		{"-0.1", 0, stage.SkipNegativeValue},
		{"-Inf", 0, stage.SkipNonFinite},
	}
	for _, tt := range tests {
		v, reason := CoercePotency(tt.in)
		assert.Equal(t, tt.reason, reason, tt.in)
		assert.Equal(t, tt.want, v, tt.in)
	}
	assert.ErrorIs(t, PotencyError(stage.SkipNegativeValue), core.ErrNegativePotency)
	assert.ErrorIs(t, PotencyError(stage.SkipMissingValue), core.ErrMalformedPotency)
	assert.NoError(t, PotencyError(""))
}

func cleaned(values ...float64) []activity.CleanedRecord {
	out := make([]activity.CleanedRecord, len(values))
	for i, v := range values {
		out[i] = activity.CleanedRecord{ActivityID: core.ActivityID(string(rune('a' + i))), Structure: "C", StandardValue: v}
	}
	return out
}

func TestClassify_Boundaries(t *testing.T) {
	in := cleaned(1000, 1000.0001, 9999.9, 10000, 0)

	out := NewClassifyStage().Execute(in, ClassifyConfig{RemoveIntermediate: false})
	require.Len(t, out.Records, 5)
	assert.Equal(t, activity.ClassActive, out.Records[0].Class)
	assert.Equal(t, activity.ClassIntermediate, out.Records[1].Class)
	assert.Equal(t, activity.ClassIntermediate, out.Records[2].Class)
	assert.Equal(t, activity.ClassInactive, out.Records[3].Class)
	assert.Equal(t, activity.ClassActive, out.Records[4].Class)
	assert.Equal(t, activity.ClassCounts{Active: 2, Inactive: 1, Intermediate: 2}, out.Counts)
}

func TestClassify_RemovesIntermediate(t *testing.T) {
	out := NewClassifyStage().Execute(cleaned(500, 5000, 50000), ClassifyConfig{RemoveIntermediate: true})
	require.Len(t, out.Records, 2)
	assert.Equal(t, activity.ClassActive, out.Records[0].Class)
	assert.Equal(t, activity.ClassInactive, out.Records[1].Class)
	assert.Equal(t, 1, out.Counts.Intermediate)
	assert.Equal(t, 1, out.Audit.SkipsByReason[stage.SkipIntermediate])
}

func TestPIC50(t *testing.T) {
	tests := []struct {
		value, ceiling, want float64
	}{
		{1000, 1e8, 6},
		{1, 1e8, 9},
		{1e9, 1e8, 1},
		{500, 1e8, -math.Log10(500e-9)},
	}
	for _, tt := range tests {
		got, err := PIC50(tt.value, tt.ceiling)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9)
	}

	_, err := PIC50(0, 1e8)
	assert.ErrorIs(t, err, core.ErrZeroPotency)
}

func TestPIC50_StrictlyDecreasing(t *testing.T) {
	values := []float64{1e-3, 0.5, 1, 10, 999, 1000, 1001, 5e4, 1e6, 9.99e7}
	prev := math.Inf(1)
	for _, v := range values {
		got, err := PIC50(v, 1e8)
		require.NoError(t, err)
		assert.Less(t, got, prev, "pIC50(%g)", v)
		prev = got
	}
}

func TestPIC50_CeilingSaturates(t *testing.T) {
	tests := []struct {
		name    string
		ceiling float64
	}{
		{"default", 1e8},
		{"tight", 1000},
		{"fractional", 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atCeiling, err := PIC50(tt.ceiling, tt.ceiling)
			require.NoError(t, err)
			for _, k := range []float64{1e-6, 1, 1e3, 1e12} {
				above, err := PIC50(tt.ceiling+k, tt.ceiling)
				require.NoError(t, err)
				assert.Equal(t, atCeiling, above, "k=%g", k)
			}
		})
	}
}

func TestPotency_DropsZero(t *testing.T) {
	classified := NewClassifyStage().Execute(cleaned(0, 1000, 2e8), ClassifyConfig{})
	out := NewPotencyStage().Execute(classified.Records, PotencyConfig{Ceiling: 1e8})

	require.Len(t, out.Records, 2)
	assert.InDelta(t, 6.0, out.Records[0].PIC50, 1e-9)
	assert.InDelta(t, 1.0, out.Records[1].PIC50, 1e-9)
	assert.Equal(t, 1, out.Audit.SkipsByReason[stage.SkipZeroPotency])
}

func potencyRecords(structures []string, classes []activity.BioactivityClass) []activity.PotencyRecord {
	out := make([]activity.PotencyRecord, len(structures))
	for i := range structures {
		out[i] = activity.PotencyRecord{
			ActivityID: core.ActivityID(string(rune('a' + i))),
			Structure:  structures[i],
			Class:      classes[i],
			PIC50:      float64(5 + i),
		}
	}
	return out
}

func TestDescriptors_ComputesAndMemoizes(t *testing.T) {
	parser := &fakeParser{mols: map[string]float64{"CCO": 46, "c1ccccc1": 78}}
	in := potencyRecords(
		[]string{"CCO", "c1ccccc1", "CCO", "bad"},
		[]activity.BioactivityClass{activity.ClassActive, activity.ClassInactive, activity.ClassActive, activity.ClassActive},
	)

	out, err := NewDescriptorStage(parser).Execute(in, DescriptorConfig{Descriptors: []descriptor.Name{descriptor.MW, descriptor.NumHDonors}})
	require.NoError(t, err)

	assert.Equal(t, 3, parser.calls)
	assert.Equal(t, []descriptor.Name{descriptor.MW, descriptor.NumHDonors}, out.Snapshot.Descriptors)
	require.Len(t, out.Snapshot.Records, 3)
	assert.Equal(t, 46.0, out.Snapshot.Records[0].Scores[descriptor.MW])
	assert.Equal(t, 1.0, out.Snapshot.Records[0].Scores[descriptor.NumHDonors])
	assert.NotContains(t, out.Snapshot.Records[0].Scores, descriptor.LogP)
	assert.Equal(t, 1, out.Audit.SkipsByReason[stage.SkipStructureParse])
}

func TestDescriptors_UnknownFailsBeforeParsing(t *testing.T) {
	parser := &fakeParser{mols: map[string]float64{"C": 16}}
	in := potencyRecords([]string{"C"}, []activity.BioactivityClass{activity.ClassActive})

	_, err := NewDescriptorStage(parser).Execute(in, DescriptorConfig{Descriptors: []descriptor.Name{"TPSA"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownDescriptor))
	assert.Equal(t, 0, parser.calls)
}

func snapshot(t *testing.T, mws []float64, classes []activity.BioactivityClass) activity.DescriptorSnapshot {
	t.Helper()
	mols := make(map[string]float64)
	structures := make([]string, len(mws))
	for i, mw := range mws {
		s := string(rune('A' + i))
		mols[s] = mw
		structures[i] = s
	}
	out, err := NewDescriptorStage(&fakeParser{mols: mols}).Execute(
		potencyRecords(structures, classes),
		DescriptorConfig{Descriptors: []descriptor.Name{descriptor.MW}},
	)
	require.NoError(t, err)
	return out.Snapshot
}

func TestHypothesis_SeparatedGroups(t *testing.T) {
	a, i := activity.ClassActive, activity.ClassInactive
	snap := snapshot(t,
		[]float64{100, 110, 120, 300, 310, 320, 200},
		[]activity.BioactivityClass{a, a, a, i, i, i, activity.ClassIntermediate},
	)

	out, err := NewHypothesisTestStage().Execute(snap, []string{"MW"})
	require.NoError(t, err)
	require.Len(t, out.Outcomes, 1)

	o := out.Outcomes[0]
	require.True(t, o.Completed())
	assert.Equal(t, "MW", o.Result.Descriptor)
	assert.Equal(t, stats.TestMannWhitneyU, o.Result.Test)
	assert.Equal(t, 0.0, o.Result.Statistic)
	assert.InDelta(t, 0.1, o.Result.PValue, 1e-12)
	assert.Equal(t, stats.Alpha, o.Result.Alpha)
	assert.Equal(t, stats.SameDistribution, o.Result.Interpretation)
	assert.Equal(t, 3, o.Result.Active.N)
	assert.Equal(t, 110.0, o.Result.Active.Median)
	assert.Equal(t, 310.0, o.Result.Inactive.Mean)
	assert.Equal(t, 1, out.Audit.SkipsByReason[stage.SkipIntermediate])
}

func TestHypothesis_PotencyColumnFirst(t *testing.T) {
	a, i := activity.ClassActive, activity.ClassInactive
	snap := snapshot(t, []float64{1, 2, 3, 4}, []activity.BioactivityClass{a, a, i, i})

	out, err := NewHypothesisTestStage().Execute(snap, []string{activity.ColPIC50, "MW"})
	require.NoError(t, err)
	require.Len(t, out.Outcomes, 2)
	assert.Equal(t, activity.ColPIC50, out.Outcomes[0].Descriptor)
	assert.Equal(t, "MW", out.Outcomes[1].Descriptor)
}

func TestHypothesis_InsufficientData(t *testing.T) {
	a := activity.ClassActive
	snap := snapshot(t, []float64{1, 2}, []activity.BioactivityClass{a, a})

	out, err := NewHypothesisTestStage().Execute(snap, []string{"MW"})
	require.NoError(t, err)
	require.Len(t, out.Outcomes, 1)
	assert.Equal(t, stats.StatusInsufficientData, out.Outcomes[0].Status)
	assert.Nil(t, out.Outcomes[0].Result)
	assert.Contains(t, out.Outcomes[0].Reason, "no inactive records")
}

func TestHypothesis_UnrankableValueFailsStage(t *testing.T) {
	rec := func(class activity.BioactivityClass, mw float64) activity.DescriptorRecord {
		return activity.DescriptorRecord{
			PotencyRecord: activity.PotencyRecord{Class: class},
			Scores:        map[descriptor.Name]float64{descriptor.MW: mw},
		}
	}
	snap := activity.DescriptorSnapshot{
		Descriptors: []descriptor.Name{descriptor.MW},
		Records: []activity.DescriptorRecord{
			rec(activity.ClassActive, math.NaN()),
			rec(activity.ClassInactive, 300),
		},
	}

	_, err := NewHypothesisTestStage().Execute(snap, []string{"MW"})
	require.Error(t, err)
	assert.False(t, core.IsInsufficientData(err))
	assert.Contains(t, err.Error(), "column MW")
}

func TestHypothesis_UnknownColumn(t *testing.T) {
	snap := snapshot(t, []float64{1}, []activity.BioactivityClass{activity.ClassActive})
	_, err := NewHypothesisTestStage().Execute(snap, []string{"LogP"})
	assert.True(t, core.IsConfigError(err))
}
