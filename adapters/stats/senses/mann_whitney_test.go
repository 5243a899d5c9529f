package senses

import (
	"math"
	"testing"

	"gobioact/domain/core"
	"gobioact/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMannWhitney_ExactSmallSamples(t *testing.T) {
	sense := NewMannWhitneySense()

	tests := []struct {
		name   string
		x, y   []float64
		wantU1 float64
		wantP  float64
	}{
		// complete separation, 3 vs 3: P(U >= 9) = 1/20
		{"separated 3v3", []float64{1, 2, 3}, []float64{4, 5, 6}, 0, 0.1},
		// complete separation, 5 vs 5: 2/252
		{"separated 5v5", []float64{1, 2, 3, 4, 5}, []float64{6, 7, 8, 9, 10}, 0, 2.0 / 252.0},
		{"reversed", []float64{4, 5, 6}, []float64{1, 2, 3}, 9, 0.1},
		// interleaved samples have a centred statistic: p = 1
		{"interleaved", []float64{1, 4}, []float64{2, 3}, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := sense.Compare(tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, stats.MethodExact, res.Method)
			assert.InDelta(t, tt.wantU1, res.U1, 1e-12)
			assert.InDelta(t, float64(len(tt.x)*len(tt.y))-tt.wantU1, res.U2, 1e-12)
			assert.InDelta(t, tt.wantP, res.PValue, 1e-12)
		})
	}
}

func TestMannWhitney_AsymptoticLargeSamples(t *testing.T) {
	x := make([]float64, 10)
	y := make([]float64, 10)
	for i := range x {
		x[i] = float64(i + 1)
		y[i] = float64(i + 11)
	}

	res, err := NewMannWhitneySense().Compare(x, y)
	require.NoError(t, err)

	// U = 100, mu = 50, sigma = sqrt(100*21/12)
	z := (100 - 50 - 0.5) / math.Sqrt(175)
	assert.Equal(t, stats.MethodAsymptotic, res.Method)
	assert.Equal(t, 0.0, res.U1)
	assert.InDelta(t, z, res.Z, 1e-12)
	assert.InDelta(t, math.Erfc(z/math.Sqrt2), res.PValue, 1e-12)
	assert.Less(t, res.PValue, stats.Alpha)
}

func TestMannWhitney_TiesUseAverageRanks(t *testing.T) {
	// pooled ranks: 1 -> 1, the three 2s -> 3, 3 -> 5, 4 -> 6
	x := []float64{1, 2, 2}
	y := []float64{2, 3, 4}

	res, err := NewMannWhitneySense().Compare(x, y)
	require.NoError(t, err)

	assert.Equal(t, stats.MethodAsymptotic, res.Method, "ties disable the exact method")
	assert.Equal(t, []int{3}, res.TieGroups)
	assert.InDelta(t, 1.0, res.U1, 1e-12) // R1 = 7, U1 = 7 - 6
	assert.InDelta(t, 8.0, res.U2, 1e-12)

	// tie-corrected variance: 9/12 * (7 - 24/30)
	sigma := math.Sqrt(0.75 * 6.2)
	z := (8 - 4.5 - 0.5) / sigma
	assert.InDelta(t, math.Erfc(z/math.Sqrt2), res.PValue, 1e-12)
}

func TestMannWhitney_AllTied(t *testing.T) {
	res, err := NewMannWhitneySense().Compare([]float64{2, 2, 2}, []float64{2, 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.PValue)
	assert.Equal(t, 3.0, res.U1)
}

func TestMannWhitney_SymmetricPValue(t *testing.T) {
	x := []float64{3.1, 4.7, 2.2, 8.9, 5.5, 6.1, 7.3, 1.4, 9.9, 10.2}
	y := []float64{4.2, 5.9, 6.6, 12.5, 11.1, 13.8, 9.4, 8.1, 14.2}
	sense := NewMannWhitneySense()

	a, err := sense.Compare(x, y)
	require.NoError(t, err)
	b, err := sense.Compare(y, x)
	require.NoError(t, err)

	assert.InDelta(t, a.PValue, b.PValue, 1e-15)
	assert.InDelta(t, a.U1, b.U2, 1e-12)
	assert.True(t, a.PValue >= 0 && a.PValue <= 1)
}

func TestMannWhitney_EmptySample(t *testing.T) {
	sense := NewMannWhitneySense()

	_, err := sense.Compare(nil, []float64{1})
	assert.ErrorIs(t, err, core.ErrEmptyGroup)
	assert.True(t, core.IsInsufficientData(err))

	_, err = sense.Compare([]float64{1}, []float64{})
	assert.ErrorIs(t, err, core.ErrEmptyGroup)
}

func TestMannWhitney_NaNRejected(t *testing.T) {
	_, err := NewMannWhitneySense().Compare([]float64{math.NaN()}, []float64{1})
	assert.Error(t, err)
}

func TestMannWhitney_ExactWithLargeSecondSample(t *testing.T) {
	x := []float64{1, 2, 3}
	y := make([]float64, 2000)
	for i := range y {
		y[i] = float64(i + 4)
	}

	res, err := NewMannWhitneySense().Compare(x, y)
	require.NoError(t, err)

	// only one of C(2003, 3) arrangements is this extreme on either side
	total := 2003.0 * 2002 * 2001 / 6
	assert.Equal(t, stats.MethodExact, res.Method)
	assert.Equal(t, 0.0, res.U1)
	assert.InEpsilon(t, 2/total, res.PValue, 1e-9)
}

func TestUCounts_GaussianBinomial(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 2, 2, 2, 1, 1}, uCounts(2, 3))
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, uCounts(1, 4))

	counts := uCounts(8, 300)
	sum := 0.0
	for _, c := range counts {
		assert.GreaterOrEqual(t, c, 0.0)
		sum += c
	}
	// C(308, 8)
	want := 1.0
	for i := 1; i <= 8; i++ {
		want = want * float64(300+i) / float64(i)
	}
	assert.InEpsilon(t, want, sum, 1e-9)
	assert.Equal(t, counts[7], counts[len(counts)-8])
}

func TestExactSurvival_TotalsToOne(t *testing.T) {
	assert.Equal(t, 1.0, exactSurvival(0, 4, 6))
	assert.Equal(t, 0.0, exactSurvival(25, 4, 6))
	// P(U >= 24) = 1/C(10,4)
	assert.InDelta(t, 1.0/210.0, exactSurvival(24, 4, 6), 1e-15)
	assert.InDelta(t, exactSurvival(7, 4, 6), exactSurvival(7, 6, 4), 1e-15)
}

func TestAverageRanks(t *testing.T) {
	ranks, ties := averageRanks([]float64{10, 20, 10, 30, 20, 20})
	assert.Equal(t, []float64{1.5, 4, 1.5, 6, 4, 4}, ranks)
	assert.Equal(t, []int{2, 3}, ties)
}
