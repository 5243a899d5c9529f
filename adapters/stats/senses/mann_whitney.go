package senses

import (
	"fmt"
	"math"
	"sort"

	"gobioact/domain/core"
	"gobioact/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// exactMaxSmallSample is the largest smaller-sample size that gets an exact p-value
const exactMaxSmallSample = 8

// MannWhitneyResult holds the rank-sum statistics for one comparison
type MannWhitneyResult struct {
	U1        float64      `json:"u1"` // U for the first sample
	U2        float64      `json:"u2"`
	PValue    float64      `json:"p_value"` // two-sided
	Z         float64      `json:"z,omitempty"`
	Method    stats.Method `json:"method"`
	N1        int          `json:"n1"`
	N2        int          `json:"n2"`
	TieGroups []int        `json:"tie_groups,omitempty"` // sizes of tied blocks (>1)
}

// MannWhitneySense compares two independent samples with the Mann-Whitney U test
type MannWhitneySense struct {
	// UseContinuity applies the 0.5 continuity correction to the normal approximation
	UseContinuity bool
}

// NewMannWhitneySense creates a two-sided Mann-Whitney U test with continuity correction
func NewMannWhitneySense() *MannWhitneySense {
	return &MannWhitneySense{UseContinuity: true}
}

// Name returns the sense name
func (s *MannWhitneySense) Name() string {
	return string(stats.TestMannWhitneyU)
}

// Description returns a human-readable description
func (s *MannWhitneySense) Description() string {
	return "Nonparametric two-sample rank-sum test for a shift between two distributions"
}

// Compare runs the two-sided test. Tied values receive the average of the ranks
// they span. The exact null distribution is used when the smaller sample has at
// most 8 values and there are no ties; otherwise the tie-corrected normal
// approximation is used. Either sample being empty yields core.ErrEmptyGroup.
func (s *MannWhitneySense) Compare(x, y []float64) (MannWhitneyResult, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 {
		return MannWhitneyResult{}, core.NewEmptyGroupError("first sample")
	}
	if n2 == 0 {
		return MannWhitneyResult{}, core.NewEmptyGroupError("second sample")
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, x...)
	combined = append(combined, y...)
	for i, v := range combined {
		if math.IsNaN(v) {
			return MannWhitneyResult{}, fmt.Errorf("mann-whitney: value %d is NaN", i)
		}
	}

	ranks, ties := averageRanks(combined)

	r1 := 0.0
	for _, r := range ranks[:n1] {
		r1 += r
	}
	fn1, fn2 := float64(n1), float64(n2)
	u1 := r1 - fn1*(fn1+1)/2
	u2 := fn1*fn2 - u1
	u := math.Max(u1, u2)

	result := MannWhitneyResult{U1: u1, U2: u2, N1: n1, N2: n2, TieGroups: ties}

	if useExact(n1, n2, len(ties) > 0) {
		result.Method = stats.MethodExact
		result.PValue = 2 * exactSurvival(int(math.Round(u)), n1, n2)
	} else {
		result.Method = stats.MethodAsymptotic
		result.Z, result.PValue = s.asymptotic(u, n1, n2, ties)
	}
	result.PValue = math.Min(math.Max(result.PValue, 0), 1)

	return result, nil
}

func useExact(n1, n2 int, hasTies bool) bool {
	if hasTies {
		return false
	}
	return n1 <= exactMaxSmallSample || n2 <= exactMaxSmallSample
}

// asymptotic returns z and the two-sided p-value for u = max(U1, U2)
func (s *MannWhitneySense) asymptotic(u float64, n1, n2 int, ties []int) (float64, float64) {
	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	mu := fn1 * fn2 / 2

	tieTerm := 0.0
	for _, t := range ties {
		ft := float64(t)
		tieTerm += ft*ft*ft - ft
	}
	variance := fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if variance <= 0 {
		// every value tied: no evidence of a shift
		return 0, 1
	}

	numerator := u - mu
	if s.UseContinuity {
		numerator -= 0.5
	}
	z := numerator / math.Sqrt(variance)
	return z, 2 * distuv.UnitNormal.Survival(z)
}

// averageRanks assigns 1-based ranks, averaging over tied blocks, and returns
// the sizes of blocks with more than one member
func averageRanks(values []float64) ([]float64, []int) {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	var ties []int
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && values[idx[end]] == values[idx[start]] {
			end++
		}
		// positions start..end-1 hold ranks start+1..end
		avg := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			ranks[idx[k]] = avg
		}
		if size := end - start; size > 1 {
			ties = append(ties, size)
		}
		start = end
	}
	return ranks, ties
}

// exactSurvival returns P(U >= u) under the null hypothesis for samples of
// sizes n1 and n2 without ties. U is symmetric about n1*n2/2, so the upper tail
// is read off the lower one.
func exactSurvival(u, n1, n2 int) float64 {
	k, m := n1, n2
	if k > m {
		k, m = m, k
	}
	maxU := k * m
	if u <= 0 {
		return 1
	}
	if u > maxU {
		return 0
	}

	counts := uCounts(k, m)
	total := 1.0
	for i := 1; i <= k; i++ {
		total = total * float64(m+i) / float64(i)
	}

	tail := 0.0
	for v := 0; v <= maxU-u; v++ {
		tail += counts[v]
	}
	return math.Min(tail/total, 1)
}

// uCounts returns the number of rank arrangements giving U = v for v in
// [0, k*m]. These are the coefficients of the Gaussian binomial
// [k+m choose k] = prod_{i=1..k} (1 - q^(m+i)) / (1 - q^i), built one factor at
// a time. After each factor the upper half is mirrored from the lower half so
// that rounding in the subtraction never reaches the tail that is summed.
func uCounts(k, m int) []float64 {
	counts := make([]float64, k*m+k+1)
	counts[0] = 1
	deg := 0
	for i := 1; i <= k; i++ {
		for v := deg + m + i; v >= m+i; v-- {
			counts[v] -= counts[v-m-i]
		}
		for v := i; v <= deg+m+i; v++ {
			counts[v] += counts[v-i]
		}
		deg += m
		for v := deg/2 + 1; v <= deg; v++ {
			counts[v] = counts[deg-v]
		}
		for v := deg + 1; v < len(counts); v++ {
			counts[v] = 0
		}
	}
	return counts[:k*m+1]
}
