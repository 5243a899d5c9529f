package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"gobioact/domain/activity"
	"gobioact/domain/core"
)

// ActivityGeneratorConfig configures the synthetic IC50 generator
type ActivityGeneratorConfig struct {
	Count            int     `json:"count"`
	ActiveRate       float64 `json:"active_rate"`
	IntermediateRate float64 `json:"intermediate_rate"`
	MissingRate      float64 `json:"missing_rate"`
	Seed             int64   `json:"seed"`
}

// DefaultActivityConfig returns a small mixed dataset
func DefaultActivityConfig() ActivityGeneratorConfig {
	return ActivityGeneratorConfig{
		Count:            60,
		ActiveRate:       0.4,
		IntermediateRate: 0.2,
		MissingRate:      0.05,
		Seed:             42,
	}
}

// Actives are drawn from larger aromatic scaffolds and inactives from small
// polar molecules, so descriptor distributions differ between the groups.
var (
	activeScaffolds = []string{
		"CC(=O)Oc1ccccc1C(=O)O",
		"Cc1ccc(cc1)S(=O)(=O)N",
		"c1ccc2c(c1)cccc2O",
		"COc1ccc(cc1)C(=O)Nc1ccccc1",
		"Clc1ccc(cc1)C(=O)c1ccccc1",
		"CN1CCN(CC1)c1ccc(cc1)C(F)(F)F",
		"O=C(Nc1ccccc1)c1ccncc1",
		"CC(C)Cc1ccc(cc1)C(C)C(=O)O",
	}
	inactiveScaffolds = []string{
		"CCO",
		"CC(=O)O",
		"OCC(O)CO",
		"NCC(=O)O",
		"CC(N)C(=O)O",
		"OC(=O)CCC(=O)O",
		"CCN",
		"OCCO",
	}
)

// ActivityGenerator produces deterministic raw activity records
type ActivityGenerator struct {
	config ActivityGeneratorConfig
	rng    *rand.Rand
}

// NewActivityGenerator creates a generator seeded from config
func NewActivityGenerator(config ActivityGeneratorConfig) *ActivityGenerator {
	return &ActivityGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns Count records. The same seed always yields the same records.
func (g *ActivityGenerator) Generate() []activity.RawActivityRecord {
	records := make([]activity.RawActivityRecord, 0, g.config.Count)
	for i := 0; i < g.config.Count; i++ {
		records = append(records, g.record(i))
	}
	return records
}

func (g *ActivityGenerator) record(i int) activity.RawActivityRecord {
	var (
		structure string
		logNM     float64
	)
	roll := g.rng.Float64()
	switch {
	case roll < g.config.ActiveRate:
		structure = activeScaffolds[g.rng.Intn(len(activeScaffolds))]
		logNM = g.rng.Float64() * 3 // 1 nM .. 1 uM
	case roll < g.config.ActiveRate+g.config.IntermediateRate:
		structure = pick(g.rng, activeScaffolds, inactiveScaffolds)
		logNM = 3 + g.rng.Float64() // 1 uM .. 10 uM
	default:
		structure = inactiveScaffolds[g.rng.Intn(len(inactiveScaffolds))]
		logNM = 4 + g.rng.Float64()*2 // 10 uM .. 1 mM
	}

	value := strconv.FormatFloat(roundTo(math.Pow(10, logNM), 2), 'f', -1, 64)
	if g.rng.Float64() < g.config.MissingRate {
		value = ""
	}

	return activity.RawActivityRecord{
		ActivityID:    core.ActivityID(strconv.Itoa(100000 + i)),
		MoleculeID:    core.MoleculeID(fmt.Sprintf("CHEMBL%d", 2000+g.rng.Intn(8000))),
		Structure:     structure,
		StandardValue: value,
		StandardType:  activity.AssayTypeIC50,
	}
}

func pick(rng *rand.Rand, a, b []string) string {
	if rng.Intn(2) == 0 {
		return a[rng.Intn(len(a))]
	}
	return b[rng.Intn(len(b))]
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
