package stages

import (
	"fmt"
	"math"

	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/domain/stage"
)

// nanomolarToMolar converts IC50 units
const nanomolarToMolar = 1e-9

// PotencyConfig holds the potency ceiling in nanomolar
type PotencyConfig struct {
	Ceiling float64 `json:"ceiling"`
}

// PotencyStage converts IC50 (nM) to pIC50
type PotencyStage struct{}

// NewPotencyStage creates a new potency transform stage
func NewPotencyStage() *PotencyStage {
	return &PotencyStage{}
}

// Name returns the stage name
func (s *PotencyStage) Name() stage.StageName {
	return stage.StagePotency
}

// PotencyOutput is the log-potency snapshot
type PotencyOutput struct {
	Records []activity.PotencyRecord `json:"records"`
	Audit   stage.StageAudit         `json:"audit"`
}

// Execute converts every record. A potency of zero has no logarithm; such
// records are dropped with reason zero_potency instead of producing +Inf.
func (s *PotencyStage) Execute(records []activity.ClassifiedRecord, cfg PotencyConfig) PotencyOutput {
	audit := stage.NewStageAudit(s.Name(), len(records))
	out := make([]activity.PotencyRecord, 0, len(records))

	for _, r := range records {
		p, err := PIC50(r.StandardValue, cfg.Ceiling)
		if err != nil {
			audit.Skip(stage.SkipZeroPotency, fmt.Sprintf("activity %s: %v", r.ActivityID, err))
			continue
		}
		out = append(out, activity.PotencyRecord{
			ActivityID: r.ActivityID,
			MoleculeID: r.MoleculeID,
			Structure:  r.Structure,
			Class:      r.Class,
			PIC50:      p,
		})
	}

	audit.OutputCount = len(out)
	return PotencyOutput{Records: out, Audit: audit}
}

// PIC50 returns -log10(min(value, ceiling) * 1e-9)
func PIC50(standardValueNM, ceilingNM float64) (float64, error) {
	v := math.Min(standardValueNM, ceilingNM)
	molar := v * nanomolarToMolar
	if !(molar > 0) {
		return 0, fmt.Errorf("%w: %g nM", core.ErrZeroPotency, standardValueNM)
	}
	return -math.Log10(molar), nil
}
