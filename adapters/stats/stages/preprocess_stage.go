package stages

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/domain/stage"
)

// PreprocessStage coerces raw potency values and projects records to the
// working schema. Records that cannot be coerced are dropped, never fatal.
type PreprocessStage struct{}

// NewPreprocessStage creates a new preprocessing stage
func NewPreprocessStage() *PreprocessStage {
	return &PreprocessStage{}
}

// Name returns the stage name
func (s *PreprocessStage) Name() stage.StageName {
	return stage.StagePreprocess
}

// PreprocessOutput is the cleaned snapshot and its audit
type PreprocessOutput struct {
	Records []activity.CleanedRecord `json:"records"`
	Audit   stage.StageAudit         `json:"audit"`
}

// Execute cleans raw records, preserving their relative order
func (s *PreprocessStage) Execute(raw []activity.RawActivityRecord) PreprocessOutput {
	audit := stage.NewStageAudit(s.Name(), len(raw))
	cleaned := make([]activity.CleanedRecord, 0, len(raw))

	for _, r := range raw {
		if t := strings.TrimSpace(r.StandardType); t != "" && t != activity.AssayTypeIC50 {
			audit.Skip(stage.SkipStandardType, fmt.Sprintf("activity %s: %v %q", r.ActivityID, PotencyError(stage.SkipStandardType), t))
			continue
		}

		value, reason := CoercePotency(r.StandardValue)
		if reason != "" {
			audit.Skip(reason, fmt.Sprintf("activity %s: %v %q", r.ActivityID, PotencyError(reason), r.StandardValue))
			continue
		}

		cleaned = append(cleaned, activity.CleanedRecord{
			ActivityID:    r.ActivityID,
			MoleculeID:    r.MoleculeID,
			Structure:     r.Structure,
			StandardValue: value,
		})
	}

	audit.OutputCount = len(cleaned)
	return PreprocessOutput{Records: cleaned, Audit: audit}
}

// missingTokens are spellings upstream exports use for an absent value
var missingTokens = map[string]bool{"": true, "nan": true, "null": true, "none": true, "na": true, "n/a": true}

// CoercePotency parses a raw standard value. It returns a skip reason when the
// value is missing, unparsable, non-finite or negative.
func CoercePotency(raw string) (float64, string) {
	s := strings.TrimSpace(raw)
	if missingTokens[strings.ToLower(s)] {
		return 0, stage.SkipMissingValue
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, stage.SkipMalformedValue
	}
	if math.IsNaN(v) {
		return 0, stage.SkipMissingValue
	}
	if math.IsInf(v, 0) {
		return 0, stage.SkipNonFinite
	}
	if v < 0 {
		return 0, stage.SkipNegativeValue
	}
	return v, ""
}

// PotencyError maps a skip reason to the record-level sentinel error
func PotencyError(reason string) error {
	switch reason {
	case "":
		return nil
	case stage.SkipNegativeValue:
		return core.ErrNegativePotency
	case stage.SkipStandardType:
		return core.ErrWrongAssayType
	}
	return core.ErrMalformedPotency
}
