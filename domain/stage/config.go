package stage

import (
	"math"

	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/domain/descriptor"
)

// PipelineConfig is the configuration surface consumed by one analysis run.
// Alpha is not configurable; see stats.Alpha.
type PipelineConfig struct {
	PotencyCeiling     float64           `json:"potency_ceiling" validate:"gt=0"`
	RemoveIntermediate bool              `json:"remove_intermediate"`
	Descriptors        []descriptor.Name `json:"descriptors"`
	TestPotency        bool              `json:"test_potency"`
}

// DefaultPipelineConfig returns the documented defaults
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		PotencyCeiling:     activity.DefaultPotencyCeilingNM,
		RemoveIntermediate: true,
		Descriptors:        descriptor.All(),
	}
}

// Normalize validates the configuration and returns a copy with defaults
// filled in. Unknown descriptor names fail here, before any record is touched.
func (c PipelineConfig) Normalize() (PipelineConfig, error) {
	if math.IsNaN(c.PotencyCeiling) || math.IsInf(c.PotencyCeiling, 0) || c.PotencyCeiling <= 0 {
		return PipelineConfig{}, core.NewValidationError("potency_ceiling", "must be a finite positive number")
	}
	names, err := descriptor.Validate(c.Descriptors)
	if err != nil {
		return PipelineConfig{}, err
	}
	out := c
	out.Descriptors = names
	return out, nil
}

// TestColumns lists the columns compared between groups, in output order
func (c PipelineConfig) TestColumns() []string {
	cols := make([]string, 0, len(c.Descriptors)+1)
	if c.TestPotency {
		cols = append(cols, activity.ColPIC50)
	}
	return append(cols, descriptor.Strings(c.Descriptors)...)
}
