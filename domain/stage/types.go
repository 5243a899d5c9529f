package stage

import (
	"sort"
)

// StageName represents a named stage in the pipeline
type StageName string

// Pipeline stages in execution order
const (
	StagePreprocess     StageName = "preprocess"
	StageClassify       StageName = "classify"
	StagePotency        StageName = "potency"
	StageDescriptors    StageName = "descriptors"
	StageHypothesisTest StageName = "hypothesis_test"
)

// Order lists the stages in the order the orchestrator runs them
var Order = []StageName{
	StagePreprocess,
	StageClassify,
	StagePotency,
	StageDescriptors,
	StageHypothesisTest,
}

// Reasons a record was excluded from a stage's output
const (
	SkipMissingValue   = "missing_value"
	SkipMalformedValue = "malformed_value"
	SkipNonFinite      = "non_finite"
	SkipNegativeValue  = "negative_value"
	SkipStandardType   = "standard_type"
	SkipIntermediate   = "intermediate"
	SkipZeroPotency    = "zero_potency"
	SkipStructureParse = "structure_parse"
)

// maxWarnings bounds the per-record warnings kept in an audit
const maxWarnings = 50

// StageAudit captures what a stage consumed, produced and dropped
type StageAudit struct {
	Stage         StageName      `json:"stage"`
	InputCount    int            `json:"input_count"`
	OutputCount   int            `json:"output_count"`
	SkipsByReason map[string]int `json:"skips_by_reason,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
	CacheHit      bool           `json:"cache_hit"`
	DurationMs    int64          `json:"duration_ms"`
}

// NewStageAudit starts an audit for a stage receiving inputCount records
func NewStageAudit(name StageName, inputCount int) StageAudit {
	return StageAudit{
		Stage:         name,
		InputCount:    inputCount,
		SkipsByReason: make(map[string]int),
	}
}

// Skip records one excluded record. An empty warning only bumps the counter.
func (a *StageAudit) Skip(reason, warning string) {
	if a.SkipsByReason == nil {
		a.SkipsByReason = make(map[string]int)
	}
	a.SkipsByReason[reason]++
	if warning != "" && len(a.Warnings) < maxWarnings {
		a.Warnings = append(a.Warnings, warning)
	}
}

// Dropped returns the total number of excluded records
func (a StageAudit) Dropped() int {
	total := 0
	for _, n := range a.SkipsByReason {
		total += n
	}
	return total
}

// Reasons returns skip reasons in sorted order
func (a StageAudit) Reasons() []string {
	reasons := make([]string, 0, len(a.SkipsByReason))
	for r := range a.SkipsByReason {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}

// PipelineSummary provides high-level run statistics
type PipelineSummary struct {
	TotalStages   int   `json:"total_stages"`
	CacheHits     int   `json:"cache_hits"`
	Dropped       int   `json:"dropped"`
	TotalDuration int64 `json:"total_duration_ms"`
}

// Summarize folds a list of audits into a summary
func Summarize(audits []StageAudit) PipelineSummary {
	var s PipelineSummary
	for _, a := range audits {
		s.TotalStages++
		if a.CacheHit {
			s.CacheHits++
		}
		s.Dropped += a.Dropped()
		s.TotalDuration += a.DurationMs
	}
	return s
}
