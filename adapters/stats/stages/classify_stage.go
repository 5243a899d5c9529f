package stages

import (
	"gobioact/domain/activity"
	"gobioact/domain/stage"
)

// ClassifyConfig controls the intermediate-exclusion policy
type ClassifyConfig struct {
	RemoveIntermediate bool `json:"remove_intermediate"`
}

// ClassifyStage assigns active/inactive/intermediate labels
type ClassifyStage struct{}

// NewClassifyStage creates a new classification stage
func NewClassifyStage() *ClassifyStage {
	return &ClassifyStage{}
}

// Name returns the stage name
func (s *ClassifyStage) Name() stage.StageName {
	return stage.StageClassify
}

// ClassifyOutput is the classified snapshot. Counts cover every input record,
// including intermediates that were excluded.
type ClassifyOutput struct {
	Records []activity.ClassifiedRecord `json:"records"`
	Counts  activity.ClassCounts        `json:"counts"`
	Audit   stage.StageAudit            `json:"audit"`
}

// Execute labels each record. Zero active or zero inactive records is a valid
// result; the hypothesis test stage reports it.
func (s *ClassifyStage) Execute(records []activity.CleanedRecord, cfg ClassifyConfig) ClassifyOutput {
	audit := stage.NewStageAudit(s.Name(), len(records))
	out := make([]activity.ClassifiedRecord, 0, len(records))
	var counts activity.ClassCounts

	for _, r := range records {
		class := activity.ClassifyPotency(r.StandardValue)
		counts.Add(class)
		if cfg.RemoveIntermediate && class == activity.ClassIntermediate {
			audit.Skip(stage.SkipIntermediate, "")
			continue
		}
		out = append(out, activity.ClassifiedRecord{CleanedRecord: r, Class: class})
	}

	audit.OutputCount = len(out)
	return ClassifyOutput{Records: out, Counts: counts, Audit: audit}
}
