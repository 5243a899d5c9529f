package stages

import (
	"errors"
	"fmt"
	"math"

	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/domain/descriptor"
	"gobioact/domain/stage"
	"gobioact/ports"
)

// DescriptorConfig names the descriptors to compute, in column order
type DescriptorConfig struct {
	Descriptors []descriptor.Name `json:"descriptors"`
}

// DescriptorStage computes molecular descriptors for every record
type DescriptorStage struct {
	parser ports.StructureParser
}

// NewDescriptorStage creates a descriptor stage backed by parser
func NewDescriptorStage(parser ports.StructureParser) *DescriptorStage {
	return &DescriptorStage{parser: parser}
}

// Name returns the stage name
func (s *DescriptorStage) Name() stage.StageName {
	return stage.StageDescriptors
}

// DescriptorOutput is the descriptor-enriched snapshot
type DescriptorOutput struct {
	Snapshot activity.DescriptorSnapshot `json:"snapshot"`
	Audit    stage.StageAudit            `json:"audit"`
}

type parsed struct {
	mol ports.Molecule
	err error
}

// Execute validates the descriptor list before touching any record, then scores
// each record. Unparsable structures are dropped with reason structure_parse.
// Each distinct structure string is parsed once per call.
func (s *DescriptorStage) Execute(records []activity.PotencyRecord, cfg DescriptorConfig) (DescriptorOutput, error) {
	names, err := descriptor.Validate(cfg.Descriptors)
	if err != nil {
		return DescriptorOutput{}, err
	}
	funcs := make([]descriptor.Func, len(names))
	for i, n := range names {
		funcs[i], _ = n.Func()
	}

	audit := stage.NewStageAudit(s.Name(), len(records))
	out := make([]activity.DescriptorRecord, 0, len(records))
	memo := make(map[string]parsed)

	for _, r := range records {
		p, ok := memo[r.Structure]
		if !ok {
			p.mol, p.err = s.parser.Parse(r.Structure)
			if p.err != nil && !errors.Is(p.err, core.ErrStructureParse) {
				p.err = fmt.Errorf("%w: %v", core.ErrStructureParse, p.err)
			}
			memo[r.Structure] = p
		}
		if p.err != nil {
			audit.Skip(stage.SkipStructureParse, fmt.Sprintf("activity %s: %v", r.ActivityID, p.err))
			continue
		}

		scores := make(map[descriptor.Name]float64, len(names))
		finite := true
		for i, n := range names {
			v := funcs[i](p.mol)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				finite = false
				break
			}
			scores[n] = v
		}
		if !finite {
			audit.Skip(stage.SkipNonFinite, fmt.Sprintf("activity %s: non-finite descriptor value", r.ActivityID))
			continue
		}

		out = append(out, activity.DescriptorRecord{PotencyRecord: r, Scores: scores})
	}

	audit.OutputCount = len(out)
	return DescriptorOutput{
		Snapshot: activity.DescriptorSnapshot{Descriptors: names, Records: out},
		Audit:    audit,
	}, nil
}
