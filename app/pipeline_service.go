package app

import (
	"context"
	"fmt"

	"gobioact/adapters/stats/stages"
	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/domain/run"
	"gobioact/domain/stage"
	"gobioact/domain/stats"
	"gobioact/internal"
	"gobioact/internal/cache"
	"gobioact/internal/errors"
	"gobioact/internal/metrics"
	"gobioact/ports"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Snapshots holds every intermediate table of a run. Each is a fresh value;
// no stage mutates its predecessor's output.
type Snapshots struct {
	Original    []activity.RawActivityRecord `json:"original"`
	Cleaned     []activity.CleanedRecord     `json:"cleaned"`
	Classified  []activity.ClassifiedRecord  `json:"classified"`
	Counts      activity.ClassCounts         `json:"class_counts"`
	Potency     []activity.PotencyRecord     `json:"potency"`
	Descriptors activity.DescriptorSnapshot  `json:"descriptors"`
}

// RunContext is threaded explicitly through the stages of one run
type RunContext struct {
	RunID     core.RunID
	Config    stage.PipelineConfig
	Parser    string
	Snapshots Snapshots
	Audits    []stage.StageAudit
}

// RunResult is the complete, serializable outcome of one run
type RunResult struct {
	RunID     core.RunID            `json:"run_id"`
	Status    stats.OutcomeStatus   `json:"status"`
	Config    stage.PipelineConfig  `json:"config"`
	Snapshots Snapshots             `json:"snapshots"`
	Tests     []stats.TestOutcome   `json:"tests"`
	Audits    []stage.StageAudit    `json:"audits"`
	Summary   stage.PipelineSummary `json:"summary"`
	Manifest  *run.Manifest         `json:"manifest"`
}

// PipelineService runs the bioactivity pipeline:
// preprocess -> classify -> potency -> descriptors -> hypothesis test
type PipelineService struct {
	parser  ports.StructureParser
	cache   *cache.Cache
	tracer  trace.Tracer
	metrics *metrics.Metrics
	logger  *internal.Logger
	runner  *StageRunner

	preprocess  *stages.PreprocessStage
	classify    *stages.ClassifyStage
	potency     *stages.PotencyStage
	descriptors *stages.DescriptorStage
	hypothesis  *stages.HypothesisTestStage
}

// Option configures a PipelineService
type Option func(*PipelineService)

// WithCache shares a stage result cache between services
func WithCache(c *cache.Cache) Option {
	return func(s *PipelineService) { s.cache = c }
}

// WithTracer emits one span per stage on tracer
func WithTracer(t trace.Tracer) Option {
	return func(s *PipelineService) { s.tracer = t }
}

// WithMetrics records run and stage metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *PipelineService) { s.metrics = m }
}

// WithLogger sets the logger; the pipeline component prefix is added
func WithLogger(l *internal.Logger) Option {
	return func(s *PipelineService) { s.logger = l }
}

// NewPipelineService creates a pipeline computing descriptors with parser
func NewPipelineService(parser ports.StructureParser, opts ...Option) (*PipelineService, error) {
	s := &PipelineService{
		parser:      parser,
		tracer:      noop.NewTracerProvider().Tracer(""),
		logger:      internal.DefaultLogger,
		preprocess:  stages.NewPreprocessStage(),
		classify:    stages.NewClassifyStage(),
		potency:     stages.NewPotencyStage(),
		descriptors: stages.NewDescriptorStage(parser),
		hypothesis:  stages.NewHypothesisTestStage(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		c, err := cache.New(cache.DefaultSize)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create pipeline")
		}
		s.cache = c
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	s.logger = s.logger.WithComponent("pipeline")
	s.runner = NewStageRunner(s.cache, s.tracer, s.metrics, s.logger)
	return s, nil
}

// ParserName identifies the structure parser in use
func (s *PipelineService) ParserName() string {
	return s.parser.Name()
}

// Run executes every stage over raw. The configuration is validated before any
// record is touched; an unknown descriptor fails the whole run. Missing active
// or inactive records are not an error: the run completes with status
// insufficient_data.
func (s *PipelineService) Run(ctx context.Context, cfg stage.PipelineConfig, raw []activity.RawActivityRecord) (*RunResult, error) {
	normalized, err := cfg.Normalize()
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("config_invalid").Inc()
		return nil, errors.AtStage("config", "requested descriptors must be registered and potency ceiling positive", err)
	}

	rc := &RunContext{
		RunID:  core.NewRunID(),
		Config: normalized,
		Parser: s.parser.Name(),
	}
	if raw == nil {
		raw = []activity.RawActivityRecord{}
	}
	rc.Snapshots.Original = raw

	ctx, span := s.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", rc.RunID.String()),
		attribute.Int("run.input_records", len(raw)),
		attribute.StringSlice("run.descriptors", normalized.TestColumns()),
	))
	defer span.End()

	s.logger.Info("run %s: %d records, descriptors %v", rc.RunID, len(raw), normalized.TestColumns())

	tests, err := s.runStages(ctx, rc)
	if err != nil {
		span.RecordError(err)
		s.metrics.RunsTotal.WithLabelValues("failed").Inc()
		s.logger.Error("run %s failed: %v", rc.RunID, err)
		return nil, err
	}

	status := runStatus(tests)
	manifest, err := s.buildManifest(rc, tests)
	if err != nil {
		return nil, errors.AtStage("manifest", "run outputs must be serializable", err)
	}

	s.metrics.RunsTotal.WithLabelValues(string(status)).Inc()
	for _, t := range tests {
		s.metrics.TestsTotal.WithLabelValues(t.Descriptor, outcomeLabel(t)).Inc()
	}
	span.SetAttributes(attribute.String("run.status", string(status)))
	s.logger.Info("run %s: %s, %d tests, fingerprint %s", rc.RunID, status, len(tests), manifest.Fingerprint.Fingerprint.Short())

	return &RunResult{
		RunID:     rc.RunID,
		Status:    status,
		Config:    normalized,
		Snapshots: rc.Snapshots,
		Tests:     tests,
		Audits:    rc.Audits,
		Summary:   stage.Summarize(rc.Audits),
		Manifest:  manifest,
	}, nil
}

func (s *PipelineService) runStages(ctx context.Context, rc *RunContext) ([]stats.TestOutcome, error) {
	cfg := rc.Config

	pre, err := execute(ctx, s.runner, rc, stageInvocation{
		name:         stage.StagePreprocess,
		precondition: "raw records must be readable",
		input:        rc.Snapshots.Original,
	}, func() (stages.PreprocessOutput, error) {
		return s.preprocess.Execute(rc.Snapshots.Original), nil
	}, func(o stages.PreprocessOutput) stage.StageAudit { return o.Audit })
	if err != nil {
		return nil, err
	}
	rc.Snapshots.Cleaned = pre.Records

	classifyCfg := stages.ClassifyConfig{RemoveIntermediate: cfg.RemoveIntermediate}
	cls, err := execute(ctx, s.runner, rc, stageInvocation{
		name:         stage.StageClassify,
		precondition: "potency values must be finite and non-negative",
		config:       classifyCfg,
		input:        rc.Snapshots.Cleaned,
	}, func() (stages.ClassifyOutput, error) {
		return s.classify.Execute(rc.Snapshots.Cleaned, classifyCfg), nil
	}, func(o stages.ClassifyOutput) stage.StageAudit { return o.Audit })
	if err != nil {
		return nil, err
	}
	rc.Snapshots.Classified = cls.Records
	rc.Snapshots.Counts = cls.Counts

	potencyCfg := stages.PotencyConfig{Ceiling: cfg.PotencyCeiling}
	pot, err := execute(ctx, s.runner, rc, stageInvocation{
		name:         stage.StagePotency,
		precondition: "potency ceiling must be positive",
		config:       potencyCfg,
		input:        rc.Snapshots.Classified,
	}, func() (stages.PotencyOutput, error) {
		return s.potency.Execute(rc.Snapshots.Classified, potencyCfg), nil
	}, func(o stages.PotencyOutput) stage.StageAudit { return o.Audit })
	if err != nil {
		return nil, err
	}
	rc.Snapshots.Potency = pot.Records

	descriptorCfg := stages.DescriptorConfig{Descriptors: cfg.Descriptors}
	desc, err := execute(ctx, s.runner, rc, stageInvocation{
		name:         stage.StageDescriptors,
		precondition: "requested descriptors must be registered",
		config: struct {
			stages.DescriptorConfig
			Parser string `json:"parser"`
		}{descriptorCfg, rc.Parser},
		input: rc.Snapshots.Potency,
	}, func() (stages.DescriptorOutput, error) {
		return s.descriptors.Execute(rc.Snapshots.Potency, descriptorCfg)
	}, func(o stages.DescriptorOutput) stage.StageAudit { return o.Audit })
	if err != nil {
		return nil, err
	}
	rc.Snapshots.Descriptors = desc.Snapshot

	columns := cfg.TestColumns()
	hyp, err := execute(ctx, s.runner, rc, stageInvocation{
		name:         stage.StageHypothesisTest,
		precondition: "tested columns must exist in the descriptor snapshot",
		config:       columns,
		input:        rc.Snapshots.Descriptors,
	}, func() (stages.HypothesisOutput, error) {
		return s.hypothesis.Execute(rc.Snapshots.Descriptors, columns)
	}, func(o stages.HypothesisOutput) stage.StageAudit { return o.Audit })
	if err != nil {
		return nil, err
	}
	return hyp.Outcomes, nil
}

func (s *PipelineService) buildManifest(rc *RunContext, tests []stats.TestOutcome) (*run.Manifest, error) {
	inputHash, err := core.ComputeContentHash(rc.Snapshots.Original)
	if err != nil {
		return nil, err
	}
	configHash, err := core.ComputeConfigHash(rc.Config)
	if err != nil {
		return nil, err
	}
	outputHash, err := core.ComputeContentHash(struct {
		Snapshot activity.DescriptorSnapshot `json:"snapshot"`
		Tests    []stats.TestOutcome         `json:"tests"`
	}{rc.Snapshots.Descriptors, tests})
	if err != nil {
		return nil, err
	}

	fp := run.NewRunFingerprint(inputHash, configHash, rc.Parser, run.CodeVersion)
	manifest := run.NewManifest(rc.RunID, fp, outputHash)
	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("incomplete manifest: %w", err)
	}
	return manifest, nil
}

// runStatus is completed only when every requested column was tested
func runStatus(tests []stats.TestOutcome) stats.OutcomeStatus {
	for _, t := range tests {
		if !t.Completed() {
			return stats.StatusInsufficientData
		}
	}
	return stats.StatusCompleted
}

func outcomeLabel(t stats.TestOutcome) string {
	if !t.Completed() {
		return string(t.Status)
	}
	if t.Result.Interpretation == stats.DifferentDistribution {
		return "reject"
	}
	return "fail_to_reject"
}
