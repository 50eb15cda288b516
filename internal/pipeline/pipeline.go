// Package pipeline exposes the convenience entry points that tie the
// trigger engine, orchestrator, merger, and scorer into the three calls
// most callers actually want: score_text, score_file, and
// score_from_adapters.
package pipeline

import (
	"fmt"
	"os"

	"github.com/qualys/dspm/internal/core"
	dspmerrors "github.com/qualys/dspm/internal/errors"
	"github.com/qualys/dspm/internal/merger"
	"github.com/qualys/dspm/internal/orchestrator"
	"github.com/qualys/dspm/internal/registry"
	"github.com/qualys/dspm/internal/rules"
	"github.com/qualys/dspm/internal/scorer"
	"github.com/qualys/dspm/internal/triggers"
)

// Adapter is the closed set of NormalizedInput producers: Macie, Purview,
// DLP, filesystem ACL readers, Presidio, or the built-in scanner itself.
// Each adapter's extraction logic lives in internal/adapters; Pipeline
// only needs the result.
type Adapter interface {
	Extract(source string, metadata map[string]string) (core.NormalizedInput, error)
}

// Result is what every entry point returns: the final score, whether a
// content scan was triggered and how urgently, and which sources fed it.
type Result struct {
	Scoring     core.ScoringResult
	ShouldScan  bool
	FiredRules  []triggers.Kind
	ScanPriority int
	ScanUrgency triggers.Urgency
	SourcesUsed []string
	Metadata    orchestrator.Metadata
	Degraded    bool
}

// Pipeline bundles the shared, reusable collaborators: the registry and
// the core.Context that bounds worker/slot/runaway accounting. One
// Pipeline is meant to be built once per process and reused across
// requests — exactly like the orchestrator it wraps.
type Pipeline struct {
	registry     *registry.Registry
	ctx          *core.Context
	orchestrator *orchestrator.Orchestrator
	rules        []scorer.CoOccurrenceRule
	customRules  *rules.Engine
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithCustomRules attaches a loaded rules.Engine so score_text/score_file
// also run the caller's regex-based custom rules alongside the curated
// detector set, merging both into one span list before scoring.
func WithCustomRules(engine *rules.Engine) Option {
	return func(p *Pipeline) { p.customRules = engine }
}

// New builds a Pipeline with a default orchestrator configuration and
// the full curated detector set.
func New(reg *registry.Registry, ctx *core.Context, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:     reg,
		ctx:          ctx,
		orchestrator: orchestrator.NewDefault(ctx, orchestrator.DefaultConfig()),
		rules:        scorer.DefaultCoOccurrenceRules(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ScoreText runs the built-in detector pipeline over raw text and scores
// the result. This is the "process()" convenience entry point recovered
// from the original orchestrator: scan -> merge (trivial, one source) ->
// score, returning sources_used and scan_priority alongside the score.
func (p *Pipeline) ScoreText(text string, exposure core.Exposure) (Result, error) {
	if text == "" {
		return Result{}, dspmerrors.New(dspmerrors.InvalidInput, "text must not be empty")
	}

	spans, meta, err := p.orchestrator.Run(text, nil)
	if err != nil {
		return Result{}, fmt.Errorf("running orchestrator: %w", err)
	}

	if p.customRules != nil {
		spans = append(spans, p.customRules.ClassifyToSpans(text)...)
	}

	input := spansToNormalizedInput(spans, exposure)
	return p.scoreNormalized([]core.NormalizedInput{input}, []string{"built_in_scanner"}, spans, meta)
}

// ScoreFile reads path's bytes as text and either runs the supplied
// adapters against it or falls back to the built-in scanner when no
// adapters are given. The file's own exposure default applies unless the
// caller's exposure override is non-empty.
func (p *Pipeline) ScoreFile(path string, adapters []Adapter, exposureOverride core.Exposure) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, dspmerrors.Wrap(dspmerrors.InvalidInput, fmt.Sprintf("reading %s", path), err)
	}

	if len(adapters) == 0 {
		return p.ScoreText(string(data), orDefault(exposureOverride, core.ExposurePrivate))
	}

	inputs := make([]core.NormalizedInput, 0, len(adapters))
	sources := make([]string, 0, len(adapters))
	for i, a := range adapters {
		input, err := a.Extract(path, nil)
		if err != nil {
			// One failing adapter degrades the result; it never aborts
			// the whole scan, matching the orchestrator's per-detector
			// isolation policy one layer up.
			sources = append(sources, fmt.Sprintf("adapter_%d_failed", i))
			continue
		}
		if exposureOverride != "" {
			input.Context.Exposure = exposureOverride
		}
		inputs = append(inputs, input)
		sources = append(sources, fmt.Sprintf("adapter_%d", i))
	}

	if len(inputs) == 0 {
		return Result{}, dspmerrors.New(dspmerrors.ResourceUnavailable, "every adapter failed to extract")
	}

	return p.scoreNormalized(inputs, sources, nil, orchestrator.Metadata{Degraded: len(inputs) < len(adapters)})
}

// ScoreFromAdapters scores pre-extracted NormalizedInputs directly,
// skipping both the adapter call and the built-in scanner. This is the
// entry point used when a caller already has adapter output in hand
// (e.g. replaying a batch of prior extractions).
func (p *Pipeline) ScoreFromAdapters(inputs []core.NormalizedInput, exposureOverride core.Exposure) (Result, error) {
	if len(inputs) == 0 {
		return Result{}, dspmerrors.New(dspmerrors.InvalidInput, "score_from_adapters requires at least one input")
	}
	if exposureOverride != "" {
		for i := range inputs {
			inputs[i].Context.Exposure = exposureOverride
		}
	}
	sources := make([]string, len(inputs))
	for i := range inputs {
		sources[i] = fmt.Sprintf("adapter_%d", i)
	}
	return p.scoreNormalized(inputs, sources, nil, orchestrator.Metadata{})
}

func (p *Pipeline) scoreNormalized(inputs []core.NormalizedInput, sources []string, spans []core.Span, meta orchestrator.Metadata) (Result, error) {
	merged := merger.Merge(inputs, merger.ConservativeUnion, p.registry)

	// Raw-span callers (ScoreText) carry their own per-span confidence;
	// adapter callers (ScoreFile's adapter branch, ScoreFromAdapters)
	// never populate spans, so their confidence must come from the
	// merged entities' own Confidence instead of falling through to the
	// no-spans floor.
	var confidence float64
	if len(spans) > 0 {
		confidence = scorer.AverageConfidence(spans)
	} else {
		confidence = scorer.AverageEntityConfidence(merged.Entities)
	}
	counts := scorer.EntityCountsFromEntities(merged.Entities)

	scoring := scorer.Score(counts, merged.Context.Exposure, confidence, p.registry, p.rules)

	should, fired := triggers.ShouldScan(merged.Entities, merged.Context, p.registry)
	priority := triggers.CalculateScanPriority(merged.Context, fired)

	return Result{
		Scoring:      scoring,
		ShouldScan:   should,
		FiredRules:   fired,
		ScanPriority: priority,
		ScanUrgency:  triggers.GetScanUrgency(priority),
		SourcesUsed:  sources,
		Metadata:     meta,
		Degraded:     meta.Degraded,
	}, nil
}

func spansToNormalizedInput(spans []core.Span, exposure core.Exposure) core.NormalizedInput {
	counts := map[string]*core.Entity{}
	order := []string{}
	for _, s := range spans {
		e, ok := counts[s.EntityType]
		if !ok {
			e = &core.Entity{Type: s.EntityType, Source: "built_in_scanner"}
			counts[s.EntityType] = e
			order = append(order, s.EntityType)
		}
		e.Count++
		if s.Confidence > e.Confidence {
			e.Confidence = s.Confidence
		}
		e.Positions = append(e.Positions, core.Position{Start: s.Start, End: s.End})
	}
	entities := make([]core.Entity, 0, len(order))
	for _, t := range order {
		entities = append(entities, *counts[t])
	}
	return core.NormalizedInput{
		Entities: entities,
		Context:  core.NormalizedContext{Exposure: exposure},
	}
}

func orDefault(e, fallback core.Exposure) core.Exposure {
	if e == "" {
		return fallback
	}
	return e
}
