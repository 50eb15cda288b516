package adapters

import (
	"context"
	"os"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/orchestrator"
	"github.com/qualys/dspm/internal/scorer"
)

// ScannerAdapter wraps the built-in orchestrator as an Extractor, so it
// can be used anywhere the adapter interface is expected — e.g. as one
// of several inputs merged alongside Macie/Purview/DLP results for the
// same object.
type ScannerAdapter struct {
	orchestrator *orchestrator.Orchestrator
}

func NewScannerAdapter(o *orchestrator.Orchestrator) *ScannerAdapter {
	return &ScannerAdapter{orchestrator: o}
}

func (a *ScannerAdapter) Kind() Kind { return KindScanner }

// Extract reads source as a file path and runs the full detector
// pipeline over its contents.
func (a *ScannerAdapter) Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return core.NormalizedInput{}, err
	}

	spans, _, err := a.orchestrator.Run(string(data), nil)
	if err != nil {
		return core.NormalizedInput{}, err
	}

	counts := scorer.EntityCountsFromSpans(spans)
	entities := make([]core.Entity, 0, len(counts))
	for entityType, count := range counts {
		best := 0.0
		for _, s := range spans {
			if s.EntityType == entityType && s.Confidence > best {
				best = s.Confidence
			}
		}
		entities = append(entities, core.Entity{
			Type:       entityType,
			Count:      count,
			Confidence: best,
			Source:     string(KindScanner),
		})
	}

	return core.NormalizedInput{
		Entities: entities,
		Context:  core.NormalizedContext{Exposure: core.ExposurePrivate, Path: source},
	}, nil
}
