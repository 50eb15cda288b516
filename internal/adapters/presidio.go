package adapters

import (
	"context"
	"fmt"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

// PresidioAdapter normalizes Microsoft Presidio analyzer results. Like
// the other external-tool adapters, it never calls Presidio's HTTP API
// itself — it trusts the caller to have already run the analyzer and
// serialized the recognizer results into metadata.
type PresidioAdapter struct {
	registry *registry.Registry
}

func NewPresidioAdapter(reg *registry.Registry) *PresidioAdapter {
	return &PresidioAdapter{registry: reg}
}

func (a *PresidioAdapter) Kind() Kind { return KindPresidio }

// PresidioResult is one entry from Presidio's /analyze response.
type PresidioResult struct {
	EntityType string
	Score      float64 // Presidio's own 0.0-1.0 confidence
}

func (a *PresidioAdapter) Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error) {
	entityType, ok := metadata["presidio_entity_type"]
	if !ok {
		return core.NormalizedInput{Context: core.NormalizedContext{Exposure: core.ExposurePrivate}}, nil
	}

	confidence := core.ConfidenceMedium
	if scoreStr := metadata["presidio_score"]; scoreStr != "" {
		if f, ok := parseScore(scoreStr); ok {
			confidence = f
		}
	}

	return core.NormalizedInput{
		Entities: []core.Entity{{
			Type:       a.registry.NormalizeType(entityType),
			Count:      1,
			Confidence: confidence,
			Source:     string(KindPresidio),
		}},
		Context: core.NormalizedContext{Exposure: core.ExposurePrivate},
	}, nil
}

func parseScore(s string) (float64, bool) {
	var f float64
	n, err := fmt.Sscanf(s, "%f", &f)
	return f, n == 1 && err == nil
}
