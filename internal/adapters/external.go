package adapters

import (
	"context"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

// ExternalAdapter is the catch-all variant: anything that only speaks a
// generic "type -> count/confidence" vocabulary and doesn't warrant a
// named adapter of its own (an in-house scanner, a one-off script's
// output) still goes through registry normalization the same as every
// named adapter.
type ExternalAdapter struct {
	name     string
	registry *registry.Registry
}

func NewExternalAdapter(name string, reg *registry.Registry) *ExternalAdapter {
	return &ExternalAdapter{name: name, registry: reg}
}

func (a *ExternalAdapter) Kind() Kind { return KindExternal }

// ExternalFinding is a vendor-agnostic finding: a raw type string, a
// count, and a confidence already on OpenLabels' 0-1 scale.
type ExternalFinding struct {
	Type       string
	Count      int
	Confidence float64
}

// Extract normalizes metadata-carried findings. Unlike the named cloud
// adapters, source and context signals are entirely caller-supplied
// (via metadata["exposure"]) since an unnamed external tool has no
// standard exposure vocabulary to translate.
func (a *ExternalAdapter) Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error) {
	exposure, ok := core.ParseExposure(metadata["exposure"])
	if !ok {
		exposure = core.ExposurePrivate
	}

	var entities []core.Entity
	if t, ok := metadata["finding_type"]; ok {
		entities = append(entities, core.Entity{
			Type:       a.registry.NormalizeType(t),
			Count:      1,
			Confidence: core.ConfidenceMedium,
			Source:     a.name,
		})
	}

	return core.NormalizedInput{
		Entities: entities,
		Context:  core.NormalizedContext{Exposure: exposure},
	}, nil
}
