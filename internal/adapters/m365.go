package adapters

import (
	"context"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

// M365Adapter normalizes Microsoft 365 sensitivity-label and sharing-link
// signals surfaced through Microsoft Graph. Graph API calls are out of
// scope (§1); Extract normalizes caller-supplied metadata exactly like
// PurviewAdapter does, since Purview labels and M365 sharing metadata
// arrive through the same Graph surface in practice.
type M365Adapter struct {
	registry *registry.Registry
}

func NewM365Adapter(reg *registry.Registry) *M365Adapter {
	return &M365Adapter{registry: reg}
}

func (a *M365Adapter) Kind() Kind { return KindM365 }

func (a *M365Adapter) Extract(ctx context.Context, source string, metadata map[string]string) (core.NormalizedInput, error) {
	exposure := core.ExposurePrivate
	switch metadata["sharing_scope"] {
	case "anonymous":
		exposure = core.ExposurePublic
	case "organization":
		exposure = core.ExposureOrgWide
	case "specific_people":
		exposure = core.ExposureInternal
	}

	var entities []core.Entity
	if label := metadata["sensitivity_label"]; label != "" {
		entities = append(entities, core.Entity{
			Type:       a.registry.NormalizeType(label),
			Count:      1,
			Confidence: core.ConfidenceHigh,
			Source:     string(KindM365),
		})
	}

	return core.NormalizedInput{
		Entities: entities,
		Context: core.NormalizedContext{
			Exposure:          exposure,
			HasClassification: metadata["sensitivity_label"] != "",
			AnonymousAccess:   metadata["sharing_scope"] == "anonymous",
		},
	}, nil
}
