// Package triggers implements the scan-trigger decision engine: deciding
// whether content scanning is warranted despite existing labels, and how
// urgently a deferred scan should be scheduled.
package triggers

import "github.com/qualys/dspm/internal/core"

// Kind is one reason to run content scanning.
type Kind string

const (
	NoLabels              Kind = "NO_LABELS"
	PublicAccess          Kind = "PUBLIC_ACCESS"
	OrgWide               Kind = "ORG_WIDE"
	NoEncryption          Kind = "NO_ENCRYPTION"
	StaleData             Kind = "STALE_DATA"
	LowConfidenceHighRisk Kind = "LOW_CONFIDENCE_HIGH_RISK"
)

// Thresholds mirror the source engine's tunables exactly; they are not
// user-configurable because scan-trigger policy must be predictable
// across the fleet.
const (
	ConfidenceThreshold     = 0.80
	HighRiskWeightThreshold = 8
	StalenessThresholdDays  = 365
)

// Urgency buckets the computed scan priority for operator-facing display.
type Urgency string

const (
	UrgencyImmediate Urgency = "IMMEDIATE"
	UrgencyHigh      Urgency = "HIGH"
	UrgencyMedium    Urgency = "MEDIUM"
	UrgencyLow       Urgency = "LOW"
	UrgencyNone      Urgency = "NONE"
)

// WeightLookup resolves an entity type's weight; satisfied by
// *registry.Registry without importing it (avoids a dependency cycle).
type WeightLookup interface {
	GetWeight(entityType string) int
}

// ShouldScan evaluates every trigger rule against entities and context,
// returning whether a scan is warranted and which rules fired.
func ShouldScan(entities []core.Entity, ctx core.NormalizedContext, weights WeightLookup) (bool, []Kind) {
	var fired []Kind

	if len(entities) == 0 || !ctx.HasClassification {
		fired = append(fired, NoLabels)
	}

	switch ctx.Exposure {
	case core.ExposurePublic:
		fired = append(fired, PublicAccess)
	case core.ExposureOrgWide:
		fired = append(fired, OrgWide)
	}

	if ctx.Encryption == core.EncryptionNone {
		fired = append(fired, NoEncryption)
	}

	if ctx.StalenessDays > StalenessThresholdDays {
		fired = append(fired, StaleData)
	}

	for _, e := range entities {
		if weights.GetWeight(e.Type) >= HighRiskWeightThreshold && e.Confidence < ConfidenceThreshold {
			fired = append(fired, LowConfidenceHighRisk)
			break
		}
	}

	return len(fired) > 0, fired
}

// exposure base points for CalculateScanPriority.
var exposureBase = map[core.Exposure]int{
	core.ExposurePrivate:  0,
	core.ExposureInternal: 10,
	core.ExposureOrgWide:  30,
	core.ExposurePublic:   50,
}

// trigger point boosts for CalculateScanPriority.
var triggerBoost = map[Kind]int{
	NoEncryption:          20,
	LowConfidenceHighRisk: 25,
	NoLabels:              15,
	StaleData:             5,
}

// CalculateScanPriority combines an exposure base score with additive
// trigger boosts, capped at 100.
func CalculateScanPriority(ctx core.NormalizedContext, fired []Kind) int {
	priority := exposureBase[ctx.Exposure]
	for _, k := range fired {
		priority += triggerBoost[k]
	}
	if priority > 100 {
		priority = 100
	}
	if priority < 0 {
		priority = 0
	}
	return priority
}

// GetScanUrgency maps a computed priority to an operator-facing bucket.
func GetScanUrgency(priority int) Urgency {
	switch {
	case priority >= 75:
		return UrgencyImmediate
	case priority >= 50:
		return UrgencyHigh
	case priority >= 25:
		return UrgencyMedium
	case priority > 0:
		return UrgencyLow
	default:
		return UrgencyNone
	}
}
