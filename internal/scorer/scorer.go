// Package scorer maps merged entities, exposure, and confidence to a
// calibrated 0-100 risk score and tier.
package scorer

import (
	"math"
	"sort"

	"github.com/qualys/dspm/internal/core"
)

// WeightCategoryLookup resolves weight and category for an entity type;
// satisfied by *registry.Registry without importing it directly.
type WeightCategoryLookup interface {
	GetWeight(entityType string) int
	GetCategory(entityType string) string
}

var exposureMultiplier = map[core.Exposure]float64{
	core.ExposurePrivate:  1.0,
	core.ExposureInternal: 1.25,
	core.ExposureOrgWide:  1.75,
	core.ExposurePublic:   2.5,
}

// CoOccurrenceRule is one data-driven amplifier: "if every category in
// Categories is present among the scored entities, apply Multiplier."
// Rules are evaluated in order; the first match wins.
type CoOccurrenceRule struct {
	ID         string
	Categories []string
	Multiplier float64
}

// DefaultCoOccurrenceRules mirrors the example rules named in the
// component design: a PII bundle and a full-identity combination.
func DefaultCoOccurrenceRules() []CoOccurrenceRule {
	return []CoOccurrenceRule{
		{ID: "full_identity", Categories: []string{"direct_identifier", "financial", "health_info"}, Multiplier: 1.6},
		{ID: "pii_bundle", Categories: []string{"direct_identifier", "contact_info"}, Multiplier: 1.25},
		{ID: "credential_exposure", Categories: []string{"credential", "contact_info"}, Multiplier: 1.3},
	}
}

// contentScoreCeiling is the divisor used to linearly map the summed
// weight*log2(1+count)*confidence contributions onto a 0-100 scale.
// Calibrated so a handful of high-weight entities (e.g. 2x SSN at full
// confidence) already lands in the HIGH tier before any multiplier.
const contentScoreCeiling = 25.0

// Score maps entity counts, exposure, and an overall confidence value to
// a full ScoringResult.
func Score(entities map[string]int, exposure core.Exposure, confidence float64, weights WeightCategoryLookup, rules []CoOccurrenceRule) core.ScoringResult {
	contentScore, categories := contentScore(entities, confidence, weights)

	expMult, ok := exposureMultiplier[exposure]
	if !ok {
		expMult = exposureMultiplier[core.ExposurePrivate]
	}

	coMult, hits := coOccurrenceMultiplier(categories, rules)

	final := contentScore * expMult * coMult
	final = clamp(final, 0, 100)

	sortedCategories := make([]string, 0, len(categories))
	for c := range categories {
		sortedCategories = append(sortedCategories, c)
	}
	sort.Strings(sortedCategories)

	return core.ScoringResult{
		Score:                  final,
		Tier:                   core.TierForScore(final),
		ContentScore:           contentScore,
		ExposureMultiplier:     expMult,
		CoOccurrenceMultiplier: coMult,
		CoOccurrenceRules:      hits,
		Categories:             sortedCategories,
		Exposure:               exposure,
	}
}

func contentScore(entities map[string]int, confidence float64, weights WeightCategoryLookup) (float64, map[string]bool) {
	sum := 0.0
	categories := map[string]bool{}
	for entityType, count := range entities {
		if count <= 0 {
			continue
		}
		weight := float64(weights.GetWeight(entityType))
		sum += weight * math.Log2(1+float64(count)) * confidence
		categories[weights.GetCategory(entityType)] = true
	}
	mapped := (sum / contentScoreCeiling) * 100
	return clamp(mapped, 0, 100), categories
}

func coOccurrenceMultiplier(categories map[string]bool, rules []CoOccurrenceRule) (float64, []core.CoOccurrenceHit) {
	for _, rule := range rules {
		if allPresent(categories, rule.Categories) {
			return rule.Multiplier, []core.CoOccurrenceHit{{RuleID: rule.ID, Multiplier: rule.Multiplier}}
		}
	}
	return 1.0, nil
}

func allPresent(categories map[string]bool, required []string) bool {
	for _, c := range required {
		if !categories[c] {
			return false
		}
	}
	return true
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// AverageConfidence returns the mean confidence across spans, or
// core.ConfidenceWhenNoSpans if spans is empty — the floor used when
// scoring raw detector output with no external adapter confidence.
func AverageConfidence(spans []core.Span) float64 {
	if len(spans) == 0 {
		return core.ConfidenceWhenNoSpans
	}
	total := 0.0
	for _, s := range spans {
		total += s.Confidence
	}
	return total / float64(len(spans))
}

// AverageEntityConfidence returns the mean confidence across entities, or
// core.ConfidenceWhenNoSpans if entities is empty. This mirrors
// AverageConfidence for the adapter path, where results arrive as
// pre-merged entities rather than raw spans: _merge_inputs in the
// original scorer derives avg_confidence the same way, from the merged
// per-type entity confidences.
func AverageEntityConfidence(entities []core.Entity) float64 {
	if len(entities) == 0 {
		return core.ConfidenceWhenNoSpans
	}
	total := 0.0
	for _, e := range entities {
		total += e.Confidence
	}
	return total / float64(len(entities))
}

// EntityCountsFromSpans collapses spans into the type->count map Score expects.
func EntityCountsFromSpans(spans []core.Span) map[string]int {
	counts := map[string]int{}
	for _, s := range spans {
		counts[s.EntityType]++
	}
	return counts
}

// EntityCountsFromEntities collapses a NormalizedInput's entities into
// the type->count map Score expects, for the score_from_adapters path.
func EntityCountsFromEntities(entities []core.Entity) map[string]int {
	counts := map[string]int{}
	for _, e := range entities {
		counts[e.Type] = e.Count
	}
	return counts
}
