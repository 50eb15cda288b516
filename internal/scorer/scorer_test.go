package scorer

import (
	"testing"

	"github.com/qualys/dspm/internal/core"
)

type fakeLookup struct {
	weights    map[string]int
	categories map[string]string
}

func (f fakeLookup) GetWeight(entityType string) int      { return f.weights[entityType] }
func (f fakeLookup) GetCategory(entityType string) string { return f.categories[entityType] }

func TestScore_SSNPublicBucket(t *testing.T) {
	lookup := fakeLookup{
		weights:    map[string]int{"SSN": 10},
		categories: map[string]string{"SSN": "direct_identifier"},
	}
	result := Score(map[string]int{"SSN": 2}, core.ExposurePublic, 0.95, lookup, DefaultCoOccurrenceRules())

	if result.Score <= 0 {
		t.Fatalf("expected positive score, got %v", result.Score)
	}
	if result.ExposureMultiplier != 2.5 {
		t.Errorf("expected PUBLIC exposure multiplier 2.5, got %v", result.ExposureMultiplier)
	}
	if len(result.Categories) != 1 || result.Categories[0] != "direct_identifier" {
		t.Errorf("expected categories [direct_identifier], got %v", result.Categories)
	}
}

func TestScore_PlainTextNoEntities(t *testing.T) {
	lookup := fakeLookup{}
	result := Score(map[string]int{}, core.ExposurePrivate, core.ConfidenceWhenNoSpans, lookup, DefaultCoOccurrenceRules())

	if result.Score != 0 {
		t.Errorf("expected score 0 for no entities, got %v", result.Score)
	}
	if result.Tier != core.RiskMinimal {
		t.Errorf("expected tier MINIMAL, got %v", result.Tier)
	}
}

func TestScore_FullIdentityCoOccurrence(t *testing.T) {
	lookup := fakeLookup{
		weights: map[string]int{"SSN": 10, "CREDIT_CARD": 9, "DIAGNOSIS": 7},
		categories: map[string]string{
			"SSN":         "direct_identifier",
			"CREDIT_CARD": "financial",
			"DIAGNOSIS":   "health_info",
		},
	}
	entities := map[string]int{"SSN": 1, "CREDIT_CARD": 1, "DIAGNOSIS": 1}

	result := Score(entities, core.ExposureInternal, 0.9, lookup, DefaultCoOccurrenceRules())

	if result.CoOccurrenceMultiplier != 1.6 {
		t.Errorf("expected full_identity multiplier 1.6, got %v", result.CoOccurrenceMultiplier)
	}
	if len(result.CoOccurrenceRules) != 1 || result.CoOccurrenceRules[0].RuleID != "full_identity" {
		t.Errorf("expected full_identity rule to fire, got %+v", result.CoOccurrenceRules)
	}
}

func TestScore_ClampedAtHundred(t *testing.T) {
	lookup := fakeLookup{
		weights:    map[string]int{"SSN": 10},
		categories: map[string]string{"SSN": "direct_identifier"},
	}
	result := Score(map[string]int{"SSN": 500}, core.ExposurePublic, 1.0, lookup, DefaultCoOccurrenceRules())
	if result.Score > 100 {
		t.Errorf("expected score clamped to 100, got %v", result.Score)
	}
	if result.Tier != core.RiskCritical {
		t.Errorf("expected tier CRITICAL, got %v", result.Tier)
	}
}

func TestAverageConfidence_Empty(t *testing.T) {
	if got := AverageConfidence(nil); got != core.ConfidenceWhenNoSpans {
		t.Errorf("expected ConfidenceWhenNoSpans for empty spans, got %v", got)
	}
}

func TestAverageConfidence_Mean(t *testing.T) {
	spans := []core.Span{{Confidence: 0.8}, {Confidence: 1.0}}
	if got := AverageConfidence(spans); got != 0.9 {
		t.Errorf("expected mean 0.9, got %v", got)
	}
}

func TestAverageEntityConfidence_Empty(t *testing.T) {
	if got := AverageEntityConfidence(nil); got != core.ConfidenceWhenNoSpans {
		t.Errorf("expected ConfidenceWhenNoSpans for no entities, got %v", got)
	}
}

func TestAverageEntityConfidence_Mean(t *testing.T) {
	entities := []core.Entity{{Confidence: 0.95}, {Confidence: 0.90}}
	if got := AverageEntityConfidence(entities); got != 0.925 {
		t.Errorf("expected mean 0.925, got %v", got)
	}
}

func TestEntityCountsFromSpans(t *testing.T) {
	spans := []core.Span{{EntityType: "SSN"}, {EntityType: "SSN"}, {EntityType: "EMAIL"}}
	counts := EntityCountsFromSpans(spans)
	if counts["SSN"] != 2 || counts["EMAIL"] != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}
