package merger

import (
	"testing"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

func TestMerge_SingleInputRoundTrips(t *testing.T) {
	input := core.NormalizedInput{
		Entities: []core.Entity{{Type: "SSN", Count: 2, Confidence: 0.9}},
		Context:  core.NormalizedContext{Exposure: core.ExposurePrivate},
	}
	merged := Merge([]core.NormalizedInput{input}, ConservativeUnion, nil)
	if len(merged.Entities) != 1 || merged.Entities[0].Count != 2 {
		t.Fatalf("single-input merge should round-trip, got %+v", merged.Entities)
	}
}

func TestMerge_ConservativeUnionTakesMax(t *testing.T) {
	a := core.NormalizedInput{
		Entities: []core.Entity{{Type: "SSN", Count: 1, Confidence: 0.80}},
		Context:  core.NormalizedContext{Exposure: core.ExposurePrivate},
	}
	b := core.NormalizedInput{
		Entities: []core.Entity{
			{Type: "SSN", Count: 3, Confidence: 0.95},
			{Type: "CREDIT_CARD", Count: 2, Confidence: 0.90},
		},
		Context: core.NormalizedContext{Exposure: core.ExposurePublic},
	}

	merged := Merge([]core.NormalizedInput{a, b}, ConservativeUnion, nil)

	if merged.Context.Exposure != core.ExposurePublic {
		t.Errorf("expected merged exposure PUBLIC, got %s", merged.Context.Exposure)
	}

	counts := map[string]int{}
	for _, e := range merged.Entities {
		counts[e.Type] = e.Count
	}
	if counts["SSN"] != 3 {
		t.Errorf("expected SSN count=3 (max), got %d", counts["SSN"])
	}
	if _, ok := counts["CREDIT_CARD"]; !ok {
		t.Error("expected CREDIT_CARD to be present in merged entities")
	}
}

func TestMerge_SumCounts(t *testing.T) {
	a := core.NormalizedInput{Entities: []core.Entity{{Type: "SSN", Count: 2, Confidence: 0.8}}}
	b := core.NormalizedInput{Entities: []core.Entity{{Type: "SSN", Count: 3, Confidence: 0.9}}}
	merged := Merge([]core.NormalizedInput{a, b}, SumCounts, nil)
	if merged.Entities[0].Count != 5 {
		t.Errorf("expected summed count 5, got %d", merged.Entities[0].Count)
	}
}

func TestMerge_CanonicalizesThroughRegistry(t *testing.T) {
	reg := registry.New("")
	a := core.NormalizedInput{Entities: []core.Entity{{Type: "USA_SOCIAL_SECURITY_NUMBER", Count: 1, Confidence: 0.9}}}
	b := core.NormalizedInput{Entities: []core.Entity{{Type: "US_SSN", Count: 2, Confidence: 0.8}}}

	merged := Merge([]core.NormalizedInput{a, b}, ConservativeUnion, reg)

	if len(merged.Entities) != 1 {
		t.Fatalf("expected two vendor spellings of SSN to collapse into one canonical entry, got %+v", merged.Entities)
	}
	if merged.Entities[0].Type != "SSN" {
		t.Errorf("expected canonical type SSN, got %q", merged.Entities[0].Type)
	}
}

func TestMergePositions_IntervalFold(t *testing.T) {
	positions := []core.Position{{Start: 0, End: 5}, {Start: 4, End: 10}, {Start: 20, End: 25}}
	merged := mergePositions(positions)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged intervals, got %d: %+v", len(merged), merged)
	}
	if merged[0].Start != 0 || merged[0].End != 10 {
		t.Errorf("expected first interval [0,10], got %+v", merged[0])
	}
}
