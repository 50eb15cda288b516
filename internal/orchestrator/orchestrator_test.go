package orchestrator

import (
	"testing"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

func newTestContext() *core.Context {
	return core.NewContext(registry.New(""))
}

func TestOrchestrator_SSNScenario(t *testing.T) {
	o := NewDefault(newTestContext(), DefaultConfig())
	spans, meta, err := o.Run("Patient SSN: 123-45-6789", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	found := false
	for _, s := range spans {
		if s.EntityType == "SSN" {
			found = true
			if s.Confidence < core.ConfidenceHigh {
				t.Errorf("expected SSN confidence >= %v, got %v", core.ConfidenceHigh, s.Confidence)
			}
		}
	}
	if !found {
		t.Fatal("expected an SSN span")
	}
	if meta.AllDetectorsFailed {
		t.Error("did not expect all detectors to fail")
	}
}

func TestOrchestrator_SpanBoundaryInvariant(t *testing.T) {
	o := NewDefault(newTestContext(), DefaultConfig())
	text := "Contact us at john.doe@acmecorp.com about card 4532015112830366."
	spans, _, err := o.Run(text, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, s := range spans {
		if text[s.Start:s.End] != s.Text {
			t.Errorf("span boundary invariant violated for %+v", s)
		}
	}
}

func TestOrchestrator_NoEntitiesInPlainText(t *testing.T) {
	o := NewDefault(newTestContext(), DefaultConfig())
	spans, _, err := o.Run("Hello, this is just a normal message.", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("expected no spans for plain text, got %d: %+v", len(spans), spans)
	}
}

func TestOrchestrator_DedupIdempotent(t *testing.T) {
	spans := []core.Span{
		{Start: 0, End: 5, Text: "hello", EntityType: "SSN", Tier: core.TierPattern, Confidence: 0.9},
		{Start: 0, End: 5, Text: "hello", EntityType: "SSN", Tier: core.TierStructured, Confidence: 0.95},
	}
	once := dedup(spans)
	twice := dedup(once)
	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: %d vs %d", len(once), len(twice))
	}
}

func TestOrchestrator_MetadataRecordsEveryParallelDetector(t *testing.T) {
	o := NewDefault(newTestContext(), DefaultConfig())
	_, meta, err := o.Run("Patient SSN: 123-45-6789, card 4532015112830366.", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// The structured extractor also calls runOne (sequentially, in Run
	// itself), so the parallel detector set is a subset; every one of
	// them still has to show up exactly once, which would be flaky if
	// their concurrent appends into meta.DetectorsRun ever raced.
	want := []string{"checksum", "pattern", "government", "secrets", "financial", "regulated_sector", "dictionary"}
	seen := map[string]int{}
	for _, name := range meta.DetectorsRun {
		seen[name]++
	}
	for _, name := range want {
		if seen[name] != 1 {
			t.Errorf("expected detector %q to be recorded exactly once in DetectorsRun, got %d (full: %v)", name, seen[name], meta.DetectorsRun)
		}
	}
}

func TestOrchestrator_DisabledDetectors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisabledDetectors = map[string]bool{"checksum": true}
	o := NewDefault(newTestContext(), cfg)
	spans, _, err := o.Run("SSN: 123-45-6789", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, s := range spans {
		if s.Detector == "checksum" {
			t.Error("expected checksum detector to be disabled")
		}
	}
}
