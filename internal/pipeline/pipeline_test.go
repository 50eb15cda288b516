package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	reg := registry.New("")
	ctx := core.NewContext(reg)
	return New(reg, ctx)
}

func TestScoreText_SSNScenario(t *testing.T) {
	p := newTestPipeline(t)
	result, err := p.ScoreText("Patient SSN: 123-45-6789", core.ExposurePublic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scoring.Score <= 0 {
		t.Errorf("expected positive score, got %v", result.Scoring.Score)
	}
	if len(result.SourcesUsed) != 1 || result.SourcesUsed[0] != "built_in_scanner" {
		t.Errorf("expected built_in_scanner source, got %v", result.SourcesUsed)
	}
}

func TestScoreText_PlainTextScenario(t *testing.T) {
	p := newTestPipeline(t)
	result, err := p.ScoreText("Just a plain sentence with nothing sensitive in it.", core.ExposurePrivate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scoring.Score != 0 {
		t.Errorf("expected score 0 for plain text, got %v", result.Scoring.Score)
	}
	if result.Scoring.Tier != core.RiskMinimal {
		t.Errorf("expected tier MINIMAL, got %v", result.Scoring.Tier)
	}
}

func TestScoreText_RejectsEmpty(t *testing.T) {
	p := newTestPipeline(t)
	if _, err := p.ScoreText("", core.ExposurePrivate); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestScoreFile_FallsBackToBuiltInScanner(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte("Card number 4111111111111111 on file."), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	result, err := p.ScoreFile(path, nil, core.ExposureInternal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scoring.Score <= 0 {
		t.Errorf("expected positive score for credit card number, got %v", result.Scoring.Score)
	}
}

type fakeAdapter struct {
	input core.NormalizedInput
	err   error
}

func (f fakeAdapter) Extract(source string, metadata map[string]string) (core.NormalizedInput, error) {
	return f.input, f.err
}

func TestScoreFile_UsesSuppliedAdapters(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte("irrelevant to adapter path"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	adapter := fakeAdapter{input: core.NormalizedInput{
		Entities: []core.Entity{{Type: "SSN", Count: 1, Confidence: 0.95}},
		Context:  core.NormalizedContext{Exposure: core.ExposurePrivate},
	}}

	result, err := p.ScoreFile(path, []Adapter{adapter}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scoring.Score <= 0 {
		t.Errorf("expected positive score from adapter input, got %v", result.Scoring.Score)
	}
	if result.Degraded {
		t.Error("expected non-degraded result when the only adapter succeeds")
	}
}

func TestScoreFromAdapters_UsesEntityConfidenceNotFloor(t *testing.T) {
	p := newTestPipeline(t)
	lowConfidence := []core.NormalizedInput{{
		Entities: []core.Entity{{Type: "SSN", Count: 1, Confidence: 0.1}},
		Context:  core.NormalizedContext{Exposure: core.ExposurePrivate},
	}}
	highConfidence := []core.NormalizedInput{{
		Entities: []core.Entity{{Type: "SSN", Count: 1, Confidence: 0.95}},
		Context:  core.NormalizedContext{Exposure: core.ExposurePrivate},
	}}

	low, err := p.ScoreFromAdapters(lowConfidence, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	high, err := p.ScoreFromAdapters(highConfidence, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if high.Scoring.Score <= low.Scoring.Score {
		t.Errorf("expected adapter entity confidence to change the score (low=%v, high=%v); both floored at the no-spans default would score equal", low.Scoring.Score, high.Scoring.Score)
	}
}

func TestScoreFromAdapters_RejectsEmpty(t *testing.T) {
	p := newTestPipeline(t)
	if _, err := p.ScoreFromAdapters(nil, ""); err == nil {
		t.Error("expected error for no inputs")
	}
}

func TestScoreFromAdapters_AppliesExposureOverride(t *testing.T) {
	p := newTestPipeline(t)
	inputs := []core.NormalizedInput{{
		Entities: []core.Entity{{Type: "EMAIL", Count: 1, Confidence: 0.8}},
		Context:  core.NormalizedContext{Exposure: core.ExposurePrivate},
	}}
	result, err := p.ScoreFromAdapters(inputs, core.ExposurePublic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scoring.Exposure != core.ExposurePublic {
		t.Errorf("expected exposure override to apply, got %v", result.Scoring.Exposure)
	}
}
