package triggers

import (
	"testing"

	"github.com/qualys/dspm/internal/core"
)

type fakeWeights struct{ weights map[string]int }

func (f fakeWeights) GetWeight(entityType string) int { return f.weights[entityType] }

func TestShouldScan_PublicNoEncryptionNoLabels(t *testing.T) {
	ctx := core.NormalizedContext{
		Exposure:          core.ExposurePublic,
		Encryption:        core.EncryptionNone,
		HasClassification: false,
	}
	should, fired := ShouldScan(nil, ctx, fakeWeights{})
	if !should {
		t.Fatal("expected should_scan == true")
	}

	want := map[Kind]bool{NoLabels: true, PublicAccess: true, NoEncryption: true}
	for k := range want {
		found := false
		for _, f := range fired {
			if f == k {
				found = true
			}
		}
		if !found {
			t.Errorf("expected trigger %s to fire, got %v", k, fired)
		}
	}

	priority := CalculateScanPriority(ctx, fired)
	if priority < 75 {
		t.Errorf("expected priority >= 75, got %d", priority)
	}
	if urgency := GetScanUrgency(priority); urgency != UrgencyImmediate {
		t.Errorf("expected urgency IMMEDIATE, got %s", urgency)
	}
}

func TestShouldScan_NoTriggers(t *testing.T) {
	ctx := core.NormalizedContext{
		Exposure:          core.ExposurePrivate,
		Encryption:        core.EncryptionCustomerManaged,
		HasClassification: true,
		StalenessDays:     10,
	}
	entities := []core.Entity{{Type: "EMAIL", Confidence: 0.9}}
	should, fired := ShouldScan(entities, ctx, fakeWeights{weights: map[string]int{"EMAIL": 4}})
	if should {
		t.Errorf("expected should_scan == false, got triggers %v", fired)
	}
}

func TestCalculateScanPriority_Bounds(t *testing.T) {
	ctx := core.NormalizedContext{Exposure: core.ExposurePublic}
	fired := []Kind{NoEncryption, LowConfidenceHighRisk, NoLabels, StaleData}
	priority := CalculateScanPriority(ctx, fired)
	if priority < 0 || priority > 100 {
		t.Fatalf("priority out of bounds: %d", priority)
	}
	if priority != 100 {
		t.Errorf("expected priority capped at 100, got %d", priority)
	}
}

func TestGetScanUrgency_Thresholds(t *testing.T) {
	tests := []struct {
		priority int
		want     Urgency
	}{
		{0, UrgencyNone},
		{10, UrgencyLow},
		{25, UrgencyMedium},
		{50, UrgencyHigh},
		{75, UrgencyImmediate},
		{100, UrgencyImmediate},
	}
	for _, tt := range tests {
		if got := GetScanUrgency(tt.priority); got != tt.want {
			t.Errorf("GetScanUrgency(%d) = %s, want %s", tt.priority, got, tt.want)
		}
	}
}
