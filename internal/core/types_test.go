package core

import "testing"

func TestExposure_Rank(t *testing.T) {
	if ExposurePrivate.Rank() >= ExposureInternal.Rank() {
		t.Error("expected PRIVATE to rank below INTERNAL")
	}
	if ExposureOrgWide.Rank() >= ExposurePublic.Rank() {
		t.Error("expected ORG_WIDE to rank below PUBLIC")
	}
	if Exposure("bogus").Rank() != -1 {
		t.Error("expected an unrecognized exposure to rank -1")
	}
}

func TestMaxExposure(t *testing.T) {
	if got := MaxExposure(ExposurePrivate, ExposurePublic); got != ExposurePublic {
		t.Errorf("expected PUBLIC to win, got %v", got)
	}
	if got := MaxExposure(ExposureOrgWide, ExposureInternal); got != ExposureOrgWide {
		t.Errorf("expected ORG_WIDE to win, got %v", got)
	}
}

func TestParseExposure(t *testing.T) {
	if _, ok := ParseExposure("public"); !ok {
		t.Error("expected lowercase 'public' to parse")
	}
	if _, ok := ParseExposure("not-a-real-exposure"); ok {
		t.Error("expected an invalid string to fail to parse")
	}
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskTier
	}{
		{0, RiskMinimal},
		{19.9, RiskMinimal},
		{20, RiskLow},
		{39.9, RiskLow},
		{40, RiskMedium},
		{59.9, RiskMedium},
		{60, RiskHigh},
		{79.9, RiskHigh},
		{80, RiskCritical},
		{100, RiskCritical},
	}
	for _, tt := range tests {
		if got := TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestTierRank_OrdersHighestLast(t *testing.T) {
	if TierML.Rank() >= TierDictionary.Rank() {
		t.Error("expected ML to rank below DICTIONARY")
	}
	if TierDictionary.Rank() >= TierPattern.Rank() {
		t.Error("expected DICTIONARY to rank below PATTERN")
	}
	if TierPattern.Rank() >= TierStructured.Rank() {
		t.Error("expected PATTERN to rank below STRUCTURED")
	}
}
