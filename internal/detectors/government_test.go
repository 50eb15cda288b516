package detectors

import "testing"

func TestGovernmentDetector_ClassificationMarking(t *testing.T) {
	d := NewGovernmentDetector()

	tests := []struct {
		name      string
		content   string
		wantEntity string
		wantFound bool
	}{
		{"full marking with SCI", "This document is TOP SECRET//SCI and must not be shared.", "CLASSIFICATION_LEVEL", true},
		{"bare SECRET with no context", "It's a secret that she likes coffee.", "CLASSIFICATION_LEVEL", false},
		{"bare SECRET with classification context", "classification: SECRET, handle per marking guide", "CLASSIFICATION_LEVEL", true},
		{"NOFORN dissemination control", "REL TO USA, GBR, CAN // NOFORN", "DISSEMINATION_CONTROL", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := d.Detect(tt.content)
			found := false
			for _, s := range spans {
				if s.EntityType == tt.wantEntity {
					found = true
				}
			}
			if found != tt.wantFound {
				t.Errorf("expected %s found=%v, got %v (spans=%v)", tt.wantEntity, tt.wantFound, found, spans)
			}
		})
	}
}

func TestGovernmentDetector_CUIRequiresContext(t *testing.T) {
	d := NewGovernmentDetector()

	noContext := d.Detect("The CUI bono principle asks who benefits from this policy change.")
	for _, s := range noContext {
		if s.EntityType == "CLASSIFICATION_LEVEL" {
			t.Error("bare CUI-like word without marking context should be filtered")
		}
	}

	withContext := d.Detect("This record is marked CUI per the classification marking guide.")
	found := false
	for _, s := range withContext {
		if s.EntityType == "CLASSIFICATION_LEVEL" {
			found = true
		}
	}
	if !found {
		t.Error("expected CUI to be detected when contextual marking keywords are present")
	}
}
