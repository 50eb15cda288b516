package detectors

import "testing"

func TestFinancialDetector_CUSIP(t *testing.T) {
	d := NewFinancialDetector()
	// 037833100 is Apple Inc.'s published CUSIP.
	spans := d.Detect("The security CUSIP is 037833100 per the prospectus.")
	found := false
	for _, s := range spans {
		if s.EntityType == "CUSIP" {
			found = true
		}
	}
	if !found {
		t.Error("expected CUSIP to be detected for a valid check digit")
	}
}

func TestFinancialDetector_Ethereum(t *testing.T) {
	d := NewFinancialDetector()

	tests := []struct {
		name      string
		content   string
		wantFound bool
	}{
		{"all lowercase address (no checksum claim)", "Send to 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"valid EIP-55 checksum", "Send to 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"invalid mixed-case checksum", "Send to 0x5AAEb6053f3E94c9b9A09f33669435E7Ef1BeAed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := d.Detect(tt.content)
			found := false
			for _, s := range spans {
				if s.EntityType == "ETHEREUM_ADDRESS" {
					found = true
				}
			}
			if found != tt.wantFound {
				t.Errorf("expected found=%v, got %v", tt.wantFound, found)
			}
		})
	}
}
