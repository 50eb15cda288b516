package detectors

import "testing"

func TestChecksumDetector_SSN(t *testing.T) {
	d := NewChecksumDetector()

	tests := []struct {
		name      string
		content   string
		wantFound bool
	}{
		{"valid SSN with dashes", "My SSN is 123-45-6789", true},
		{"invalid area 000", "SSN: 000-12-3456", true},
		{"invalid area 666", "SSN: 666-12-3456", true},
		{"invalid area 900+", "SSN: 900-12-3456", true},
		{"no SSN", "Just some random text", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := d.Detect(tt.content)
			found := false
			for _, s := range spans {
				if s.EntityType == "SSN" {
					found = true
				}
			}
			if found != tt.wantFound {
				t.Errorf("expected SSN found=%v, got %v", tt.wantFound, found)
			}
		})
	}
}

func TestChecksumDetector_CreditCard(t *testing.T) {
	d := NewChecksumDetector()

	tests := []struct {
		name      string
		content   string
		wantFound bool
	}{
		{"valid visa luhn", "Card: 4532015112830366", true},
		{"valid mastercard luhn", "Card: 5425233430109903", true},
		{"random 16 digits", "Number: 1234567890123456", false},
		{"no card", "Hello world", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := d.Detect(tt.content)
			found := false
			for _, s := range spans {
				if s.EntityType == "CREDIT_CARD" {
					found = true
				}
			}
			if found != tt.wantFound {
				t.Errorf("expected CREDIT_CARD found=%v, got %v", tt.wantFound, found)
			}
		})
	}
}

func TestValidateLuhn(t *testing.T) {
	if !ValidateLuhn("4532015112830366") {
		t.Error("expected valid Luhn for known-good Visa test number")
	}
	if ValidateLuhn("1234567890123456") {
		t.Error("expected invalid Luhn for sequential digits")
	}
}

func TestValidateABARouting(t *testing.T) {
	// 021000021 is JPMorgan Chase's published routing number.
	if !ValidateABARouting("021000021") {
		t.Error("expected valid ABA routing for 021000021")
	}
	if ValidateABARouting("123456789") {
		t.Error("expected invalid ABA routing for 123456789")
	}
}

func TestValidateIBAN(t *testing.T) {
	if !ValidateIBAN("GB82WEST12345698765432") {
		t.Error("expected valid IBAN for documented test value")
	}
	if ValidateIBAN("GB00WEST12345698765432") {
		t.Error("expected invalid IBAN for corrupted check digits")
	}
}

func TestValidateVIN(t *testing.T) {
	if !ValidateVIN("1HGCM82633A004352") {
		t.Error("expected valid VIN for documented test value")
	}
	if ValidateVIN("1HGCM82633A004353") {
		t.Error("expected invalid VIN when check digit is wrong")
	}
}
