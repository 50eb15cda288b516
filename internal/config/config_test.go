package config

import "testing"

func TestValidateScannerHome_RejectsSystemPaths(t *testing.T) {
	bad := []string{"/etc/openlabels", "/var/lib/openlabels", "/usr/local/openlabels", "/etc"}
	for _, p := range bad {
		if err := ValidateScannerHome(p); err == nil {
			t.Errorf("expected %q to be rejected", p)
		}
	}
}

func TestValidateScannerHome_AllowsOrdinaryPaths(t *testing.T) {
	good := []string{"", "/opt/openlabels/data", "/home/svc/openlabels"}
	for _, p := range good {
		if err := ValidateScannerHome(p); err != nil {
			t.Errorf("expected %q to be allowed, got %v", p, err)
		}
	}
}

func TestDefaultConfig_OpenLabelsDefaults(t *testing.T) {
	cfg := defaultConfig()
	if cfg.OpenLabels.MinConfidence != 0.5 {
		t.Errorf("expected default min_confidence 0.5, got %v", cfg.OpenLabels.MinConfidence)
	}
	if cfg.OpenLabels.Device != "auto" {
		t.Errorf("expected default device auto, got %v", cfg.OpenLabels.Device)
	}
	if cfg.OpenLabels.SchemaVersion != currentOpenLabelsSchemaVersion {
		t.Errorf("expected schema_version %d, got %d", currentOpenLabelsSchemaVersion, cfg.OpenLabels.SchemaVersion)
	}
}

func TestOpenLabelsConfig_ApplyEnv(t *testing.T) {
	t.Setenv("OPENLABELS_SCANNER_MIN_CONFIDENCE", "0.75")
	t.Setenv("OPENLABELS_SCANNER_MAX_WORKERS", "16")
	t.Setenv("OPENLABELS_SCANNER_ENABLE_OCR", "true")

	cfg := defaultConfig()
	if cfg.OpenLabels.MinConfidence != 0.75 {
		t.Errorf("expected env override min_confidence 0.75, got %v", cfg.OpenLabels.MinConfidence)
	}
	if cfg.OpenLabels.MaxWorkers != 16 {
		t.Errorf("expected env override max_workers 16, got %v", cfg.OpenLabels.MaxWorkers)
	}
	if !cfg.OpenLabels.EnableOCR {
		t.Error("expected env override to enable OCR")
	}
}
