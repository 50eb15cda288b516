package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

func TestNFSAdapter_WorldReadablePermission(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.txt")
	if err := os.WriteFile(path, []byte("data"), 0o646); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	a := NewNFSAdapter()
	input, err := a.Extract(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Context.Exposure != core.ExposureOrgWide {
		t.Errorf("expected ORG_WIDE exposure for world-readable file, got %v", input.Context.Exposure)
	}
}

func TestNFSAdapter_PrivatePermission(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "private.txt")
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	a := NewNFSAdapter()
	input, err := a.Extract(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Context.Exposure != core.ExposurePrivate {
		t.Errorf("expected PRIVATE exposure for 0600 file, got %v", input.Context.Exposure)
	}
}

func TestExternalAdapter_ExposureFromMetadata(t *testing.T) {
	reg := registry.New("")
	a := NewExternalAdapter("custom-scanner", reg)

	input, err := a.Extract(context.Background(), "src", map[string]string{
		"exposure":     "public",
		"finding_type": "US_SSN",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Context.Exposure != core.ExposurePublic {
		t.Errorf("expected PUBLIC exposure, got %v", input.Context.Exposure)
	}
	if len(input.Entities) != 1 || input.Entities[0].Type != "SSN" {
		t.Errorf("expected SSN alias to normalize, got %+v", input.Entities)
	}
}

func TestExternalAdapter_DefaultsToPrivate(t *testing.T) {
	reg := registry.New("")
	a := NewExternalAdapter("custom-scanner", reg)

	input, err := a.Extract(context.Background(), "src", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Context.Exposure != core.ExposurePrivate {
		t.Errorf("expected PRIVATE default exposure, got %v", input.Context.Exposure)
	}
}

func TestM365Adapter_AnonymousSharingIsPublic(t *testing.T) {
	reg := registry.New("")
	a := NewM365Adapter(reg)

	input, err := a.Extract(context.Background(), "drive-item", map[string]string{"sharing_scope": "anonymous"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Context.Exposure != core.ExposurePublic {
		t.Errorf("expected PUBLIC exposure for anonymous sharing, got %v", input.Context.Exposure)
	}
	if !input.Context.AnonymousAccess {
		t.Error("expected AnonymousAccess to be true")
	}
}

func TestPresidioAdapter_UsesSuppliedScore(t *testing.T) {
	reg := registry.New("")
	a := NewPresidioAdapter(reg)

	input, err := a.Extract(context.Background(), "text", map[string]string{
		"presidio_entity_type": "CREDIT_CARD",
		"presidio_score":       "0.87",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(input.Entities) != 1 || input.Entities[0].Confidence != 0.87 {
		t.Errorf("expected confidence 0.87, got %+v", input.Entities)
	}
}
