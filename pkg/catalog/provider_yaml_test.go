package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const testCatalogYAML = `
systems:
  - system_type: RZ-104-11
    lamp_count: 1
    lamp_power_watts: 320
    operational_limits:
      flow: {min: 10, max: 500, unit: m3/h}
      uvt: {min: 40, max: 98, unit: "%"}
  - system_type: RZMW-350-11
    lamp_count: 11
    lamp_power_watts: 350
    operational_limits:
      flow: {min: 50, max: 2000, unit: m3/h}
      uvt: {min: 40, max: 98, unit: "%"}
`

func writeTempCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp catalog: %v", err)
	}
	return path
}

func TestYAMLProviderLoad(t *testing.T) {
	provider := NewYAMLProvider(writeTempCatalog(t, testCatalogYAML))
	defer provider.Close()

	c, err := provider.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	s, ok := c.System("RZ-104-11")
	if !ok {
		t.Fatal("RZ-104-11 not found")
	}
	if s.LampCount != 1 || s.LampPowerWatts != 320 {
		t.Errorf("RZ-104-11 lamp config = %d lamps @ %vW, want 1 @ 320W", s.LampCount, s.LampPowerWatts)
	}
	if s.Limits.Flow.Min != 10 || s.Limits.Flow.Max != 500 || s.Limits.Flow.Unit != "m3/h" {
		t.Errorf("RZ-104-11 flow limits = %+v", s.Limits.Flow)
	}
	if s.Limits.UVT.Min != 40 || s.Limits.UVT.Max != 98 || s.Limits.UVT.Unit != "%" {
		t.Errorf("RZ-104-11 UVT limits = %+v", s.Limits.UVT)
	}

	if !provider.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	provider := NewYAMLProvider(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if _, err := provider.Load(); err == nil {
		t.Error("expected error for missing catalog file")
	}
}

func TestYAMLProviderMalformed(t *testing.T) {
	provider := NewYAMLProvider(writeTempCatalog(t, "systems: [not: {valid"))
	if _, err := provider.Load(); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestYAMLProviderInvalidCatalog(t *testing.T) {
	// Parses fine but fails catalog validation (zero lamps)
	bad := `
systems:
  - system_type: RZ-104-11
    lamp_count: 0
    lamp_power_watts: 320
    operational_limits:
      flow: {min: 10, max: 500, unit: m3/h}
      uvt: {min: 40, max: 98, unit: "%"}
`
	provider := NewYAMLProvider(writeTempCatalog(t, bad))
	if _, err := provider.Load(); err == nil {
		t.Error("expected error for catalog entry with zero lamps")
	}
}
