package catalog

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func createTestCatalogDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	defer db.Close()

	schema := `
		CREATE TABLE systems (
			system_type      TEXT PRIMARY KEY,
			lamp_count       INTEGER NOT NULL,
			lamp_power_watts REAL NOT NULL,
			flow_min         REAL NOT NULL,
			flow_max         REAL NOT NULL,
			flow_unit        TEXT,
			uvt_min          REAL NOT NULL,
			uvt_max          REAL NOT NULL,
			uvt_unit         TEXT
		)
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	insert := `
		INSERT INTO systems VALUES
			('RZ-104-11', 1, 320, 10, 500, 'm3/h', 40, 98, '%'),
			('RZ-163-12', 2, 1000, 50, 1200, 'm3/h', 50, 98, '%'),
			('RZM-200-5', 5, 200, 20, 800, NULL, 45, 98, NULL)
	`
	if _, err := db.Exec(insert); err != nil {
		t.Fatalf("inserting test systems: %v", err)
	}

	return path
}

func TestSQLiteProviderLoad(t *testing.T) {
	provider, err := NewSQLiteProvider(createTestCatalogDB(t))
	if err != nil {
		t.Fatalf("NewSQLiteProvider() error = %v", err)
	}
	defer provider.Close()

	c, err := provider.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	s, ok := c.System("RZ-163-12")
	if !ok {
		t.Fatal("RZ-163-12 not found")
	}
	if s.LampCount != 2 || s.LampPowerWatts != 1000 {
		t.Errorf("RZ-163-12 lamp config = %d lamps @ %vW, want 2 @ 1000W", s.LampCount, s.LampPowerWatts)
	}

	// NULL units fall back to the canonical catalog units
	s, ok = c.System("RZM-200-5")
	if !ok {
		t.Fatal("RZM-200-5 not found")
	}
	if s.Limits.Flow.Unit != "m3/h" {
		t.Errorf("RZM-200-5 flow unit = %q, want m3/h", s.Limits.Flow.Unit)
	}
	if s.Limits.UVT.Unit != "%" {
		t.Errorf("RZM-200-5 UVT unit = %q, want %%", s.Limits.UVT.Unit)
	}

	if !provider.IsReadOnly() {
		t.Error("SQLite provider should be read-only")
	}
}

func TestSQLiteProviderMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")

	provider, err := NewSQLiteProvider(path)
	if err != nil {
		t.Fatalf("NewSQLiteProvider() error = %v", err)
	}
	defer provider.Close()

	if _, err := provider.Load(); err == nil {
		t.Error("expected error loading from database without systems table")
	}
}
