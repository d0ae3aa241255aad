package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements Provider for SQLite catalog databases
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite catalog provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Load loads the complete catalog from the SQLite database
func (s *SQLiteProvider) Load() (*Catalog, error) {
	query := `
		SELECT system_type, lamp_count, lamp_power_watts,
		       flow_min, flow_max, flow_unit,
		       uvt_min, uvt_max, uvt_unit
		FROM systems
		ORDER BY system_type
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query systems: %w", err)
	}
	defer rows.Close()

	var systems []System
	for rows.Next() {
		var sys System
		var flowUnit, uvtUnit sql.NullString

		err := rows.Scan(
			&sys.Type, &sys.LampCount, &sys.LampPowerWatts,
			&sys.Limits.Flow.Min, &sys.Limits.Flow.Max, &flowUnit,
			&sys.Limits.UVT.Min, &sys.Limits.UVT.Max, &uvtUnit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan system row: %w", err)
		}

		// Convert nullable unit fields, defaulting to the catalog's
		// canonical units
		sys.Limits.Flow.Unit = "m3/h"
		if flowUnit.Valid && flowUnit.String != "" {
			sys.Limits.Flow.Unit = flowUnit.String
		}
		sys.Limits.UVT.Unit = "%"
		if uvtUnit.Valid && uvtUnit.String != "" {
			sys.Limits.UVT.Unit = uvtUnit.String
		}

		systems = append(systems, sys)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read system rows: %w", err)
	}

	return New(systems)
}

// IsReadOnly returns true; the service never writes to the catalog database
func (s *SQLiteProvider) IsReadOnly() bool {
	return true
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
