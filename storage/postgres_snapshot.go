package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// NewPostgresSnapshot opens a snapshot database over the given
// connection string. Lets several query processes share one parsed
// timetable instead of each re-ingesting the bundle.
func NewPostgresSnapshot(connStr string) (*Snapshot, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Snapshot{db: db, rebinds: true}, nil
}
