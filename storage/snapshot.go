package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hrdf/timetable/calendar"
	"github.com/hrdf/timetable/model"
)

// Snapshot persists a fully parsed DataStore to a SQL database so a
// later process can skip re-parsing an unchanged HRDF bundle. Records
// are stored as one JSON document per (kind, id): the engine only ever
// reads the store through the in-memory maps, so the database needs no
// queryable columns beyond the key.
type Snapshot struct {
	db      *sql.DB
	rebinds bool // rewrite ? placeholders to $1..$n (postgres)
}

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS timetable_meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS timetable_records (
    kind TEXT NOT NULL,
    id INTEGER NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (kind, id)
);
`

func (s *Snapshot) rebind(query string) string {
	if !s.rebinds {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Snapshot) exec(tx *sql.Tx, query string, args ...interface{}) error {
	_, err := tx.Exec(s.rebind(query), args...)
	return err
}

// Close releases the underlying database handle.
func (s *Snapshot) Close() error { return s.db.Close() }

// Save writes ds to the database, replacing any previous snapshot.
func (s *Snapshot) Save(ds *DataStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.exec(tx, `DELETE FROM timetable_records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	if err := s.exec(tx, `DELETE FROM timetable_meta`); err != nil {
		return fmt.Errorf("clearing meta: %w", err)
	}

	metaJSON, err := json.Marshal(ds.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	if err := s.exec(tx, `INSERT INTO timetable_meta (key, value) VALUES (?, ?)`, "metadata", string(metaJSON)); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	if err := s.exec(tx, `INSERT INTO timetable_meta (key, value) VALUES (?, ?)`, "saved_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("writing saved_at: %w", err)
	}

	if err := saveStore(s, tx, "bit_field", ds.BitFields); err != nil {
		return err
	}
	if err := saveStore(s, tx, "holiday", ds.Holidays); err != nil {
		return err
	}
	if err := saveStore(s, tx, "attribute", ds.Attributes); err != nil {
		return err
	}
	if err := saveStore(s, tx, "information_text", ds.InformationTexts); err != nil {
		return err
	}
	if err := saveStore(s, tx, "direction", ds.Directions); err != nil {
		return err
	}
	if err := saveStore(s, tx, "line", ds.Lines); err != nil {
		return err
	}
	if err := saveStore(s, tx, "transport_company", ds.TransportCompanies); err != nil {
		return err
	}
	if err := saveStore(s, tx, "transport_type", ds.TransportTypes); err != nil {
		return err
	}
	if err := saveStore(s, tx, "stop", ds.Stops); err != nil {
		return err
	}
	if err := saveStore(s, tx, "stop_connection", ds.StopConnections); err != nil {
		return err
	}
	if err := saveStore(s, tx, "journey", ds.Journeys); err != nil {
		return err
	}
	if err := saveStore(s, tx, "journey_platform", ds.JourneyPlatforms); err != nil {
		return err
	}
	if err := saveStore(s, tx, "platform", ds.Platforms); err != nil {
		return err
	}
	if err := saveSlice(s, tx, "through_service", ds.ThroughServices); err != nil {
		return err
	}
	if err := saveSlice(s, tx, "exchange_time_administration", ds.ExchangeTimesAdministration); err != nil {
		return err
	}
	if err := saveSlice(s, tx, "exchange_time_line", ds.ExchangeTimesLine); err != nil {
		return err
	}
	if err := saveSlice(s, tx, "exchange_time_journey", ds.ExchangeTimesJourney); err != nil {
		return err
	}

	return tx.Commit()
}

func saveStore[T any](s *Snapshot, tx *sql.Tx, kind string, store *Store[T]) error {
	stmt, err := tx.Prepare(s.rebind(`INSERT INTO timetable_records (kind, id, data) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", kind, err)
	}
	defer stmt.Close()

	for id, v := range store.rows {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshalling %s %d: %w", kind, id, err)
		}
		if _, err := stmt.Exec(kind, id, string(data)); err != nil {
			return fmt.Errorf("writing %s %d: %w", kind, id, err)
		}
	}
	return nil
}

func saveSlice[T any](s *Snapshot, tx *sql.Tx, kind string, values []*T) error {
	stmt, err := tx.Prepare(s.rebind(`INSERT INTO timetable_records (kind, id, data) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", kind, err)
	}
	defer stmt.Close()

	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshalling %s %d: %w", kind, i, err)
		}
		if _, err := stmt.Exec(kind, i, string(data)); err != nil {
			return fmt.Errorf("writing %s %d: %w", kind, i, err)
		}
	}
	return nil
}

// Load rebuilds a ready-to-query DataStore from the snapshot,
// including the derived indices and the calendar engine. Returns
// sql.ErrNoRows when the database holds no snapshot.
func (s *Snapshot) Load() (*DataStore, error) {
	var metaJSON string
	err := s.db.QueryRow(s.rebind(`SELECT value FROM timetable_meta WHERE key = ?`), "metadata").Scan(&metaJSON)
	if err != nil {
		return nil, err
	}

	ds := New()
	ds.Metadata = &model.TimetableMetadata{}
	if err := json.Unmarshal([]byte(metaJSON), ds.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}

	if err := loadStore(s, "bit_field", ds.BitFields); err != nil {
		return nil, err
	}
	if err := loadStore(s, "holiday", ds.Holidays); err != nil {
		return nil, err
	}
	if err := loadStore(s, "attribute", ds.Attributes); err != nil {
		return nil, err
	}
	if err := loadStore(s, "information_text", ds.InformationTexts); err != nil {
		return nil, err
	}
	if err := loadStore(s, "direction", ds.Directions); err != nil {
		return nil, err
	}
	if err := loadStore(s, "line", ds.Lines); err != nil {
		return nil, err
	}
	if err := loadStore(s, "transport_company", ds.TransportCompanies); err != nil {
		return nil, err
	}
	if err := loadStore(s, "transport_type", ds.TransportTypes); err != nil {
		return nil, err
	}
	if err := loadStore(s, "stop", ds.Stops); err != nil {
		return nil, err
	}
	if err := loadStore(s, "stop_connection", ds.StopConnections); err != nil {
		return nil, err
	}
	if err := loadStore(s, "journey", ds.Journeys); err != nil {
		return nil, err
	}
	if err := loadStore(s, "journey_platform", ds.JourneyPlatforms); err != nil {
		return nil, err
	}
	if err := loadStore(s, "platform", ds.Platforms); err != nil {
		return nil, err
	}
	if err := loadSlice(s, "through_service", &ds.ThroughServices); err != nil {
		return nil, err
	}
	if err := loadSlice(s, "exchange_time_administration", &ds.ExchangeTimesAdministration); err != nil {
		return nil, err
	}
	if err := loadSlice(s, "exchange_time_line", &ds.ExchangeTimesLine); err != nil {
		return nil, err
	}
	if err := loadSlice(s, "exchange_time_journey", &ds.ExchangeTimesJourney); err != nil {
		return nil, err
	}

	if err := ds.BuildIndices(); err != nil {
		return nil, fmt.Errorf("rebuilding indices: %w", err)
	}
	ds.Calendar = calendar.NewEngine(ds.Metadata, ds.Holidays.Values())
	return ds, nil
}

func loadStore[T any](s *Snapshot, kind string, store *Store[T]) error {
	rows, err := s.db.Query(s.rebind(`SELECT id, data FROM timetable_records WHERE kind = ?`), kind)
	if err != nil {
		return fmt.Errorf("querying %s: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var data string
		if err := rows.Scan(&id, &data); err != nil {
			return fmt.Errorf("scanning %s: %w", kind, err)
		}
		v := new(T)
		if err := json.Unmarshal([]byte(data), v); err != nil {
			return fmt.Errorf("unmarshalling %s %d: %w", kind, id, err)
		}
		store.Put(id, v)
	}
	return rows.Err()
}

func loadSlice[T any](s *Snapshot, kind string, out *[]*T) error {
	rows, err := s.db.Query(s.rebind(`SELECT id, data FROM timetable_records WHERE kind = ? ORDER BY id`), kind)
	if err != nil {
		return fmt.Errorf("querying %s: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var data string
		if err := rows.Scan(&id, &data); err != nil {
			return fmt.Errorf("scanning %s: %w", kind, err)
		}
		v := new(T)
		if err := json.Unmarshal([]byte(data), v); err != nil {
			return fmt.Errorf("unmarshalling %s %d: %w", kind, id, err)
		}
		*out = append(*out, v)
	}
	return rows.Err()
}
