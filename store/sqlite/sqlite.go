/*
Package sqlite provides a SQLite-backed observation store.

PURPOSE:
  Keeps the cleaned price table in a SQLite database so the server can
  start from an imported snapshot instead of re-reading a spreadsheet.
  Implements pricing.Source.

KEY TABLES:
  observations: Cleaned sale rows in import order
  imports:      One row per dataset import (provenance)

REPLACE-ONLY WRITES:
  The observation table is a reference table, never edited row by row.
  ReplaceObservations swaps the whole table inside one transaction, so a
  reader sees either the old dataset or the new one.

PRECISION:
  Area and price are stored as TEXT decimal strings. Derived cents and
  price per cent are recomputed on read with pricing.NewObservation.

WAL MODE:
  Opened with WAL so readers don't block the importer.

USAGE:
  store, err := sqlite.New("./data/landprice.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  idx, err := pricing.Load(ctx, store)

SEE ALSO:
  - pricing/load.go: Cleaning applied before rows reach the store
  - pricing/store/memory.go: In-memory source for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/warp/landprice/pricing"
)

// Store implements pricing.Source using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ImportRecord describes one dataset import.
type ImportRecord struct {
	ID         int64
	SourcePath string
	Rows       int
	ImportedAt time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, eris.Wrap(err, "open database")
	}

	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "migrate database")
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		district TEXT NOT NULL,
		locality TEXT NOT NULL,
		area_sqft TEXT NOT NULL,
		price_num TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_observations_district
		ON observations(district COLLATE NOCASE);

	CREATE TABLE IF NOT EXISTS imports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_path TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		imported_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// OBSERVATIONS (pricing.Source)
// =============================================================================

// ReplaceObservations atomically replaces the whole observation table and
// records the import.
func (s *Store) ReplaceObservations(ctx context.Context, sourcePath string, obs []pricing.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM observations`); err != nil {
		return eris.Wrap(err, "clear observations")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (district, locality, area_sqft, price_num)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return eris.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, o.District, o.Locality, o.AreaSqft.String(), o.Price.String()); err != nil {
			return eris.Wrapf(err, "insert observation %s/%s", o.District, o.Locality)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO imports (source_path, row_count, imported_at) VALUES (?, ?, ?)
	`, sourcePath, len(obs), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return eris.Wrap(err, "record import")
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "commit transaction")
	}
	return nil
}

// Observations implements pricing.Source, returning rows in import order.
func (s *Store) Observations(ctx context.Context) ([]pricing.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT district, locality, area_sqft, price_num
		FROM observations
		ORDER BY id
	`)
	if err != nil {
		return nil, eris.Wrap(err, "query observations")
	}
	defer rows.Close()

	var obs []pricing.Observation
	for rows.Next() {
		var district, locality, area, price string
		if err := rows.Scan(&district, &locality, &area, &price); err != nil {
			return nil, eris.Wrap(err, "scan observation")
		}
		areaDec, err := decimal.NewFromString(area)
		if err != nil {
			return nil, eris.Wrapf(err, "parse area %q", area)
		}
		priceDec, err := decimal.NewFromString(price)
		if err != nil {
			return nil, eris.Wrapf(err, "parse price %q", price)
		}
		if !areaDec.IsPositive() {
			continue
		}
		obs = append(obs, pricing.NewObservation(district, locality, areaDec, priceDec))
	}
	return obs, eris.Wrap(rows.Err(), "iterate observations")
}

// Count returns the number of stored observations.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM observations`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "count observations")
	}
	return n, nil
}

// LastImport returns the most recent import, or nil if none was made.
func (s *Store) LastImport(ctx context.Context) (*ImportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec ImportRecord
	var importedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_path, row_count, imported_at
		FROM imports
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&rec.ID, &rec.SourcePath, &rec.Rows, &importedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "query last import")
	}
	rec.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return &rec, nil
}
