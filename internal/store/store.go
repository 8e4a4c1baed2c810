package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/greyhollow/delve/internal/config"
	"github.com/greyhollow/delve/internal/logger"
)

// Result records the outcome of generating one floor.
type Result struct {
	ID         int64
	ZoneID     string
	Segment    int
	Floor      int
	Seed       int64
	Success    bool
	Error      string
	Rooms      int
	Teams      int
	Items      int
	DurationMS int64
	CreatedAt  time.Time
}

// Summary aggregates results for one zone.
type Summary struct {
	Total    int
	Failed   int
	AvgRooms float64
	AvgTeams float64
}

// Store wraps the database connection and provides result persistence.
type Store struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens the result store described by cfg, creating the schema if it
// does not exist.
func Open(cfg config.StoreConfig) (*Store, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	switch dialect.(type) {
	case *PostgresDialect:
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	default:
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		dsn = cfg.Path
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize result store: %w", err)
		}
	}

	s := &Store{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run store migrations: %w", err)
	}

	logger.Debug("result store opened", "driver", dialect.DriverName())
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS generation_results (
		id %s,
		zone_id TEXT NOT NULL,
		segment INTEGER NOT NULL,
		floor INTEGER NOT NULL,
		seed BIGINT NOT NULL,
		success INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		rooms INTEGER NOT NULL DEFAULT 0,
		teams INTEGER NOT NULL DEFAULT 0,
		items INTEGER NOT NULL DEFAULT 0,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`, s.dialect.AutoIncrementPK())

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_results_zone ON generation_results (zone_id, success)`)
	return err
}

// RecordResult persists one generation outcome and returns its row id.
func (s *Store) RecordResult(r Result) (int64, error) {
	success := 0
	if r.Success {
		success = 1
	}
	query := s.qb.BuildWithReturning(
		`INSERT INTO generation_results (zone_id, segment, floor, seed, success, error, rooms, teams, items, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")

	if s.dialect.SupportsLastInsertID() {
		res, err := s.db.Exec(query,
			r.ZoneID, r.Segment, r.Floor, r.Seed, success, r.Error, r.Rooms, r.Teams, r.Items, r.DurationMS)
		if err != nil {
			return 0, fmt.Errorf("failed to record result: %w", err)
		}
		return res.LastInsertId()
	}

	var id int64
	err := s.db.QueryRow(query,
		r.ZoneID, r.Segment, r.Floor, r.Seed, success, r.Error, r.Rooms, r.Teams, r.Items, r.DurationMS).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to record result: %w", err)
	}
	return id, nil
}

// FailedSeeds returns the results of every failed generation for a zone,
// newest first.
func (s *Store) FailedSeeds(zoneID string) ([]Result, error) {
	query := s.qb.Build(
		`SELECT id, zone_id, segment, floor, seed, error, created_at
		 FROM generation_results
		 WHERE zone_id = ? AND success = 0
		 ORDER BY id DESC`)

	rows, err := s.db.Query(query, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to query failed seeds: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r := Result{Success: false}
		if err := rows.Scan(&r.ID, &r.ZoneID, &r.Segment, &r.Floor, &r.Seed, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Summarize aggregates the recorded outcomes for a zone.
func (s *Store) Summarize(zoneID string) (Summary, error) {
	query := s.qb.Build(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(CASE WHEN success = 1 THEN CAST(rooms AS REAL) END), 0),
		        COALESCE(AVG(CASE WHEN success = 1 THEN CAST(teams AS REAL) END), 0)
		 FROM generation_results
		 WHERE zone_id = ?`)

	var sum Summary
	err := s.db.QueryRow(query, zoneID).Scan(&sum.Total, &sum.Failed, &sum.AvgRooms, &sum.AvgTeams)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize results: %w", err)
	}
	return sum, nil
}
