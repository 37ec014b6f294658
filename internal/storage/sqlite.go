package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store and EventSink using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) a SQLite-backed store. Use
// ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		site_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		prompt TEXT NOT NULL,
		status TEXT NOT NULL,
		warnings INTEGER NOT NULL DEFAULT 0,
		errors INTEGER NOT NULL DEFAULT 0,
		started_at INTEGER NOT NULL,
		finished_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_builds_site ON builds(site_id);
	CREATE TABLE IF NOT EXISTS bundles (
		site_id TEXT NOT NULL,
		build_id TEXT NOT NULL,
		version TEXT NOT NULL,
		bundle_json BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (site_id, build_id)
	);
	CREATE TABLE IF NOT EXISTS build_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_build_events_build ON build_events(build_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateSite inserts a new site row.
func (s *SQLiteStore) CreateSite(ctx context.Context, site SiteRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sites (id, business_id, owner_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		site.ID, site.BusinessID, site.OwnerID, site.Status, site.CreatedAt.Unix(), site.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

// GetSite fetches a site row by id.
func (s *SQLiteStore) GetSite(ctx context.Context, siteID string) (*SiteRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var row SiteRow
	var created, updated int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, business_id, owner_id, status, created_at, updated_at FROM sites WHERE id = ?", siteID,
	).Scan(&row.ID, &row.BusinessID, &row.OwnerID, &row.Status, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query site: %w", err)
	}
	row.CreatedAt = time.Unix(created, 0)
	row.UpdatedAt = time.Unix(updated, 0)
	return &row, nil
}

// UpdateSite replaces the mutable columns of a site row.
func (s *SQLiteStore) UpdateSite(ctx context.Context, site SiteRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx,
		"UPDATE sites SET status = ?, updated_at = ? WHERE id = ?",
		site.Status, site.UpdatedAt.Unix(), site.ID,
	)
	if err != nil {
		return fmt.Errorf("update site: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateBuild inserts a new build row.
func (s *SQLiteStore) CreateBuild(ctx context.Context, build BuildRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, site_id, mode, prompt, status, warnings, errors, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		build.ID, build.SiteID, build.Mode, build.Prompt, build.Status, build.Warnings, build.Errors,
		build.StartedAt.Unix(), nullableUnix(build.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// GetBuild fetches a build row by id.
func (s *SQLiteStore) GetBuild(ctx context.Context, buildID string) (*BuildRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var row BuildRow
	var started int64
	var finished sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, site_id, mode, prompt, status, warnings, errors, started_at, finished_at FROM builds WHERE id = ?", buildID,
	).Scan(&row.ID, &row.SiteID, &row.Mode, &row.Prompt, &row.Status, &row.Warnings, &row.Errors, &started, &finished)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query build: %w", err)
	}
	row.StartedAt = time.Unix(started, 0)
	if finished.Valid {
		row.FinishedAt = time.Unix(finished.Int64, 0)
	}
	return &row, nil
}

// UpdateBuild replaces the mutable columns of a build row.
func (s *SQLiteStore) UpdateBuild(ctx context.Context, build BuildRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx,
		"UPDATE builds SET status = ?, warnings = ?, errors = ?, finished_at = ? WHERE id = ?",
		build.Status, build.Warnings, build.Errors, nullableUnix(build.FinishedAt), build.ID,
	)
	if err != nil {
		return fmt.Errorf("update build: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveBundle writes the serialized bundle row for a build.
func (s *SQLiteStore) SaveBundle(ctx context.Context, row BundleRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO bundles (site_id, build_id, version, bundle_json, created_at) VALUES (?, ?, ?, ?, ?)",
		row.SiteID, row.BuildID, row.Version, row.BundleJSON, row.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert bundle: %w", err)
	}
	return nil
}

// GetBundle fetches the bundle row for a specific build.
func (s *SQLiteStore) GetBundle(ctx context.Context, siteID, buildID string) (*BundleRow, error) {
	return s.queryBundle(ctx,
		"SELECT site_id, build_id, version, bundle_json, created_at FROM bundles WHERE site_id = ? AND build_id = ?",
		siteID, buildID)
}

// GetLatestBundle fetches the most recently saved bundle for a site.
func (s *SQLiteStore) GetLatestBundle(ctx context.Context, siteID string) (*BundleRow, error) {
	return s.queryBundle(ctx,
		"SELECT site_id, build_id, version, bundle_json, created_at FROM bundles WHERE site_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1",
		siteID)
}

func (s *SQLiteStore) queryBundle(ctx context.Context, query string, args ...any) (*BundleRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var row BundleRow
	var created int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&row.SiteID, &row.BuildID, &row.Version, &row.BundleJSON, &created)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query bundle: %w", err)
	}
	row.CreatedAt = time.Unix(created, 0)
	return &row, nil
}

// AppendBuildEvent records one build lifecycle event.
func (s *SQLiteStore) AppendBuildEvent(ctx context.Context, buildID, eventType string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO build_events (build_id, event_type, timestamp, payload) VALUES (?, ?, ?, ?)",
		buildID, eventType, time.Now().Unix(), payload,
	)
	if err != nil {
		return fmt.Errorf("insert build event: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func nullableUnix(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}
