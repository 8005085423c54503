package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"photo-library/internal/logging"
	"photo-library/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// DBFileName is the metadata database file colocated with a library root.
const DBFileName = "lib.db"

// Store manages the metadata database of a single library.
// It must be the sole in-process writer for the duration of a batch;
// cross-process writers rely on SQLite's own locking.
type Store struct {
	db      *sql.DB
	path    string
	mu      sync.Mutex
	txStart time.Time
}

// Open opens (creating if needed) the metadata database colocated with
// the library root and ensures the schema exists.
func Open(ctx context.Context, root string) (*Store, error) {
	dbPath := filepath.Join(root, DBFileName)

	// WAL mode and busy_timeout to avoid "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Debug("Library database ready at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS item (
		id TEXT PRIMARY KEY,
		original_name TEXT NOT NULL,
		file_type TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		checksum TEXT NOT NULL,
		is_favorite INTEGER DEFAULT 0,
		is_screenshot INTEGER DEFAULT 0,
		is_screen_recording INTEGER DEFAULT 0,
		live_video TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_item_created_at ON item(created_at);
	CREATE INDEX IF NOT EXISTS idx_item_favorite ON item(is_favorite);

	CREATE TABLE IF NOT EXISTS album (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		cover_item_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS album_item (
		album_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		added_at TEXT NOT NULL,
		PRIMARY KEY (album_id, item_id),
		FOREIGN KEY (album_id) REFERENCES album (id) ON DELETE CASCADE,
		FOREIGN KEY (item_id) REFERENCES item (id) ON DELETE CASCADE
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Path returns the filesystem path of the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginBatch starts the single metadata transaction of a batch import.
func (s *Store) BeginBatch() (*sql.Tx, error) {
	s.mu.Lock()
	s.txStart = time.Now()

	// Background context: the transaction lifetime is managed by
	// EndBatch, not a timeout.
	tx, err := s.db.BeginTx(context.Background(), nil)
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// EndBatch commits the transaction, or rolls it back if err is non-nil.
func (s *Store) EndBatch(tx *sql.Tx, err error) error {
	duration := time.Since(s.txStart).Seconds()

	if err != nil {
		metrics.DBTransactionDuration.WithLabelValues("rollback").Observe(duration)
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}

	metrics.DBTransactionDuration.WithLabelValues("commit").Observe(duration)
	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("failed to commit transaction: %w", commitErr)
	}
	return nil
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
