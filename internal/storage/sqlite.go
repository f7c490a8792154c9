package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/service"
)

// SQLiteStore implements service.DocumentStore on a single SQLite file.
// Change notifications are delivered to subscribers in this process.
type SQLiteStore struct {
	db     *sql.DB
	hub    *feedHub
	now    func() time.Time
	dbPath string
	retry  service.RetryOptions
}

// NewSQLiteStore opens (and creates if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
		retry: service.RetryOptions{
			MaxAttempts:  5,
			InitialDelay: 20 * time.Millisecond,
			MaxDelay:     500 * time.Millisecond,
			Multiplier:   2,
		},
	}
	s.hub = newFeedHub(s.load)
	return s, nil
}

// Close ends all subscriptions and closes the database connection.
func (s *SQLiteStore) Close() error {
	s.hub.shutdown()
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Subscribe implements service.DocumentStore.
func (s *SQLiteStore) Subscribe(ctx context.Context, path string, q service.Query) (<-chan service.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePath(path); err != nil {
		return nil, err
	}
	return s.hub.subscribe(ctx, path, q), nil
}

// Create implements service.DocumentStore.
func (s *SQLiteStore) Create(ctx context.Context, path string, fields service.Fields) (string, error) {
	if err := validateWrite(ctx, path, fields); err != nil {
		return "", err
	}

	normalized, err := normalizeFields(fields, s.now())
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to encode fields: %w", err)
	}

	id := uuid.New().String()
	err = s.withRetry(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO documents (path, id, fields) VALUES (?, ?, ?)`,
			path, id, string(data))
		return execErr
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}

	s.hub.publish(path)
	return id, nil
}

// Update implements service.DocumentStore.
func (s *SQLiteStore) Update(ctx context.Context, path, id string, fields service.Fields) error {
	if err := validateWrite(ctx, path, fields); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	normalized, err := normalizeFields(fields, s.now())
	if err != nil {
		return err
	}

	err = s.withRetry(ctx, func() error {
		return s.updateTx(ctx, path, id, normalized)
	})
	if err != nil {
		return err
	}

	s.hub.publish(path)
	return nil
}

func (s *SQLiteStore) updateTx(ctx context.Context, path, id string, patch service.Fields) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE path = ? AND id = ?`, path, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("document %s/%s: %w", path, id, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var current service.Fields
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		return fmt.Errorf("failed to decode stored fields: %w", err)
	}

	data, err := json.Marshal(mergeFields(current, patch))
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET fields = ? WHERE path = ? AND id = ?`,
		string(data), path, id); err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	return tx.Commit()
}

// Delete implements service.DocumentStore.
func (s *SQLiteStore) Delete(ctx context.Context, path, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePath(path); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	var affected int64
	err := s.withRetry(ctx, func() error {
		result, execErr := s.db.ExecContext(ctx,
			`DELETE FROM documents WHERE path = ? AND id = ?`, path, id)
		if execErr != nil {
			return execErr
		}
		affected, execErr = result.RowsAffected()
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s/%s: %w", path, id, common.ErrNotFound)
	}

	s.hub.publish(path)
	return nil
}

func (s *SQLiteStore) load(ctx context.Context, path string, q service.Query) ([]service.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, fields FROM documents WHERE path = ? ORDER BY seq`, path)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []storedDoc
	for rows.Next() {
		var (
			d   storedDoc
			raw string
		)
		if err := rows.Scan(&d.seq, &d.id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &d.fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", d.id, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	return orderDocuments(docs, q), nil
}

// withRetry retries operations that hit a locked database.
func (s *SQLiteStore) withRetry(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, func() error {
		err := op()
		if isBusy(err) {
			return fmt.Errorf("%w: %w", common.ErrStoreBusy, err)
		}
		return err
	}, s.retry)
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
