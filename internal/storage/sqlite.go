package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db    *sql.DB
	clock func() time.Time
}

var _ CompilationStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db, clock: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS compilations (
			id TEXT PRIMARY KEY,
			source_path TEXT,
			status TEXT NOT NULL,
			failing_checks JSON,
			error TEXT,
			blueprint JSON,
			diagram TEXT,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_compilations_created ON compilations(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_compilations_source ON compilations(source_path);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

const selectColumns = "SELECT id, source_path, status, failing_checks, error, blueprint, diagram, created_at FROM compilations"

func (s *SQLiteStore) SaveCompilation(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.clock().UTC()
	}
	failing, err := json.Marshal(rec.FailingChecks)
	if err != nil {
		return err
	}
	var bp []byte
	if len(rec.Blueprint) > 0 {
		bp = rec.Blueprint
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compilations (id, source_path, status, failing_checks, error, blueprint, diagram, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.SourcePath, string(rec.Status), failing, rec.Error, bp, rec.Diagram, rec.CreatedAt.UnixNano())
	return err
}

func (s *SQLiteStore) GetCompilation(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

func (s *SQLiteStore) ListCompilations(ctx context.Context, limit int) ([]*Record, error) {
	query := selectColumns + " ORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query compilations: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compilation: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec       Record
		status    string
		failing   []byte
		errText   sql.NullString
		bp        []byte
		diagram   sql.NullString
		createdAt int64
	)
	if err := row.Scan(&rec.ID, &rec.SourcePath, &status, &failing, &errText, &bp, &diagram, &createdAt); err != nil {
		return nil, err
	}
	rec.Status = Status(status)
	rec.Error = errText.String
	rec.Diagram = diagram.String
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	if len(bp) > 0 {
		rec.Blueprint = json.RawMessage(bp)
	}
	if len(failing) > 0 {
		if err := json.Unmarshal(failing, &rec.FailingChecks); err != nil {
			return nil, fmt.Errorf("failed to decode failing checks of %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}
