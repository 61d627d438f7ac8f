package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a compilation id is unknown.
var ErrNotFound = errors.New("compilation not found")

// Status is the outcome of one compilation run.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusNonCompliant Status = "non_compliant"
	StatusFailed       Status = "failed"
)

// Record is one archived compilation run.
type Record struct {
	ID            string
	SourcePath    string
	Status        Status
	FailingChecks []string
	Error         string
	Blueprint     json.RawMessage // nil unless Status is compliant
	Diagram       string
	CreatedAt     time.Time
}

// CompilationStore persists compilation runs.
type CompilationStore interface {
	// SaveCompilation inserts rec, assigning ID and CreatedAt when empty.
	SaveCompilation(ctx context.Context, rec *Record) error

	// GetCompilation retrieves a run by id or returns ErrNotFound.
	GetCompilation(ctx context.Context, id string) (*Record, error)

	// ListCompilations returns the newest runs first, at most limit of them.
	// limit <= 0 means no limit.
	ListCompilations(ctx context.Context, limit int) ([]*Record, error)

	Close() error
}
