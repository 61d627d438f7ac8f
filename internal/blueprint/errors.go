package blueprint

import (
	"errors"
	"fmt"
	"strings"

	"gossipc/internal/compliance"
	"gossipc/internal/extractor"
	"gossipc/internal/schema"
)

var (
	ErrNoActorsFound = errors.New("no actors found in source")
	ErrNonCompliant  = errors.New("blueprint fails compliance checks")
	ErrNameConflict  = errors.New("duplicate actor name")
	ErrImmutable     = errors.New("blueprint already holds components")
)

// NoActorsFoundError is returned when extraction yields nothing to build.
// Anomalies lists the declarations that were skipped, if any.
type NoActorsFoundError struct {
	Anomalies []extractor.Anomaly
}

func (e *NoActorsFoundError) Error() string {
	if len(e.Anomalies) == 0 {
		return ErrNoActorsFound.Error()
	}
	return fmt.Sprintf("%s (%d declarations skipped, first at line %d: %s)",
		ErrNoActorsFound, len(e.Anomalies), e.Anomalies[0].Line, e.Anomalies[0].Reason)
}

func (e *NoActorsFoundError) Unwrap() error { return ErrNoActorsFound }

// NonCompliantError carries the attempted components and the report that
// rejected them.
type NonCompliantError struct {
	Standard   string
	Components []schema.Component
	Report     compliance.Report
}

func (e *NonCompliantError) Error() string {
	return fmt.Sprintf("blueprint fails %s standards: %s", e.Standard, e.Report)
}

func (e *NonCompliantError) Unwrap() error { return ErrNonCompliant }

// NameConflictError reports actors declared more than once.
type NameConflictError struct {
	Names map[string][]int // name -> declaration lines
}

func (e *NameConflictError) Error() string {
	parts := make([]string, 0, len(e.Names))
	for _, name := range sortedKeys(e.Names) {
		lines := e.Names[name]
		nums := make([]string, len(lines))
		for i, l := range lines {
			nums[i] = fmt.Sprint(l)
		}
		parts = append(parts, fmt.Sprintf("%s (lines %s)", name, strings.Join(nums, ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrNameConflict, strings.Join(parts, "; "))
}

func (e *NameConflictError) Unwrap() error { return ErrNameConflict }
