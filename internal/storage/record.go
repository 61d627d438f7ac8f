package storage

import (
	"encoding/json"
	"errors"

	"gossipc/internal/blueprint"
)

// NewRecord converts the outcome of Compiler.Analyze into an archive record.
// A compilation error is recorded, not returned; only a blueprint that cannot
// be encoded yields an error.
func NewRecord(sourcePath string, comp *blueprint.Compilation, compileErr error, diagram string) (*Record, error) {
	rec := &Record{SourcePath: sourcePath}

	if compileErr != nil {
		rec.Status = StatusFailed
		rec.Error = compileErr.Error()
		var nc *blueprint.NonCompliantError
		if errors.As(compileErr, &nc) {
			rec.Status = StatusNonCompliant
			for _, id := range nc.Report.Failing() {
				rec.FailingChecks = append(rec.FailingChecks, string(id))
			}
		}
		return rec, nil
	}

	data, err := json.Marshal(comp.Blueprint)
	if err != nil {
		return nil, err
	}
	rec.Status = StatusCompliant
	rec.Blueprint = data
	rec.Diagram = diagram
	return rec, nil
}

// DecodeBlueprint returns the archived blueprint, or nil when the run did
// not produce one.
func (r *Record) DecodeBlueprint() (*blueprint.Blueprint, error) {
	if len(r.Blueprint) == 0 {
		return nil, nil
	}
	return blueprint.Decode(r.Blueprint)
}
