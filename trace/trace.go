// Package trace persists per-document run records to a SQLite store.
//
// Each extraction produces one [Run] row: what was read, what the
// engine produced, how long it took, and whether the run was truncated
// or failed outright. Writes are asynchronous and batched so recording
// never backpressures extraction; see [Store].
package trace

import (
	"time"

	"github.com/google/uuid"

	"github.com/strucdoc/strata/outline"
)

// Run is one extraction run record.
type Run struct {
	ID         string
	Input      string
	Title      string
	Pages      int
	Fragments  int
	Headings   int
	Conditions string
	Truncated  bool
	Error      string
	DurationUs int64
	Timestamp  int64
}

// NewRun builds a run record from an engine result.
func NewRun(input string, res *outline.Result) *Run {
	return &Run{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Input:      input,
		Title:      res.Outline.Title,
		Pages:      res.Stats.Pages,
		Fragments:  res.Stats.Fragments,
		Headings:   len(res.Outline.Entries),
		Conditions: res.Conditions.String(),
		Truncated:  res.Truncated(),
		DurationUs: res.Stats.Elapsed.Microseconds(),
		Timestamp:  time.Now().Unix(),
	}
}

// FailedRun builds a run record for an input that never produced a
// result.
func FailedRun(input string, err error) *Run {
	return &Run{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Input:     input,
		Error:     err.Error(),
		Timestamp: time.Now().Unix(),
	}
}
