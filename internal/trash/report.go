package trash

import (
	"errors"
	"fmt"

	"github.com/babarot/trashcan/internal/core/types"
)

// Anomaly is an entry a purge could not handle cleanly
type Anomaly struct {
	Entry types.Entry
	Err   error
}

func (a Anomaly) Error() string {
	return fmt.Sprintf("#%d %s: %v", a.Entry.ID, a.Entry.OriginalPath, a.Err)
}

func (a Anomaly) Unwrap() error {
	return a.Err
}

// Report summarizes a purge or expiry run
type Report struct {
	// Purged holds the entries whose record was dropped
	Purged []types.Entry

	// Skipped holds the entries left untouched because a step failed
	Skipped []Anomaly

	// Stale holds purged entries whose payload had already disappeared
	Stale []Anomaly

	// Freed is the number of bytes reclaimed
	Freed int64
}

// Anomalies returns every skipped and stale entry
func (r Report) Anomalies() []Anomaly {
	out := make([]Anomaly, 0, len(r.Skipped)+len(r.Stale))
	out = append(out, r.Skipped...)
	return append(out, r.Stale...)
}

// Err joins the failures of skipped entries. Stale entries were still
// reconciled and are not counted as failures.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Skipped))
	for _, a := range r.Skipped {
		errs = append(errs, a)
	}
	return errors.Join(errs...)
}

// StrandedError is returned when a delete could neither be recorded nor
// rolled back. The payload exists only at TrashedPath and is not tracked.
type StrandedError struct {
	OriginalPath string
	TrashedPath  string
	Err          error
}

func (e *StrandedError) Error() string {
	return fmt.Sprintf("%s was moved to %s but could not be recorded or moved back: %v",
		e.OriginalPath, e.TrashedPath, e.Err)
}

func (e *StrandedError) Unwrap() error {
	return e.Err
}
