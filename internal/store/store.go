// Package store persists per-submission terminal-state records so outcomes
// remain queryable after the pipeline finishes.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/arokua/job-hunter/internal/model"
)

// ErrNotFound reports that no record exists for the requested submission id.
// Callers distinguish it from backend failures with errors.Is.
var ErrNotFound = eris.New("store: submission not found")

// Filter specifies criteria for listing submission records.
type Filter struct {
	Status model.SubmissionStatus `json:"status,omitempty"`
	Limit  int                    `json:"limit,omitempty"`
	Offset int                    `json:"offset,omitempty"`
}

// Store defines the persistence interface for submission records.
// The worker runs without one: a nil store disables recording.
type Store interface {
	// CreateSubmission inserts the queued record at accept time.
	CreateSubmission(ctx context.Context, id, email string) (*model.SubmissionRecord, error)
	// SetOutcome records the terminal status, job count, and error message.
	SetOutcome(ctx context.Context, outcome model.Outcome) error
	GetSubmission(ctx context.Context, id string) (*model.SubmissionRecord, error)
	ListSubmissions(ctx context.Context, filter Filter) ([]model.SubmissionRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}
