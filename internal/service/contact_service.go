package service

import (
	"context"
	"errors"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/validation"
)

// ErrMalformedID is returned when an identifier is not a valid UUID.
// Distinct from repository.ErrNotFound: a malformed id is a bad request,
// not a missing record.
var ErrMalformedID = errors.New("invalid contact ID format")

// ValidationError carries the full per-field violation list for a
// rejected submission.
type ValidationError struct {
	Violations []validation.FieldError
}

func (e *ValidationError) Error() string { return "validation failed" }

// ClientMeta is the request metadata captured by the HTTP boundary.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Notifier dispatches notifications for a persisted submission without
// blocking. Implemented by mailer.Dispatcher.
type Notifier interface {
	Notify(sub *model.ContactSubmission)
}

// ContactService defines the business logic for contact submissions:
// the public submit path and the admin query/mutation paths.
type ContactService interface {
	// Submit validates, persists, and (asynchronously) notifies. On
	// validation failure it returns a *ValidationError and persists
	// nothing. The summary never carries client metadata.
	Submit(ctx context.Context, in *validation.SubmissionInput, meta ClientMeta) (*model.SubmissionSummary, error)

	// List returns one page ordered by creation time descending.
	// page/limit fall back to 1/10 when not positive.
	List(ctx context.Context, page, limit int, status model.Status) ([]*model.ContactSubmission, *model.Pagination, error)

	// Get fetches one submission. ErrMalformedID for a bad id shape,
	// repository.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*model.ContactSubmission, error)

	// UpdateStatus transitions a submission and refreshes UpdatedAt.
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.ContactSubmission, error)

	// Delete removes a submission permanently.
	Delete(ctx context.Context, id string) error

	// Stats aggregates counts: total, created today, and by status.
	Stats(ctx context.Context) (*model.ContactStats, error)
}
