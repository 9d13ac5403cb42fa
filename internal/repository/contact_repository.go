package repository

import (
	"context"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// ContactRepository defines the persistence interface for contact
// submissions. It is defined here (in repository) to avoid an import
// cycle with service. The repository is the sole writer of records.
type ContactRepository interface {
	// Insert persists a new submission atomically and populates sub.ID
	// from the database.
	Insert(ctx context.Context, sub *model.ContactSubmission) error

	// List returns submissions ordered by creation time descending.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactSubmission, error)

	// Count returns the number of submissions matching the status
	// filter ("" counts everything).
	Count(ctx context.Context, status model.Status) (int, error)

	// GetByID returns ErrNotFound when no record exists.
	GetByID(ctx context.Context, id string) (*model.ContactSubmission, error)

	// UpdateStatus sets the status and updated_at, returning the
	// updated record, or ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) (*model.ContactSubmission, error)

	// Delete returns ErrNotFound when no record exists.
	Delete(ctx context.Context, id string) error

	// Stats aggregates total, per-status, and since-timestamp counts.
	Stats(ctx context.Context, since time.Time) (*model.ContactStats, error)
}
