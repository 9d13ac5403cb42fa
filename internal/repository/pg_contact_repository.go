package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfolio/backend/internal/model"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

const contactColumns = `id, name, email, subject, message, ip_address, user_agent, status, created_at, updated_at`

func scanContact(row pgx.Row) (*model.ContactSubmission, error) {
	var s model.ContactSubmission
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message,
		&s.IPAddress, &s.UserAgent, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Insert persists a new contact_submissions row in a single statement
// and populates sub.ID from the RETURNING clause. Timestamps are set by
// the caller, not the database, so the echoed values match what was
// persisted.
func (r *PgContactRepository) Insert(ctx context.Context, sub *model.ContactSubmission) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contact_submissions
		     (name, email, subject, message, ip_address, user_agent, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		sub.Name, sub.Email, sub.Subject, sub.Message,
		sub.IPAddress, sub.UserAgent, sub.Status, sub.CreatedAt, sub.UpdatedAt,
	).Scan(&sub.ID)
	return mapPgError(err)
}

// List returns submissions ordered by created_at descending, optionally
// filtered by exact status and paginated by limit/offset.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactSubmission, error) {
	var args []any
	where := ""
	if opts.Status != "" {
		args = append(args, opts.Status)
		where = "WHERE status = $1"
	}

	limitArg := strconv.Itoa(len(args) + 1)
	offsetArg := strconv.Itoa(len(args) + 2)
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT ` + contactColumns + `
	          FROM contact_submissions ` + where + `
	          ORDER BY created_at DESC
	          LIMIT $` + limitArg + ` OFFSET $` + offsetArg

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*model.ContactSubmission
	for rows.Next() {
		s, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// Count returns the number of submissions matching the status filter.
func (r *PgContactRepository) Count(ctx context.Context, status model.Status) (int, error) {
	var count int
	var err error
	if status != "" {
		err = r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM contact_submissions WHERE status = $1`, status).Scan(&count)
	} else {
		err = r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM contact_submissions`).Scan(&count)
	}
	return count, err
}

// GetByID fetches a single submission, returning ErrNotFound when absent.
func (r *PgContactRepository) GetByID(ctx context.Context, id string) (*model.ContactSubmission, error) {
	s, err := scanContact(r.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contact_submissions WHERE id = $1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return s, nil
}

// UpdateStatus sets status and updated_at, returning the updated record.
func (r *PgContactRepository) UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) (*model.ContactSubmission, error) {
	s, err := scanContact(r.pool.QueryRow(ctx,
		`UPDATE contact_submissions
		 SET status = $2, updated_at = $3
		 WHERE id = $1
		 RETURNING `+contactColumns, id, status, updatedAt))
	if err != nil {
		return nil, mapPgError(err)
	}
	return s, nil
}

// Delete removes a submission, returning ErrNotFound when absent.
func (r *PgContactRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates the total count, the count of records created at or
// after `since`, and per-status counts (zero-count statuses omitted).
func (r *PgContactRepository) Stats(ctx context.Context, since time.Time) (*model.ContactStats, error) {
	stats := &model.ContactStats{ByStatus: make(map[model.Status]int)}

	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM contact_submissions GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status model.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contact_submissions WHERE created_at >= $1`, since).Scan(&stats.Today)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// mapPgError translates driver-level failures into repository sentinels.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
