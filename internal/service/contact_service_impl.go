package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/validation"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo     repository.ContactRepository
	notifier Notifier
	now      func() time.Time
}

// NewContactService creates a ContactService backed by the given
// repository. notifier may be nil when notifications are disabled.
func NewContactService(repo repository.ContactRepository, notifier Notifier) ContactService {
	return &contactServiceImpl{repo: repo, notifier: notifier, now: time.Now}
}

// Submit validates and persists a submission, then hands the record to
// the notifier. Notification is fire-and-forget: once the insert has
// succeeded nothing can turn the result into a failure.
func (s *contactServiceImpl) Submit(ctx context.Context, in *validation.SubmissionInput, meta ClientMeta) (*model.SubmissionSummary, error) {
	in.Normalize()
	if violations := validation.Validate(in); violations != nil {
		return nil, &ValidationError{Violations: violations}
	}

	now := s.now().UTC()
	sub := &model.ContactSubmission{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		IPAddress: orUnknown(meta.IPAddress),
		UserAgent: orUnknown(meta.UserAgent),
		Status:    model.StatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, sub); err != nil {
		return nil, err
	}

	slog.Info("new contact submission", "email", sub.Email, "id", sub.ID)

	if s.notifier != nil {
		s.notifier.Notify(sub)
	}

	return &model.SubmissionSummary{
		ID:          sub.ID,
		Name:        sub.Name,
		Email:       sub.Email,
		Subject:     sub.Subject,
		SubmittedAt: sub.CreatedAt,
	}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// List returns one page of submissions plus pagination metadata.
func (s *contactServiceImpl) List(ctx context.Context, page, limit int, status model.Status) ([]*model.ContactSubmission, *model.Pagination, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	subs, err := s.repo.List(ctx, model.ContactListOptions{
		Status: status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, nil, err
	}
	total, err := s.repo.Count(ctx, status)
	if err != nil {
		return nil, nil, err
	}

	// Return [] not null for empty pages
	if subs == nil {
		subs = []*model.ContactSubmission{}
	}

	return subs, &model.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}, nil
}

// Get fetches one submission by id.
func (s *contactServiceImpl) Get(ctx context.Context, id string) (*model.ContactSubmission, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus transitions the submission and refreshes UpdatedAt. The
// status is already a parsed model.Status, so only existence can fail.
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.ContactSubmission, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, id, status, s.now().UTC())
}

// Delete removes a submission permanently.
func (s *contactServiceImpl) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Stats aggregates submission counts. "Today" starts at local midnight.
func (s *contactServiceImpl) Stats(ctx context.Context) (*model.ContactStats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.Stats(ctx, midnight)
}

// checkID rejects identifiers that are not UUIDs before the store is
// touched, so a garbage id is a 400-class error rather than a miss.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrMalformedID
	}
	return nil
}
