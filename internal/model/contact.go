package model

import (
	"fmt"
	"time"
)

// Status is the workflow state of a contact submission. It is a closed
// set: anything that does not parse to one of the four constants is
// rejected at the boundary, never stored.
type Status string

const (
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusArchived Status = "archived"
)

// ParseStatus validates a raw status value against the closed set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusUnread, StatusRead, StatusReplied, StatusArchived:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status %q: must be one of: unread, read, replied, archived", s)
}

// ContactSubmission represents a message submitted via the contact form.
// IPAddress and UserAgent are captured for abuse tracing and are never
// echoed back to the public submitter.
type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubmissionSummary is the public view returned after a successful
// submission: client metadata stays server-side.
type SubmissionSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ContactListOptions carries filter and pagination parameters for
// listing contact submissions.
type ContactListOptions struct {
	// Status filters by exact status when non-empty.
	Status Status
	Limit  int
	Offset int
}

// Pagination describes one page of a list result.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ContactStats aggregates submission counts. ByStatus only carries
// statuses that have at least one record.
type ContactStats struct {
	Total    int            `json:"total"`
	Today    int            `json:"today"`
	ByStatus map[Status]int `json:"byStatus"`
}
