package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/internal/validation"
)

// maxBodyBytes caps request bodies at 10KB; contact payloads are small.
const maxBodyBytes = 10 << 10

// ContactHandler handles the public submission route and the
// (unauthenticated) admin routes over contact submissions.
type ContactHandler struct {
	contactService service.ContactService
	env            string
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService, env string) *ContactHandler {
	return &ContactHandler{contactService: contactService, env: env}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var in validation.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "Invalid JSON in request body",
		})
		return
	}

	meta := service.ClientMeta{
		IPAddress: clientIP(r, 1),
		UserAgent: r.Header.Get("User-Agent"),
	}

	summary, err := h.contactService.Submit(r.Context(), &in, meta)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, envelope{
				Success: false,
				Message: "Validation failed",
				Errors:  verr.Violations,
			})
		case errors.Is(err, repository.ErrDuplicate):
			writeJSON(w, http.StatusBadRequest, envelope{
				Success: false,
				Message: "Duplicate entry detected",
			})
		default:
			h.serverError(w, "An error occurred while sending your message. Please try again later.", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Your message has been sent successfully! I will get back to you soon.",
		Data:    summary,
	})
}

// List handles GET /api/contact with ?status=, ?page=, ?limit=.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Invalid numbers fall through as zero; the service applies defaults.
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	var status model.Status
	if raw := q.Get("status"); raw != "" {
		parsed, err := model.ParseStatus(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
			return
		}
		status = parsed
	}

	subs, pagination, err := h.contactService.List(r.Context(), page, limit, status)
	if err != nil {
		h.serverError(w, "Error fetching contact submissions", err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       subs,
		Pagination: pagination,
	})
}

// Get handles GET /api/contact/{id}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.contactService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.lookupError(w, "Error fetching contact submission", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: sub})
}

// updateStatusRequest is the expected JSON body for PUT /api/contact/{id}/status.
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/contact/{id}/status.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "Invalid JSON in request body",
		})
		return
	}

	status, err := model.ParseStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	sub, err := h.contactService.UpdateStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		h.lookupError(w, "Error updating contact status", err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Status updated to '" + string(status) + "'",
		Data:    sub,
	})
}

// Delete handles DELETE /api/contact/{id}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.contactService.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.lookupError(w, "Error deleting contact submission", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Contact submission deleted successfully",
	})
}

// Stats handles GET /api/contact/stats.
func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contactService.Stats(r.Context())
	if err != nil {
		h.serverError(w, "Error fetching statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: stats})
}

// lookupError maps id-based operation failures: malformed id → 400,
// missing record → 404, anything else → 500.
func (h *ContactHandler) lookupError(w http.ResponseWriter, generic string, err error) {
	switch {
	case errors.Is(err, service.ErrMalformedID):
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "Invalid contact ID format",
		})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, envelope{
			Success: false,
			Message: "Contact submission not found",
		})
	default:
		h.serverError(w, generic, err)
	}
}

// serverError logs the full failure and answers with a generic message.
// Outside production the detail is attached to aid local debugging.
func (h *ContactHandler) serverError(w http.ResponseWriter, generic string, err error) {
	slog.Error("contact handler error", "error", err)
	msg := generic
	if h.env != envProduction {
		msg = generic + " (" + err.Error() + ")"
	}
	writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: msg})
}
