package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/internal/validation"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc       func(ctx context.Context, in *validation.SubmissionInput, meta service.ClientMeta) (*model.SubmissionSummary, error)
	listFunc         func(ctx context.Context, page, limit int, status model.Status) ([]*model.ContactSubmission, *model.Pagination, error)
	getFunc          func(ctx context.Context, id string) (*model.ContactSubmission, error)
	updateStatusFunc func(ctx context.Context, id string, status model.Status) (*model.ContactSubmission, error)
	deleteFunc       func(ctx context.Context, id string) error
	statsFunc        func(ctx context.Context) (*model.ContactStats, error)
}

func (m *mockContactService) Submit(ctx context.Context, in *validation.SubmissionInput, meta service.ClientMeta) (*model.SubmissionSummary, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, in, meta)
	}
	return &model.SubmissionSummary{}, nil
}

func (m *mockContactService) List(ctx context.Context, page, limit int, status model.Status) ([]*model.ContactSubmission, *model.Pagination, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, page, limit, status)
	}
	return []*model.ContactSubmission{}, &model.Pagination{Page: 1, Limit: 10}, nil
}

func (m *mockContactService) Get(ctx context.Context, id string) (*model.ContactSubmission, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockContactService) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.ContactSubmission, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, repository.ErrNotFound
}

func (m *mockContactService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return repository.ErrNotFound
}

func (m *mockContactService) Stats(ctx context.Context) (*model.ContactStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &model.ContactStats{ByStatus: map[model.Status]int{}}, nil
}

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message"`
	Data       json.RawMessage         `json:"data"`
	Errors     []validation.FieldError `json:"errors"`
	Pagination *model.Pagination       `json:"pagination"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v — body: %s", err, rec.Body.String())
	}
	return env
}

const testID = "3f2c1f4e-9b2a-4a7e-8c3d-5e6f7a8b9c0d"

const validBody = `{"name":"Jane Doe","email":"jane@example.com","subject":"Hello there","message":"I would like to talk about a project."}`

// ---------------------------------------------------------------------------
// POST /api/contact
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	now := time.Now().UTC()
	var capturedMeta service.ClientMeta
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in *validation.SubmissionInput, meta service.ClientMeta) (*model.SubmissionSummary, error) {
			capturedMeta = meta
			return &model.SubmissionSummary{
				ID:          testID,
				Name:        in.Name,
				Email:       in.Email,
				Subject:     in.Subject,
				SubmittedAt: now,
			}, nil
		},
	}
	h := NewContactHandler(mock, "test")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "go-test/1.0")
	req.RemoteAddr = "203.0.113.9:51234"
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Error("expected success=true")
	}
	if !strings.Contains(env.Message, "sent successfully") {
		t.Errorf("unexpected message: %q", env.Message)
	}

	var data map[string]any
	_ = json.Unmarshal(env.Data, &data)
	if data["id"] != testID {
		t.Errorf("expected summary id in data, got %v", data)
	}
	// Client metadata must never be echoed back
	if _, ok := data["ipAddress"]; ok {
		t.Error("response data must not carry ipAddress")
	}

	if capturedMeta.IPAddress != "203.0.113.9" {
		t.Errorf("expected client IP captured, got %q", capturedMeta.IPAddress)
	}
	if capturedMeta.UserAgent != "go-test/1.0" {
		t.Errorf("expected user agent captured, got %q", capturedMeta.UserAgent)
	}
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, "test")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Invalid JSON in request body" {
		t.Errorf("unexpected message: %q", env.Message)
	}
}

func TestContactHandler_Submit_ValidationFailure(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in *validation.SubmissionInput, meta service.ClientMeta) (*model.SubmissionSummary, error) {
			return nil, &service.ValidationError{Violations: []validation.FieldError{
				{Field: "name", Message: "Name must be between 2 and 100 characters"},
				{Field: "email", Message: "Please provide a valid email address"},
				{Field: "subject", Message: "Subject must be between 3 and 200 characters"},
				{Field: "message", Message: "Message must be between 10 and 5000 characters"},
			}}
		},
	}
	h := NewContactHandler(mock, "test")

	body := `{"name":"A","email":"bad","subject":"Hi","message":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("expected success=false")
	}
	if env.Message != "Validation failed" {
		t.Errorf("unexpected message: %q", env.Message)
	}
	if len(env.Errors) != 4 {
		t.Errorf("expected 4 violations, got %d: %v", len(env.Errors), env.Errors)
	}
}

func TestContactHandler_Submit_Duplicate(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in *validation.SubmissionInput, meta service.ClientMeta) (*model.SubmissionSummary, error) {
			return nil, repository.ErrDuplicate
		},
	}
	h := NewContactHandler(mock, "test")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Duplicate entry detected" {
		t.Errorf("unexpected message: %q", env.Message)
	}
}

func TestContactHandler_Submit_StoreFailureGenericInProduction(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in *validation.SubmissionInput, meta service.ClientMeta) (*model.SubmissionSummary, error) {
			return nil, errors.New("pg: connection refused on 10.0.0.5")
		},
	}
	h := NewContactHandler(mock, "production")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if strings.Contains(env.Message, "10.0.0.5") {
		t.Errorf("internal detail leaked in production: %q", env.Message)
	}
}

func TestContactHandler_Submit_StoreFailureDetailInDevelopment(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in *validation.SubmissionInput, meta service.ClientMeta) (*model.SubmissionSummary, error) {
			return nil, errors.New("pg: connection refused")
		},
	}
	h := NewContactHandler(mock, "development")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.Message, "connection refused") {
		t.Errorf("expected detail in development mode, got %q", env.Message)
	}
}

// ---------------------------------------------------------------------------
// GET /api/contact
// ---------------------------------------------------------------------------

func TestContactHandler_List_ParsesQueryParams(t *testing.T) {
	var gotPage, gotLimit int
	var gotStatus model.Status
	mock := &mockContactService{
		listFunc: func(ctx context.Context, page, limit int, status model.Status) ([]*model.ContactSubmission, *model.Pagination, error) {
			gotPage, gotLimit, gotStatus = page, limit, status
			return []*model.ContactSubmission{}, &model.Pagination{Page: page, Limit: limit}, nil
		},
	}
	h := NewContactHandler(mock, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/contact?page=2&limit=25&status=read", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotPage != 2 || gotLimit != 25 || gotStatus != model.StatusRead {
		t.Errorf("expected page=2 limit=25 status=read, got %d %d %q", gotPage, gotLimit, gotStatus)
	}
}

func TestContactHandler_List_InvalidStatusFilter(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/contact?status=bogus", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestContactHandler_List_IncludesPagination(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context, page, limit int, status model.Status) ([]*model.ContactSubmission, *model.Pagination, error) {
			subs := []*model.ContactSubmission{{ID: testID, Status: model.StatusUnread}}
			return subs, &model.Pagination{Page: 1, Limit: 10, Total: 15, Pages: 2}, nil
		},
	}
	h := NewContactHandler(mock, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	env := decodeEnvelope(t, rec)
	if env.Pagination == nil {
		t.Fatal("expected pagination in envelope")
	}
	if env.Pagination.Total != 15 || env.Pagination.Pages != 2 {
		t.Errorf("unexpected pagination: %+v", env.Pagination)
	}
}

// ---------------------------------------------------------------------------
// GET /api/contact/{id}
// ---------------------------------------------------------------------------

func newPathValueRequest(method, url, id string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.SetPathValue("id", id)
	return req
}

func TestContactHandler_Get_MalformedID(t *testing.T) {
	mock := &mockContactService{
		getFunc: func(ctx context.Context, id string) (*model.ContactSubmission, error) {
			return nil, service.ErrMalformedID
		},
	}
	h := NewContactHandler(mock, "test")

	req := newPathValueRequest(http.MethodGet, "/api/contact/garbage", "garbage", "")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Invalid contact ID format" {
		t.Errorf("unexpected message: %q", env.Message)
	}
}

func TestContactHandler_Get_NotFound(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, "test")

	req := newPathValueRequest(http.MethodGet, "/api/contact/"+testID, testID, "")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Contact submission not found" {
		t.Errorf("unexpected message: %q", env.Message)
	}
}

func TestContactHandler_Get_ReturnsRecord(t *testing.T) {
	now := time.Now().UTC()
	mock := &mockContactService{
		getFunc: func(ctx context.Context, id string) (*model.ContactSubmission, error) {
			return &model.ContactSubmission{ID: id, Status: model.StatusUnread, CreatedAt: now}, nil
		},
	}
	h := NewContactHandler(mock, "test")

	req := newPathValueRequest(http.MethodGet, "/api/contact/"+testID, testID, "")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var sub model.ContactSubmission
	_ = json.Unmarshal(env.Data, &sub)
	if sub.ID != testID || sub.Status != model.StatusUnread {
		t.Errorf("unexpected record: %+v", sub)
	}
}

// ---------------------------------------------------------------------------
// PUT /api/contact/{id}/status
// ---------------------------------------------------------------------------

func TestContactHandler_UpdateStatus_InvalidStatusRejectedBeforeService(t *testing.T) {
	calls := 0
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.Status) (*model.ContactSubmission, error) {
			calls++
			return nil, nil
		},
	}
	h := NewContactHandler(mock, "test")

	req := newPathValueRequest(http.MethodPut, "/api/contact/"+testID+"/status", testID, `{"status":"bogus"}`)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if calls != 0 {
		t.Error("expected service not to be called for an invalid status")
	}
}

func TestContactHandler_UpdateStatus_Success(t *testing.T) {
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.Status) (*model.ContactSubmission, error) {
			return &model.ContactSubmission{ID: id, Status: status}, nil
		},
	}
	h := NewContactHandler(mock, "test")

	req := newPathValueRequest(http.MethodPut, "/api/contact/"+testID+"/status", testID, `{"status":"read"}`)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Status updated to 'read'" {
		t.Errorf("unexpected message: %q", env.Message)
	}
}

func TestContactHandler_UpdateStatus_NotFound(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, "test")

	req := newPathValueRequest(http.MethodPut, "/api/contact/"+testID+"/status", testID, `{"status":"archived"}`)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// DELETE /api/contact/{id}
// ---------------------------------------------------------------------------

func TestContactHandler_Delete_Success(t *testing.T) {
	mock := &mockContactService{
		deleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	h := NewContactHandler(mock, "test")

	req := newPathValueRequest(http.MethodDelete, "/api/contact/"+testID, testID, "")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Contact submission deleted successfully" {
		t.Errorf("unexpected message: %q", env.Message)
	}
}

func TestContactHandler_Delete_NotFound(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, "test")

	req := newPathValueRequest(http.MethodDelete, "/api/contact/"+testID, testID, "")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// GET /api/contact/stats
// ---------------------------------------------------------------------------

func TestContactHandler_Stats(t *testing.T) {
	mock := &mockContactService{
		statsFunc: func(ctx context.Context) (*model.ContactStats, error) {
			return &model.ContactStats{
				Total: 5,
				Today: 1,
				ByStatus: map[model.Status]int{
					model.StatusUnread: 3,
					model.StatusRead:   2,
				},
			}, nil
		},
	}
	h := NewContactHandler(mock, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/contact/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var stats model.ContactStats
	_ = json.Unmarshal(env.Data, &stats)
	if stats.Total != 5 || stats.ByStatus[model.StatusUnread] != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
