package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/embaixada-angola/studentportal/internal/domain/document"
	"github.com/embaixada-angola/studentportal/internal/http/handlers"
	"github.com/embaixada-angola/studentportal/internal/jobs"
)

type fakeDocumentsRepo struct {
	createFn       func(ctx context.Context, d document.Documento) (document.Documento, error)
	getFn          func(ctx context.Context, id string) (document.Documento, error)
	listFn         func(ctx context.Context, filter document.ListFilter) ([]document.Documento, int, error)
	updateStatusFn func(ctx context.Context, id string, status document.Status) (document.Documento, error)
}

func (f *fakeDocumentsRepo) Create(ctx context.Context, d document.Documento) (document.Documento, error) {
	if f.createFn != nil {
		return f.createFn(ctx, d)
	}
	return d, nil
}

func (f *fakeDocumentsRepo) GetByID(ctx context.Context, id string) (document.Documento, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return document.Documento{}, document.ErrNotFound
}

func (f *fakeDocumentsRepo) List(ctx context.Context, filter document.ListFilter) ([]document.Documento, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeDocumentsRepo) UpdateStatus(ctx context.Context, id string, status document.Status) (document.Documento, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return document.Documento{}, document.ErrNotFound
}

// identity middleware stand-in, sets the same context keys RequireAuth would
func asUser(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("auth.userID", id)
		c.Set("auth.role", role)
		c.Next()
	}
}

func setupAuthedRouter(method, path string, identity gin.HandlerFunc, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, identity, h)

	return r
}

func TestDocumentsList_StudentIsScopedToOwnRequests(t *testing.T) {
	var seen document.ListFilter

	repo := &fakeDocumentsRepo{
		listFn: func(ctx context.Context, filter document.ListFilter) ([]document.Documento, int, error) {
			seen = filter
			return []document.Documento{}, 0, nil
		},
	}

	h := handlers.NewDocumentsHandler(repo, nil, "")
	r := setupAuthedRouter(http.MethodGet, "/documents", asUser("2", "student"), h.List)

	w := doJSON(t, r, http.MethodGet, "/documents?userId=1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if seen.UserID == nil || *seen.UserID != "2" {
		t.Fatalf("student filter must be forced to the caller, got %+v", seen.UserID)
	}
}

func TestDocumentsList_AdminMayFilterByUser(t *testing.T) {
	var seen document.ListFilter

	repo := &fakeDocumentsRepo{
		listFn: func(ctx context.Context, filter document.ListFilter) ([]document.Documento, int, error) {
			seen = filter
			return []document.Documento{}, 0, nil
		},
	}

	h := handlers.NewDocumentsHandler(repo, nil, "")
	r := setupAuthedRouter(http.MethodGet, "/documents", asUser("1", "admin"), h.List)

	w := doJSON(t, r, http.MethodGet, "/documents?userId=2&status=pendente", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if seen.UserID == nil || *seen.UserID != "2" {
		t.Fatalf("admin userId filter lost: %+v", seen.UserID)
	}
	if seen.Status == nil || *seen.Status != document.StatusPendente {
		t.Fatalf("status filter lost: %+v", seen.Status)
	}
}

func TestDocumentsList_RejectsUnknownStatus(t *testing.T) {
	h := handlers.NewDocumentsHandler(&fakeDocumentsRepo{}, nil, "")
	r := setupAuthedRouter(http.MethodGet, "/documents", asUser("2", "student"), h.List)

	w := doJSON(t, r, http.MethodGet, "/documents?status=bogus", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDocumentsGet_OtherStudentsSee404(t *testing.T) {
	repo := &fakeDocumentsRepo{
		getFn: func(ctx context.Context, id string) (document.Documento, error) {
			return document.Documento{ID: id, UserID: "2"}, nil
		},
	}

	h := handlers.NewDocumentsHandler(repo, nil, "")
	r := setupAuthedRouter(http.MethodGet, "/documents/:id", asUser("7", "student"), h.GetByID)

	w := doJSON(t, r, http.MethodGet, "/documents/doc-1", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign document must read as missing, got %d", w.Code)
	}
}

func TestDocumentsUpdateStatus_EnqueuesNotification(t *testing.T) {
	repo := &fakeDocumentsRepo{
		updateStatusFn: func(ctx context.Context, id string, status document.Status) (document.Documento, error) {
			return document.Documento{ID: id, UserID: "2", Status: status}, nil
		},
	}

	queue := &fakeEnqueuer{}

	h := handlers.NewDocumentsHandler(repo, queue, "portal:jobs")
	r := setupAuthedRouter(http.MethodPatch, "/documents/:id/status", asUser("1", "admin"), h.UpdateStatus)

	w := doJSON(t, r, http.MethodPatch, "/documents/doc-1/status", gin.H{"status": "entregue"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(queue.jobs) != 1 || queue.jobs[0].Type != jobs.JobDocumentStatusChanged {
		t.Fatalf("expected a status-change job, got %+v", queue.jobs)
	}

	decoded, err := jobs.DecodePayload(queue.jobs[0])
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}

	p := decoded.(jobs.DocumentStatusChangedPayload)

	if p.DocumentID != "doc-1" || p.UserID != "2" || p.Status != "entregue" {
		t.Fatalf("payload mismatch: %+v", p)
	}
}

func TestDocumentsUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	h := handlers.NewDocumentsHandler(&fakeDocumentsRepo{}, nil, "")
	r := setupAuthedRouter(http.MethodPatch, "/documents/:id/status", asUser("1", "admin"), h.UpdateStatus)

	w := doJSON(t, r, http.MethodPatch, "/documents/doc-1/status", gin.H{"status": "bogus"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
