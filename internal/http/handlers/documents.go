package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/domain/document"
	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/http/middlewares"
	"github.com/embaixada-angola/studentportal/internal/jobs"
)

type DocumentsStore interface {
	Create(ctx context.Context, d document.Documento) (document.Documento, error)
	GetByID(ctx context.Context, id string) (document.Documento, error)
	List(ctx context.Context, filter document.ListFilter) ([]document.Documento, int, error)
	UpdateStatus(ctx context.Context, id string, status document.Status) (document.Documento, error)
}

type DocumentsHandler struct {
	docs      DocumentsStore
	queue     JobEnqueuer
	queueName string
}

func NewDocumentsHandler(docs DocumentsStore, queue JobEnqueuer, queueName string) *DocumentsHandler {
	return &DocumentsHandler{
		docs:      docs,
		queue:     queue,
		queueName: queueName,
	}
}

func (h *DocumentsHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req document.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	d, err := h.docs.Create(cctx, document.NewFromCreateRequest(userID, req))

	if err != nil {
		RespondInternal(ctx, "Could not create document request")
		return
	}

	ctx.JSON(201, gin.H{"documento": d})
}

// List returns the caller's own requests. Admins see everything and may
// filter by user, status and tipo.
func (h *DocumentsHandler) List(ctx *gin.Context) {
	callerID, _ := middlewares.UserIDFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	filter := document.ListFilter{
		Limit:  parseIntQuery(ctx, "limit", 20, 100),
		Offset: parseIntQuery(ctx, "offset", 0, 1<<30),
	}

	if role == string(user.RoleAdmin) {
		if v := ctx.Query("userId"); v != "" {
			filter.UserID = &v
		}
	} else {
		filter.UserID = &callerID
	}

	if v := ctx.Query("status"); v != "" {
		s := document.Status(v)
		if !s.IsValid() {
			RespondBadRequest(ctx, "Unknown status filter", gin.H{"status": v})
			return
		}
		filter.Status = &s
	}

	if v := ctx.Query("tipo"); v != "" {
		t := document.Tipo(v)
		if !t.IsValid() {
			RespondBadRequest(ctx, "Unknown tipo filter", gin.H{"tipo": v})
			return
		}
		filter.Tipo = &t
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.docs.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list documents")
		return
	}

	ctx.JSON(200, gin.H{
		"documentos": items,
		"total":      total,
		"limit":      filter.Limit,
		"offset":     filter.Offset,
	})
}

func (h *DocumentsHandler) GetByID(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	d, err := h.docs.GetByID(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			RespondNotFound(ctx, "Document not found")
			return
		}

		RespondInternal(ctx, "Could not load document")
		return
	}

	callerID, _ := middlewares.UserIDFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	if d.UserID != callerID && role != string(user.RoleAdmin) {
		// hide existence from other students
		RespondNotFound(ctx, "Document not found")
		return
	}

	ctx.JSON(200, gin.H{"documento": d})
}

type updateStatusRequest struct {
	Status document.Status `json:"status" binding:"required"`
}

// UpdateStatus moves a request through the embassy workflow (admin only,
// enforced by the router). The owning student is notified asynchronously.
func (h *DocumentsHandler) UpdateStatus(ctx *gin.Context) {
	var req updateStatusRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !req.Status.IsValid() {
		RespondBadRequest(ctx, "Unknown status", gin.H{"status": req.Status})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	d, err := h.docs.UpdateStatus(cctx, ctx.Param("id"), req.Status)

	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			RespondNotFound(ctx, "Document not found")
			return
		}

		RespondInternal(ctx, "Could not update document status")
		return
	}

	h.enqueueStatusChange(cctx, d, requestIDFrom(ctx))

	ctx.JSON(200, gin.H{"documento": d})
}

func (h *DocumentsHandler) enqueueStatusChange(ctx context.Context, d document.Documento, requestID string) {
	if h.queue == nil {
		return
	}

	payload, err := jobs.EncodePayload(jobs.JobDocumentStatusChanged, jobs.DocumentStatusChangedPayload{
		DocumentID: d.ID,
		UserID:     d.UserID,
		Status:     string(d.Status),
		RequestID:  requestID,
	})

	if err != nil {
		return
	}

	j, err := jobs.NewJob(jobs.JobDocumentStatusChanged, payload)

	if err != nil {
		return
	}

	_ = h.queue.Enqueue(ctx, h.queueName, j)
}

func parseIntQuery(ctx *gin.Context, name string, fallback, max int) int {
	raw := ctx.Query(name)

	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)

	if err != nil || n < 0 {
		return fallback
	}

	if n > max {
		return max
	}

	return n
}
