package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/domain/announcement"
	"github.com/embaixada-angola/studentportal/internal/http/middlewares"
)

type AnnouncementsStore interface {
	Create(ctx context.Context, c announcement.Comunicado) (announcement.Comunicado, error)
	List(ctx context.Context, limit, offset int) ([]announcement.Comunicado, error)
	GetByID(ctx context.Context, id string) (announcement.Comunicado, error)
}

type AnnouncementsHandler struct {
	store AnnouncementsStore
}

func NewAnnouncementsHandler(store AnnouncementsStore) *AnnouncementsHandler {
	return &AnnouncementsHandler{store: store}
}

// List is read-heavy and cache-friendly, so responses carry an ETag.
func (h *AnnouncementsHandler) List(ctx *gin.Context) {
	limit := parseIntQuery(ctx, "limit", 20, 100)
	offset := parseIntQuery(ctx, "offset", 0, 1<<30)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := h.store.List(cctx, limit, offset)

	if err != nil {
		RespondInternal(ctx, "Could not list announcements")
		return
	}

	RespondJSONWithETag(ctx, 200, gin.H{
		"comunicados": items,
		"limit":       limit,
		"offset":      offset,
	})
}

func (h *AnnouncementsHandler) GetByID(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	c, err := h.store.GetByID(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, announcement.ErrNotFound) {
			RespondNotFound(ctx, "Announcement not found")
			return
		}

		RespondInternal(ctx, "Could not load announcement")
		return
	}

	ctx.JSON(200, gin.H{"comunicado": c})
}

// Create publishes a new announcement (admin only, enforced by the router).
func (h *AnnouncementsHandler) Create(ctx *gin.Context) {
	autorID, _ := middlewares.UserIDFromContext(ctx)

	var req announcement.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	c, err := h.store.Create(cctx, announcement.NewFromCreateRequest(autorID, req))

	if err != nil {
		RespondInternal(ctx, "Could not create announcement")
		return
	}

	ctx.JSON(201, gin.H{"comunicado": c})
}
