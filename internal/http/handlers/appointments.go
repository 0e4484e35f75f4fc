package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/domain/appointment"
	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/http/middlewares"
)

type AppointmentsStore interface {
	Create(ctx context.Context, a appointment.Agendamento) (appointment.Agendamento, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]appointment.Agendamento, error)
	GetByID(ctx context.Context, id string) (appointment.Agendamento, error)
}

type AppointmentsHandler struct {
	store AppointmentsStore
}

func NewAppointmentsHandler(store AppointmentsStore) *AppointmentsHandler {
	return &AppointmentsHandler{store: store}
}

func (h *AppointmentsHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req appointment.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	a, err := h.store.Create(cctx, appointment.NewFromCreateRequest(userID, req))

	if err != nil {
		RespondInternal(ctx, "Could not create appointment")
		return
	}

	ctx.JSON(201, gin.H{"agendamento": a})
}

func (h *AppointmentsHandler) List(ctx *gin.Context) {
	callerID, _ := middlewares.UserIDFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	userID := callerID

	// admins may look at any student's calendar
	if role == string(user.RoleAdmin) {
		if v := ctx.Query("userId"); v != "" {
			userID = v
		}
	}

	limit := parseIntQuery(ctx, "limit", 20, 100)
	offset := parseIntQuery(ctx, "offset", 0, 1<<30)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := h.store.ListForUser(cctx, userID, limit, offset)

	if err != nil {
		RespondInternal(ctx, "Could not list appointments")
		return
	}

	ctx.JSON(200, gin.H{
		"agendamentos": items,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *AppointmentsHandler) GetByID(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	a, err := h.store.GetByID(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			RespondNotFound(ctx, "Appointment not found")
			return
		}

		RespondInternal(ctx, "Could not load appointment")
		return
	}

	callerID, _ := middlewares.UserIDFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	if a.UserID != callerID && role != string(user.RoleAdmin) {
		RespondNotFound(ctx, "Appointment not found")
		return
	}

	ctx.JSON(200, gin.H{"agendamento": a})
}
