package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/http/middlewares"
	"github.com/embaixada-angola/studentportal/internal/repo/postgres"
)

type UsersStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	UpdatePartial(ctx context.Context, id string, upd user.Update) (user.User, error)
}

type UsersHandler struct {
	users UsersStore
}

func NewUsersHandler(users UsersStore) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) Me(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not load user")
		return
	}

	ctx.JSON(200, gin.H{"user": u})
}

// Update patches profile fields. Students may only touch their own profile,
// admins may touch anyone's.
func (h *UsersHandler) Update(ctx *gin.Context) {
	targetID := ctx.Param("id")

	callerID, _ := middlewares.UserIDFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	if callerID != targetID && role != string(user.RoleAdmin) {
		RespondForbidden(ctx, "You may only update your own profile")
		return
	}

	var upd user.Update

	if !BindJSON(ctx, &upd) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.UpdatePartial(cctx, targetID, upd)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not update user")
		return
	}

	ctx.JSON(200, gin.H{
		"success": true,
		"user":    u,
	})
}
