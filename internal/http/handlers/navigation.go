package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/gate"
	"github.com/embaixada-angola/studentportal/internal/http/middlewares"
)

// NavigationHandler serves the menu the frontend renders for the signed-in
// user, already filtered by role.
type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

func (h *NavigationHandler) Menu(ctx *gin.Context) {
	roleStr, _ := middlewares.RoleFromContext(ctx)

	ctx.JSON(200, gin.H{
		"menu": gate.MenuFor(user.Role(roleStr)),
	})
}
