package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/domain/document"
)

type StudentsCounter interface {
	CountStudents(ctx context.Context) (int, error)
}

type DocumentsCounter interface {
	CountByStatus(ctx context.Context) (map[document.Status]int, error)
}

// StatsHandler powers the admin dashboard counters.
type StatsHandler struct {
	users StudentsCounter
	docs  DocumentsCounter
}

func NewStatsHandler(users StudentsCounter, docs DocumentsCounter) *StatsHandler {
	return &StatsHandler{users: users, docs: docs}
}

func (h *StatsHandler) Dashboard(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	students, err := h.users.CountStudents(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not load stats")
		return
	}

	byStatus, err := h.docs.CountByStatus(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not load stats")
		return
	}

	pending := 0
	concluded := 0
	total := 0

	for s, n := range byStatus {
		total += n
		if s.Terminal() {
			concluded += n
		} else {
			pending += n
		}
	}

	ctx.JSON(200, gin.H{
		"totalEstudantes":      students,
		"totalDocumentos":      total,
		"documentosPendentes":  pending,
		"documentosConcluidos": concluded,
		"documentosPorStatus":  byStatus,
	})
}
