package announcement

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("announcement not found")

type Prioridade string

const (
	PrioridadeBaixa   Prioridade = "baixa"
	PrioridadeMedia   Prioridade = "media"
	PrioridadeAlta    Prioridade = "alta"
	PrioridadeCritica Prioridade = "critica"
)

func (p Prioridade) IsValid() bool {
	switch p {
	case PrioridadeBaixa, PrioridadeMedia, PrioridadeAlta, PrioridadeCritica:
		return true
	default:
		return false
	}
}

// Comunicado is an embassy-wide announcement published by an admin.
type Comunicado struct {
	ID          string     `json:"id"`
	Titulo      string     `json:"titulo"`
	Conteudo    string     `json:"conteudo"`
	Resumo      string     `json:"resumo,omitempty"`
	Autor       string     `json:"autor"`
	Prioridade  Prioridade `json:"prioridade"`
	PublicadoEm time.Time  `json:"publicadoEm"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CreateRequest struct {
	Titulo     string     `json:"titulo" binding:"required,min=3,max=160"`
	Conteudo   string     `json:"conteudo" binding:"required,min=3,max=8000"`
	Resumo     string     `json:"resumo" binding:"omitempty,max=300"`
	Prioridade Prioridade `json:"prioridade" binding:"omitempty,oneof=baixa media alta critica"`
}

func NewFromCreateRequest(autorID string, req CreateRequest) Comunicado {
	now := time.Now().UTC()

	prio := req.Prioridade
	if prio == "" {
		prio = PrioridadeMedia
	}

	return Comunicado{
		ID:          uuid.NewString(),
		Titulo:      req.Titulo,
		Conteudo:    req.Conteudo,
		Resumo:      req.Resumo,
		Autor:       autorID,
		Prioridade:  prio,
		PublicadoEm: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
