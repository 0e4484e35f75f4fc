package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("appointment not found")

type Tipo string

const (
	TipoRetiradaDocumento Tipo = "retirada_documento"
	TipoEntregaDocumento  Tipo = "entrega_documento"
	TipoConsulta          Tipo = "consulta"
	TipoRenovacao         Tipo = "renovacao"
	TipoOutros            Tipo = "outros"
)

func (t Tipo) IsValid() bool {
	switch t {
	case TipoRetiradaDocumento, TipoEntregaDocumento, TipoConsulta, TipoRenovacao, TipoOutros:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusAgendado      Status = "agendado"
	StatusConfirmado    Status = "confirmado"
	StatusRealizado     Status = "realizado"
	StatusCancelado     Status = "cancelado"
	StatusNaoCompareceu Status = "nao_compareceu"
)

// Agendamento is a scheduled consular visit, shown on the calendar page.
type Agendamento struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Titulo      string    `json:"titulo"`
	Descricao   string    `json:"descricao,omitempty"`
	Tipo        Tipo      `json:"tipo"`
	DataHora    time.Time `json:"dataHora"`
	Duracao     int       `json:"duracao"` // minutes
	Status      Status    `json:"status"`
	DocumentoID string    `json:"documentoId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	Titulo      string    `json:"titulo" binding:"required,min=3,max=160"`
	Descricao   string    `json:"descricao" binding:"omitempty,max=1000"`
	Tipo        Tipo      `json:"tipo" binding:"required"`
	DataHora    time.Time `json:"dataHora" binding:"required"`
	Duracao     int       `json:"duracao" binding:"omitempty,min=5,max=240"`
	DocumentoID string    `json:"documentoId" binding:"omitempty,uuid"`
}

func NewFromCreateRequest(userID string, req CreateRequest) Agendamento {
	now := time.Now().UTC()

	dur := req.Duracao
	if dur == 0 {
		dur = 30
	}

	return Agendamento{
		ID:          uuid.NewString(),
		UserID:      userID,
		Titulo:      req.Titulo,
		Descricao:   req.Descricao,
		Tipo:        req.Tipo,
		DataHora:    req.DataHora,
		Duracao:     dur,
		Status:      StatusAgendado,
		DocumentoID: req.DocumentoID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
