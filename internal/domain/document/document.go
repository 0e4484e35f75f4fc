package document

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

type Tipo string

const (
	TipoRegistroCriminal      Tipo = "registro_criminal"
	TipoRenovacaoPassaporte   Tipo = "renovacao_passaporte"
	TipoProcuracao            Tipo = "procuracao"
	TipoCertidaoNascimento    Tipo = "certidao_nascimento"
	TipoDeclaracaoComparencia Tipo = "declaracao_comparencia"
	TipoVistoEstudante        Tipo = "visto_estudante"
	TipoAtestadoMatricula     Tipo = "atestado_matricula"
	TipoDeclaracaoResidencia  Tipo = "declaracao_residencia"
	TipoLegalizacao           Tipo = "legalizacao_documentos"
	TipoOutros                Tipo = "outros"
)

func (t Tipo) IsValid() bool {
	switch t {
	case TipoRegistroCriminal, TipoRenovacaoPassaporte, TipoProcuracao,
		TipoCertidaoNascimento, TipoDeclaracaoComparencia, TipoVistoEstudante,
		TipoAtestadoMatricula, TipoDeclaracaoResidencia, TipoLegalizacao, TipoOutros:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPendente    Status = "pendente"
	StatusEmProcesso  Status = "em_processo"
	StatusEmAnalise   Status = "em_analise"
	StatusAguardando  Status = "aguardando_documentos"
	StatusPronto      Status = "pronto"
	StatusEntregue    Status = "entregue"
	StatusCancelado   Status = "cancelado"
	StatusRejeitado   Status = "rejeitado"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPendente, StatusEmProcesso, StatusEmAnalise, StatusAguardando,
		StatusPronto, StatusEntregue, StatusCancelado, StatusRejeitado:
		return true
	default:
		return false
	}
}

// Terminal reports whether a document in this status can still move.
func (s Status) Terminal() bool {
	switch s {
	case StatusEntregue, StatusCancelado, StatusRejeitado:
		return true
	default:
		return false
	}
}

type Prioridade string

const (
	PrioridadeBaixa   Prioridade = "baixa"
	PrioridadeMedia   Prioridade = "media"
	PrioridadeAlta    Prioridade = "alta"
	PrioridadeUrgente Prioridade = "urgente"
)

func (p Prioridade) IsValid() bool {
	switch p {
	case PrioridadeBaixa, PrioridadeMedia, PrioridadeAlta, PrioridadeUrgente:
		return true
	default:
		return false
	}
}

// Documento is one document request a student filed with the embassy.
type Documento struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Tipo          Tipo       `json:"tipo"`
	Status        Status     `json:"status"`
	Prioridade    Prioridade `json:"prioridade"`
	DataEnvio     time.Time  `json:"dataEnvio"`
	PrazoEstimado time.Time  `json:"prazoEstimado"`
	DataConclusao *time.Time `json:"dataConclusao,omitempty"`
	Observacoes   string     `json:"observacoes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type CreateRequest struct {
	Tipo        Tipo   `json:"tipo" binding:"required"`
	Observacoes string `json:"observacoes" binding:"omitempty,max=1000"`
	Urgente     bool   `json:"urgente"`
}

// ListFilter narrows a document listing; nil pointers mean no constraint.
type ListFilter struct {
	UserID *string
	Status *Status
	Tipo   *Tipo
	Limit  int
	Offset int
}
