package document

import (
	"time"

	"github.com/google/uuid"
)

// processing windows by priority, in days
const (
	windowDefault = 15
	windowUrgente = 5
)

func NewFromCreateRequest(userID string, req CreateRequest) Documento {
	now := time.Now().UTC()

	prio := PrioridadeMedia
	window := windowDefault

	if req.Urgente {
		prio = PrioridadeUrgente
		window = windowUrgente
	}

	return Documento{
		ID:            uuid.NewString(),
		UserID:        userID,
		Tipo:          req.Tipo,
		Status:        StatusPendente,
		Prioridade:    prio,
		DataEnvio:     now,
		PrazoEstimado: now.AddDate(0, 0, window),
		Observacoes:   req.Observacoes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
