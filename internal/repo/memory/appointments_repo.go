package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/embaixada-angola/studentportal/internal/domain/appointment"
)

type AppointmentsRepo struct {
	mu    sync.RWMutex
	items map[string]appointment.Agendamento
}

func NewAppointmentsRepo() *AppointmentsRepo {
	return &AppointmentsRepo{
		items: make(map[string]appointment.Agendamento),
	}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointment.Agendamento) (appointment.Agendamento, error) {
	r.mu.Lock()
	r.items[a.ID] = a
	r.mu.Unlock()

	return a, nil
}

func (r *AppointmentsRepo) ListForUser(ctx context.Context, userID string, limit, offset int) ([]appointment.Agendamento, error) {
	r.mu.RLock()

	out := make([]appointment.Agendamento, 0, len(r.items))

	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}

	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DataHora.Equal(out[j].DataHora) {
			return out[i].DataHora.Before(out[j].DataHora)
		}
		return out[i].ID < out[j].ID
	})

	if offset > 0 {
		if offset >= len(out) {
			return []appointment.Agendamento{}, nil
		}
		out = out[offset:]
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointment.Agendamento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]

	if !ok {
		return appointment.Agendamento{}, appointment.ErrNotFound
	}

	return a, nil
}
