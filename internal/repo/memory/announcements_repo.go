package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/embaixada-angola/studentportal/internal/domain/announcement"
)

type AnnouncementsRepo struct {
	mu    sync.RWMutex
	items map[string]announcement.Comunicado
}

func NewAnnouncementsRepo() *AnnouncementsRepo {
	return &AnnouncementsRepo{
		items: make(map[string]announcement.Comunicado),
	}
}

func (r *AnnouncementsRepo) Create(ctx context.Context, c announcement.Comunicado) (announcement.Comunicado, error) {
	r.mu.Lock()
	r.items[c.ID] = c
	r.mu.Unlock()

	return c, nil
}

func (r *AnnouncementsRepo) List(ctx context.Context, limit, offset int) ([]announcement.Comunicado, error) {
	r.mu.RLock()

	out := make([]announcement.Comunicado, 0, len(r.items))

	for _, c := range r.items {
		out = append(out, c)
	}

	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublicadoEm.Equal(out[j].PublicadoEm) {
			return out[i].PublicadoEm.After(out[j].PublicadoEm)
		}
		return out[i].ID < out[j].ID
	})

	if offset > 0 {
		if offset >= len(out) {
			return []announcement.Comunicado{}, nil
		}
		out = out[offset:]
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *AnnouncementsRepo) GetByID(ctx context.Context, id string) (announcement.Comunicado, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]

	if !ok {
		return announcement.Comunicado{}, announcement.ErrNotFound
	}

	return c, nil
}
