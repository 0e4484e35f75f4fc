package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/embaixada-angola/studentportal/internal/domain/document"
)

type DocumentsRepo struct {
	mu    sync.RWMutex
	items map[string]document.Documento
}

func NewDocumentsRepo() *DocumentsRepo {
	return &DocumentsRepo{
		items: make(map[string]document.Documento),
	}
}

func (r *DocumentsRepo) Create(ctx context.Context, d document.Documento) (document.Documento, error) {
	r.mu.Lock()
	r.items[d.ID] = d
	r.mu.Unlock()

	return d, nil
}

func (r *DocumentsRepo) GetByID(ctx context.Context, id string) (document.Documento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.items[id]

	if !ok {
		return document.Documento{}, document.ErrNotFound
	}

	return d, nil
}

func (r *DocumentsRepo) List(ctx context.Context, filter document.ListFilter) ([]document.Documento, int, error) {
	r.mu.RLock()

	matched := make([]document.Documento, 0, len(r.items))

	for _, d := range r.items {
		if filter.UserID != nil && d.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		if filter.Tipo != nil && d.Tipo != *filter.Tipo {
			continue
		}
		matched = append(matched, d)
	}

	r.mu.RUnlock()

	// same ordering the SQL repo uses
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].DataEnvio.Equal(matched[j].DataEnvio) {
			return matched[i].DataEnvio.After(matched[j].DataEnvio)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

func (r *DocumentsRepo) UpdateStatus(ctx context.Context, id string, status document.Status) (document.Documento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.items[id]

	if !ok {
		return document.Documento{}, document.ErrNotFound
	}

	now := time.Now().UTC()
	d.Status = status
	d.UpdatedAt = now

	if status.Terminal() {
		d.DataConclusao = &now
	}

	r.items[id] = d

	return d, nil
}

func (r *DocumentsRepo) CountByStatus(ctx context.Context) (map[document.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[document.Status]int)

	for _, d := range r.items {
		out[d.Status]++
	}

	return out, nil
}
