package memory

import (
	"context"
	"sync"
	"time"

	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/repo/postgres"
	"github.com/embaixada-angola/studentportal/internal/security"
)

// UsersRepo keeps users in process memory. Used when the portal runs without
// a database (dev mode) and by handler tests. Error values are shared with
// the postgres repo so handlers cannot tell the two apart.
type UsersRepo struct {
	mu      sync.RWMutex
	byID    map[string]user.User
	byEmail map[string]string // email -> id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

// NewUsersRepoWithDefaults seeds the fixed dev backing set: the embassy
// admin and one sample student, both accepting the password "123456".
func NewUsersRepoWithDefaults() (*UsersRepo, error) {
	r := NewUsersRepo()

	hash, err := security.HashPassword("123456")

	if err != nil {
		return nil, err
	}

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seed := []user.User{
		{
			ID:           "1",
			Nome:         "Admin Embaixada",
			Email:        "admin@embaixada-angola.ru",
			BI:           "000000000BA000",
			PasswordHash: hash,
			Role:         user.RoleAdmin,
			CreatedAt:    created,
			UpdatedAt:    created,
		},
		{
			ID:            "2",
			Nome:          "João Silva",
			Email:         "joao.silva@estudante.com",
			BI:            "123456789BA000",
			PasswordHash:  hash,
			Role:          user.RoleStudent,
			Universidade:  "Universidade de Moscou",
			Curso:         "Engenharia Informática",
			Cidade:        "Moscou",
			AnoFrequencia: 3,
			Telefone:      "+7 (xxx) xxx-xxxx",
			CreatedAt:     time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, u := range seed {
		r.byID[u.ID] = u
		r.byEmail[u.Email] = u.ID
	}

	return r, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return user.User{}, postgres.ErrEmailAlreadyUsed
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]

	if !ok {
		return user.User{}, postgres.ErrUserNotFound
	}

	return r.byID[id], nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]

	if !ok {
		return user.User{}, postgres.ErrUserNotFound
	}

	return u, nil
}

func (r *UsersRepo) UpdatePartial(ctx context.Context, id string, upd user.Update) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]

	if !ok {
		return user.User{}, postgres.ErrUserNotFound
	}

	merged := u.Merge(upd, time.Now().UTC())
	r.byID[id] = merged

	return merged, nil
}

func (r *UsersRepo) CountStudents(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0

	for _, u := range r.byID {
		if u.Role == user.RoleStudent {
			n++
		}
	}

	return n, nil
}
