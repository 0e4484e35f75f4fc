package authclient

import (
	"context"
	"time"

	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/google/uuid"
)

// mockSecret is the fixed test password every backing-set identity accepts.
const mockSecret = "123456"

// Mock stands in for the embassy API during local development. Credentials
// are checked against a fixed backing set and registration always succeeds,
// with no duplicate-email check.
type Mock struct {
	users   []user.User
	latency time.Duration
}

// NewMock builds a mock with the default backing set. latency simulates the
// round trip; pass 0 in tests.
func NewMock(latency time.Duration) *Mock {
	return &Mock{
		users:   defaultBackingSet(),
		latency: latency,
	}
}

func defaultBackingSet() []user.User {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return []user.User{
		{
			ID:        "1",
			Nome:      "Admin Embaixada",
			Email:     "admin@embaixada-angola.ru",
			BI:        "000000000BA000",
			Role:      user.RoleAdmin,
			CreatedAt: created,
			UpdatedAt: time.Now().UTC(),
		},
		{
			ID:            "2",
			Nome:          "João Silva",
			Email:         "joao.silva@estudante.com",
			BI:            "123456789BA000",
			Role:          user.RoleStudent,
			Universidade:  "Universidade de Moscou",
			Curso:         "Engenharia Informática",
			Cidade:        "Moscou",
			AnoFrequencia: 3,
			Telefone:      "+7 (xxx) xxx-xxxx",
			CreatedAt:     time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Now().UTC(),
		},
	}
}

func (m *Mock) Login(ctx context.Context, email, password string) (Result, error) {
	if err := m.sleep(ctx); err != nil {
		return Result{}, err
	}

	for _, u := range m.users {
		if u.Email == email && password == mockSecret {
			return Result{User: u, Token: "mock_session_token_" + u.ID}, nil
		}
	}

	return Result{}, ErrInvalidCredentials
}

func (m *Mock) Register(ctx context.Context, req user.RegisterRequest) (Result, error) {
	if err := m.sleep(ctx); err != nil {
		return Result{}, err
	}

	u := user.NewStudentFromRegister(req, "")

	return Result{User: u, Token: "mock_session_token_" + uuid.NewString()}, nil
}

func (m *Mock) Update(ctx context.Context, userID string, upd user.Update) error {
	return m.sleep(ctx)
}

func (m *Mock) sleep(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}

	select {
	case <-time.After(m.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
