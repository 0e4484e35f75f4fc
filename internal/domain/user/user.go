package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	default:
		return false
	}
}

// User is the portal identity record. Field names keep the embassy's
// Portuguese vocabulary on the wire. Role is fixed at creation; the
// student-only fields stay empty for admins.
type User struct {
	ID           string `json:"id"`
	Nome         string `json:"nome"`
	Email        string `json:"email"`
	BI           string `json:"bi"` // national identity card number
	PasswordHash string `json:"-"`  // never expose hash in JSON
	Role         Role   `json:"role"`

	Universidade  string   `json:"universidade,omitempty"`
	Curso         string   `json:"curso,omitempty"`
	Cidade        string   `json:"cidade,omitempty"`
	AnoFrequencia int      `json:"anoFrequencia,omitempty"`
	Telefone      string   `json:"telefone,omitempty"`
	DocumentosIDs []string `json:"documentosIds,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Update carries a partial profile change. Nil means "leave as is";
// role and email are deliberately absent, they are immutable after creation.
type Update struct {
	Nome          *string `json:"nome,omitempty" binding:"omitempty,min=2,max=120"`
	Universidade  *string `json:"universidade,omitempty" binding:"omitempty,max=160"`
	Curso         *string `json:"curso,omitempty" binding:"omitempty,max=120"`
	Cidade        *string `json:"cidade,omitempty" binding:"omitempty,max=80"`
	AnoFrequencia *int    `json:"anoFrequencia,omitempty" binding:"omitempty,min=1,max=8"`
	Telefone      *string `json:"telefone,omitempty" binding:"omitempty,max=32"`
}

// Merge applies the non-nil fields of upd onto u and stamps UpdatedAt.
func (u User) Merge(upd Update, now time.Time) User {
	if upd.Nome != nil {
		u.Nome = *upd.Nome
	}

	if upd.Universidade != nil {
		u.Universidade = *upd.Universidade
	}

	if upd.Curso != nil {
		u.Curso = *upd.Curso
	}

	if upd.Cidade != nil {
		u.Cidade = *upd.Cidade
	}

	if upd.AnoFrequencia != nil {
		u.AnoFrequencia = *upd.AnoFrequencia
	}

	if upd.Telefone != nil {
		u.Telefone = *upd.Telefone
	}

	u.UpdatedAt = now

	return u
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest always produces a student; admins are seeded, never registered.
type RegisterRequest struct {
	Nome          string `json:"nome" binding:"required,min=2,max=120"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	BI            string `json:"bi" binding:"required,min=5,max=20"`
	Telefone      string `json:"telefone" binding:"required,max=32"`
	Universidade  string `json:"universidade" binding:"required,max=160"`
	Curso         string `json:"curso" binding:"required,max=120"`
	Cidade        string `json:"cidade" binding:"required,max=80"`
	AnoFrequencia int    `json:"anoFrequencia" binding:"required,min=1,max=8"`
}
