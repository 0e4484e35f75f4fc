package user

import (
	"time"

	"github.com/google/uuid"
)

// NewStudentFromRegister builds the identity a successful registration
// produces: role locked to student, fresh id, both timestamps set to now.
func NewStudentFromRegister(req RegisterRequest, passwordHash string) User {
	now := time.Now().UTC()

	return User{
		ID:            uuid.NewString(),
		Nome:          req.Nome,
		Email:         req.Email,
		BI:            req.BI,
		PasswordHash:  passwordHash,
		Role:          RoleStudent,
		Universidade:  req.Universidade,
		Curso:         req.Curso,
		Cidade:        req.Cidade,
		AnoFrequencia: req.AnoFrequencia,
		Telefone:      req.Telefone,
		DocumentosIDs: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
