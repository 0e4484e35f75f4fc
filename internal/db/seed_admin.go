package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/embaixada-angola/studentportal/internal/config"
	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/security"
)

// EnsureAdminUser seeds the embassy admin account on first boot. Admins are
// never created through registration.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Nome:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users(id, nome, email, bi, password_hash, role,
			universidade, curso, cidade, ano_frequencia, telefone,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		u.ID, u.Nome, u.Email, u.BI, u.PasswordHash, u.Role,
		u.Universidade, u.Curso, u.Cidade, u.AnoFrequencia, u.Telefone,
		u.CreatedAt, u.UpdatedAt,
	)

	return err
}
