package postgres

import (
	"context"
	"errors"

	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailAlreadyUsed = errors.New("email already in use")
)

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

const userColumns = `id, nome, email, bi, password_hash, role,
         universidade, curso, cidade, ano_frequencia, telefone,
         created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Nome,
		&u.Email,
		&u.BI,
		&u.PasswordHash,
		&u.Role,
		&u.Universidade,
		&u.Curso,
		&u.Cidade,
		&u.AnoFrequencia,
		&u.Telefone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.pool.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return scanUser(r.pool.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users(id, nome, email, bi, password_hash, role,
			universidade, curso, cidade, ano_frequencia, telefone,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		u.ID, u.Nome, u.Email, u.BI, u.PasswordHash, u.Role,
		u.Universidade, u.Curso, u.Cidade, u.AnoFrequencia, u.Telefone,
		u.CreatedAt, u.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, ErrEmailAlreadyUsed
		}

		return user.User{}, err
	}

	return u, nil
}

// UpdatePartial merges the non-nil fields of upd and bumps updated_at.
// Role and email never change here.
func (r *UsersRepo) UpdatePartial(ctx context.Context, id string, upd user.Update) (user.User, error) {
	return scanUser(r.pool.QueryRow(
		ctx,
		`UPDATE users
			SET nome           = COALESCE($2, nome),
					universidade   = COALESCE($3, universidade),
					curso          = COALESCE($4, curso),
					cidade         = COALESCE($5, cidade),
					ano_frequencia = COALESCE($6, ano_frequencia),
					telefone       = COALESCE($7, telefone),
					updated_at     = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id,
		upd.Nome,
		upd.Universidade,
		upd.Curso,
		upd.Cidade,
		upd.AnoFrequencia,
		upd.Telefone,
	))
}

// CountStudents feeds the admin statistics panel.
func (r *UsersRepo) CountStudents(ctx context.Context) (int, error) {
	var n int

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'student'`,
	).Scan(&n)

	if err != nil {
		return 0, err
	}

	return n, nil
}
