package postgres

import (
	"context"
	"errors"

	"github.com/embaixada-angola/studentportal/internal/domain/appointment"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AppointmentsRepo struct {
	pool *pgxpool.Pool
}

func NewAppointmentsRepo(pool *pgxpool.Pool) *AppointmentsRepo {
	return &AppointmentsRepo{pool: pool}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointment.Agendamento) (appointment.Agendamento, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO appointments(id, user_id, titulo, descricao, tipo,
			data_hora, duracao, status, documento_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		a.ID, a.UserID, a.Titulo, a.Descricao, a.Tipo,
		a.DataHora, a.Duracao, a.Status, a.DocumentoID, a.CreatedAt, a.UpdatedAt,
	)

	if err != nil {
		return appointment.Agendamento{}, err
	}

	return a, nil
}

// ListForUser returns upcoming and past appointments, soonest first.
func (r *AppointmentsRepo) ListForUser(ctx context.Context, userID string, limit, offset int) ([]appointment.Agendamento, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, titulo, descricao, tipo, data_hora, duracao,
			status, documento_id, created_at, updated_at
		FROM appointments
		WHERE user_id = $1
		ORDER BY data_hora ASC, id ASC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]appointment.Agendamento, 0, limit)

	for rows.Next() {
		var a appointment.Agendamento

		err = rows.Scan(&a.ID, &a.UserID, &a.Titulo, &a.Descricao, &a.Tipo,
			&a.DataHora, &a.Duracao, &a.Status, &a.DocumentoID, &a.CreatedAt, &a.UpdatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointment.Agendamento, error) {
	var a appointment.Agendamento

	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, titulo, descricao, tipo, data_hora, duracao,
			status, documento_id, created_at, updated_at
		FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.Titulo, &a.Descricao, &a.Tipo,
		&a.DataHora, &a.Duracao, &a.Status, &a.DocumentoID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return appointment.Agendamento{}, appointment.ErrNotFound
		}
		return appointment.Agendamento{}, err
	}

	return a, nil
}
