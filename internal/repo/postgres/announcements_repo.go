package postgres

import (
	"context"
	"errors"

	"github.com/embaixada-angola/studentportal/internal/domain/announcement"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AnnouncementsRepo struct {
	pool *pgxpool.Pool
}

func NewAnnouncementsRepo(pool *pgxpool.Pool) *AnnouncementsRepo {
	return &AnnouncementsRepo{pool: pool}
}

func (r *AnnouncementsRepo) Create(ctx context.Context, c announcement.Comunicado) (announcement.Comunicado, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO announcements(id, titulo, conteudo, resumo, autor,
			prioridade, publicado_em, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.Titulo, c.Conteudo, c.Resumo, c.Autor,
		c.Prioridade, c.PublicadoEm, c.CreatedAt, c.UpdatedAt,
	)

	if err != nil {
		return announcement.Comunicado{}, err
	}

	return c, nil
}

func (r *AnnouncementsRepo) List(ctx context.Context, limit, offset int) ([]announcement.Comunicado, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, titulo, conteudo, resumo, autor, prioridade,
			publicado_em, created_at, updated_at
		FROM announcements
		ORDER BY publicado_em DESC, id ASC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]announcement.Comunicado, 0, limit)

	for rows.Next() {
		var c announcement.Comunicado

		err = rows.Scan(&c.ID, &c.Titulo, &c.Conteudo, &c.Resumo, &c.Autor,
			&c.Prioridade, &c.PublicadoEm, &c.CreatedAt, &c.UpdatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *AnnouncementsRepo) GetByID(ctx context.Context, id string) (announcement.Comunicado, error) {
	var c announcement.Comunicado

	err := r.pool.QueryRow(ctx,
		`SELECT id, titulo, conteudo, resumo, autor, prioridade,
			publicado_em, created_at, updated_at
		FROM announcements WHERE id = $1`, id,
	).Scan(&c.ID, &c.Titulo, &c.Conteudo, &c.Resumo, &c.Autor,
		&c.Prioridade, &c.PublicadoEm, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return announcement.Comunicado{}, announcement.ErrNotFound
		}
		return announcement.Comunicado{}, err
	}

	return c, nil
}
