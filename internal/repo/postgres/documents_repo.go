package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/embaixada-angola/studentportal/internal/domain/document"
	"github.com/embaixada-angola/studentportal/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DocumentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewDocumentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *DocumentsRepo {
	return &DocumentsRepo{pool: pool, prom: prom}
}

func (r *DocumentsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const documentColumns = `id, user_id, tipo, status, prioridade,
	data_envio, prazo_estimado, data_conclusao, observacoes,
	created_at, updated_at`

func scanDocumento(row pgx.Row) (document.Documento, error) {
	var d document.Documento

	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Tipo,
		&d.Status,
		&d.Prioridade,
		&d.DataEnvio,
		&d.PrazoEstimado,
		&d.DataConclusao,
		&d.Observacoes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Documento{}, document.ErrNotFound
		}
		return document.Documento{}, err
	}

	return d, nil
}

func (r *DocumentsRepo) Create(ctx context.Context, d document.Documento) (document.Documento, error) {
	err := r.observe("documents.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO documents(id, user_id, tipo, status, prioridade,
				data_envio, prazo_estimado, data_conclusao, observacoes,
				created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			d.ID, d.UserID, d.Tipo, d.Status, d.Prioridade,
			d.DataEnvio, d.PrazoEstimado, d.DataConclusao, d.Observacoes,
			d.CreatedAt, d.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return document.Documento{}, err
	}

	return d, nil
}

func (r *DocumentsRepo) GetByID(ctx context.Context, id string) (document.Documento, error) {
	var d document.Documento
	var err error

	obsErr := r.observe("documents.get", func() error {
		d, err = scanDocumento(r.pool.QueryRow(ctx,
			`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
		return err
	})

	if obsErr != nil {
		return document.Documento{}, obsErr
	}

	return d, nil
}

func (r *DocumentsRepo) List(ctx context.Context, filter document.ListFilter) ([]document.Documento, int, error) {
	baseQuery := `SELECT ` + documentColumns + `, COUNT(*) OVER() AS total FROM documents`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.UserID != nil {
		conds = append(conds, fmt.Sprintf("user_id = $%d", argsPosition))
		args = append(args, *filter.UserID)
		argsPosition++
	}

	if filter.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", argsPosition))
		args = append(args, *filter.Status)
		argsPosition++
	}

	if filter.Tipo != nil {
		conds = append(conds, fmt.Sprintf("tipo = $%d", argsPosition))
		args = append(args, *filter.Tipo)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY data_envio DESC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, filter.Limit, filter.Offset)

	var output []document.Documento
	total := 0

	err := r.observe("documents.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]document.Documento, 0, filter.Limit)

		for rows.Next() {
			var d document.Documento
			var t int

			err = rows.Scan(
				&d.ID, &d.UserID, &d.Tipo, &d.Status, &d.Prioridade,
				&d.DataEnvio, &d.PrazoEstimado, &d.DataConclusao, &d.Observacoes,
				&d.CreatedAt, &d.UpdatedAt, &t,
			)

			if err != nil {
				return err
			}

			total = t
			output = append(output, d)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

// UpdateStatus moves a document through its workflow. Delivery and the other
// terminal states also stamp data_conclusao.
func (r *DocumentsRepo) UpdateStatus(ctx context.Context, id string, status document.Status) (document.Documento, error) {
	var d document.Documento
	var err error

	obsErr := r.observe("documents.update_status", func() error {
		d, err = scanDocumento(r.pool.QueryRow(ctx,
			`UPDATE documents
				SET status = $2,
						data_conclusao = CASE WHEN $3 THEN NOW() ELSE data_conclusao END,
						updated_at = NOW()
			WHERE id = $1
			RETURNING `+documentColumns,
			id, status, status.Terminal(),
		))
		return err
	})

	if obsErr != nil {
		return document.Documento{}, obsErr
	}

	return d, nil
}

// CountByStatus powers the admin dashboard counters.
func (r *DocumentsRepo) CountByStatus(ctx context.Context) (map[document.Status]int, error) {
	out := make(map[document.Status]int)

	err := r.observe("documents.count_by_status", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT status, COUNT(*) FROM documents GROUP BY status`)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var s document.Status
			var n int

			if err := rows.Scan(&s, &n); err != nil {
				return err
			}

			out[s] = n
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
