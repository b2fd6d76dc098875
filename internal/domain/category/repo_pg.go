package category

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carenavi/triage-api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const catCols = `id, name, audience, green_departments, display_order, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Category, error) {
	var cat Category
	err := row.Scan(&cat.ID, &cat.Name, &cat.Audience, &cat.GreenDepartments,
		&cat.DisplayOrder, &cat.CreatedAt, &cat.UpdatedAt)
	return &cat, err
}

func (r *repoPG) Create(ctx context.Context, cat *Category) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO symptom_category (name, audience, green_departments, display_order)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at`,
		cat.Name, cat.Audience, cat.GreenDepartments, cat.DisplayOrder).
		Scan(&cat.ID, &cat.CreatedAt, &cat.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int) (*Category, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+catCols+` FROM symptom_category WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, cat *Category) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE symptom_category SET name=$2, audience=$3, green_departments=$4,
			display_order=$5, updated_at=NOW()
		WHERE id = $1`,
		cat.ID, cat.Name, cat.Audience, cat.GreenDepartments, cat.DisplayOrder)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM symptom_category WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM symptom_category`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+catCols+` FROM symptom_category
		ORDER BY display_order LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Category
	for rows.Next() {
		cat, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cat)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByAudience(ctx context.Context, audience string) ([]*Category, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+catCols+` FROM symptom_category
		WHERE audience = $1 OR audience = 'both'
		ORDER BY display_order`, audience)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Category
	for rows.Next() {
		cat, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, cat)
	}
	return items, rows.Err()
}
