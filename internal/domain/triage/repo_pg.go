package triage

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

type questionRepoPG struct{ pool *pgxpool.Pool }

func NewQuestionRepoPG(pool *pgxpool.Pool) QuestionRepository {
	return &questionRepoPG{pool: pool}
}

func (r *questionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const questionCols = `id, category_id, question_text, urgency_level,
	recommended_departments, is_escalator, display_order, created_at, updated_at`

func (r *questionRepoPG) scan(row pgx.Row) (*Question, error) {
	var q Question
	var level string
	err := row.Scan(&q.ID, &q.CategoryID, &q.QuestionText, &level,
		&q.RecommendedDepartments, &q.IsEscalator, &q.DisplayOrder,
		&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if q.UrgencyLevel, err = ParseUrgency(level); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepoPG) Create(ctx context.Context, q *Question) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO triage_question (category_id, question_text, urgency_level,
			recommended_departments, is_escalator, display_order)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		q.CategoryID, q.QuestionText, q.UrgencyLevel.String(),
		q.RecommendedDepartments, q.IsEscalator, q.DisplayOrder).
		Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *questionRepoPG) GetByID(ctx context.Context, id int) (*Question, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+questionCols+` FROM triage_question WHERE id = $1`, id))
}

func (r *questionRepoPG) Update(ctx context.Context, q *Question) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE triage_question SET question_text=$2, urgency_level=$3,
			recommended_departments=$4, is_escalator=$5, display_order=$6,
			updated_at=NOW()
		WHERE id = $1`,
		q.ID, q.QuestionText, q.UrgencyLevel.String(),
		q.RecommendedDepartments, q.IsEscalator, q.DisplayOrder)
	return err
}

func (r *questionRepoPG) Delete(ctx context.Context, id int) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM triage_question WHERE id = $1`, id)
	return err
}

func (r *questionRepoPG) List(ctx context.Context, limit, offset int) ([]*Question, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM triage_question`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+questionCols+` FROM triage_question
		ORDER BY category_id, display_order LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Question
	for rows.Next() {
		q, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, q)
	}
	return items, total, rows.Err()
}

func (r *questionRepoPG) ListByCategory(ctx context.Context, categoryID int) ([]*Question, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+questionCols+` FROM triage_question
		WHERE category_id = $1 ORDER BY display_order`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Question
	for rows.Next() {
		q, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, q)
	}
	return items, rows.Err()
}
