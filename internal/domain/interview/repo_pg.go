package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carenavi/triage-api/internal/domain/triage"
	"github.com/carenavi/triage-api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type interviewRepoPG struct {
	pool *pgxpool.Pool
}

// NewRepositoryPG creates a PostgreSQL-backed interview repository
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &interviewRepoPG{pool: pool}
}

func (r *interviewRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const interviewColumns = `id, patient_id, symptom_text, category_id, is_child, status,
	urgency_level, recommended_departments, matched_question_ids, triaged_at,
	created_at, updated_at`

func (r *interviewRepoPG) Create(ctx context.Context, iv *Interview) error {
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO interview (id, patient_id, symptom_text, category_id, is_child, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		iv.ID, iv.PatientID, iv.SymptomText, iv.CategoryID, iv.IsChild, iv.Status,
	).Scan(&iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

func (r *interviewRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Interview, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+interviewColumns+`
		FROM interview WHERE id = $1`, id)
	iv, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("interview %s not found", id)
		}
		return nil, fmt.Errorf("get interview: %w", err)
	}
	return iv, nil
}

func (r *interviewRepoPG) List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Interview, int, error) {
	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM interview WHERE patient_id = $1`, patientID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count interviews: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT `+interviewColumns+`
		FROM interview
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	var out []*Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan interview: %w", err)
		}
		out = append(out, iv)
	}
	return out, total, rows.Err()
}

func (r *interviewRepoPG) SaveVerdict(ctx context.Context, iv *Interview) error {
	var level *string
	if iv.UrgencyLevel != nil {
		s := iv.UrgencyLevel.String()
		level = &s
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE interview
		SET category_id = $2, status = $3, urgency_level = $4,
		    recommended_departments = $5, matched_question_ids = $6,
		    triaged_at = $7, updated_at = now()
		WHERE id = $1`,
		iv.ID, iv.CategoryID, iv.Status, level,
		iv.RecommendedDepartments, iv.MatchedQuestionIDs, iv.TriagedAt)
	if err != nil {
		return fmt.Errorf("save verdict: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("interview %s not found", iv.ID)
	}
	return nil
}

func (r *interviewRepoPG) ReplaceQuestions(ctx context.Context, interviewID uuid.UUID, questions []*GeneratedQuestion) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		if _, err := q.Exec(ctx,
			`DELETE FROM interview_question WHERE interview_id = $1`, interviewID,
		); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
		for _, gq := range questions {
			if gq.ID == uuid.Nil {
				gq.ID = uuid.New()
			}
			gq.InterviewID = interviewID
			if _, err := q.Exec(ctx, `
				INSERT INTO interview_question (id, interview_id, position, question_text)
				VALUES ($1, $2, $3, $4)`,
				gq.ID, gq.InterviewID, gq.Position, gq.QuestionText,
			); err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
		}
		return nil
	})
}

func (r *interviewRepoPG) GetQuestions(ctx context.Context, interviewID uuid.UUID) ([]*GeneratedQuestion, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, interview_id, position, question_text, answer
		FROM interview_question
		WHERE interview_id = $1
		ORDER BY position`, interviewID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []*GeneratedQuestion
	for rows.Next() {
		gq := &GeneratedQuestion{}
		if err := rows.Scan(&gq.ID, &gq.InterviewID, &gq.Position, &gq.QuestionText, &gq.Answer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, gq)
	}
	return out, rows.Err()
}

func (r *interviewRepoPG) SaveAnswers(ctx context.Context, interviewID uuid.UUID, answers map[int]string) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		for position, text := range answers {
			tag, err := q.Exec(ctx, `
				UPDATE interview_question SET answer = $3
				WHERE interview_id = $1 AND position = $2`,
				interviewID, position, text)
			if err != nil {
				return fmt.Errorf("save answer: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("no question at position %d", position)
			}
		}
		if _, err := q.Exec(ctx, `
			UPDATE interview SET status = $2, updated_at = now()
			WHERE id = $1`, interviewID, StatusAnswered,
		); err != nil {
			return fmt.Errorf("update interview status: %w", err)
		}
		return nil
	})
}

func scanInterview(row pgx.Row) (*Interview, error) {
	iv := &Interview{}
	var level *string
	if err := row.Scan(
		&iv.ID, &iv.PatientID, &iv.SymptomText, &iv.CategoryID, &iv.IsChild, &iv.Status,
		&level, &iv.RecommendedDepartments, &iv.MatchedQuestionIDs, &iv.TriagedAt,
		&iv.CreatedAt, &iv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if level != nil {
		u, err := triage.ParseUrgency(*level)
		if err != nil {
			return nil, fmt.Errorf("interview %s: %w", iv.ID, err)
		}
		iv.UrgencyLevel = &u
	}
	return iv, nil
}
