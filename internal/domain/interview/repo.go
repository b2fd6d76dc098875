package interview

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines interview persistence operations
type Repository interface {
	Create(ctx context.Context, iv *Interview) error
	GetByID(ctx context.Context, id uuid.UUID) (*Interview, error)
	List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Interview, int, error)
	// SaveVerdict persists the triage verdict fields and status transition.
	SaveVerdict(ctx context.Context, iv *Interview) error
	// ReplaceQuestions swaps the interview's generated questionnaire atomically.
	ReplaceQuestions(ctx context.Context, interviewID uuid.UUID, questions []*GeneratedQuestion) error
	GetQuestions(ctx context.Context, interviewID uuid.UUID) ([]*GeneratedQuestion, error)
	// SaveAnswers writes answers by position and marks the interview answered.
	SaveAnswers(ctx context.Context, interviewID uuid.UUID, answers map[int]string) error
}
