package triage

import (
	"context"
	"fmt"
)

// GreenMapSource supplies the category -> routine-care department table for
// an evaluation. The category service implements it from the category table.
type GreenMapSource interface {
	GreenMap(ctx context.Context) (GreenMap, error)
}

type Service struct {
	questions QuestionRepository
	greens    GreenMapSource
}

func NewService(questions QuestionRepository, greens GreenMapSource) *Service {
	return &Service{questions: questions, greens: greens}
}

func (s *Service) CreateQuestion(ctx context.Context, q *Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	return s.questions.Create(ctx, q)
}

func (s *Service) GetQuestion(ctx context.Context, id int) (*Question, error) {
	return s.questions.GetByID(ctx, id)
}

func (s *Service) UpdateQuestion(ctx context.Context, q *Question) error {
	if q.ID == SentinelNoneID {
		return fmt.Errorf("question id %d is reserved", SentinelNoneID)
	}
	if err := validateQuestion(q); err != nil {
		return err
	}
	return s.questions.Update(ctx, q)
}

func (s *Service) DeleteQuestion(ctx context.Context, id int) error {
	return s.questions.Delete(ctx, id)
}

func (s *Service) ListQuestions(ctx context.Context, limit, offset int) ([]*Question, int, error) {
	return s.questions.List(ctx, limit, offset)
}

func (s *Service) ListQuestionsByCategory(ctx context.Context, categoryID int) ([]*Question, error) {
	if categoryID <= 0 {
		return nil, fmt.Errorf("category_id is required")
	}
	return s.questions.ListByCategory(ctx, categoryID)
}

// Evaluate runs the decision engine against the stored catalog for the
// category. The verdict is returned to the caller; persistence onto the
// interview record is the interview service's job.
func (s *Service) Evaluate(ctx context.Context, categoryID int, selected []int) (*Verdict, error) {
	if categoryID <= 0 {
		return nil, fmt.Errorf("category_id is required")
	}
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}
	catalog, err := s.questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load question catalog: %w", err)
	}
	gm, err := s.greens.GreenMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("load green map: %w", err)
	}
	return Evaluate(catalog, selected, categoryID, gm)
}

func validateQuestion(q *Question) error {
	if q.CategoryID <= 0 {
		return fmt.Errorf("category_id is required")
	}
	if q.QuestionText == "" {
		return fmt.Errorf("question_text is required")
	}
	if !q.UrgencyLevel.Valid() {
		return fmt.Errorf("invalid urgency_level: %d", int(q.UrgencyLevel))
	}
	return nil
}
