package triage

import "context"

type QuestionRepository interface {
	Create(ctx context.Context, q *Question) error
	GetByID(ctx context.Context, id int) (*Question, error)
	Update(ctx context.Context, q *Question) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, limit, offset int) ([]*Question, int, error)
	// ListByCategory returns the full catalog for one category ordered by
	// display_order. The engine consumes this slice as-is.
	ListByCategory(ctx context.Context, categoryID int) ([]*Question, error)
}
