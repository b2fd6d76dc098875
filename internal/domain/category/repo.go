package category

import "context"

type Repository interface {
	Create(ctx context.Context, cat *Category) error
	GetByID(ctx context.Context, id int) (*Category, error)
	Update(ctx context.Context, cat *Category) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, limit, offset int) ([]*Category, int, error)
	// ListByAudience returns categories visible to one consultation flow,
	// ordered for display. "both" categories are always included.
	ListByAudience(ctx context.Context, audience string) ([]*Category, error)
}
