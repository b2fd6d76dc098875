package category

import (
	"context"
	"fmt"

	"github.com/carenavi/triage-api/internal/domain/triage"
)

var validAudiences = map[string]bool{
	AudienceAdult: true, AudienceChild: true, AudienceBoth: true,
}

type Service struct {
	categories Repository
}

func NewService(categories Repository) *Service {
	return &Service{categories: categories}
}

func (s *Service) Create(ctx context.Context, cat *Category) error {
	if cat.Name == "" {
		return fmt.Errorf("name is required")
	}
	if cat.Audience == "" {
		cat.Audience = AudienceBoth
	}
	if !validAudiences[cat.Audience] {
		return fmt.Errorf("invalid audience: %s", cat.Audience)
	}
	return s.categories.Create(ctx, cat)
}

func (s *Service) Get(ctx context.Context, id int) (*Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, cat *Category) error {
	if cat.Name == "" {
		return fmt.Errorf("name is required")
	}
	if cat.Audience != "" && !validAudiences[cat.Audience] {
		return fmt.Errorf("invalid audience: %s", cat.Audience)
	}
	return s.categories.Update(ctx, cat)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.categories.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	return s.categories.List(ctx, limit, offset)
}

func (s *Service) ListByAudience(ctx context.Context, audience string) ([]*Category, error) {
	if !validAudiences[audience] {
		return nil, fmt.Errorf("invalid audience: %s", audience)
	}
	return s.categories.ListByAudience(ctx, audience)
}

// GreenMap assembles the category -> routine-care department table consumed
// by the triage engine. Categories without green departments are omitted so
// their "none apply" selections fall through to white. A tenant whose
// category table is still empty gets the compiled-in defaults. Implements
// triage.GreenMapSource.
func (s *Service) GreenMap(ctx context.Context) (triage.GreenMap, error) {
	cats, _, err := s.categories.List(ctx, pageAll, 0)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if len(cats) == 0 {
		return triage.DefaultGreenMap(), nil
	}
	gm := make(triage.GreenMap)
	for _, cat := range cats {
		if len(cat.GreenDepartments) > 0 {
			gm[cat.ID] = cat.GreenDepartments
		}
	}
	return gm, nil
}

// pageAll is a generous page size for the full-category scan; the catalog
// holds a few dozen rows at most.
const pageAll = 1000
