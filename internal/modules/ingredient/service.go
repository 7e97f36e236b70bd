package ingredient

import (
	"context"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/cache"
)

type Repository interface {
	List(ctx context.Context, prefix string) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
}

type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService accepts a nil cache.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// Search lists ingredients whose name starts with prefix, ignoring case.
// Results are cached per normalized prefix.
func (s *Service) Search(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	key := "ingredients:" + prefix

	var items []domain.Ingredient
	if s.cache.GetJSON(ctx, key, &items) {
		return items, nil
	}

	items, err := s.repo.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, items)
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return s.repo.GetByID(ctx, id)
}
