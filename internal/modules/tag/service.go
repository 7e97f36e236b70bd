package tag

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/cache"
)

const listCacheKey = "tags:all"

type Repository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
}

type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService accepts a nil cache.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) List(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if s.cache.GetJSON(ctx, listCacheKey, &tags) {
		return tags, nil
	}

	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, listCacheKey, tags)
	return tags, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	return s.repo.GetByID(ctx, id)
}
