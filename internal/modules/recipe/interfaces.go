package recipe

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/modules/relation"
	"foodgram/internal/modules/user"
	"foodgram/internal/repository"
)

type RecipeStore interface {
	compositionSaver
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, error)
	ListShortByIDs(ctx context.Context, ids []int64) ([]domain.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

type ImageStore interface {
	SaveDataURI(ctx context.Context, dataURI string) (string, error)
	Remove(url string) error
}

type Relations interface {
	Toggle(ctx context.Context, kind domain.RelationKind, actorID, targetID int64, intent relation.Intent) (*domain.Edge, error)
	FilterTargets(ctx context.Context, kind domain.RelationKind, actorID int64, targetIDs []int64) (map[int64]bool, error)
	TargetIDs(ctx context.Context, kind domain.RelationKind, actorID int64) ([]int64, error)
}

// AuthorPresenter renders recipe authors, implemented by user.Service.
type AuthorPresenter interface {
	Present(ctx context.Context, actorID int64, users []domain.User) ([]user.UserResponse, error)
}
