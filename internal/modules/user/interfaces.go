package user

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/modules/relation"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, includeStaff bool) ([]domain.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
}

type RecipeReader interface {
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}

// Relations is the subset of relation.Service used here.
type Relations interface {
	Toggle(ctx context.Context, kind domain.RelationKind, actorID, targetID int64, intent relation.Intent) (*domain.Edge, error)
	FilterTargets(ctx context.Context, kind domain.RelationKind, actorID int64, targetIDs []int64) (map[int64]bool, error)
	TargetIDs(ctx context.Context, kind domain.RelationKind, actorID int64) ([]int64, error)
}
