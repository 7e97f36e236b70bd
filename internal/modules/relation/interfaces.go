package relation

import (
	"context"

	"foodgram/internal/domain"
)

// EdgeStore — хранилище связей, реализуется repository.RelationRepository.
type EdgeStore interface {
	Insert(ctx context.Context, kind domain.RelationKind, userID, targetID int64) (*domain.Edge, error)
	Delete(ctx context.Context, kind domain.RelationKind, userID, targetID int64) error
	Exists(ctx context.Context, kind domain.RelationKind, userID, targetID int64) (bool, error)
	FilterTargets(ctx context.Context, kind domain.RelationKind, userID int64, targetIDs []int64) (map[int64]bool, error)
	TargetIDs(ctx context.Context, kind domain.RelationKind, userID int64) ([]int64, error)
}

type RecipeLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
