package relation

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/pkg/metrics"
)

type Intent string

const (
	IntentAdd    Intent = "add"
	IntentRemove Intent = "remove"
)

// kindSpec holds what differs between relation kinds: the validation hook
// run before ADD and how to check that the target exists.
type kindSpec struct {
	validate     func(actorID, targetID int64) error
	targetExists func(ctx context.Context, id int64) (bool, error)
	targetName   string
}

type Service struct {
	edges EdgeStore
	kinds map[domain.RelationKind]kindSpec
}

func NewService(edges EdgeStore, recipes RecipeLookup, users UserLookup) *Service {
	return &Service{
		edges: edges,
		kinds: map[domain.RelationKind]kindSpec{
			domain.KindFavorite: {
				targetExists: recipes.Exists,
				targetName:   "recipe",
			},
			domain.KindShoppingCart: {
				targetExists: recipes.Exists,
				targetName:   "recipe",
			},
			domain.KindFollow: {
				validate:     rejectSelfFollow,
				targetExists: users.Exists,
				targetName:   "user",
			},
		},
	}
}

func rejectSelfFollow(actorID, targetID int64) error {
	if actorID == targetID {
		return fmt.Errorf("cannot follow self: %w", domain.ErrInvalidOperation)
	}
	return nil
}

// Toggle applies intent to the (actorID, targetID) relation of the given
// kind. ADD returns the created edge; a repeated ADD fails with
// domain.ErrAlreadyExists. REMOVE returns nil, nil; removing a missing
// relation fails with domain.ErrNotFound.
func (s *Service) Toggle(ctx context.Context, kind domain.RelationKind, actorID, targetID int64, intent Intent) (*domain.Edge, error) {
	edge, err := s.toggle(ctx, kind, actorID, targetID, intent)

	outcome := outcomeOf(err)
	metrics.RelationToggles.WithLabelValues(string(kind), string(intent), outcome).Inc()
	if outcome == "error" {
		logger.Error().Err(err).
			Str("kind", string(kind)).
			Str("intent", string(intent)).
			Int64("user_id", actorID).
			Int64("target_id", targetID).
			Msg("relation toggle failed")
	}

	return edge, err
}

func (s *Service) toggle(ctx context.Context, kind domain.RelationKind, actorID, targetID int64, intent Intent) (*domain.Edge, error) {
	spec, ok := s.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown relation kind %q: %w", kind, domain.ErrInvalidOperation)
	}
	if actorID <= 0 {
		return nil, domain.ErrPermissionDenied
	}

	switch intent {
	case IntentAdd:
		if spec.validate != nil {
			if err := spec.validate(actorID, targetID); err != nil {
				return nil, err
			}
		}

		exists, err := spec.targetExists(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%s %d: %w", spec.targetName, targetID, domain.ErrNotFound)
		}

		// Единственный INSERT: дубликаты отсекает уникальный индекс.
		return s.edges.Insert(ctx, kind, actorID, targetID)

	case IntentRemove:
		return nil, s.edges.Delete(ctx, kind, actorID, targetID)

	default:
		return nil, fmt.Errorf("unknown intent %q: %w", intent, domain.ErrInvalidOperation)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidOperation), errors.Is(err, domain.ErrPermissionDenied):
		return "invalid"
	default:
		return "error"
	}
}

// Exists reports whether the relation is present. Anonymous actors (0)
// never have relations.
func (s *Service) Exists(ctx context.Context, kind domain.RelationKind, actorID, targetID int64) (bool, error) {
	if actorID <= 0 {
		return false, nil
	}
	return s.edges.Exists(ctx, kind, actorID, targetID)
}

// FilterTargets returns which of targetIDs the actor is related to.
func (s *Service) FilterTargets(ctx context.Context, kind domain.RelationKind, actorID int64, targetIDs []int64) (map[int64]bool, error) {
	if actorID <= 0 {
		return map[int64]bool{}, nil
	}
	return s.edges.FilterTargets(ctx, kind, actorID, targetIDs)
}

// TargetIDs lists everything the actor is related to, newest first.
func (s *Service) TargetIDs(ctx context.Context, kind domain.RelationKind, actorID int64) ([]int64, error) {
	if actorID <= 0 {
		return []int64{}, nil
	}
	return s.edges.TargetIDs(ctx, kind, actorID)
}
