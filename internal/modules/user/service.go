package user

import (
	"context"
	"errors"

	"foodgram/internal/domain"
	"foodgram/internal/modules/relation"
)

type Service struct {
	users     UserReader
	recipes   RecipeReader
	relations Relations
}

func NewService(users UserReader, recipes RecipeReader, relations Relations) *Service {
	return &Service{users: users, recipes: recipes, relations: relations}
}

// Present renders users as seen by actorID (0 = anonymous). is_subscribed
// is resolved for all users in one query.
func (s *Service) Present(ctx context.Context, actorID int64, users []domain.User) ([]UserResponse, error) {
	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	followed, err := s.relations.FilterTargets(ctx, domain.KindFollow, actorID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = newUserResponse(&users[i], followed[users[i].ID])
	}
	return out, nil
}

func (s *Service) presentOne(ctx context.Context, actorID int64, u *domain.User) (UserResponse, error) {
	list, err := s.Present(ctx, actorID, []domain.User{*u})
	if err != nil {
		return UserResponse{}, err
	}
	return list[0], nil
}

func (s *Service) Get(ctx context.Context, actorID, id int64) (UserResponse, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return s.presentOne(ctx, actorID, u)
}

// List returns all users; staff accounts are visible to staff only. Staff
// status is read from the store, so role changes apply without a new token.
func (s *Service) List(ctx context.Context, actorID int64) ([]UserResponse, error) {
	actorIsStaff := false
	if actorID > 0 {
		actor, err := s.users.GetByID(ctx, actorID)
		switch {
		case err == nil:
			actorIsStaff = actor.IsStaff
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	users, err := s.users.List(ctx, actorIsStaff)
	if err != nil {
		return nil, err
	}
	return s.Present(ctx, actorID, users)
}

// Subscriptions lists authors the actor follows with up to recipesLimit of
// their newest recipes (recipesLimit <= 0 means all).
func (s *Service) Subscriptions(ctx context.Context, actorID int64, recipesLimit int) ([]SubscriptionResponse, error) {
	authorIDs, err := s.relations.TargetIDs(ctx, domain.KindFollow, actorID)
	if err != nil {
		return nil, err
	}
	if len(authorIDs) == 0 {
		return []SubscriptionResponse{}, nil
	}

	authors, err := s.users.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.User, len(authors))
	for i := range authors {
		byID[authors[i].ID] = &authors[i]
	}

	counts, err := s.recipes.CountByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]SubscriptionResponse, 0, len(authorIDs))
	for _, id := range authorIDs {
		author, ok := byID[id]
		if !ok {
			continue
		}
		sub, err := s.subscription(ctx, author, recipesLimit, counts[id])
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func (s *Service) subscription(ctx context.Context, author *domain.User, recipesLimit int, count int64) (SubscriptionResponse, error) {
	recipes, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	short := make([]domain.RecipeShort, len(recipes))
	for i := range recipes {
		short[i] = recipes[i].Short()
	}

	return SubscriptionResponse{
		UserResponse: newUserResponse(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

// Subscribe follows authorID and returns the author with recipes.
func (s *Service) Subscribe(ctx context.Context, actorID, authorID int64, recipesLimit int) (SubscriptionResponse, error) {
	if _, err := s.relations.Toggle(ctx, domain.KindFollow, actorID, authorID, relation.IntentAdd); err != nil {
		return SubscriptionResponse{}, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return SubscriptionResponse{}, err
	}
	counts, err := s.recipes.CountByAuthors(ctx, []int64{authorID})
	if err != nil {
		return SubscriptionResponse{}, err
	}
	return s.subscription(ctx, author, recipesLimit, counts[authorID])
}

func (s *Service) Unsubscribe(ctx context.Context, actorID, authorID int64) error {
	_, err := s.relations.Toggle(ctx, domain.KindFollow, actorID, authorID, relation.IntentRemove)
	return err
}
