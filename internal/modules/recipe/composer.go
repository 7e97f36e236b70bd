package recipe

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/metrics"
	"foodgram/internal/repository"
)

// IngredientAmount is one (ingredient, amount) pair of a recipe payload.
type IngredientAmount struct {
	IngredientID int64
	Amount       int
}

type compositionSaver interface {
	Save(ctx context.Context, recipe *domain.Recipe, comp repository.Composition) error
}

// Composer (re)establishes a recipe's ingredient and tag associations as a
// single atomic replace.
type Composer struct {
	store compositionSaver
}

func NewComposer(store compositionSaver) *Composer {
	return &Composer{store: store}
}

// Compose validates the associations and persists the recipe row together
// with them. recipe.ID == 0 creates the recipe.
func (c *Composer) Compose(ctx context.Context, recipe *domain.Recipe, amounts []IngredientAmount, tagIDs []int64) error {
	op := "update"
	if recipe.ID == 0 {
		op = "create"
	}

	comp, err := buildComposition(amounts, tagIDs)
	if err == nil {
		err = c.store.Save(ctx, recipe, comp)
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.RecipeCompositions.WithLabelValues(op, result).Inc()
	return err
}

// buildComposition checks, in order: non-empty ingredients, no duplicate
// ingredient ids, positive amounts. Tag ids collapse to a set.
func buildComposition(amounts []IngredientAmount, tagIDs []int64) (repository.Composition, error) {
	if len(amounts) == 0 {
		return repository.Composition{}, domain.NewValidationError("ingredients", "ingredients required")
	}

	seen := make(map[int64]bool, len(amounts))
	for _, a := range amounts {
		if seen[a.IngredientID] {
			return repository.Composition{}, domain.NewValidationError("ingredients", "duplicate ingredient")
		}
		seen[a.IngredientID] = true
	}

	rows := make([]domain.RecipeIngredient, len(amounts))
	for i, a := range amounts {
		if a.Amount < 1 {
			return repository.Composition{}, domain.NewValidationError("ingredients", "amount must be positive")
		}
		rows[i] = domain.RecipeIngredient{IngredientID: a.IngredientID, Amount: a.Amount}
	}

	tags := make([]int64, 0, len(tagIDs))
	seenTags := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		if !seenTags[id] {
			seenTags[id] = true
			tags = append(tags, id)
		}
	}

	return repository.Composition{Ingredients: rows, TagIDs: tags}, nil
}
