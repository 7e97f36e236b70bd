package recipe

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/modules/relation"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/repository"
)

type Service struct {
	recipes   RecipeStore
	composer  *Composer
	images    ImageStore
	relations Relations
	authors   AuthorPresenter
}

func NewService(recipes RecipeStore, images ImageStore, relations Relations, authors AuthorPresenter) *Service {
	return &Service{
		recipes:   recipes,
		composer:  NewComposer(recipes),
		images:    images,
		relations: relations,
		authors:   authors,
	}
}

func (s *Service) Create(ctx context.Context, actorID int64, req CreateRecipeRequest) (*RecipeResponse, error) {
	image, err := s.images.SaveDataURI(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		AuthorID:    actorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
	}
	if err := s.composer.Compose(ctx, recipe, toAmounts(req.Ingredients), req.Tags); err != nil {
		s.discardImage(image)
		return nil, err
	}

	logger.Ctx(ctx).Info().Int64("recipe_id", recipe.ID).Int64("author_id", actorID).Msg("recipe created")
	return s.Get(ctx, actorID, recipe.ID)
}

// authorize loads the recipe and checks that actorID authored it.
func (s *Service) authorize(ctx context.Context, actorID, recipeID int64) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, fmt.Errorf("recipe %d belongs to another user: %w", recipeID, domain.ErrPermissionDenied)
	}
	return recipe, nil
}

// validateUpdate: переданное поле не может быть пустым, как и при создании.
func validateUpdate(req UpdateRecipeRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return domain.NewValidationError("name", "name must not be empty")
	}
	if req.Text != nil && strings.TrimSpace(*req.Text) == "" {
		return domain.NewValidationError("text", "text must not be empty")
	}
	if req.CookingTime != nil && *req.CookingTime < 1 {
		return domain.NewValidationError("cooking_time", "cooking_time must be at least 1")
	}
	return nil
}

func (s *Service) Update(ctx context.Context, actorID, recipeID int64, req UpdateRecipeRequest) (*RecipeResponse, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}
	recipe, err := s.authorize(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	newImage := ""
	if req.Image != nil && *req.Image != "" {
		newImage, err = s.images.SaveDataURI(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = newImage
	}
	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}

	if err := s.composer.Compose(ctx, recipe, toAmounts(req.Ingredients), req.Tags); err != nil {
		if newImage != "" {
			s.discardImage(newImage)
		}
		return nil, err
	}
	if newImage != "" {
		s.discardImage(oldImage)
	}

	return s.Get(ctx, actorID, recipe.ID)
}

func (s *Service) Delete(ctx context.Context, actorID, recipeID int64) error {
	recipe, err := s.authorize(ctx, actorID, recipeID)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		return err
	}
	s.discardImage(recipe.Image)
	return nil
}

func (s *Service) discardImage(url string) {
	if err := s.images.Remove(url); err != nil {
		logger.Warn().Err(err).Str("image", url).Msg("failed to remove image")
	}
}

func (s *Service) Get(ctx context.Context, actorID, recipeID int64) (*RecipeResponse, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	out, err := s.present(ctx, actorID, []domain.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// List applies the filters; caller-scoped flags are ignored for anonymous
// callers.
func (s *Service) List(ctx context.Context, actorID int64, q ListQuery) ([]RecipeResponse, error) {
	filter := repository.RecipeFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.Tags,
	}
	if actorID > 0 {
		if q.IsFavorited {
			filter.FavoritedBy = actorID
		}
		if q.IsInShoppingCart {
			filter.InCartOf = actorID
		}
	}

	recipes, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, actorID, recipes)
}

// present builds representations for actorID with one query per flag.
func (s *Service) present(ctx context.Context, actorID int64, recipes []domain.Recipe) ([]RecipeResponse, error) {
	out := make([]RecipeResponse, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	ids := make([]int64, len(recipes))
	authors := make([]domain.User, 0, len(recipes))
	seenAuthor := map[int64]bool{}
	for i := range recipes {
		ids[i] = recipes[i].ID
		if a := recipes[i].Author; a != nil && !seenAuthor[a.ID] {
			seenAuthor[a.ID] = true
			authors = append(authors, *a)
		}
	}

	favorited, err := s.relations.FilterTargets(ctx, domain.KindFavorite, actorID, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := s.relations.FilterTargets(ctx, domain.KindShoppingCart, actorID, ids)
	if err != nil {
		return nil, err
	}
	presented, err := s.authors.Present(ctx, actorID, authors)
	if err != nil {
		return nil, err
	}
	authorByID := make(map[int64]int, len(presented))
	for i, a := range presented {
		authorByID[a.ID] = i
	}

	for i := range recipes {
		r := &recipes[i]

		ingredients := make([]IngredientInRecipe, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			item := IngredientInRecipe{ID: ri.IngredientID, Amount: ri.Amount}
			if ri.Ingredient != nil {
				item.Name = ri.Ingredient.Name
				item.MeasurementUnit = ri.Ingredient.MeasurementUnit
			}
			ingredients = append(ingredients, item)
		}

		resp := RecipeResponse{
			ID:               r.ID,
			Tags:             r.Tags(),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		if idx, ok := authorByID[r.AuthorID]; ok {
			resp.Author = presented[idx]
		}
		out[i] = resp
	}
	return out, nil
}

// AddTo puts the recipe into favorites or the shopping cart and returns
// its short form.
func (s *Service) AddTo(ctx context.Context, kind domain.RelationKind, actorID, recipeID int64) (*domain.RecipeShort, error) {
	if _, err := s.relations.Toggle(ctx, kind, actorID, recipeID, relation.IntentAdd); err != nil {
		return nil, err
	}
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	short := recipe.Short()
	return &short, nil
}

func (s *Service) RemoveFrom(ctx context.Context, kind domain.RelationKind, actorID, recipeID int64) error {
	_, err := s.relations.Toggle(ctx, kind, actorID, recipeID, relation.IntentRemove)
	return err
}

// Favorites lists the actor's favorite recipes in short form, most recently
// favorited first.
func (s *Service) Favorites(ctx context.Context, actorID int64) ([]domain.RecipeShort, error) {
	ids, err := s.relations.TargetIDs(ctx, domain.KindFavorite, actorID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipes.ListShortByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}
	// порядок задаёт TargetIDs, а не pub_date
	out := make([]domain.RecipeShort, 0, len(recipes))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r.Short())
		}
	}
	return out, nil
}
