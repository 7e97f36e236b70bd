package repository

import (
	"context"
	"fmt"

	"foodgram/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows List. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID int64
	// TagSlugs match recipes having at least one of the tags.
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
}

// Composition is the full set of associations a recipe is saved with.
type Composition struct {
	Ingredients []domain.RecipeIngredient
	TagIDs      []int64
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("Ingredients.Ingredient").
		Preload("TagLinks", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.tag_id ASC") }).
		Preload("TagLinks.Tag")
}

func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &recipe, nil
}

func (r *RecipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns recipes newest first with all associations loaded.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter) ([]domain.Recipe, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&domain.Recipe{})

	if f.AuthorID > 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		sub := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if f.FavoritedBy > 0 {
		q = q.Where("recipes.id IN (?)",
			db.Table("favorites").Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf > 0 {
		q = q.Where("recipes.id IN (?)",
			db.Table("shopping_cart").Select("recipe_id").Where("user_id = ?", f.InCartOf))
	}

	recipes := []domain.Recipe{}
	err := r.withDetails(q).
		Order("recipes.pub_date DESC").
		Order("recipes.id DESC").
		Find(&recipes).Error
	return recipes, err
}

// ListByAuthor returns an author's recipes newest first without
// associations. limit <= 0 means all.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	recipes := []domain.Recipe{}
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&recipes).Error
	return recipes, err
}

// CountByAuthors returns recipe counts keyed by author id in one query.
func (r *RecipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}

// ListShortByIDs returns recipes without associations, newest pub_date first.
func (r *RecipeRepository) ListShortByIDs(ctx context.Context, ids []int64) ([]domain.Recipe, error) {
	recipes := []domain.Recipe{}
	if len(ids) == 0 {
		return recipes, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("pub_date DESC").
		Order("id DESC").
		Find(&recipes).Error
	return recipes, err
}

// Save creates (ID == 0) or updates the recipe row and replaces all of its
// ingredient and tag associations in a single transaction. Missing
// ingredient or tag ids -> domain.ErrNotFound.
func (r *RecipeRepository) Save(ctx context.Context, recipe *domain.Recipe, comp Composition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAllExist(tx, &domain.Ingredient{}, ingredientIDs(comp.Ingredients), "ingredient"); err != nil {
			return err
		}
		if err := ensureAllExist(tx, &domain.Tag{}, comp.TagIDs, "tag"); err != nil {
			return err
		}

		if recipe.ID == 0 {
			if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
				return mapError(err)
			}
		} else {
			res := tx.Model(&domain.Recipe{}).
				Where("id = ?", recipe.ID).
				Select("name", "text", "image", "cooking_time").
				Updates(map[string]any{
					"name":         recipe.Name,
					"text":         recipe.Text,
					"image":        recipe.Image,
					"cooking_time": recipe.CookingTime,
				})
			if res.Error != nil {
				return mapError(res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("recipe %d: %w", recipe.ID, domain.ErrNotFound)
			}

			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeTag{}).Error; err != nil {
				return err
			}
		}

		if len(comp.Ingredients) > 0 {
			rows := make([]domain.RecipeIngredient, len(comp.Ingredients))
			for i, ing := range comp.Ingredients {
				rows[i] = domain.RecipeIngredient{
					RecipeID:     recipe.ID,
					IngredientID: ing.IngredientID,
					Amount:       ing.Amount,
				}
			}
			if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
				return mapError(err)
			}
		}

		if len(comp.TagIDs) > 0 {
			rows := make([]domain.RecipeTag, len(comp.TagIDs))
			for i, tagID := range comp.TagIDs {
				rows[i] = domain.RecipeTag{RecipeID: recipe.ID, TagID: tagID}
			}
			if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
				return mapError(err)
			}
		}

		return nil
	})
}

func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Recipe{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func ingredientIDs(items []domain.RecipeIngredient) []int64 {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.IngredientID
	}
	return ids
}

// ensureAllExist expects ids to be distinct.
func ensureAllExist(tx *gorm.DB, model any, ids []int64, what string) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
