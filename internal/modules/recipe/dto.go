package recipe

import (
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/modules/user"
)

type IngredientAmountRequest struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount"`
}

type CreateRecipeRequest struct {
	Name        string                    `json:"name" binding:"required,max=200"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1"`
	Image       string                    `json:"image" binding:"required"`
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"dive"`
	Tags        []int64                   `json:"tags"`
}

// UpdateRecipeRequest — PATCH: скалярные поля опциональны, а ингредиенты
// и теги всегда заменяются целиком.
type UpdateRecipeRequest struct {
	Name        *string                   `json:"name" binding:"omitnil,min=1,max=200"`
	Text        *string                   `json:"text" binding:"omitnil,min=1"`
	CookingTime *int                      `json:"cooking_time" binding:"omitnil,min=1"`
	Image       *string                   `json:"image"`
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"dive"`
	Tags        []int64                   `json:"tags"`
}

func toAmounts(items []IngredientAmountRequest) []IngredientAmount {
	out := make([]IngredientAmount, len(items))
	for i, it := range items {
		out[i] = IngredientAmount{IngredientID: it.ID, Amount: it.Amount}
	}
	return out
}

type IngredientInRecipe struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                `json:"id"`
	Tags             []domain.Tag         `json:"tags"`
	Author           user.UserResponse    `json:"author"`
	Ingredients      []IngredientInRecipe `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	PubDate          time.Time            `json:"pub_date"`
}

// ListQuery — фильтры списка рецептов.
type ListQuery struct {
	Tags             []string
	AuthorID         int64
	IsFavorited      bool
	IsInShoppingCart bool
}
