package repository

import (
	"context"

	"gorm.io/gorm"
)

// CartIngredientRow is one ingredient line of one recipe in a user's cart.
type CartIngredientRow struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

type ShoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) *ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// CartIngredients fetches every ingredient row of every recipe in the
// user's shopping cart in a single join query. Rows are not grouped.
func (r *ShoppingListRepository) CartIngredients(ctx context.Context, userID int64) ([]CartIngredientRow, error) {
	rows := []CartIngredientRow{}
	err := r.db.WithContext(ctx).
		Table("shopping_cart").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}
