package shoppinglist

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

type CartReader interface {
	CartIngredients(ctx context.Context, userID int64) ([]repository.CartIngredientRow, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
