package shoppinglist

import (
	"context"
	"fmt"

	"foodgram/internal/pkg/metrics"
)

type Service struct {
	cart  CartReader
	users UserGetter
}

func NewService(cart CartReader, users UserGetter) *Service {
	return &Service{cart: cart, users: users}
}

// Build returns the aggregated shopping list of the user. Read only.
func (s *Service) Build(ctx context.Context, userID int64) ([]Line, error) {
	rows, err := s.cart.CartIngredients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart ingredients: %w", err)
	}
	return Aggregate(rows), nil
}

// Export renders the shopping list as text.
func (s *Service) Export(ctx context.Context, userID int64) (string, error) {
	lines, err := s.Build(ctx, userID)
	if err != nil {
		return "", err
	}
	metrics.ShoppingListExports.Inc()
	return Render(lines), nil
}

// Download returns the attachment file name and the rendered document.
func (s *Service) Download(ctx context.Context, userID int64) (string, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	body, err := s.Export(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return user.Username + "_shopping_cart.txt", body, nil
}
