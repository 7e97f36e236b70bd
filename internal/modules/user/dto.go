package user

import "foodgram/internal/domain"

// UserResponse — представление пользователя для API.
type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// SubscriptionResponse — автор в списке подписок вместе с его рецептами.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []domain.RecipeShort `json:"recipes"`
	RecipesCount int64                `json:"recipes_count"`
}

func newUserResponse(u *domain.User, subscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}
