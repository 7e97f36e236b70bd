package domain

import "time"

// RelationKind is one of the user-scoped association types that share
// add/remove semantics.
type RelationKind string

const (
	KindFavorite     RelationKind = "favorite"
	KindShoppingCart RelationKind = "shopping_cart"
	KindFollow       RelationKind = "follow"
)

func (k RelationKind) Valid() bool {
	switch k {
	case KindFavorite, KindShoppingCart, KindFollow:
		return true
	}
	return false
}

// Edge is a stored relation row regardless of its kind. TargetID is a
// recipe id for favorites and cart entries and an author id for follows.
type Edge struct {
	ID        int64        `json:"id"`
	Kind      RelationKind `json:"kind"`
	UserID    int64        `json:"user_id"`
	TargetID  int64        `json:"target_id"`
	CreatedAt time.Time    `json:"created_at"`
}
