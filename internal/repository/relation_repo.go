package repository

import (
	"context"
	"fmt"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// relationTable описывает, где хранится связь данного вида.
type relationTable struct {
	model     any
	table     string
	targetCol string
}

var relationTables = map[domain.RelationKind]relationTable{
	domain.KindFavorite:     {model: &domain.Favorite{}, table: "favorites", targetCol: "recipe_id"},
	domain.KindShoppingCart: {model: &domain.ShoppingCartEntry{}, table: "shopping_cart", targetCol: "recipe_id"},
	domain.KindFollow:       {model: &domain.Follow{}, table: "follows", targetCol: "author_id"},
}

// RelationRepository хранит избранное, корзину и подписки.
// Уникальность пары (user, target) обеспечивается уникальным индексом.
type RelationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{db: db}
}

func lookupTable(kind domain.RelationKind) (relationTable, error) {
	t, ok := relationTables[kind]
	if !ok {
		return relationTable{}, fmt.Errorf("unknown relation kind %q", kind)
	}
	return t, nil
}

// Insert создаёт связь одним INSERT. Дубликат -> domain.ErrAlreadyExists.
func (r *RelationRepository) Insert(ctx context.Context, kind domain.RelationKind, userID, targetID int64) (*domain.Edge, error) {
	edge := &domain.Edge{Kind: kind, UserID: userID, TargetID: targetID}
	db := r.db.WithContext(ctx)

	switch kind {
	case domain.KindFavorite:
		row := domain.Favorite{UserID: userID, RecipeID: targetID}
		if err := db.Omit("User", "Recipe").Create(&row).Error; err != nil {
			return nil, mapError(err)
		}
		edge.ID, edge.CreatedAt = row.ID, row.CreatedAt
	case domain.KindShoppingCart:
		row := domain.ShoppingCartEntry{UserID: userID, RecipeID: targetID}
		if err := db.Omit("User", "Recipe").Create(&row).Error; err != nil {
			return nil, mapError(err)
		}
		edge.ID, edge.CreatedAt = row.ID, row.CreatedAt
	case domain.KindFollow:
		row := domain.Follow{UserID: userID, AuthorID: targetID}
		if err := db.Omit("User", "Author").Create(&row).Error; err != nil {
			return nil, mapError(err)
		}
		edge.ID, edge.CreatedAt = row.ID, row.CreatedAt
	default:
		return nil, fmt.Errorf("unknown relation kind %q", kind)
	}

	return edge, nil
}

// Delete удаляет связь одним DELETE. Если строки не было -> domain.ErrNotFound.
func (r *RelationRepository) Delete(ctx context.Context, kind domain.RelationKind, userID, targetID int64) error {
	t, err := lookupTable(kind)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND "+t.targetCol+" = ?", userID, targetID).
		Delete(t.model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RelationRepository) Exists(ctx context.Context, kind domain.RelationKind, userID, targetID int64) (bool, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).Table(t.table).
		Where("user_id = ? AND "+t.targetCol+" = ?", userID, targetID).
		Count(&count).Error
	return count > 0, err
}

// FilterTargets возвращает подмножество targetIDs, связанных с userID, за один запрос.
func (r *RelationRepository) FilterTargets(ctx context.Context, kind domain.RelationKind, userID int64, targetIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return out, nil
	}
	t, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}

	var ids []int64
	err = r.db.WithContext(ctx).Table(t.table).
		Where("user_id = ? AND "+t.targetCol+" IN ?", userID, targetIDs).
		Pluck(t.targetCol, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// TargetIDs возвращает все цели пользователя, последние добавленные сверху.
func (r *RelationRepository) TargetIDs(ctx context.Context, kind domain.RelationKind, userID int64) ([]int64, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}

	ids := []int64{}
	err = r.db.WithContext(ctx).Table(t.table).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Pluck(t.targetCol, &ids).Error
	return ids, err
}
