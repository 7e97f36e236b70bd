// Package testdb opens throwaway databases for package tests.
package testdb

import (
	"fmt"
	"path/filepath"
	"testing"

	"foodgram/internal/database"
	"foodgram/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New returns a migrated SQLite database stored in a per-test temp dir.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "foodgram_test.db")
	db, err := database.Connect("file:" + path)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    username,
		LastName:     "Test",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateIngredient(t testing.TB, db *gorm.DB, name, unit string) *domain.Ingredient {
	t.Helper()
	i := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(i).Error)
	return i
}

func CreateTag(t testing.TB, db *gorm.DB, slug string, n int) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: slug, Slug: slug, Color: fmt.Sprintf("#%06X", n)}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// Amount pairs an ingredient with a quantity for CreateRecipe.
type Amount struct {
	IngredientID int64
	Amount       int
}

// CreateRecipe inserts a recipe with associations directly, bypassing
// validation.
func CreateRecipe(t testing.TB, db *gorm.DB, authorID int64, name string, amounts []Amount, tagIDs ...int64) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        name + " text",
		Image:       "/media/recipes/" + name + ".png",
		CookingTime: 10,
	}
	require.NoError(t, db.Omit("Author", "Ingredients", "TagLinks").Create(r).Error)

	for _, a := range amounts {
		require.NoError(t, db.Create(&domain.RecipeIngredient{
			RecipeID: r.ID, IngredientID: a.IngredientID, Amount: a.Amount,
		}).Error)
	}
	for _, id := range tagIDs {
		require.NoError(t, db.Create(&domain.RecipeTag{RecipeID: r.ID, TagID: id}).Error)
	}
	return r
}
