//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostgres_ConcurrentFavoriteInsert(t *testing.T) {
	db := testdb.NewPostgres(t)
	repo := NewRelationRepository(db)
	ctx := context.Background()

	alice := testdb.CreateUser(t, db, "alice")
	bob := testdb.CreateUser(t, db, "bob")
	recipe := testdb.CreateRecipe(t, db, bob.ID, "soup", nil)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		already int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, domain.KindFavorite, alice.ID, recipe.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrAlreadyExists):
				already++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, already)

	var count int64
	require.NoError(t, db.Model(&domain.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPostgres_UniqueViolation(t *testing.T) {
	db := testdb.NewPostgres(t)
	testdb.CreateUser(t, db, "alice")

	err := db.Exec(`INSERT INTO users (email, username, first_name, last_name, password_hash, is_staff, created_at)
		VALUES ('alice@example.com', 'alice2', 'a', 'b', 'x', false, now())`).Error
	require.Error(t, err)

	// TranslateError превращает 23505 в gorm.ErrDuplicatedKey
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.True(t, IsUniqueViolation(err))

	repo := NewUserRepository(db)
	err = repo.Create(context.Background(), &domain.User{
		Email: "ALICE@example.com", Username: "alice3", FirstName: "a", LastName: "b", PasswordHash: "x",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestPostgres_RecipeSaveRollback(t *testing.T) {
	db := testdb.NewPostgres(t)
	repo := NewRecipeRepository(db)
	author := testdb.CreateUser(t, db, "chef")
	egg := testdb.CreateIngredient(t, db, "egg", "pcs")

	r := &domain.Recipe{AuthorID: author.ID, Name: "omelette", Text: "fry", Image: "/media/x.png", CookingTime: 5}
	err := repo.Save(context.Background(), r, Composition{
		Ingredients: []domain.RecipeIngredient{{IngredientID: egg.ID, Amount: 2}},
		TagIDs:      []int64{999},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&domain.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}
