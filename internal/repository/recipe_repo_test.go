package repository

import (
	"context"
	"sort"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredientSet(r *domain.Recipe) map[int64]int {
	out := map[int64]int{}
	for _, ri := range r.Ingredients {
		out[ri.IngredientID] = ri.Amount
	}
	return out
}

func tagIDs(r *domain.Recipe) []int64 {
	ids := []int64{}
	for _, t := range r.Tags() {
		ids = append(ids, t.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestRecipeRepository_SaveCreateAndReplace(t *testing.T) {
	db := testdb.New(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := testdb.CreateUser(t, db, "chef")
	egg := testdb.CreateIngredient(t, db, "egg", "pcs")
	milk := testdb.CreateIngredient(t, db, "milk", "ml")
	flour := testdb.CreateIngredient(t, db, "flour", "g")
	breakfast := testdb.CreateTag(t, db, "breakfast", 1)
	dinner := testdb.CreateTag(t, db, "dinner", 2)

	recipe := &domain.Recipe{AuthorID: author.ID, Name: "Pancakes", Text: "mix", Image: "/m/p.png", CookingTime: 20}
	err := repo.Save(ctx, recipe, Composition{
		Ingredients: []domain.RecipeIngredient{{IngredientID: egg.ID, Amount: 2}, {IngredientID: milk.ID, Amount: 200}},
		TagIDs:      []int64{breakfast.ID},
	})
	require.NoError(t, err)
	require.NotZero(t, recipe.ID)

	got, err := repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{egg.ID: 2, milk.ID: 200}, ingredientSet(got))
	assert.Equal(t, []int64{breakfast.ID}, tagIDs(got))
	require.NotNil(t, got.Author)
	assert.Equal(t, "chef", got.Author.Username)

	recipe.Name = "Crepes"
	err = repo.Save(ctx, recipe, Composition{
		Ingredients: []domain.RecipeIngredient{{IngredientID: flour.ID, Amount: 100}},
		TagIDs:      []int64{dinner.ID},
	})
	require.NoError(t, err)

	got, err = repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Crepes", got.Name)
	assert.Equal(t, map[int64]int{flour.ID: 100}, ingredientSet(got))
	assert.Equal(t, []int64{dinner.ID}, tagIDs(got))

	var links int64
	require.NoError(t, db.Model(&domain.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&links).Error)
	assert.Equal(t, int64(1), links)
}

func TestRecipeRepository_SaveRollsBackOnMissingTag(t *testing.T) {
	db := testdb.New(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := testdb.CreateUser(t, db, "chef")
	egg := testdb.CreateIngredient(t, db, "egg", "pcs")
	milk := testdb.CreateIngredient(t, db, "milk", "ml")
	tag := testdb.CreateTag(t, db, "breakfast", 1)
	recipe := testdb.CreateRecipe(t, db, author.ID, "omelette", []testdb.Amount{{IngredientID: egg.ID, Amount: 3}}, tag.ID)

	recipe.Name = "changed"
	err := repo.Save(ctx, recipe, Composition{
		Ingredients: []domain.RecipeIngredient{{IngredientID: milk.ID, Amount: 1}},
		TagIDs:      []int64{9999},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "omelette", got.Name)
	assert.Equal(t, map[int64]int{egg.ID: 3}, ingredientSet(got))
	assert.Equal(t, []int64{tag.ID}, tagIDs(got))
}

func TestRecipeRepository_SaveRejectsZeroAmountAtStoreLevel(t *testing.T) {
	db := testdb.New(t)
	repo := NewRecipeRepository(db)

	author := testdb.CreateUser(t, db, "chef")
	egg := testdb.CreateIngredient(t, db, "egg", "pcs")

	recipe := &domain.Recipe{AuthorID: author.ID, Name: "x", Text: "x", Image: "x", CookingTime: 1}
	err := repo.Save(context.Background(), recipe, Composition{
		Ingredients: []domain.RecipeIngredient{{IngredientID: egg.ID, Amount: 0}},
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeRepository_List(t *testing.T) {
	db := testdb.New(t)
	repo := NewRecipeRepository(db)
	rel := NewRelationRepository(db)
	ctx := context.Background()

	alice := testdb.CreateUser(t, db, "alice")
	bob := testdb.CreateUser(t, db, "bob")
	breakfast := testdb.CreateTag(t, db, "breakfast", 1)
	lunch := testdb.CreateTag(t, db, "lunch", 2)
	dinner := testdb.CreateTag(t, db, "dinner", 3)

	r1 := testdb.CreateRecipe(t, db, alice.ID, "r1", nil, breakfast.ID)
	r2 := testdb.CreateRecipe(t, db, alice.ID, "r2", nil, lunch.ID, breakfast.ID)
	r3 := testdb.CreateRecipe(t, db, bob.ID, "r3", nil, dinner.ID)

	names := func(rs []domain.Recipe) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.Name)
		}
		return out
	}

	all, err := repo.List(ctx, RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r2", "r1"}, names(all))

	byAuthor, err := repo.List(ctx, RecipeFilter{AuthorID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r1"}, names(byAuthor))

	byTags, err := repo.List(ctx, RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r2", "r1"}, names(byTags))

	byLunch, err := repo.List(ctx, RecipeFilter{TagSlugs: []string{"lunch"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, names(byLunch))

	_, err = rel.Insert(ctx, domain.KindFavorite, bob.ID, r1.ID)
	require.NoError(t, err)
	_, err = rel.Insert(ctx, domain.KindShoppingCart, bob.ID, r2.ID)
	require.NoError(t, err)

	fav, err := repo.List(ctx, RecipeFilter{FavoritedBy: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, names(fav))

	cart, err := repo.List(ctx, RecipeFilter{InCartOf: bob.ID, AuthorID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, names(cart))

	counts, err := repo.CountByAuthors(ctx, []int64{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{alice.ID: 2, bob.ID: 1}, counts)

	limited, err := repo.ListByAuthor(ctx, alice.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, names(limited))

	_ = r3
}

func TestRecipeRepository_DeleteCascades(t *testing.T) {
	db := testdb.New(t)
	repo := NewRecipeRepository(db)
	rel := NewRelationRepository(db)
	ctx := context.Background()

	author := testdb.CreateUser(t, db, "chef")
	egg := testdb.CreateIngredient(t, db, "egg", "pcs")
	recipe := testdb.CreateRecipe(t, db, author.ID, "omelette", []testdb.Amount{{IngredientID: egg.ID, Amount: 3}})
	_, err := rel.Insert(ctx, domain.KindFavorite, author.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, recipe.ID))
	assert.ErrorIs(t, repo.Delete(ctx, recipe.ID), domain.ErrNotFound)

	var links, favs int64
	require.NoError(t, db.Model(&domain.RecipeIngredient{}).Count(&links).Error)
	require.NoError(t, db.Model(&domain.Favorite{}).Count(&favs).Error)
	assert.Zero(t, links)
	assert.Zero(t, favs)
}
