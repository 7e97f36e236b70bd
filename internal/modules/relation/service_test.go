package relation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
	"foodgram/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testdb.New(t)
	svc := NewService(
		repository.NewRelationRepository(db),
		repository.NewRecipeRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func TestToggle_AddTwiceFailsWithAlreadyExists(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	alice := testdb.CreateUser(t, db, "alice")
	bob := testdb.CreateUser(t, db, "bob")
	recipe := testdb.CreateRecipe(t, db, bob.ID, "soup", nil)

	for _, kind := range []domain.RelationKind{domain.KindFavorite, domain.KindShoppingCart} {
		edge, err := svc.Toggle(ctx, kind, alice.ID, recipe.ID, IntentAdd)
		require.NoError(t, err)
		assert.Equal(t, kind, edge.Kind)
		assert.Equal(t, recipe.ID, edge.TargetID)

		_, err = svc.Toggle(ctx, kind, alice.ID, recipe.ID, IntentAdd)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		ok, err := svc.Exists(ctx, kind, alice.ID, recipe.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, err := svc.Toggle(ctx, domain.KindFollow, alice.ID, bob.ID, IntentAdd)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, domain.KindFollow, alice.ID, bob.ID, IntentAdd)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestToggle_RemoveTwiceFailsWithNotFound(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	alice := testdb.CreateUser(t, db, "alice")
	recipe := testdb.CreateRecipe(t, db, alice.ID, "soup", nil)

	_, err := svc.Toggle(ctx, domain.KindFavorite, alice.ID, recipe.ID, IntentAdd)
	require.NoError(t, err)

	edge, err := svc.Toggle(ctx, domain.KindFavorite, alice.ID, recipe.ID, IntentRemove)
	require.NoError(t, err)
	assert.Nil(t, edge)

	_, err = svc.Toggle(ctx, domain.KindFavorite, alice.ID, recipe.ID, IntentRemove)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := svc.Exists(ctx, domain.KindFavorite, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToggle_SelfFollowIsInvalidOperation(t *testing.T) {
	svc, db := newService(t)
	alice := testdb.CreateUser(t, db, "alice")

	_, err := svc.Toggle(context.Background(), domain.KindFollow, alice.ID, alice.ID, IntentAdd)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	var count int64
	require.NoError(t, db.Model(&domain.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestToggle_SelfFollowCheckedBeforeExistence(t *testing.T) {
	svc, _ := newService(t)

	// user 42 does not exist, the self check still wins
	_, err := svc.Toggle(context.Background(), domain.KindFollow, 42, 42, IntentAdd)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestToggle_MissingTarget(t *testing.T) {
	svc, db := newService(t)
	alice := testdb.CreateUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.Toggle(ctx, domain.KindFavorite, alice.ID, 9999, IntentAdd)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Toggle(ctx, domain.KindFollow, alice.ID, 9999, IntentAdd)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggle_UnknownKindAndIntent(t *testing.T) {
	svc, db := newService(t)
	alice := testdb.CreateUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.Toggle(ctx, domain.RelationKind("like"), alice.ID, 1, IntentAdd)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = svc.Toggle(ctx, domain.KindFavorite, alice.ID, 1, Intent("flip"))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestToggle_AnonymousActor(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Toggle(context.Background(), domain.KindFavorite, 0, 1, IntentAdd)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestToggle_ConcurrentAddsCreateOneRow(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	alice := testdb.CreateUser(t, db, "alice")
	recipe := testdb.CreateRecipe(t, db, alice.ID, "soup", nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Toggle(ctx, domain.KindFavorite, alice.ID, recipe.ID, IntentAdd)
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyExists):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)

	var count int64
	require.NoError(t, db.Model(&domain.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReadHelpers_Anonymous(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	ok, err := svc.Exists(ctx, domain.KindFavorite, 0, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	set, err := svc.FilterTargets(ctx, domain.KindFavorite, 0, []int64{1, 2})
	require.NoError(t, err)
	assert.Empty(t, set)

	ids, err := svc.TargetIDs(ctx, domain.KindFollow, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

type mockEdgeStore struct {
	mock.Mock
}

func (m *mockEdgeStore) Insert(ctx context.Context, kind domain.RelationKind, userID, targetID int64) (*domain.Edge, error) {
	args := m.Called(ctx, kind, userID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Edge), args.Error(1)
}

func (m *mockEdgeStore) Delete(ctx context.Context, kind domain.RelationKind, userID, targetID int64) error {
	return m.Called(ctx, kind, userID, targetID).Error(0)
}

func (m *mockEdgeStore) Exists(ctx context.Context, kind domain.RelationKind, userID, targetID int64) (bool, error) {
	args := m.Called(ctx, kind, userID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEdgeStore) FilterTargets(ctx context.Context, kind domain.RelationKind, userID int64, targetIDs []int64) (map[int64]bool, error) {
	args := m.Called(ctx, kind, userID, targetIDs)
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *mockEdgeStore) TargetIDs(ctx context.Context, kind domain.RelationKind, userID int64) ([]int64, error) {
	args := m.Called(ctx, kind, userID)
	return args.Get(0).([]int64), args.Error(1)
}

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestToggle_AddDoesSingleInsertWithoutPrecheck(t *testing.T) {
	edges := new(mockEdgeStore)
	recipes := new(mockLookup)
	users := new(mockLookup)

	recipes.On("Exists", mock.Anything, int64(7)).Return(true, nil)
	edges.On("Insert", mock.Anything, domain.KindShoppingCart, int64(1), int64(7)).
		Return(&domain.Edge{ID: 3, Kind: domain.KindShoppingCart, UserID: 1, TargetID: 7}, nil).Once()

	svc := NewService(edges, recipes, users)
	edge, err := svc.Toggle(context.Background(), domain.KindShoppingCart, 1, 7, IntentAdd)
	require.NoError(t, err)
	assert.Equal(t, int64(3), edge.ID)

	edges.AssertExpectations(t)
	edges.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestToggle_StoreErrorPropagates(t *testing.T) {
	edges := new(mockEdgeStore)
	recipes := new(mockLookup)
	users := new(mockLookup)

	boom := errors.New("connection reset")
	edges.On("Delete", mock.Anything, domain.KindFavorite, int64(1), int64(7)).Return(boom)

	svc := NewService(edges, recipes, users)
	_, err := svc.Toggle(context.Background(), domain.KindFavorite, 1, 7, IntentRemove)
	assert.ErrorIs(t, err, boom)
	recipes.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}
