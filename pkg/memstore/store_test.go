package memstore_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validations/pkg/memstore"
	"github.com/dmitrymomot/validations/pkg/validations"
)

type user struct {
	validations.Validatable

	ID     string
	Email  string
	Tenant string
}

type device struct {
	ID     uuid.UUID
	Serial string
}

type counter struct {
	ID int
}

func newRepo(t *testing.T) (*memstore.Store, *validations.Repository) {
	t.Helper()
	reg := validations.NewRegistry()
	validations.Define[user](reg).Add(
		validations.Presence("email"),
		validations.UniquenessWithin("email", []string{"tenant"}),
	)
	store := memstore.New()
	v := validations.NewValidator(reg, validations.WithUniquenessChecker(store))
	return store, validations.NewRepository(v, store)
}

func TestStore_Persist(t *testing.T) {
	t.Parallel()

	t.Run("assigns uuid identity", func(t *testing.T) {
		t.Parallel()
		store := memstore.New()
		u := &user{Email: "a@example.com"}
		require.NoError(t, store.Persist(context.Background(), validations.OperationSave, u))

		_, err := uuid.Parse(u.ID)
		require.NoError(t, err)

		found, err := memstore.Find[user](store, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", found.Email)
	})

	t.Run("uuid typed identity", func(t *testing.T) {
		t.Parallel()
		store := memstore.New()
		d := &device{Serial: "X1"}
		require.NoError(t, store.Persist(context.Background(), validations.OperationSave, d))
		assert.NotEqual(t, uuid.Nil, d.ID)
	})

	t.Run("keeps existing identity", func(t *testing.T) {
		t.Parallel()
		store := memstore.New()
		u := &user{ID: "u1", Email: "a@example.com"}
		require.NoError(t, store.Persist(context.Background(), validations.OperationSave, u))
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("stores a copy", func(t *testing.T) {
		t.Parallel()
		store := memstore.New()
		u := &user{ID: "u1", Email: "a@example.com"}
		require.NoError(t, store.Persist(context.Background(), validations.OperationSave, u))
		u.Email = "changed@example.com"

		found, err := memstore.Find[user](store, "u1")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", found.Email)
	})

	t.Run("update of unknown record", func(t *testing.T) {
		t.Parallel()
		store := memstore.New()
		err := store.Persist(context.Background(), validations.OperationUpdate, &user{ID: "missing"})
		assert.ErrorIs(t, err, memstore.ErrNotFound)

		fresh := &user{Email: "a@example.com"}
		err = store.Persist(context.Background(), validations.OperationUpdate, fresh)
		assert.ErrorIs(t, err, memstore.ErrNotFound)
		assert.Empty(t, fresh.ID, "failed update leaves the record untouched")
		assert.Equal(t, 0, store.Len())
	})

	t.Run("rejects bad targets", func(t *testing.T) {
		t.Parallel()
		store := memstore.New()
		ctx := context.Background()
		assert.ErrorIs(t, store.Persist(ctx, validations.OperationSave, user{}), memstore.ErrNotPointer)
		assert.ErrorIs(t, store.Persist(ctx, validations.OperationSave, (*user)(nil)), memstore.ErrNotPointer)
		assert.ErrorIs(t, store.Persist(ctx, validations.OperationSave, &counter{}), memstore.ErrUnsupportedIdentity)
		assert.ErrorIs(t, store.Persist(ctx, validations.OperationSave, &struct{ Name string }{}), memstore.ErrNoIdentity)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, memstore.New().Persist(ctx, validations.OperationSave, &user{}), context.Canceled)
	})
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	u := &user{Email: "a@example.com"}
	require.NoError(t, store.Persist(context.Background(), validations.OperationSave, u))

	store.Delete(u)
	assert.Equal(t, 0, store.Len())
	_, err := memstore.Find[user](store, u.ID)
	assert.ErrorIs(t, err, memstore.ErrNotFound)
}

func TestStore_WithRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, repo := newRepo(t)

	first := &user{Email: "a@example.com", Tenant: "acme"}
	ok, err := repo.Save(ctx, first)
	require.NoError(t, err)
	require.True(t, ok)

	dup := &user{Email: "a@example.com", Tenant: "acme"}
	ok, err = repo.Save(ctx, dup)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"Email is already taken"}, dup.Errors().FullMessages())
	assert.Empty(t, dup.ID)

	other := &user{Email: "a@example.com", Tenant: "globex"}
	ok, err = repo.Save(ctx, other)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Update(ctx, first, map[string]any{"tenant": "acme"})
	require.NoError(t, err)
	assert.True(t, ok, "a record does not conflict with itself")
	assert.Equal(t, 2, store.Len())
}

func TestStore_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memstore.New()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Persist(ctx, validations.OperationSave, &user{Email: "x@example.com"})
			_, _ = store.Exists(ctx, validations.UniquenessQuery{Target: &user{}, Attribute: "email", Value: "x@example.com"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, store.Len())
}
