package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/database/dbtest"
	"todolist/internal/models"
	"todolist/internal/repository"
)

func newRepo(t *testing.T) *repository.Todos {
	return repository.NewTodos(dbtest.Open(t))
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.Create(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "buy milk", created.Name)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestListEmptyIsNotNil(t *testing.T) {
	todos, err := newRepo(t).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestListOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	for _, name := range []string{"c", "a", "b"} {
		_, err := repo.Create(ctx, name)
		require.NoError(t, err)
	}

	todos, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Todo{{ID: 1, Name: "c"}, {ID: 2, Name: "a"}, {ID: 3, Name: "b"}}, todos)
}

func TestCreateDuplicateLeavesTableUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	_, err := repo.Create(ctx, "buy milk")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "buy milk")
	require.ErrorIs(t, err, repository.ErrConflict)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetMissing(t *testing.T) {
	_, err := newRepo(t).Get(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	a, err := repo.Create(ctx, "a")
	require.NoError(t, err)
	b, err := repo.Create(ctx, "b")
	require.NoError(t, err)

	t.Run("rename", func(t *testing.T) {
		got, err := repo.Update(ctx, a.ID, "a2")
		require.NoError(t, err)
		assert.Equal(t, models.Todo{ID: a.ID, Name: "a2"}, got)
	})

	t.Run("same name is not a conflict", func(t *testing.T) {
		_, err := repo.Update(ctx, b.ID, "b")
		require.NoError(t, err)
	})

	t.Run("conflict", func(t *testing.T) {
		_, err := repo.Update(ctx, b.ID, "a2")
		require.ErrorIs(t, err, repository.ErrConflict)

		got, err := repo.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "b", got.Name)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.Update(ctx, 99, "x")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	created, err := repo.Create(ctx, "buy milk")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, created.ID), repository.ErrNotFound)
}

func TestIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	first, err := repo.Create(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, first.ID))

	second, err := repo.Create(ctx, "a")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, repository.IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, repository.IsUniqueViolation(&pq.Error{Code: "23502"}))
	assert.True(t, repository.IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: todo.name (2067)")))
	assert.False(t, repository.IsUniqueViolation(errors.New("disk I/O error")))
}
