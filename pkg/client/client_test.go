package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/app"
	"todolist/internal/database/dbtest"
	"todolist/internal/models"
	"todolist/pkg/client"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()
	cfg := dbtest.Config()
	cfg.LibDir = t.TempDir()
	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	srv := httptest.NewServer(a.Handler)
	t.Cleanup(srv.Close)

	c, err := client.New(client.ClientOptions{URL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestClientCRUD(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	todos, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)

	created, err := c.Create(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, models.Todo{ID: 1, Name: "buy milk"}, created)

	_, err = c.Create(ctx, "buy milk")
	assert.True(t, client.IsConflict(err))

	renamed, err := c.Rename(ctx, created.ID, "buy bread")
	require.NoError(t, err)
	assert.Equal(t, "buy bread", renamed.Name)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed, got)

	require.NoError(t, c.Delete(ctx, created.ID))

	_, err = c.Get(ctx, created.ID)
	assert.True(t, client.IsNotFound(err))
	assert.True(t, client.IsNotFound(c.Delete(ctx, created.ID)))
}

func TestAPIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := client.New(client.ClientOptions{URL: srv.URL})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.False(t, client.IsNotFound(err))
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := client.New(client.ClientOptions{URL: "localhost:8080"})
	assert.Error(t, err)
}
