package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/config"
	"todolist/internal/models"
	"todolist/internal/queue"
)

func TestDecodeRoundTripsPublishedEvent(t *testing.T) {
	ev := queue.NewEvent(models.ActionUpdated, models.Todo{ID: 3, Name: "walk dog"})
	msg, err := queue.Encode(ev)
	require.NoError(t, err)

	got, err := Decode(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, models.Todo{ID: 3, Name: "walk dog"}, got.Todo)
	assert.True(t, ev.OccurredAt.Equal(got.OccurredAt))
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"action":"archived","todo":{"id":1,"name":"x"}}`))
	assert.ErrorContains(t, err, "archived")
}

func TestHandleMessage(t *testing.T) {
	var seen []models.TodoEvent
	handle := func(_ context.Context, ev models.TodoEvent) error {
		seen = append(seen, ev)
		return nil
	}

	require.NoError(t, handleMessage(context.Background(), []byte(`{"id":"e1","action":"deleted","todo":{"id":9}}`), handle))
	require.Len(t, seen, 1)
	assert.Equal(t, int64(9), seen[0].Todo.ID)

	boom := errors.New("boom")
	err := handleMessage(context.Background(), []byte(`{"action":"created","todo":{"id":1}}`),
		func(context.Context, models.TodoEvent) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRunRequiresBrokers(t *testing.T) {
	err := Run(context.Background(), config.Default(), "test", nil)
	assert.Error(t, err)
}
