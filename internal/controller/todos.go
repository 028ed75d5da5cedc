package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"todolist/internal/models"
	"todolist/internal/queue"
	"todolist/internal/repository"
	"todolist/internal/validation"
	"todolist/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

// TodoStore is the persistence the todo handlers need.
type TodoStore interface {
	List(ctx context.Context) ([]models.Todo, error)
	Get(ctx context.Context, id int64) (models.Todo, error)
	Create(ctx context.Context, name string) (models.Todo, error)
	Update(ctx context.Context, id int64, name string) (models.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// ListCache holds the encoded collection between writes.
type ListCache interface {
	GetRaw(ctx context.Context) ([]byte, bool)
	SetRaw(ctx context.Context, b []byte)
	Invalidate(ctx context.Context)
}

// EventPublisher receives an event after every committed write.
type EventPublisher interface {
	Publish(ctx context.Context, ev *models.TodoEvent) error
}

// Todos serves the /api/todo resource.
type Todos struct {
	store  TodoStore
	cache  ListCache
	events EventPublisher
	group  singleflight.Group
}

// NewTodos wires the handlers to their dependencies. cache and events may be disabled (nil) implementations.
func NewTodos(store TodoStore, cache ListCache, events EventPublisher) *Todos {
	if cache == nil {
		cache = noCache{}
	}
	if events == nil {
		events = noEvents{}
	}
	return &Todos{store: store, cache: cache, events: events}
}

type noCache struct{}

func (noCache) GetRaw(context.Context) ([]byte, bool) { return nil, false }
func (noCache) SetRaw(context.Context, []byte)        {}
func (noCache) Invalidate(context.Context)            {}

type noEvents struct{}

func (noEvents) Publish(context.Context, *models.TodoEvent) error { return nil }

// List returns every todo as a JSON array (cache-first as raw bytes).
func (h *Todos) List(c *gin.Context) {
	ctx := c.Request.Context()
	if b, ok := h.cache.GetRaw(ctx); ok {
		c.Data(http.StatusOK, "application/json", b)
		return
	}
	v, err, _ := h.group.Do("todos", func() (interface{}, error) {
		todos, err := h.store.List(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return json.Marshal(todos)
	})
	if err != nil {
		logger.Error(ctx, "List todos failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list todos"})
		return
	}
	b := v.([]byte)
	h.cache.SetRaw(ctx, b)
	c.Data(http.StatusOK, "application/json", b)
}

// Get returns one todo by id.
func (h *Todos) Get(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	todo, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Get todo failed", err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// Create inserts a todo from {"name": ...} and returns it with 201.
func (h *Todos) Create(c *gin.Context) {
	ctx := c.Request.Context()
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	in, err := validation.CreateInput(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	todo, err := h.store.Create(ctx, *in.Name)
	if err != nil {
		h.fail(c, "Create todo failed", err)
		return
	}
	h.changed(ctx, models.ActionCreated, todo)
	c.JSON(http.StatusCreated, todo)
}

// Patch applies a partial update. A body without known fields returns the row unchanged.
func (h *Todos) Patch(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := todoID(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	in, err := validation.PatchInput(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if in.Name == nil {
		todo, err := h.store.Get(ctx, id)
		if err != nil {
			h.fail(c, "Get todo failed", err)
			return
		}
		c.JSON(http.StatusOK, todo)
		return
	}
	todo, err := h.store.Update(ctx, id, *in.Name)
	if err != nil {
		h.fail(c, "Update todo failed", err)
		return
	}
	h.changed(ctx, models.ActionUpdated, todo)
	c.JSON(http.StatusOK, todo)
}

// Delete removes a todo and answers 204.
func (h *Todos) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := todoID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		h.fail(c, "Delete todo failed", err)
		return
	}
	h.changed(ctx, models.ActionDeleted, models.Todo{ID: id})
	c.Status(http.StatusNoContent)
}

// changed runs after a committed write. Failures here are logged and never fail the request.
func (h *Todos) changed(ctx context.Context, action string, todo models.Todo) {
	h.cache.Invalidate(ctx)
	if err := h.events.Publish(ctx, queue.NewEvent(action, todo)); err != nil {
		logger.Warn(ctx, "Publish todo event failed", "error", err, "action", action, "id", todo.ID)
	}
}

func (h *Todos) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Todo name already exists"})
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// todoID parses the :id route param. Anything but a positive integer cannot name a row.
func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return 0, false
	}
	return id, true
}
