// Package app builds the server's dependency graph from a Config.
package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"todolist/internal/cache"
	"todolist/internal/config"
	"todolist/internal/controller"
	"todolist/internal/database"
	"todolist/internal/queue"
	"todolist/internal/repository"
	"todolist/internal/routes"
	"todolist/web"
)

// App owns every long-lived handle. Nothing here is global; handlers get what they need through App.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Todos   *repository.Todos
	Cache   *cache.TodoCache
	Events  *queue.Publisher
	Handler http.Handler
}

// New opens the database, ensures the schema and wires the HTTP handler.
// The list cache and change feed are connected only when cfg enables them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.MigrateOrCreateSchema(ctx, db, cfg.DBDriver); err != nil {
		_ = db.Close()
		return nil, err
	}
	todoCache, err := cache.New(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	queue.EnsureTopic(ctx, cfg)
	events := queue.NewPublisher(ctx, cfg)

	a := &App{
		Config: cfg,
		DB:     db,
		Todos:  repository.NewTodos(db),
		Cache:  todoCache,
		Events: events,
	}
	if a.Handler, err = a.handler(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) handler() (http.Handler, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	pages, err := controller.NewPages(tmpl, web.Static(), a.Config.LibDir)
	if err != nil {
		return nil, err
	}
	todos := controller.NewTodos(a.Todos, a.Cache, a.Events)
	health := controller.NewHealth(a.Todos, a.Cache)
	return routes.Router(todos, pages, health), nil
}

// Close releases the change feed writer, the cache and the database pool.
func (a *App) Close() error {
	return errors.Join(a.Events.Close(), a.Cache.Close(), a.DB.Close())
}
