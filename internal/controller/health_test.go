package controller_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"todolist/internal/controller"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("down") })
)

func healthEngine(h *controller.Health) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Live)
	r.GET("/ready", h.Ready)
	return r
}

func TestHealth(t *testing.T) {
	r := healthEngine(controller.NewHealth(down, down))

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestReady(t *testing.T) {
	tests := []struct {
		name  string
		db    controller.Pinger
		cache controller.Pinger
		code  int
	}{
		{"all up", up, up, http.StatusOK},
		{"no cache configured", up, nil, http.StatusOK},
		{"database down", down, up, http.StatusServiceUnavailable},
		{"cache down", up, down, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := healthEngine(controller.NewHealth(tt.db, tt.cache))
			assert.Equal(t, tt.code, do(r, http.MethodGet, "/ready", "").Code)
		})
	}
}
