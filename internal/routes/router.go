package routes

import (
	"todolist/internal/controller"
	"todolist/internal/middleware"

	"github.com/gin-gonic/gin"
)

func Router(todos *controller.Todos, pages *controller.Pages, health *controller.Health) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	router.SetHTMLTemplate(pages.Templates())

	// Health for load balancers and K8s probes
	router.GET("/health", health.Live)
	router.GET("/ready", health.Ready)

	// Front end
	router.GET("/", pages.Index)
	router.GET("/lib/*filepath", pages.Lib)
	router.StaticFS("/static", pages.StaticFS())

	api := router.Group("/api/todo")
	{
		api.GET("", todos.List)
		api.POST("", todos.Create)
		api.GET("/:id", todos.Get)
		api.PATCH("/:id", todos.Patch)
		api.DELETE("/:id", todos.Delete)
	}

	return router
}
