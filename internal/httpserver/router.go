package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"prepbuddy/internal/handler"
	"prepbuddy/internal/session"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	sessions *session.Manager,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	categoryHandler *handler.CategoryHandler,
	progressHandler *handler.ProgressHandler,
	settingsHandler *handler.SettingsHandler,
	logger *zap.Logger,
	db *pgxpool.Pool, // nil in demo mode
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			// Demo mode has no durable backend to wait for.
			c.JSON(200, gin.H{"status": "ready", "mode": "demo"})
			return
		}

		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Session-scoped
	auth := r.Group("/")
	auth.Use(SessionMiddleware(sessions))
	{
		auth.POST("/logout", authHandler.Logout)

		auth.GET("/tasks", taskHandler.ListTasks)
		auth.POST("/tasks", taskHandler.CreateTask)
		auth.PATCH("/tasks/:id", taskHandler.UpdateTask)
		auth.DELETE("/tasks/:id", taskHandler.DeleteTask)
		auth.POST("/tasks/:id/toggle", taskHandler.ToggleTask)

		auth.GET("/categories", categoryHandler.ListCategories)
		auth.POST("/categories", categoryHandler.CreateCategory)
		auth.PATCH("/categories/:id", categoryHandler.UpdateCategory)
		auth.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		auth.GET("/progress", progressHandler.GetProgress)
		auth.GET("/stats", progressHandler.GetOverallStats)
		auth.GET("/stats/day/:day", progressHandler.GetDayStats)
		auth.POST("/progress/navigate", progressHandler.NavigateDay)
		auth.POST("/progress/reset", progressHandler.ResetProgress)

		auth.GET("/settings/notifications", settingsHandler.GetSettings)
		auth.PUT("/settings/notifications", settingsHandler.UpdateSettings)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
