package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/team-task-board/internal/events"
	"github.com/yukikurage/team-task-board/internal/middleware"
	"github.com/yukikurage/team-task-board/internal/repository"
	"github.com/yukikurage/team-task-board/internal/services"
)

// RegisterRoutes mounts the health check and the /api tree on r.
// A session middleware must already be installed.
func RegisterRoutes(
	r gin.IRouter,
	authService *services.AuthService,
	taskService *services.TaskService,
	deptRepo repository.DepartmentRepository,
	subscriber events.Subscriber,
) {
	authHandler := NewAuthHandler(authService)
	deptHandler := NewDepartmentHandler(deptRepo)
	taskHandler := NewTaskHandler(taskService, subscriber)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Team Task Board API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Department routes (public, used by the signup form)
		api.GET("/departments", deptHandler.ListDepartments)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(), middleware.LoadActor(authService))
		{
			access := middleware.RequireTaskAccess(taskService)

			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/stream", taskHandler.StreamTasks)
			tasks.POST("/reorder", taskHandler.ReorderTasks)
			tasks.GET("/:id", access, taskHandler.GetTask)
			tasks.PATCH("/:id", access, taskHandler.UpdateTask)
			tasks.DELETE("/:id", access, taskHandler.DeleteTask)
			tasks.PUT("/:id/status", access, taskHandler.SetStatus)
			tasks.POST("/:id/share", access, taskHandler.ShareTask)
			tasks.POST("/:id/duplicate", access, taskHandler.DuplicateTask)
		}
	}
}
