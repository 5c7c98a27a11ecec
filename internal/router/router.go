package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/smartsprint-dev/smartsprint/internal/handlers"
	"github.com/smartsprint-dev/smartsprint/internal/middleware"
	"github.com/smartsprint-dev/smartsprint/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
			auth.POST("/register", handlers.Register)
			auth.GET("/profile", middleware.AuthMiddleware(), handlers.Profile)
			auth.POST("/change-password", middleware.AuthMiddleware(), handlers.ChangePassword)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.GET("", handlers.ListUsers)
			users.GET("/:id", handlers.GetUser)
			users.POST("", handlers.CreateUser)
			users.PUT("/:id", handlers.UpdateUser)
			users.DELETE("/:id", handlers.DeleteUser)
			users.GET("/role/:role", handlers.ListUsersByRole)
			users.GET("/team/:team", handlers.ListUsersByTeam)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.GET("", handlers.ListProjects)
			projects.GET("/:id", handlers.GetProject)
			projects.POST("", handlers.CreateProject)
			projects.PUT("/:id", handlers.UpdateProject)
			projects.DELETE("/:id", handlers.DeleteProject)
			projects.GET("/status/:status", handlers.ListProjectsByStatus)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.GET("", handlers.ListTasks)
			tasks.GET("/:id", handlers.GetTask)
			tasks.POST("", handlers.CreateTask)
			tasks.PUT("/:id", handlers.UpdateTask)
			tasks.DELETE("/:id", handlers.DeleteTask)
			tasks.GET("/project/:id", handlers.ListTasksByProject)
			tasks.GET("/user/:id", handlers.ListTasksByUser)
			tasks.GET("/status/:status", handlers.ListTasksByStatus)
			tasks.POST("/:id/log-time", handlers.LogTaskTime)
		}

		comments := api.Group("/comments", middleware.AuthMiddleware())
		{
			comments.GET("/task/:id", handlers.ListCommentsByTask)
			comments.POST("/task/:id", handlers.CreateComment)
			comments.PUT("/:id", handlers.UpdateComment)
			comments.DELETE("/:id", handlers.DeleteComment)
		}

		performance := api.Group("/performance", middleware.AuthMiddleware())
		{
			performance.GET("/user/:id/logs", handlers.GetUserPerformanceLogs)
			performance.GET("/task/:id/logs", handlers.GetTaskPerformanceLogs)
			performance.GET("/project/:id/logs", handlers.GetProjectPerformanceLogs)
			performance.GET("/user/:id/analytics", handlers.GetUserPerformanceAnalytics)
			performance.GET("/team/:team/analytics", handlers.GetTeamPerformanceAnalytics)
			performance.GET("/ai/recommendations", handlers.GetAiTaskRecommendations)
		}
	}

	return r
}
