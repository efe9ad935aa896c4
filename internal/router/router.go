// Package router assembles the HTTP surface.
package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/handlers"
	"github.com/yukikurage/project-task-api/internal/logging"
	"github.com/yukikurage/project-task-api/internal/metrics"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies are the collaborators built by the process entry point.
type Dependencies struct {
	Config       *config.Config
	DB           *gorm.DB
	SessionStore sessions.Store
	Revocations  auth.RevocationList
	AIService    *services.AIService
}

// New builds the gin engine with every route.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	userRepo := repository.NewUserRepository(deps.DB)
	projectRepo := repository.NewProjectRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		TTL:       cfg.JWTTTL,
		Issuer:    cfg.JWTIssuer,
	})
	provider := auth.NewProvider(userRepo, jwtManager, deps.Revocations)

	aiService := deps.AIService
	if aiService == nil {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	authService := services.NewAuthService(userRepo, provider)
	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, aiService)

	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := gin.New()
	r.Use(
		logging.Middleware(),
		metrics.Middleware(),
		middleware.Negotiate(),
		middleware.ErrorRouter(),
		middleware.CORS(cfg),
		sessions.Sessions(constants.SessionCookieName, deps.SessionStore),
	)
	r.NoRoute(middleware.NotFound)

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	requireAuth := middleware.RequireAuth(provider)
	optionalAuth := middleware.OptionalAuth(provider)
	authLimit := middleware.RateLimit(cfg)

	api := r.Group(constants.APIPathPrefix)
	{
		api.POST("/register", authLimit, authHandler.Register)
		api.POST("/login", authLimit, authHandler.Login)

		api.GET("/profile", requireAuth, authHandler.Profile)
		api.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		api.POST("/logout", requireAuth, authHandler.Logout)

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", optionalAuth, projectHandler.CreateProject)
			projects.GET("/:id", requireAuth, projectHandler.GetProject)
			projects.GET("/:id/detail", requireAuth, projectHandler.GetProjectDetail)
			projects.GET("/:id/tasks", requireAuth, projectHandler.ListProjectTasks)
			projects.POST("/:id/tasks/generate", requireAuth, projectHandler.GenerateTasks)
			projects.PUT("/:id", requireAuth, projectHandler.UpdateProject)
			projects.PATCH("/:id", requireAuth, projectHandler.UpdateProject)
			projects.DELETE("/:id", requireAuth, projectHandler.DeleteProject)
		}

		tasks := api.Group("/tasks")
		tasks.Use(optionalAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.GET("/:id/detail", taskHandler.GetTaskDetail)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		user := api.Group("/user")
		user.Use(requireAuth)
		{
			user.GET("/projects", projectHandler.ListMyProjects)
			user.GET("/tasks", taskHandler.ListMyTasks)
		}
	}

	return r
}
