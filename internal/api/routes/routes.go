package routes

import (
	"fmt"
	"net/http"

	"deployment-tracker/internal/api/handlers"
	"deployment-tracker/internal/api/middleware"
	"deployment-tracker/internal/auth"
	"deployment-tracker/internal/config"
	"deployment-tracker/internal/logger"
	"deployment-tracker/internal/repository"
	"deployment-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Multipart parts above this size spill to temporary files
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	validator := validator.New()
	store := repository.NewStore(db)

	// Initialize services
	projectService := service.NewProjectService(store.Projects, store.Fields, validator)
	spreadsheetService := service.NewSpreadsheetService(store, validator)
	deploymentService := service.NewDeploymentService(store.Deployments, store.Projects, store.Statuses, store.Technicians, validator)
	referenceService := service.NewReferenceService(store.Statuses, store.Technicians, store.Departments, validator)
	dashboardService := service.NewDashboardService(store.Projects, store.Deployments)
	userService := service.NewUserService(store.Users, store.Technicians, validator)

	authService, err := auth.NewAuthService(auth.NewAuthConfig(cfg), store.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	authHandler := auth.NewAuthHandler(authService)
	authMiddleware := auth.NewAuthMiddleware(authService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	projectHandler := handlers.NewProjectHandler(projectService)
	spreadsheetHandler := handlers.NewSpreadsheetHandler(spreadsheetService, cfg.MaxUploadBytes())
	deploymentHandler := handlers.NewDeploymentHandler(deploymentService)
	referenceHandler := handlers.NewReferenceHandler(referenceService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	userHandler := handlers.NewUserHandler(userService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Auth routes
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
		authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
	}

	// API v1 routes - all endpoints require authentication, writes on
	// projects and reference data and all of account management require
	// the admin role
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	admin := authMiddleware.RequireAdmin()
	{
		v1.GET("/dashboard", dashboardHandler.GetDashboard)

		projects := v1.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", admin, projectHandler.CreateProject)
			projects.POST("/analyze_excel", spreadsheetHandler.AnalyzeExcel)
			projects.POST("/create_with_excel", admin, spreadsheetHandler.CreateWithExcel)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", admin, projectHandler.UpdateProject)
			projects.DELETE("/:id", admin, projectHandler.DeleteProject)
			projects.POST("/:id/add_field", admin, projectHandler.AddField)
			projects.DELETE("/:id/remove_field/:field_id", admin, projectHandler.RemoveField)
			projects.POST("/:id/import_excel", admin, spreadsheetHandler.ImportExcel)
			projects.GET("/:id/export_template", spreadsheetHandler.ExportTemplate)
		}

		deployments := v1.Group("/deployments")
		{
			deployments.GET("", deploymentHandler.ListDeployments)
			deployments.POST("", admin, deploymentHandler.CreateDeployment)
			deployments.GET("/export_excel", deploymentHandler.ExportExcel)
			deployments.GET("/:id", deploymentHandler.GetDeployment)
			deployments.PUT("/:id", deploymentHandler.UpdateDeployment)
			deployments.DELETE("/:id", admin, deploymentHandler.DeleteDeployment)
			deployments.POST("/:id/update_status", deploymentHandler.UpdateStatus)
			deployments.POST("/:id/assign_technician", admin, deploymentHandler.AssignTechnician)
		}

		v1.GET("/statuses", referenceHandler.ListStatuses)
		v1.POST("/statuses", admin, referenceHandler.CreateStatus)
		v1.GET("/technicians", referenceHandler.ListTechnicians)
		v1.POST("/technicians", admin, referenceHandler.CreateTechnician)
		v1.PUT("/technicians/:id", admin, referenceHandler.UpdateTechnician)
		v1.DELETE("/technicians/:id", admin, referenceHandler.DeleteTechnician)
		v1.GET("/departments", referenceHandler.ListDepartments)
		v1.POST("/departments", admin, referenceHandler.CreateDepartment)
		v1.PUT("/departments/:id", admin, referenceHandler.UpdateDepartment)
		v1.DELETE("/departments/:id", admin, referenceHandler.DeleteDepartment)

		users := v1.Group("/users", admin)
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.POST("/:id/reset_password", userHandler.ResetPassword)
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString(logger.RequestIDKey),
		})
	})

	return router, nil
}
