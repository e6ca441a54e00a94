package main

import (
	"log"
	"os"

	"deployment-tracker/internal/api/routes"
	"deployment-tracker/internal/config"
	"deployment-tracker/internal/database"
	"deployment-tracker/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	_ "deployment-tracker/docs" // This is needed for swag
)

//	@title			Deployment Tracker API
//	@version		1.0
//	@description	Backend API for the deployment tracking console: projects with custom fields, spreadsheet import and export, deployments and reference data.

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:8000
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.

func main() {
	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set up logging
	setupLogging(cfg.LogLevel)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, &database.Options{Driver: cfg.DatabaseDriver})
	if err != nil {
		logrus.Fatal("Failed to initialize database:", err)
	}

	if cfg.SeedFile != "" {
		result, err := seed.LoadFile(db, cfg.SeedFile)
		if err != nil {
			logrus.Fatal("Failed to load seed data:", err)
		}
		logrus.WithFields(logrus.Fields{
			"file":        cfg.SeedFile,
			"statuses":    result.Statuses,
			"technicians": result.Technicians,
			"departments": result.Departments,
			"users":       result.Users,
		}).Info("Seed data loaded")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router, err := routes.SetupRoutes(db, cfg)
	if err != nil {
		logrus.Fatal("Failed to set up routes:", err)
	}

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8000"
	}

	logrus.Infof("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatal("Failed to start server:", err)
	}
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}
