package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/NHTran/salesboard_backend/config"
	"github.com/NHTran/salesboard_backend/controllers"
	"github.com/NHTran/salesboard_backend/middleware"
	"github.com/NHTran/salesboard_backend/repositories"
	"github.com/NHTran/salesboard_backend/routes"
	"github.com/NHTran/salesboard_backend/utils"
	"github.com/NHTran/salesboard_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Evict expired blacklisted tokens in the background
	go middleware.CleanupBlacklist()

	// Create a new Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  false,
		AllowEval:      false,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Salesboard Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	e.Use(httpsRedirect())

	// Initialize repositories
	userRepo := repositories.NewUserRepository(client)
	recordRepo := repositories.NewRecordRepository(client)

	// Cache-aware read path shared by report and dashboard controllers
	ds := controllers.NewDataSource(userRepo, recordRepo, config.GetRedisClient())

	// Initialize controllers
	recordController := controllers.NewRecordController(recordRepo, ds, wsHub)
	userController := controllers.NewUserController(userRepo, ds, wsHub)

	// Register routes
	routes.RegisterAuthRoutes(e, client)
	routes.RegisterReportRoutes(e, ds, recordController, wsHub)
	routes.RegisterAdminRoutes(e, userController)

	// Ensure uploads directory exists
	if err := utils.InitializeStorage(); err != nil {
		log.Fatalf("failed to initialize upload storage: %v", err)
	}
	e.Static("/uploads", "uploads")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

// httpsRedirect bounces plain-HTTP requests arriving through the reverse
// proxy back to HTTPS
func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
