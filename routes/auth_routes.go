package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NHTran/salesboard_backend/controllers"
	"github.com/NHTran/salesboard_backend/middleware"
	"github.com/NHTran/salesboard_backend/repositories"
)

// RegisterAuthRoutes sets up authentication routes
func RegisterAuthRoutes(e *echo.Echo, client *mongo.Client) {
	userRepo := repositories.NewUserRepository(client)
	authController := controllers.NewAuthController(client, userRepo)

	auth := e.Group("/api/auth")

	// Public routes (no auth required)
	auth.POST("/login", authController.Login)
	auth.POST("/login/remember", authController.LoginWithRememberToken)

	// Protected routes
	protected := auth.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
	protected.GET("/validate", authController.Validate)
}
