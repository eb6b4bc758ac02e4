package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/NHTran/salesboard_backend/controllers"
	"github.com/NHTran/salesboard_backend/middleware"
	"github.com/NHTran/salesboard_backend/models"
)

// RegisterAdminRoutes sets up the admin user-management routes
func RegisterAdminRoutes(e *echo.Echo, userController *controllers.UserController) {
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	// User management routes
	admin.GET("/users", userController.GetUsers)
	admin.POST("/users", userController.CreateUser)
	admin.PUT("/users/:id", userController.UpdateUser)
	admin.DELETE("/users/:id", userController.DeleteUser)
	admin.POST("/users/:id/avatar", userController.UploadAvatar)
	admin.POST("/users/:id/password", userController.ResetPassword)

	// Cache maintenance
	admin.POST("/cache/reset", userController.ResetCache)
}
