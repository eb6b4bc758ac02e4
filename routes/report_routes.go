package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NHTran/salesboard_backend/controllers"
	"github.com/NHTran/salesboard_backend/middleware"
	"github.com/NHTran/salesboard_backend/models"
	"github.com/NHTran/salesboard_backend/websocket"
)

// RegisterReportRoutes sets up the report, dashboard and websocket routes
func RegisterReportRoutes(e *echo.Echo, ds *controllers.DataSource, recordController *controllers.RecordController, hub *websocket.Hub) {
	dashboardController := controllers.NewDashboardController(ds)

	// Report routes (all authenticated; scoping happens in the controller)
	reports := e.Group("/api/reports")
	reports.Use(middleware.JWTMiddleware())
	reports.GET("", recordController.GetReports)
	reports.POST("", recordController.SaveReport)
	reports.DELETE("/:id", recordController.DeleteReport)
	reports.GET("/export", recordController.ExportCSV)

	// Approval is a manager action
	approvals := reports.Group("")
	approvals.Use(middleware.RequireManager())
	approvals.POST("/:id/approve", recordController.ApproveReport)
	approvals.POST("/:id/reject", recordController.RejectReport)

	// Backup and restore move the whole record set; admin only
	archive := reports.Group("")
	archive.Use(middleware.RequireRole(models.RoleAdmin))
	archive.GET("/backup", recordController.BackupJSON)
	archive.POST("/restore", recordController.RestoreJSON)

	// Dashboard routes
	dashboard := e.Group("/api/dashboard")
	dashboard.Use(middleware.JWTMiddleware())
	dashboard.GET("/summary", dashboardController.GetSummary)
	dashboard.GET("/leaderboard", dashboardController.GetLeaderboard)

	// WebSocket endpoint for live record/roster change events
	ws := e.Group("/api/ws")
	ws.Use(middleware.JWTMiddleware())
	ws.GET("", func(c echo.Context) error {
		userID, err := middleware.ExtractUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid session",
			})
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid session",
			})
		}
		return websocket.HandleWebSocket(c, hub, objID)
	})
}
