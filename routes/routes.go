package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/devotedabilities/empowered-hoops-portal/config"
	"github.com/devotedabilities/empowered-hoops-portal/email"
	"github.com/devotedabilities/empowered-hoops-portal/gsheets"
	"github.com/devotedabilities/empowered-hoops-portal/handlers"
	"github.com/devotedabilities/empowered-hoops-portal/middlewares"
)

// Register wires all HTTP routes. The sheets client and event store are
// injected so tests can run handlers against fakes.
func Register(e *echo.Echo, cfg *config.Config, sheets gsheets.API, store handlers.EventLog, notifier email.Notifier) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg)
	att := handlers.NewAttendanceHandler(sheets, store)
	trk := handlers.NewTrackerHandler(cfg, sheets, notifier)
	usr := handlers.NewAuthorizedUserHandler(cfg, notifier)

	e.GET("/healthz", handlers.Health)

	// ===== Public Auth =====
	e.POST("/auth/staff/login", auth.StaffLogin)

	// ===== Attendance / tracker endpoints (frontend wire contract) =====
	e.GET("/getAttendanceData", att.GetAttendanceData)
	e.POST("/updateAttendance", att.UpdateAttendance)
	e.POST("/createTermTracker", trk.Create)
	e.GET("/listTermTrackers", trk.List)
	e.POST("/sendWelcomeEmail", usr.SendWelcomeEmail)

	// ===== Admin: authorized users =====
	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	admin := e.Group("/admin", authMW, middlewares.RequireRole("admin"))
	admin.GET("/users", usr.List)
	admin.POST("/users", usr.Create)
	admin.PUT("/users/:id", usr.Update)
	admin.DELETE("/users/:id", usr.Delete)
}
