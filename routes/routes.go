package routes

import (
	"net/http"
	"time"

	"fleetwatch/handlers"
	"fleetwatch/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches every endpoint group to the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAPIRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterAdminRoutes(r, hb)

	// Live dashboard channel.
	r.GET("/ws", hb.ServeWS)
}

// RegisterAPIRoutes registers the terminal-facing and dashboard API.
func RegisterAPIRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		// Telemetry ingest allows anonymous terminals; a logged-in caller
		// identity is attached when present. Terminals report about once a
		// second, so the per-device cap leaves generous headroom.
		api.POST("/data/:deviceID",
			middleware.TelemetryRateLimit(300, 30),
			middleware.AuthMiddleware(hb.UserRepo, true),
			hb.ReceiveData)

		api.GET("/devices", hb.ListDevices)
		api.GET("/devices/:deviceID", hb.GetDevice)
		api.POST("/end-session/:deviceID", hb.EndSession)

		// Grant management requires a logged-in dashboard user.
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(hb.UserRepo, false))
		protected.POST("/subscribe-esp/:espID", hb.SubscribeESP)
		protected.POST("/unsubscribe-esp/:espID", hb.UnsubscribeESP)
	}
}

// RegisterAuthRoutes registers login/logout/user registration.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", hb.Login)
		authGroup.POST("/logout", middleware.AuthMiddleware(hb.UserRepo, false), hb.Logout)
		authGroup.POST("/register",
			middleware.AuthMiddleware(hb.UserRepo, false),
			middleware.RequireAdmin(),
			hb.RegisterUser)
	}
}

// RegisterAdminRoutes registers the administrative CRUD surface.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/admin/api")
	admin.Use(middleware.AuthMiddleware(hb.UserRepo, false), middleware.RequireAdmin())
	{
		admin.POST("/employees", hb.CreateEmployee)
		admin.GET("/employees", hb.ListEmployees)
		admin.PUT("/employees/:id", hb.UpdateEmployee)
		admin.DELETE("/employees/:id", hb.DeleteEmployee)

		admin.POST("/equipment", hb.CreateEquipment)
		admin.GET("/equipment", hb.ListEquipment)
		admin.PUT("/equipment/:id", hb.UpdateEquipment)
		admin.DELETE("/equipment/:id", hb.DeleteEquipment)

		admin.GET("/transactions", hb.ListTransactions)
		admin.GET("/users", hb.ListUsers)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "fleetwatch is running"})
	})
}
