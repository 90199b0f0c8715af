package routes

import (
	"net/http"

	"campus-availability-server/internal/config"
	"campus-availability-server/internal/handlers"
	"campus-availability-server/internal/middleware"
	"campus-availability-server/internal/models"
	"campus-availability-server/internal/notify"
	"campus-availability-server/internal/realtime"
	"campus-availability-server/internal/store"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP layer is built from.
type Dependencies struct {
	Store    *store.Store
	Hub      *realtime.Hub
	Notifier *notify.Notifier
	Limiter  *middleware.RateLimiter
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Dependencies, cfg *config.Config) {
	var publisher realtime.Publisher = realtime.NopPublisher{}
	if deps.Hub != nil {
		publisher = deps.Hub
	}

	authHandler := handlers.NewAuthHandler(deps.Store, cfg)
	facultyHandler := handlers.NewFacultyHandler(deps.Store, publisher)
	appointmentHandler := handlers.NewAppointmentHandler(deps.Store, publisher, deps.Notifier)
	statsHandler := handlers.NewStatsHandler(deps.Store)
	exportHandler := handlers.NewExportHandler(deps.Store)
	feedbackHandler := handlers.NewFeedbackHandler(deps.Store)

	loginGuard := func(c *gin.Context) { c.Next() }
	if deps.Limiter != nil {
		loginGuard = middleware.RateLimit(deps.Limiter)
	}

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/login", loginGuard, authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		facultyRoutes := public.Group("/faculty")
		{
			facultyRoutes.GET("", facultyHandler.ListFaculties)
			facultyRoutes.GET("/departments", facultyHandler.Departments)
			facultyRoutes.GET("/:id", facultyHandler.GetFaculty)
			facultyRoutes.GET("/:id/feedback", facultyHandler.FeedbackSummary)
		}

		// Students book and look up without an account
		public.POST("/appointments", appointmentHandler.BookAppointment)
		public.GET("/appointments/lookup", appointmentHandler.LookupAppointments)

		public.GET("/stats", statsHandler.Stats)
		public.GET("/activity", statsHandler.Activity)
		public.POST("/feedback", feedbackHandler.CreateFeedback)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		// Ownership is checked in the handlers; admins pass every check.
		private.PATCH("/faculty/:id/status", facultyHandler.UpdateFacultyStatus)

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.ListAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointment)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
		}

		exportRoutes := private.Group("/export")
		{
			exportRoutes.GET("/faculty.csv", exportHandler.Faculty)
			exportRoutes.GET("/appointments.csv", exportHandler.Appointments)
			exportRoutes.GET("/analytics.csv", exportHandler.Analytics)
		}
	}

	admin := private.Group("/admin")
	admin.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		admin.POST("/faculty/:id/reset-password", authHandler.ResetPassword)
	}

	if deps.Hub != nil {
		router.Any("/realtime/*any", gin.WrapH(deps.Hub.Handler("/realtime")))
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
