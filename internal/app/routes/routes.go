package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classbook/internal/app/controllers"
	"github.com/yigit/classbook/internal/app/models/dto"
	"github.com/yigit/classbook/internal/middleware"
	"github.com/yigit/classbook/internal/pkg/metrics"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	classController *controllers.ClassController,
	bookingController *controllers.BookingController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.OptionalAuth())

	// Browsing works anonymously; a valid token adds booked flags
	classes := v1.Group("/classes")
	{
		classes.GET("", classController.ListClasses)
		classes.GET("/:id", classController.GetClass)
		// Anonymous attempts are answered with the not-authenticated outcome
		classes.POST("/:id/book", bookingController.BookClass)
	}

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.RequireUser())
	{
		authenticated.GET("/bookings", bookingController.ListMyBookings)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
