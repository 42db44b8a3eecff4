package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classbook/internal/app/models/dto"
	"github.com/yigit/classbook/internal/app/services"
	"github.com/yigit/classbook/internal/middleware"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"github.com/yigit/classbook/internal/pkg/metrics"
)

// BookingController handles booking operations
type BookingController struct {
	catalog  services.CatalogService
	bookings services.BookingService
}

// NewBookingController creates a new BookingController
func NewBookingController(catalog services.CatalogService, bookings services.BookingService) *BookingController {
	return &BookingController{
		catalog:  catalog,
		bookings: bookings,
	}
}

// BookClass books a class for the authenticated caller
// @Summary Book a class
// @Description Books the class instance for the caller. A second booking of the same class reports already-booked without writing.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class instance ID"
// @Success 201 {object} dto.APIResponse{data=dto.BookResultResponse} "Class booked"
// @Failure 401 {object} dto.APIResponse{data=dto.BookResultResponse} "Not authenticated"
// @Failure 404 {object} dto.APIResponse{data=dto.BookResultResponse} "Class not found"
// @Failure 409 {object} dto.APIResponse{data=dto.BookResultResponse} "Already booked"
// @Failure 500 {object} dto.APIResponse{data=dto.BookResultResponse} "Booking could not be saved"
// @Failure 503 {object} dto.APIResponse{data=dto.BookResultResponse} "Record store unavailable"
// @Router /classes/{id}/book [post]
func (c *BookingController) BookClass(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	if userID == "" {
		c.respondFailure(ctx, apperrors.ErrUnauthenticated)
		return
	}

	class, err := c.catalog.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondFailure(ctx, err)
		return
	}

	booking, err := c.bookings.Book(ctx.Request.Context(), userID, *class)
	if err != nil {
		c.respondFailure(ctx, err)
		return
	}

	metrics.ObserveBooking(string(services.OutcomeSuccess))
	resp := dto.FromBooking(booking)
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.BookResultResponse{
		Outcome: string(services.OutcomeSuccess),
		Booking: &resp,
	}, "Class booked successfully"))
}

func (c *BookingController) respondFailure(ctx *gin.Context, err error) {
	outcome := services.OutcomeOf(err)
	metrics.ObserveBooking(string(outcome))
	middleware.HandleAPIErrorWithData(ctx, err, dto.BookResultResponse{Outcome: string(outcome)})
}

// ListMyBookings returns the caller's bookings
// @Summary List my bookings
// @Description Lists the caller's bookings, newest class date first, with the class snapshot taken at booking time
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.BookingResponse} "Bookings retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Not authenticated"
// @Failure 503 {object} dto.APIResponse "Record store unavailable"
// @Router /bookings [get]
func (c *BookingController) ListMyBookings(ctx *gin.Context) {
	bookings, err := c.bookings.UserBookings(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, dto.FromBooking(b))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, "Bookings retrieved successfully"))
}
