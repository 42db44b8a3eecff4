package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/app/models/dto"
	"github.com/yigit/classbook/internal/app/services"
	"github.com/yigit/classbook/internal/middleware"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"github.com/yigit/classbook/internal/pkg/helpers"
	"github.com/yigit/classbook/internal/pkg/logger"
	"github.com/yigit/classbook/internal/pkg/metrics"
)

// SessionHeader carries the browsing session key of anonymous callers
const SessionHeader = "X-Session-ID"

// ClassController serves the class catalog
type ClassController struct {
	catalog  services.CatalogService
	bookings services.BookingService
	sessions *services.Sessions
}

// NewClassController creates a new ClassController
func NewClassController(catalog services.CatalogService, bookings services.BookingService, sessions *services.Sessions) *ClassController {
	return &ClassController{
		catalog:  catalog,
		bookings: bookings,
		sessions: sessions,
	}
}

// ListClasses returns the filtered class list of the caller's browsing session
// @Summary List classes
// @Description Joins class instances with their templates, applies the day and time filters and the price sort, and flags classes the caller has booked
// @Tags classes
// @Produce json
// @Param X-Session-ID header string false "Browsing session key for anonymous callers"
// @Param day query string false "Day name, Sunday..Saturday" example(Monday)
// @Param time query string false "Start time HH:MM" example(09:00)
// @Param sort query string false "Price order" Enums(asc, desc, none) default(asc)
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.ClassListResponse} "Classes retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid filter"
// @Failure 503 {object} dto.APIResponse "Record store unavailable"
// @Router /classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	var query dto.ClassListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	selection, err := parseSelection(query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	view, err := c.sessions.
		Get(ctx.GetHeader(SessionHeader), middleware.UserID(ctx)).
		Select(ctx.Request.Context(), selection)
	metrics.ObserveCatalogLoad(string(view.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	start, end := helpers.CalculateSliceIndices(query.Page, query.Size, len(view.Items))
	items := make([]dto.ClassResponse, 0, end-start)
	for _, item := range view.Items[start:end] {
		items = append(items, dto.FromCombinedClass(item.CombinedClassInfo, item.Booked))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ClassListResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(int64(len(view.Items)), query.Page, query.Size),
		Selection:  selectionData(view.Selection),
		Status:     string(view.Status),
		Generation: view.Generation,
	}, "Classes retrieved successfully"))
}

// GetClass returns one combined class
// @Summary Get class details
// @Description Retrieves one class instance merged with its template
// @Tags classes
// @Produce json
// @Param id path string true "Class instance ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassResponse} "Class retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Class not found"
// @Failure 503 {object} dto.APIResponse "Record store unavailable"
// @Router /classes/{id} [get]
func (c *ClassController) GetClass(ctx *gin.Context) {
	class, err := c.catalog.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	booked := false
	if userID := middleware.UserID(ctx); userID != "" {
		set, err := c.bookings.ListBookings(ctx.Request.Context(), userID)
		if err != nil {
			logger.Warn().Err(err).Str("userId", userID).Msg("Could not refresh bookings, using cached set")
			set = c.bookings.BookedSet(userID)
		}
		_, booked = set[class.ID]
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromCombinedClass(*class, booked), "Class retrieved successfully"))
}

func parseSelection(query dto.ClassListQuery) (services.Selection, error) {
	day, err := models.ParseWeekday(query.Day)
	if err != nil {
		return services.Selection{}, apperrors.NewInvalidFilterError(err.Error())
	}
	at, err := models.ParseTimeOfDay(query.Time)
	if err != nil {
		return services.Selection{}, apperrors.NewInvalidFilterError(err.Error())
	}
	order, err := models.ParseSortOrder(query.Sort)
	if err != nil {
		return services.Selection{}, apperrors.NewInvalidFilterError(err.Error())
	}
	return services.Selection{Day: day, Time: at, Sort: order}, nil
}

func selectionData(sel services.Selection) dto.SelectionData {
	data := dto.SelectionData{Sort: string(sel.Sort)}
	if sel.Day != nil {
		data.Day = sel.Day.String()
	}
	if sel.Time != nil {
		data.Time = sel.Time.String()
	}
	return data
}
