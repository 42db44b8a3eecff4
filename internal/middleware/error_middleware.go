package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classbook/internal/app/models/dto"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"github.com/yigit/classbook/internal/pkg/logger"
)

// HandleAPIError maps service errors onto status codes and the error envelope
func HandleAPIError(c *gin.Context, err error) {
	HandleAPIErrorWithData(c, err, nil)
}

// HandleAPIErrorWithData is HandleAPIError with a data payload next to the error
func HandleAPIErrorWithData(c *gin.Context, err error, data interface{}) {
	status, detail := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	resp := dto.NewErrorResponse(detail)
	resp.Data = data
	c.JSON(status, resp)
}

func errorResponse(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError

	switch {
	case errors.Is(err, apperrors.ErrInvalidFilter):
		message := "Invalid filter"
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidFilter, message)
	case errors.Is(err, apperrors.ErrClassNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeClassNotFound, "Class not found")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrAlreadyBooked):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeAlreadyBooked, "You have already booked this class").
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrWriteFailed):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeBookingFailed, "Booking could not be saved")
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeStoreUnavailable, "Class catalog is temporarily unavailable").
			WithSeverity(dto.ErrorSeverityCritical)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
