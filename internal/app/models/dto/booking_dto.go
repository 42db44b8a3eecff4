package dto

import (
	"time"

	"github.com/yigit/classbook/internal/app/models"
)

// BookingResponse is a stored booking with its class snapshot
type BookingResponse struct {
	ID              string    `json:"id" example:"6:user-1:inst-001"`
	ClassInstanceID string    `json:"classInstanceId" example:"inst-001"`
	ClassName       string    `json:"className" example:"Hatha"`
	Date            time.Time `json:"date" example:"2024-01-01T09:00:00Z"`
	Teacher         string    `json:"teacher" example:"Ana"`
	Time            string    `json:"time" example:"09:00"`
	Duration        int       `json:"duration" example:"60"`
	PricePerClass   float64   `json:"pricePerClass" example:"10"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BookResultResponse reports the outcome of a booking attempt
type BookResultResponse struct {
	Outcome string           `json:"outcome" example:"success" enums:"success,already-booked,not-authenticated,failure"`
	Booking *BookingResponse `json:"booking,omitempty"`
}

// FromBooking converts a booking model to its response form
func FromBooking(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		ClassInstanceID: b.ClassInstanceID,
		ClassName:       b.ClassName,
		Date:            b.Date,
		Teacher:         b.Teacher,
		Time:            b.Time,
		Duration:        b.Duration,
		PricePerClass:   b.PricePerClass,
		CreatedAt:       b.CreatedAt,
	}
}
