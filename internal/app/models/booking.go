package models

import (
	"strconv"
	"time"
)

// Booking is one user's seat on one class instance. The class fields are a
// snapshot taken when the booking was made and are never refreshed.
type Booking struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"userId" validate:"required"`
	ClassInstanceID string    `db:"class_instance_id" json:"classInstanceId" validate:"required"`
	ClassName       string    `db:"class_name" json:"className"`
	Date            time.Time `db:"date" json:"date"`
	Teacher         string    `db:"teacher" json:"teacher"`
	Time            string    `db:"time" json:"time"`
	Duration        int       `db:"duration" json:"duration"`
	PricePerClass   float64   `db:"price_per_class" json:"pricePerClass"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// BookingID is the deterministic identity of a (user, instance) pair. The
// user part is length-prefixed so ids containing ':' cannot collide.
func BookingID(userID, classInstanceID string) string {
	return strconv.Itoa(len(userID)) + ":" + userID + ":" + classInstanceID
}

// NewBooking captures the snapshot of a combined record for userID.
func NewBooking(userID string, class CombinedClassInfo) *Booking {
	return &Booking{
		ID:              BookingID(userID, class.ID),
		UserID:          userID,
		ClassInstanceID: class.ID,
		ClassName:       class.TypeOfClass,
		Date:            class.Date,
		Teacher:         class.Teacher,
		Time:            class.Time,
		Duration:        class.Duration,
		PricePerClass:   class.PricePerClass,
	}
}
