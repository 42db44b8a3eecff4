package dto

import (
	"time"

	"github.com/yigit/classbook/internal/app/models"
)

// ClassListQuery is bound from the GET /classes query string
type ClassListQuery struct {
	Day  string `form:"day" example:"Monday"`
	Time string `form:"time" example:"09:00"`
	Sort string `form:"sort,default=asc" binding:"omitempty,oneof=asc desc none ASC DESC NONE" example:"asc"`
	Page int    `form:"page,default=1" binding:"min=1" example:"1"`
	Size int    `form:"size,default=20" binding:"min=1,max=100" example:"20"`
}

// ClassResponse is one combined class with the caller's booked flag
type ClassResponse struct {
	ID            string    `json:"id" example:"inst-001"`
	Date          time.Time `json:"date" example:"2024-01-01T09:00:00Z"`
	Teacher       string    `json:"teacher" example:"Ana"`
	Comments      string    `json:"comments,omitempty"`
	Capacity      int       `json:"capacity" example:"12"`
	DayOfWeek     string    `json:"dayOfWeek" example:"Monday"`
	Description   string    `json:"description,omitempty"`
	Duration      int       `json:"duration" example:"60"`
	PricePerClass float64   `json:"pricePerClass" example:"10"`
	Time          string    `json:"time" example:"09:00"`
	TypeOfClass   string    `json:"typeOfClass" example:"Hatha"`
	Booked        bool      `json:"booked"`
}

// SelectionData echoes the filters the list was built with
type SelectionData struct {
	Day  string `json:"day,omitempty" example:"Monday"`
	Time string `json:"time,omitempty" example:"09:00"`
	Sort string `json:"sort,omitempty" example:"asc"`
}

// ClassListResponse is a page of the materialized class list
type ClassListResponse struct {
	Items      []ClassResponse `json:"items"`
	Pagination PaginationInfo  `json:"pagination"`
	Selection  SelectionData   `json:"selection"`
	Status     string          `json:"status" example:"ready"`
	Generation uint64          `json:"generation" example:"3"`
}

// FromCombinedClass converts a combined record to its response form
func FromCombinedClass(c models.CombinedClassInfo, booked bool) ClassResponse {
	return ClassResponse{
		ID:            c.ID,
		Date:          c.Date,
		Teacher:       c.Teacher,
		Comments:      c.Comments,
		Capacity:      c.Capacity,
		DayOfWeek:     c.DayOfWeek,
		Description:   c.Description,
		Duration:      c.Duration,
		PricePerClass: c.PricePerClass,
		Time:          c.Time,
		TypeOfClass:   c.TypeOfClass,
		Booked:        booked,
	}
}
