package models

import "time"

// ClassTemplate is a recurring class definition. Read-only for this service.
type ClassTemplate struct {
	ID            string  `db:"id" json:"id" validate:"required"`
	Capacity      int     `db:"capacity" json:"capacity" validate:"gt=0"`
	DayOfWeek     string  `db:"day_of_week" json:"dayOfWeek" validate:"required,weekday"`
	Description   string  `db:"description" json:"description"`
	Duration      int     `db:"duration" json:"duration" validate:"gt=0"`
	PricePerClass float64 `db:"price_per_class" json:"pricePerClass" validate:"gte=0"`
	Time          string  `db:"time" json:"time" validate:"required,hhmm"`
	TypeOfClass   string  `db:"type_of_class" json:"typeOfClass" validate:"required"`
}

// ClassInstance is one dated occurrence of a template
type ClassInstance struct {
	ID         string    `db:"id" json:"id" validate:"required"`
	TemplateID string    `db:"template_id" json:"templateId" validate:"required"`
	Date       time.Time `db:"date" json:"date" validate:"required"`
	Teacher    string    `db:"teacher" json:"teacher" validate:"required"`
	Comments   string    `db:"comments" json:"comments"`
}

// CombinedClassInfo is an instance joined with its template. The instance id is
// kept; the template reference is dropped once resolved.
type CombinedClassInfo struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	Teacher       string    `json:"teacher"`
	Comments      string    `json:"comments"`
	Capacity      int       `json:"capacity"`
	DayOfWeek     string    `json:"dayOfWeek"`
	Description   string    `json:"description"`
	Duration      int       `json:"duration"`
	PricePerClass float64   `json:"pricePerClass"`
	Time          string    `json:"time"`
	TypeOfClass   string    `json:"typeOfClass"`
}

// Combine overlays template fields onto the instance
func Combine(instance ClassInstance, template ClassTemplate) CombinedClassInfo {
	return CombinedClassInfo{
		ID:            instance.ID,
		Date:          instance.Date,
		Teacher:       instance.Teacher,
		Comments:      instance.Comments,
		Capacity:      template.Capacity,
		DayOfWeek:     template.DayOfWeek,
		Description:   template.Description,
		Duration:      template.Duration,
		PricePerClass: template.PricePerClass,
		Time:          template.Time,
		TypeOfClass:   template.TypeOfClass,
	}
}
