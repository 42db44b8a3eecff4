package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/yigit/classbook/internal/app/models"
)

// Filter selects and orders combined classes. Nil fields do not filter.
type Filter struct {
	Day  *time.Weekday
	Time *models.TimeOfDay
	Sort models.SortOrder
	// Location is where an occurrence's weekday is read. Nil means UTC.
	Location *time.Location
}

// Apply returns the records matching f, ordered by f.Sort. The input is never
// modified and the result is always a fresh slice.
func Apply(records []models.CombinedClassInfo, f Filter) []models.CombinedClassInfo {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}

	var timeText string
	if f.Time != nil {
		timeText = f.Time.String()
	}

	out := make([]models.CombinedClassInfo, 0, len(records))
	for _, r := range records {
		if f.Day != nil && r.Date.In(loc).Weekday() != *f.Day {
			continue
		}
		if f.Time != nil && r.Time != timeText {
			continue
		}
		out = append(out, r)
	}

	switch f.Sort {
	case models.SortAsc:
		slices.SortStableFunc(out, func(a, b models.CombinedClassInfo) int {
			return cmp.Compare(a.PricePerClass, b.PricePerClass)
		})
	case models.SortDesc:
		slices.SortStableFunc(out, func(a, b models.CombinedClassInfo) int {
			return cmp.Compare(b.PricePerClass, a.PricePerClass)
		})
	}
	return out
}
