package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/classbook/internal/pkg/validation"
)

// SortOrder is the price ordering applied to a class list
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "asc", "desc" and "none" (or blank) case-insensitively.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	}
	return SortNone, fmt.Errorf("unknown sort order %q", s)
}

// Weekdays lists day names in Sunday=0..Saturday=6 order, matching time.Weekday.
var Weekdays = validation.WeekdayNames

// ParseWeekday resolves a day name. A blank name means no day filter and returns nil.
func ParseWeekday(s string) (*time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for i, name := range Weekdays {
		if strings.EqualFold(name, s) {
			d := time.Weekday(i)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("unknown day %q", s)
}

// TimeOfDay is an hour and minute on a 24h clock
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String renders the zero-padded "HH:MM" form stored on templates.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses "H:MM" or "HH:MM". A blank value returns nil.
func ParseTimeOfDay(s string) (*TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return nil, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}
	return &TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}
