package validation

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// TimeOfDayPattern is a zero-padded 24h "HH:MM" value
	TimeOfDayPattern = `^([01]\d|2[0-3]):[0-5]\d$`

	// WeekdayNames accepted by the weekday rule, Sunday first
	WeekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

var timeOfDay = regexp.MustCompile(TimeOfDayPattern)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with the record rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return timeOfDay.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for _, name := range WeekdayNames {
				if name == value {
					return true
				}
			}
			return false
		})
		instance = v
	})
	return instance
}

// Struct validates a tagged record
func Struct(s interface{}) error {
	return Validator().Struct(s)
}
