package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/db"
)

// Weeks is how many weeks of demo occurrences are generated
const Weeks = 2

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// DefaultTemplates is the demo timetable
var DefaultTemplates = []models.ClassTemplate{
	{ID: "hatha-mon-0900", Capacity: 12, DayOfWeek: "Monday", Description: "Slow paced hatha flow", Duration: 60, PricePerClass: 12, Time: "09:00", TypeOfClass: "Hatha Yoga"},
	{ID: "pilates-wed-1800", Capacity: 10, DayOfWeek: "Wednesday", Description: "Mat pilates for all levels", Duration: 50, PricePerClass: 15, Time: "18:00", TypeOfClass: "Pilates"},
	{ID: "spin-fri-0730", Capacity: 20, DayOfWeek: "Friday", Description: "Early interval ride", Duration: 45, PricePerClass: 10, Time: "07:30", TypeOfClass: "Spin"},
	{ID: "boxing-sat-1000", Capacity: 14, DayOfWeek: "Saturday", Description: "Pad work and conditioning", Duration: 60, PricePerClass: 18, Time: "10:00", TypeOfClass: "Boxing"},
}

var teachers = map[string]string{
	"hatha-mon-0900":   "Ana",
	"pilates-wed-1800": "Ben",
	"spin-fri-0730":    "Cleo",
	"boxing-sat-1000":  "Dev",
}

// Instances returns the occurrences of templates for the given number of weeks
// starting at the week containing now.
func Instances(templates []models.ClassTemplate, now time.Time, loc *time.Location, weeks int) ([]models.ClassInstance, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	var out []models.ClassInstance
	for _, tpl := range templates {
		day, err := models.ParseWeekday(tpl.DayOfWeek)
		if err != nil || day == nil {
			return nil, fmt.Errorf("template %s: bad day %q", tpl.ID, tpl.DayOfWeek)
		}
		at, err := models.ParseTimeOfDay(tpl.Time)
		if err != nil || at == nil {
			return nil, fmt.Errorf("template %s: bad time %q", tpl.ID, tpl.Time)
		}

		offset := (int(*day) - int(now.Weekday()) + 7) % 7
		first := time.Date(now.Year(), now.Month(), now.Day()+offset, at.Hour, at.Minute, 0, 0, loc)
		for w := 0; w < weeks; w++ {
			date := first.AddDate(0, 0, 7*w)
			out = append(out, models.ClassInstance{
				ID:         fmt.Sprintf("%s-%s", tpl.ID, date.Format("20060102")),
				TemplateID: tpl.ID,
				Date:       date,
				Teacher:    teachers[tpl.ID],
			})
		}
	}
	return out, nil
}

// CreateDefaultData inserts the demo templates and their upcoming occurrences.
// Existing rows are left untouched.
func CreateDefaultData(ctx context.Context, database db.Beginner, now time.Time, loc *time.Location, lgr zerolog.Logger) error {
	instances, err := Instances(DefaultTemplates, now, loc, Weeks)
	if err != nil {
		return err
	}

	lgr.Info().Int("templates", len(DefaultTemplates)).Int("instances", len(instances)).Msg("Checking/Creating demo classes...")

	return db.WithTransaction(ctx, database, func(ctx context.Context, tx pgx.Tx) error {
		templates := psql.Insert("class_templates").
			Columns("id", "capacity", "day_of_week", "description", "duration", "price_per_class", "time", "type_of_class").
			Suffix("ON CONFLICT (id) DO NOTHING")
		for _, t := range DefaultTemplates {
			templates = templates.Values(t.ID, t.Capacity, t.DayOfWeek, t.Description, t.Duration, t.PricePerClass, t.Time, t.TypeOfClass)
		}
		if err := exec(ctx, tx, templates); err != nil {
			return fmt.Errorf("failed to seed class templates: %w", err)
		}

		occurrences := psql.Insert("class_instances").
			Columns("id", "template_id", "date", "teacher", "comments").
			Suffix("ON CONFLICT (id) DO NOTHING")
		for _, i := range instances {
			occurrences = occurrences.Values(i.ID, i.TemplateID, i.Date, i.Teacher, i.Comments)
		}
		if err := exec(ctx, tx, occurrences); err != nil {
			return fmt.Errorf("failed to seed class instances: %w", err)
		}
		return nil
	})
}

func exec(ctx context.Context, tx pgx.Tx, q squirrel.InsertBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}
