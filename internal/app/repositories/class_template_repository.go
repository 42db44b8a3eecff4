package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"github.com/yigit/classbook/internal/pkg/logger"
	"github.com/yigit/classbook/internal/pkg/validation"
)

var classTemplateColumns = []string{
	"id", "capacity", "day_of_week", "description", "duration", "price_per_class", "time", "type_of_class",
}

// ClassTemplateRepository reads class templates. Templates are managed elsewhere.
type ClassTemplateRepository struct {
	db DBTX
}

// NewClassTemplateRepository creates a new class template repository
func NewClassTemplateRepository(db DBTX) *ClassTemplateRepository {
	return &ClassTemplateRepository{db: db}
}

func (r *ClassTemplateRepository) selectQuery() squirrel.SelectBuilder {
	return squirrel.Select(classTemplateColumns...).
		From("class_templates").
		PlaceholderFormat(squirrel.Dollar)
}

// ScanClassTemplate scans a row and validates it. Rows with NULL or out of
// range fields return ErrInvalidRecord.
func ScanClassTemplate(row pgx.Row) (*models.ClassTemplate, error) {
	var id string
	var capacity, duration pgtype.Int4
	var day, description, timeOfDay, kind pgtype.Text
	var price pgtype.Float8
	if err := row.Scan(&id, &capacity, &day, &description, &duration, &price, &timeOfDay, &kind); err != nil {
		return nil, err
	}

	if !price.Valid {
		return nil, fmt.Errorf("%w: template %s has no price", apperrors.ErrInvalidRecord, id)
	}

	tpl := &models.ClassTemplate{
		ID:            id,
		Capacity:      int(capacity.Int32),
		DayOfWeek:     day.String,
		Description:   description.String,
		Duration:      int(duration.Int32),
		PricePerClass: price.Float64,
		Time:          timeOfDay.String,
		TypeOfClass:   kind.String,
	}
	if err := validation.Struct(tpl); err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", apperrors.ErrInvalidRecord, id, err)
	}
	return tpl, nil
}

// GetByID returns one template. A missing row is ErrUnresolvedReference.
func (r *ClassTemplateRepository) GetByID(ctx context.Context, id string) (*models.ClassTemplate, error) {
	sqlStr, args, err := r.selectQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get class template SQL")
		return nil, err
	}

	tpl, err := ScanClassTemplate(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: template %s", apperrors.ErrUnresolvedReference, id)
		}
		return nil, fmt.Errorf("error retrieving class template: %w", err)
	}
	return tpl, nil
}

// GetByIDs fetches many templates in one query, keyed by id. Ids with no row
// or an invalid row are absent from the result.
func (r *ClassTemplateRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.ClassTemplate, error) {
	templates := make(map[string]models.ClassTemplate, len(ids))
	if len(ids) == 0 {
		return templates, nil
	}

	sqlStr, args, err := r.selectQuery().Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building multi-get class templates SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying class templates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tpl, err := ScanClassTemplate(rows)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidRecord) {
				logger.Warn().Err(err).Msg("Skipping invalid class template")
				continue
			}
			return nil, fmt.Errorf("error scanning class template: %w", err)
		}
		templates[tpl.ID] = *tpl
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating class templates: %w", err)
	}

	return templates, nil
}
