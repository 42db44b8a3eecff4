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

// ClassInstanceRepository reads scheduled class occurrences
type ClassInstanceRepository struct {
	db DBTX
}

// NewClassInstanceRepository creates a new class instance repository
func NewClassInstanceRepository(db DBTX) *ClassInstanceRepository {
	return &ClassInstanceRepository{db: db}
}

func (r *ClassInstanceRepository) selectQuery() squirrel.SelectBuilder {
	return squirrel.Select("id", "template_id", "date", "teacher", "comments").
		From("class_instances").
		PlaceholderFormat(squirrel.Dollar)
}

// ScanClassInstance scans and validates one instance row
func ScanClassInstance(row pgx.Row) (*models.ClassInstance, error) {
	var id string
	var templateID, teacher, comments pgtype.Text
	var date pgtype.Timestamptz
	if err := row.Scan(&id, &templateID, &date, &teacher, &comments); err != nil {
		return nil, err
	}

	inst := &models.ClassInstance{
		ID:         id,
		TemplateID: templateID.String,
		Teacher:    teacher.String,
		Comments:   comments.String,
	}
	if date.Valid {
		inst.Date = date.Time
	}
	if err := validation.Struct(inst); err != nil {
		return nil, fmt.Errorf("%w: instance %s: %v", apperrors.ErrInvalidRecord, id, err)
	}
	return inst, nil
}

// ListAll returns every instance in schedule order. Invalid rows are logged and skipped.
func (r *ClassInstanceRepository) ListAll(ctx context.Context) ([]*models.ClassInstance, error) {
	sqlStr, args, err := r.selectQuery().OrderBy("date ASC", "id ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list class instances SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying class instances: %w", err)
	}
	defer rows.Close()

	instances := make([]*models.ClassInstance, 0)
	for rows.Next() {
		inst, err := ScanClassInstance(rows)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidRecord) {
				logger.Warn().Err(err).Msg("Skipping invalid class instance")
				continue
			}
			return nil, fmt.Errorf("error scanning class instance: %w", err)
		}
		instances = append(instances, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating class instances: %w", err)
	}

	return instances, nil
}

// GetByID returns one instance or ErrClassNotFound
func (r *ClassInstanceRepository) GetByID(ctx context.Context, id string) (*models.ClassInstance, error) {
	sqlStr, args, err := r.selectQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get class instance SQL")
		return nil, err
	}

	inst, err := ScanClassInstance(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: instance %s", apperrors.ErrClassNotFound, id)
		}
		if errors.Is(err, apperrors.ErrInvalidRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving class instance: %w", err)
	}
	return inst, nil
}
