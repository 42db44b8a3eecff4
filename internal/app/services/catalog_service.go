package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"go.opentelemetry.io/otel/attribute"
)

// CatalogService builds the combined class view
type CatalogService interface {
	// Aggregate joins every instance with its template. Instances whose
	// template does not resolve are left out.
	Aggregate(ctx context.Context) ([]models.CombinedClassInfo, error)
	// Get returns one combined class or ErrClassNotFound
	Get(ctx context.Context, instanceID string) (*models.CombinedClassInfo, error)
}

type catalogServiceImpl struct {
	templates TemplateStore
	instances InstanceStore
	logger    zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(templates TemplateStore, instances InstanceStore, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		templates: templates,
		instances: instances,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}
}

func (s *catalogServiceImpl) Aggregate(ctx context.Context) ([]models.CombinedClassInfo, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.Aggregate")
	defer span.End()

	instances, err := s.instances.ListAll(ctx)
	if err != nil {
		err = storeUnavailable("list class instances", err)
		recordSpanError(span, err)
		return nil, err
	}

	seen := make(map[string]struct{}, len(instances))
	ids := make([]string, 0, len(instances))
	for _, inst := range instances {
		if _, ok := seen[inst.TemplateID]; ok {
			continue
		}
		seen[inst.TemplateID] = struct{}{}
		ids = append(ids, inst.TemplateID)
	}

	templates, err := s.templates.GetByIDs(ctx, ids)
	if err != nil {
		err = storeUnavailable("get class templates", err)
		recordSpanError(span, err)
		return nil, err
	}

	combined := make([]models.CombinedClassInfo, 0, len(instances))
	for _, inst := range instances {
		tpl, ok := templates[inst.TemplateID]
		if !ok {
			s.logger.Warn().
				Err(apperrors.ErrUnresolvedReference).
				Str("instanceId", inst.ID).
				Str("templateId", inst.TemplateID).
				Msg("Skipping class instance")
			continue
		}
		combined = append(combined, models.Combine(*inst, tpl))
	}

	span.SetAttributes(
		attribute.Int("catalog.instances", len(instances)),
		attribute.Int("catalog.combined", len(combined)),
	)
	return combined, nil
}

func (s *catalogServiceImpl) Get(ctx context.Context, instanceID string) (*models.CombinedClassInfo, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("class.id", instanceID))

	inst, err := s.instances.GetByID(ctx, instanceID)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrClassNotFound):
		return nil, err
	case errors.Is(err, apperrors.ErrInvalidRecord):
		s.logger.Warn().Err(err).Str("instanceId", instanceID).Msg("Class instance failed validation")
		return nil, fmt.Errorf("%w: %s", apperrors.ErrClassNotFound, instanceID)
	default:
		err = storeUnavailable("get class instance", err)
		recordSpanError(span, err)
		return nil, err
	}

	tpl, err := s.templates.GetByID(ctx, inst.TemplateID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUnresolvedReference, apperrors.ErrInvalidRecord) {
			s.logger.Warn().
				Err(err).
				Str("instanceId", inst.ID).
				Str("templateId", inst.TemplateID).
				Msg("Class instance has no usable template")
			return nil, fmt.Errorf("%w: %s", apperrors.ErrClassNotFound, instanceID)
		}
		err = storeUnavailable("get class template", err)
		recordSpanError(span, err)
		return nil, err
	}

	combined := models.Combine(*inst, *tpl)
	return &combined, nil
}
