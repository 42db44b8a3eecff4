package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"github.com/yigit/classbook/internal/pkg/logger"
)

func hatha() models.ClassTemplate {
	return models.ClassTemplate{
		ID: "1", Capacity: 12, DayOfWeek: "Monday", Description: "Gentle",
		Duration: 60, PricePerClass: 10, Time: "09:00", TypeOfClass: "Hatha",
	}
}

func TestAggregate_JoinsResolvedInstances(t *testing.T) {
	templates := &fakeTemplates{templates: map[string]models.ClassTemplate{"1": hatha()}}
	instances := &fakeInstances{instances: []*models.ClassInstance{
		{ID: "a", TemplateID: "1", Date: monday, Teacher: "Ana", Comments: "mats provided"},
		{ID: "b", TemplateID: "9", Date: tuesday, Teacher: "Bo"},
		{ID: "c", TemplateID: "1", Date: wednesday, Teacher: "Cy"},
	}}
	svc := NewCatalogService(templates, instances, logger.Nop())

	got, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.CombinedClassInfo{
		ID: "a", Date: monday, Teacher: "Ana", Comments: "mats provided",
		Capacity: 12, DayOfWeek: "Monday", Description: "Gentle",
		Duration: 60, PricePerClass: 10, Time: "09:00", TypeOfClass: "Hatha",
	}, got[0])
	assert.Equal(t, "c", got[1].ID)

	// one batched read with distinct ids
	require.Len(t, templates.batches, 1)
	assert.Equal(t, []string{"1", "9"}, templates.batches[0])
}

func TestAggregate_StoreFailures(t *testing.T) {
	boom := errors.New("connection refused")

	svc := NewCatalogService(&fakeTemplates{}, &fakeInstances{err: boom}, logger.Nop())
	_, err := svc.Aggregate(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)

	svc = NewCatalogService(
		&fakeTemplates{err: boom},
		&fakeInstances{instances: []*models.ClassInstance{{ID: "a", TemplateID: "1", Date: monday, Teacher: "Ana"}}},
		logger.Nop(),
	)
	_, err = svc.Aggregate(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestAggregate_Empty(t *testing.T) {
	svc := NewCatalogService(&fakeTemplates{}, &fakeInstances{}, logger.Nop())
	got, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalogGet(t *testing.T) {
	templates := &fakeTemplates{templates: map[string]models.ClassTemplate{"1": hatha()}}
	instances := &fakeInstances{instances: []*models.ClassInstance{
		{ID: "a", TemplateID: "1", Date: monday, Teacher: "Ana"},
		{ID: "b", TemplateID: "9", Date: tuesday, Teacher: "Bo"},
	}}
	svc := NewCatalogService(templates, instances, logger.Nop())

	got, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "Hatha", got.TypeOfClass)

	_, err = svc.Get(context.Background(), "b")
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	_, err = svc.Get(context.Background(), "zz")
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	svc = NewCatalogService(templates, &fakeInstances{err: errors.New("down")}, logger.Nop())
	_, err = svc.Get(context.Background(), "a")
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestMondayScenario(t *testing.T) {
	templates := &fakeTemplates{templates: map[string]models.ClassTemplate{"1": hatha()}}
	instances := &fakeInstances{instances: []*models.ClassInstance{
		{ID: "a", TemplateID: "1", Date: monday, Teacher: "Ana"},
	}}
	svc := NewCatalogService(templates, instances, logger.Nop())

	all, err := svc.Aggregate(context.Background())
	require.NoError(t, err)

	day, err := models.ParseWeekday("Monday")
	require.NoError(t, err)
	got := Apply(all, Filter{Day: day, Sort: models.SortAsc})

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 10.0, got[0].PricePerClass)
	assert.Equal(t, "09:00", got[0].Time)
}
