package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/classbook/internal/app/models"
)

func ids(records []models.CombinedClassInfo) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func weekday(d time.Weekday) *time.Weekday { return &d }

func TestApply_DayFilter(t *testing.T) {
	records := []models.CombinedClassInfo{combined("w", wednesday, "09:00", 10)}

	got := Apply(records, Filter{Day: weekday(time.Wednesday)})
	assert.Equal(t, []string{"w"}, ids(got))

	for d := time.Sunday; d <= time.Saturday; d++ {
		if d == time.Wednesday {
			continue
		}
		assert.Empty(t, Apply(records, Filter{Day: weekday(d)}), d.String())
	}
}

func TestApply_DayUsesLocation(t *testing.T) {
	// Wednesday 23:30 UTC is already Thursday nine hours east
	late := time.Date(2024, 1, 3, 23, 30, 0, 0, time.UTC)
	records := []models.CombinedClassInfo{combined("x", late, "23:30", 5)}
	east := time.FixedZone("UTC+9", 9*60*60)

	assert.Len(t, Apply(records, Filter{Day: weekday(time.Wednesday)}), 1)
	assert.Empty(t, Apply(records, Filter{Day: weekday(time.Wednesday), Location: east}))
	assert.Len(t, Apply(records, Filter{Day: weekday(time.Thursday), Location: east}), 1)
}

func TestApply_TimeFilterAndComposition(t *testing.T) {
	records := []models.CombinedClassInfo{
		combined("m9", monday, "09:00", 10),
		combined("m18", monday, "18:00", 10),
		combined("t9", tuesday, "09:00", 10),
	}

	nine := &models.TimeOfDay{Hour: 9}
	assert.Equal(t, []string{"m9", "t9"}, ids(Apply(records, Filter{Time: nine})))
	assert.Equal(t, []string{"m9"}, ids(Apply(records, Filter{Time: nine, Day: weekday(time.Monday)})))
	assert.Empty(t, Apply(records, Filter{Time: &models.TimeOfDay{Hour: 9, Minute: 30}}))
}

func TestApply_SortIsStable(t *testing.T) {
	records := []models.CombinedClassInfo{
		combined("a", monday, "09:00", 20),
		combined("b", monday, "10:00", 10),
		combined("c", monday, "11:00", 20),
		combined("d", monday, "12:00", 5),
		combined("e", monday, "13:00", 10),
	}

	asc := Apply(records, Filter{Sort: models.SortAsc})
	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, ids(asc))

	desc := Apply(records, Filter{Sort: models.SortDesc})
	assert.Equal(t, []string{"a", "c", "b", "e", "d"}, ids(desc))

	assert.Equal(t, asc, Apply(asc, Filter{Sort: models.SortAsc}))
}

func TestApply_IsPure(t *testing.T) {
	records := []models.CombinedClassInfo{
		combined("a", monday, "09:00", 30),
		combined("b", tuesday, "09:00", 10),
		combined("c", wednesday, "09:00", 20),
	}
	original := append([]models.CombinedClassInfo(nil), records...)
	f := Filter{Time: &models.TimeOfDay{Hour: 9}, Sort: models.SortAsc}

	first := Apply(records, f)
	second := Apply(records, f)

	assert.Equal(t, first, second)
	assert.Equal(t, original, records)
	assert.Equal(t, []string{"b", "c", "a"}, ids(first))
}

func TestApply_NoFilterKeepsOrder(t *testing.T) {
	records := []models.CombinedClassInfo{
		combined("a", wednesday, "09:00", 30),
		combined("b", monday, "09:00", 10),
	}

	got := Apply(records, Filter{})
	assert.Equal(t, records, got)

	got[0].ID = "changed"
	assert.Equal(t, "a", records[0].ID)
}

func TestApply_Empty(t *testing.T) {
	got := Apply(nil, Filter{Day: weekday(time.Monday), Sort: models.SortDesc})
	require.NotNil(t, got)
	assert.Empty(t, got)
}
