package calendar

import (
	"testing"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestDateKey_LocalDate(t *testing.T) {
	// 23:30 local on March 5 stays March 5, whatever the UTC date is.
	late := time.Date(2026, 3, 5, 23, 30, 0, 0, time.Local)
	require.Equal(t, "2026-03-05", DateKey(late))

	early := time.Date(2026, 3, 5, 0, 0, 1, 0, time.Local)
	require.Equal(t, "2026-03-05", DateKey(early))
}

func TestDateKeyOf_Idempotent(t *testing.T) {
	inputs := []string{
		"2026-03-05",
		"2026-03-05T14:30:00",
		time.Date(2026, 3, 5, 14, 30, 0, 0, time.Local).Format(time.RFC3339),
	}
	for _, raw := range inputs {
		key, ok := DateKeyOf(raw)
		require.True(t, ok, "input %q", raw)
		require.Equal(t, "2026-03-05", key)

		// Normalizing a key yields the key itself.
		again, ok := DateKeyOf(key)
		require.True(t, ok)
		require.Equal(t, key, again)
	}
}

func TestDateKeyOf_Invalid(t *testing.T) {
	for _, raw := range []string{"", "not-a-date", "2026-13-40", "05/03/2026"} {
		_, ok := DateKeyOf(raw)
		require.False(t, ok, "input %q", raw)
	}
}

func TestParseDateKey_RoundTrip(t *testing.T) {
	day, ok := ParseDateKey("2026-03-05")
	require.True(t, ok)
	require.Equal(t, "2026-03-05", DateKey(day))

	_, ok = ParseDateKey("garbage")
	require.False(t, ok)
}

func TestFromAssessment_UndatedExcluded(t *testing.T) {
	_, ok := FromAssessment(models.Assessment{ID: 1, Name: "Final"})
	require.False(t, ok)

	due := time.Date(2026, 4, 10, 23, 59, 0, 0, time.Local)
	item, ok := FromAssessment(models.Assessment{ID: 1, Name: "Final", Weight: 50, DueDate: &due})
	require.True(t, ok)
	require.Equal(t, KindAssessment, item.Kind)
	require.Equal(t, "2026-04-10", item.DateKey)
	require.Equal(t, defaultAssessmentColor, item.Color)
}

func TestFromInterview_SentinelWeights(t *testing.T) {
	at := time.Date(2026, 4, 10, 9, 0, 0, 0, time.Local)

	iv, ok := FromInterview(models.Interview{ID: 2, Company: "Acme", Type: models.EventInterview, ScheduledAt: &at})
	require.True(t, ok)
	require.InDelta(t, float64(WeightInterview), iv.Weight, 1e-9)

	oa, ok := FromInterview(models.Interview{ID: 3, Company: "Acme", Type: models.EventOA, ScheduledAt: &at})
	require.True(t, ok)
	require.InDelta(t, float64(WeightOA), oa.Weight, 1e-9)

	_, ok = FromInterview(models.Interview{ID: 4, Company: "Acme"})
	require.False(t, ok)
}

func TestBucket_OneBucketPerItem(t *testing.T) {
	day1 := time.Date(2026, 4, 10, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 4, 11, 9, 0, 0, 0, time.Local)

	items := []Item{}
	if item, ok := FromAssessment(models.Assessment{ID: 1, Name: "Final", Weight: 50, DueDate: &day1}); ok {
		items = append(items, item)
	}
	if item, ok := FromInterview(models.Interview{ID: 2, Company: "Acme", Type: models.EventInterview, ScheduledAt: &day1}); ok {
		items = append(items, item)
	}
	if item, ok := FromTask(models.PersonalTask{ID: 3, Title: "Review notes", DueDate: &day2}); ok {
		items = append(items, item)
	}

	buckets := Bucket(items)

	require.Len(t, buckets, 2)
	require.Len(t, buckets["2026-04-10"], 2)
	require.Len(t, buckets["2026-04-11"], 1)

	total := 0
	for _, day := range buckets {
		total += len(day)
	}
	require.Equal(t, len(items), total)
}

func TestBucket_SortsByWeightDescending(t *testing.T) {
	at := time.Date(2026, 4, 10, 9, 0, 0, 0, time.Local)

	var items []Item
	if item, ok := FromTask(models.PersonalTask{ID: 1, Title: "Errand", DueDate: &at}); ok {
		items = append(items, item)
	}
	if item, ok := FromAssessment(models.Assessment{ID: 2, Name: "Final", Weight: 50, DueDate: &at}); ok {
		items = append(items, item)
	}
	if item, ok := FromInterview(models.Interview{ID: 3, Company: "Acme", Type: models.EventOA, ScheduledAt: &at}); ok {
		items = append(items, item)
	}
	if item, ok := FromInterview(models.Interview{ID: 4, Company: "Initech", Type: models.EventInterview, ScheduledAt: &at}); ok {
		items = append(items, item)
	}

	day := Bucket(items)["2026-04-10"]
	require.Len(t, day, 4)
	require.Equal(t, KindInterview, day[0].Kind)
	require.InDelta(t, float64(WeightInterview), day[0].Weight, 1e-9)
	require.InDelta(t, float64(WeightOA), day[1].Weight, 1e-9)
	require.Equal(t, "Final", day[2].Name)
	require.Equal(t, "Errand", day[3].Name)
}
