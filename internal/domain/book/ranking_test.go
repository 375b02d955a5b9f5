package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func TestPopularLastMonth(t *testing.T) {
	q := NewQuery().PopularLastMonth(now)
	require.NoError(t, q.Err())

	want := Between(now.AddDate(0, -1, 0), now)
	countRange, ok := q.ReviewsCountRange()
	require.True(t, ok)
	avgRange, ok := q.AvgRatingRange()
	require.True(t, ok)

	assert.True(t, countRange.Equal(want))
	assert.True(t, avgRange.Equal(want))
	assert.Equal(t, []SortKey{SortAvgRating, SortReviewsCount}, q.OrderBy())

	n, ok := q.ReviewsThreshold()
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name      string
		build     func(Query) Query
		months    int
		min       int
		wantOrder []SortKey
	}{
		{"popular 6 months", func(q Query) Query { return q.PopularLastSixMonths(now) }, 6, 5,
			[]SortKey{SortAvgRating, SortReviewsCount}},
		{"highest rated month", func(q Query) Query { return q.HighestRatedLastMonth(now) }, 1, 2,
			[]SortKey{SortReviewsCount, SortAvgRating}},
		{"highest rated 6 months", func(q Query) Query { return q.HighestRatedLastSixMonths(now) }, 6, 5,
			[]SortKey{SortReviewsCount, SortAvgRating}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.build(NewQuery())
			require.NoError(t, q.Err())

			r, _ := q.ReviewsCountRange()
			assert.True(t, r.Equal(Between(now.AddDate(0, -tt.months, 0), now)))
			assert.Equal(t, tt.wantOrder, q.OrderBy())
			n, _ := q.ReviewsThreshold()
			assert.Equal(t, tt.min, n)
		})
	}
}

func TestApplyPreset_KeepsTitleFilter(t *testing.T) {
	q := NewQuery().TitleLike("go").ApplyPreset(PresetPopularLastMonth, now)

	title, ok := q.Title()
	assert.True(t, ok)
	assert.Equal(t, "go", title)
}

func TestParsePreset(t *testing.T) {
	for _, p := range Presets() {
		got, err := ParsePreset(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.NotEmpty(t, got.Title())
	}

	_, err := ParsePreset("most_hated")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	q := NewQuery().ApplyPreset(Preset("most_hated"), now)
	assert.ErrorIs(t, q.Err(), ErrUnknownPreset)
}
