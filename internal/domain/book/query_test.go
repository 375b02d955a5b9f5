package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	t1 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestTitleLike(t *testing.T) {
	q := NewQuery().TitleLike("Lord")

	title, ok := q.Title()
	assert.True(t, ok)
	assert.Equal(t, "Lord", title)
	assert.True(t, q.MatchesTitle("The Lord of the Rings"))
	assert.True(t, q.MatchesTitle("LORDS"))
	assert.False(t, q.MatchesTitle("Dune"))
}

func TestTitleLike_EmptyMatchesAll(t *testing.T) {
	q := NewQuery().TitleLike("")

	_, ok := q.Title()
	assert.False(t, ok)
	assert.True(t, q.MatchesTitle("anything"))
}

func TestQuery_CopyOnWrite(t *testing.T) {
	base := NewQuery().Popular(AnyTime())
	a := base.HighestRated(AnyTime())
	b := base.MinReviews(3)

	assert.Equal(t, []SortKey{SortReviewsCount}, base.OrderBy())
	_, hasMin := base.ReviewsThreshold()
	assert.False(t, hasMin)

	assert.Equal(t, []SortKey{SortAvgRating, SortReviewsCount}, a.OrderBy())
	n, ok := b.ReviewsThreshold()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestQuery_OrderByReturnsCopy(t *testing.T) {
	q := NewQuery().Popular(AnyTime())
	keys := q.OrderBy()
	keys[0] = SortAvgRating

	assert.Equal(t, []SortKey{SortReviewsCount}, q.OrderBy())
}

func TestQuery_OrderingLastAppliedIsPrimary(t *testing.T) {
	q := NewQuery().Popular(AnyTime()).HighestRated(AnyTime())
	assert.Equal(t, []SortKey{SortAvgRating, SortReviewsCount}, q.OrderBy())

	// 重复应用同一个键会把它移到最前
	q = q.Popular(AnyTime())
	assert.Equal(t, []SortKey{SortReviewsCount, SortAvgRating}, q.OrderBy())
}

func TestWithReviewsCount_RecordsRange(t *testing.T) {
	q := NewQuery().WithReviewsCount(Between(t0, t1))

	r, ok := q.ReviewsCountRange()
	require.True(t, ok)
	assert.True(t, r.Equal(Between(t0, t1)))
	assert.Empty(t, q.OrderBy())

	_, ok = q.AvgRatingRange()
	assert.False(t, ok)
}

func TestQuery_InvalidRangeIsSticky(t *testing.T) {
	q := NewQuery().Popular(Between(t1, t0)).TitleLike("x").HighestRated(AnyTime())

	assert.ErrorIs(t, q.Err(), ErrInvalidDateRange)
	_, hasTitle := q.Title()
	assert.False(t, hasTitle)
}

func TestMinReviews_RequiresReviewsCount(t *testing.T) {
	assert.ErrorIs(t, NewQuery().MinReviews(2).Err(), ErrMissingReviewsCount)
	assert.ErrorIs(t, NewQuery().HighestRated(AnyTime()).MinReviews(2).Err(), ErrMissingReviewsCount)
	assert.NoError(t, NewQuery().WithReviewsCount(AnyTime()).MinReviews(2).Err())
}

func TestMinReviews_RejectsNegative(t *testing.T) {
	q := NewQuery().Popular(AnyTime()).MinReviews(-1)
	assert.ErrorIs(t, q.Err(), ErrInvalidMinReviews)
}

func TestPassesThreshold(t *testing.T) {
	q := NewQuery().Popular(AnyTime()).MinReviews(2)

	assert.False(t, q.PassesThreshold(&RankedBook{ReviewsCount: intPtr(1)}))
	assert.True(t, q.PassesThreshold(&RankedBook{ReviewsCount: intPtr(2)}))
	assert.False(t, q.PassesThreshold(&RankedBook{}))
	assert.True(t, NewQuery().PassesThreshold(&RankedBook{}))
}

func TestSort_NullsLastAndIDTieBreak(t *testing.T) {
	books := []*RankedBook{
		{Book: Book{ID: 4}, AvgRating: nil, ReviewsCount: intPtr(9)},
		{Book: Book{ID: 3}, AvgRating: floatPtr(4), ReviewsCount: intPtr(1)},
		{Book: Book{ID: 2}, AvgRating: floatPtr(4), ReviewsCount: intPtr(5)},
		{Book: Book{ID: 1}, AvgRating: floatPtr(4), ReviewsCount: intPtr(5)},
		{Book: Book{ID: 5}, AvgRating: floatPtr(4.5), ReviewsCount: intPtr(2)},
	}

	NewQuery().Popular(AnyTime()).HighestRated(AnyTime()).Sort(books)

	got := make([]uint, len(books))
	for i, b := range books {
		got[i] = b.ID
	}
	assert.Equal(t, []uint{5, 1, 2, 3, 4}, got)
}
