package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

var baseTime = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	books   book.Repository
	reviews book.ReviewRepository
	events  []book.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	dispatcher := book.NewDispatcher(book.ListenerFunc(func(_ context.Context, e book.Event) {
		f.events = append(f.events, e)
	}))
	store := NewStore()
	f.books = NewBookRepository(store, dispatcher)
	f.reviews = NewReviewRepository(store)
	return f
}

func (f *fixture) addBook(t *testing.T, title string) uint {
	t.Helper()
	b, err := book.NewBook(title, "author", "")
	require.NoError(t, err)
	require.NoError(t, f.books.Create(context.Background(), b))
	return b.ID
}

func (f *fixture) addReview(t *testing.T, bookID uint, rating int, at time.Time) {
	t.Helper()
	rv := &book.Review{BookID: bookID, ReviewerID: 1, Rating: rating, CreatedAt: at}
	require.NoError(t, f.reviews.Create(context.Background(), rv))
}

func ids(books []*book.RankedBook) []uint {
	out := make([]uint, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestRank_PopularOrdersByCountDesc(t *testing.T) {
	f := newFixture(t)
	a := f.addBook(t, "A")
	b := f.addBook(t, "B")
	c := f.addBook(t, "C")
	for i, n := range map[uint]int{a: 5, b: 1, c: 3} {
		for j := 0; j < n; j++ {
			f.addReview(t, i, 4, baseTime)
		}
	}

	got, err := f.books.Rank(context.Background(), book.NewQuery().Popular(book.AnyTime()), book.Page{})
	require.NoError(t, err)

	assert.Equal(t, []uint{a, c, b}, ids(got))
	assert.Equal(t, 5, *got[0].ReviewsCount)
	assert.Nil(t, got[0].AvgRating)
}

func TestRank_MinReviewsFiltersDerivedCount(t *testing.T) {
	f := newFixture(t)
	none := f.addBook(t, "none")
	two := f.addBook(t, "two")
	three := f.addBook(t, "three")
	for i := 0; i < 2; i++ {
		f.addReview(t, two, 3, baseTime)
	}
	for i := 0; i < 3; i++ {
		f.addReview(t, three, 3, baseTime)
	}

	q := book.NewQuery().WithReviewsCount(book.AnyTime()).MinReviews(2)
	got, err := f.books.Rank(context.Background(), q, book.Page{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uint{two, three}, ids(got))
	assert.NotContains(t, ids(got), none)
}

func TestRank_AvgRatingNilWithoutMatchingReviews(t *testing.T) {
	f := newFixture(t)
	rated := f.addBook(t, "rated")
	unrated := f.addBook(t, "unrated")
	f.addReview(t, rated, 4, baseTime)
	f.addReview(t, rated, 5, baseTime)
	f.addReview(t, unrated, 1, baseTime.AddDate(0, -3, 0)) // 窗口外

	window := book.Between(baseTime.AddDate(0, -1, 0), baseTime)
	got, err := f.books.Rank(context.Background(), book.NewQuery().HighestRated(window), book.Page{})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, rated, got[0].ID)
	assert.InDelta(t, 4.5, *got[0].AvgRating, 1e-9)
	// NULL排在最后
	assert.Equal(t, unrated, got[1].ID)
	assert.Nil(t, got[1].AvgRating)
}

func TestRank_CountOutsideWindowIsZero(t *testing.T) {
	f := newFixture(t)
	id := f.addBook(t, "old")
	f.addReview(t, id, 5, baseTime.AddDate(-1, 0, 0))

	got, err := f.books.Rank(context.Background(),
		book.NewQuery().Popular(book.Since(baseTime.AddDate(0, -1, 0))), book.Page{})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, 0, *got[0].ReviewsCount)
}

func TestRank_WindowBoundsAreInclusive(t *testing.T) {
	f := newFixture(t)
	id := f.addBook(t, "edge")
	from := baseTime.AddDate(0, -1, 0)
	f.addReview(t, id, 5, from)
	f.addReview(t, id, 5, baseTime)
	f.addReview(t, id, 5, baseTime.Add(time.Second))

	got, err := f.books.Rank(context.Background(),
		book.NewQuery().Popular(book.Between(from, baseTime)), book.Page{})
	require.NoError(t, err)

	assert.Equal(t, 2, *got[0].ReviewsCount)
}

func TestRank_TitleLikeIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	lotr := f.addBook(t, "The Lord of the Rings")
	f.addBook(t, "Dune")
	lords := f.addBook(t, "LORDS of Discipline")

	got, err := f.books.Rank(context.Background(), book.NewQuery().TitleLike("lord"), book.Page{})
	require.NoError(t, err)

	assert.Equal(t, []uint{lotr, lords}, ids(got))
}

func TestRank_PresetTieBreaksByID(t *testing.T) {
	f := newFixture(t)
	a := f.addBook(t, "A")
	b := f.addBook(t, "B")
	c := f.addBook(t, "C")
	at := baseTime.AddDate(0, 0, -3)
	// a、b平均分相同,b书评更多;c只有1条书评被MinReviews(2)过滤
	f.addReview(t, a, 4, at)
	f.addReview(t, a, 4, at)
	f.addReview(t, b, 4, at)
	f.addReview(t, b, 4, at)
	f.addReview(t, b, 4, at)
	f.addReview(t, c, 5, at)

	got, err := f.books.Rank(context.Background(), book.NewQuery().PopularLastMonth(baseTime), book.Page{})
	require.NoError(t, err)

	assert.Equal(t, []uint{b, a}, ids(got))
}

func TestRank_Pagination(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		f.addBook(t, title)
	}
	ctx := context.Background()

	got, err := f.books.Rank(ctx, book.NewQuery(), book.Page{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 4}, ids(got))

	got, err = f.books.Rank(ctx, book.NewQuery(), book.Page{Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRank_NegativePageRejected(t *testing.T) {
	f := newFixture(t)
	f.addBook(t, "a")
	ctx := context.Background()

	_, err := f.books.Rank(ctx, book.NewQuery(), book.Page{Offset: -79, Limit: 10})
	assert.ErrorIs(t, err, book.ErrInvalidPage)

	_, err = f.books.Rank(ctx, book.NewQuery(), book.Page{Limit: -1})
	assert.ErrorIs(t, err, book.ErrInvalidPage)
}

func TestRank_InvalidQuery(t *testing.T) {
	f := newFixture(t)

	_, err := f.books.Rank(context.Background(), book.NewQuery().MinReviews(1), book.Page{})
	assert.ErrorIs(t, err, book.ErrMissingReviewsCount)
}

func TestRank_SkipsDeletedBooks(t *testing.T) {
	f := newFixture(t)
	keep := f.addBook(t, "keep")
	gone := f.addBook(t, "gone")
	require.NoError(t, f.books.Delete(context.Background(), gone))

	got, err := f.books.Rank(context.Background(), book.NewQuery(), book.Page{})
	require.NoError(t, err)
	assert.Equal(t, []uint{keep}, ids(got))
}

func TestUpdateAndDelete_PublishEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addBook(t, "draft")

	b, err := f.books.FindByID(ctx, id)
	require.NoError(t, err)
	b.UpdateInfo("final", "", "")
	require.NoError(t, f.books.Update(ctx, b))
	require.NoError(t, f.books.Delete(ctx, id))

	require.Len(t, f.events, 2)
	assert.Equal(t, book.EventUpdated, f.events[0].Type)
	assert.Equal(t, book.EventDeleted, f.events[1].Type)
	assert.Equal(t, id, f.events[1].BookID)

	_, err = f.books.FindByID(ctx, id)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestUpdateAndDelete_MissingBookPublishesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.books.Update(ctx, &book.Book{ID: 42, Title: "x"}), book.ErrBookNotFound)
	assert.ErrorIs(t, f.books.Delete(ctx, 42), book.ErrBookNotFound)
	assert.Empty(t, f.events)
}

func TestReviews_CreateListStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addBook(t, "book")
	f.addReview(t, id, 2, baseTime.Add(-time.Hour))
	f.addReview(t, id, 5, baseTime)

	list, err := f.reviews.ListByBook(ctx, id, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Rating)

	stats, err := f.reviews.Stats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ReviewsCount)
	assert.InDelta(t, 3.5, *stats.AvgRating, 1e-9)

	empty, err := f.reviews.Stats(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, empty.ReviewsCount)
	assert.Nil(t, empty.AvgRating)

	err = f.reviews.Create(ctx, &book.Review{BookID: 999, Rating: 3})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}
