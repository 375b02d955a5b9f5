package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, b *Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepository) FindByID(ctx context.Context, id uint) (*Book, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*Book), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, b *Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) Rank(ctx context.Context, q Query, page Page) ([]*RankedBook, error) {
	args := m.Called(ctx, q, page)
	if v := args.Get(0); v != nil {
		return v.([]*RankedBook), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, r *Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReviewRepository) ListByBook(ctx context.Context, bookID uint, limit int) ([]*Review, error) {
	args := m.Called(ctx, bookID, limit)
	return args.Get(0).([]*Review), args.Error(1)
}

func (m *mockReviewRepository) Stats(ctx context.Context, bookID uint) (*Stats, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(*Stats), args.Error(1)
}

func TestService_CreateBookRejectsEmptyTitle(t *testing.T) {
	books := new(mockRepository)
	svc := NewService(books, new(mockReviewRepository))

	_, err := svc.CreateBook(context.Background(), "  ", "a", "")

	assert.ErrorIs(t, err, ErrEmptyTitle)
	books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_UpdateBookKeepsEmptyFields(t *testing.T) {
	books := new(mockRepository)
	books.On("FindByID", mock.Anything, uint(1)).Return(&Book{ID: 1, Title: "old", Author: "someone"}, nil)
	books.On("Update", mock.Anything, mock.MatchedBy(func(b *Book) bool {
		return b.Title == "new" && b.Author == "someone"
	})).Return(nil)
	svc := NewService(books, new(mockReviewRepository))

	b, err := svc.UpdateBook(context.Background(), 1, "new", "", "")

	require.NoError(t, err)
	assert.Equal(t, "new", b.Title)
	books.AssertExpectations(t)
}

func TestService_UpdateMissingBook(t *testing.T) {
	books := new(mockRepository)
	books.On("FindByID", mock.Anything, uint(9)).Return(nil, ErrBookNotFound)
	svc := NewService(books, new(mockReviewRepository))

	_, err := svc.UpdateBook(context.Background(), 9, "x", "", "")

	assert.ErrorIs(t, err, ErrBookNotFound)
	books.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_AddReviewValidatesRating(t *testing.T) {
	reviews := new(mockReviewRepository)
	svc := NewService(new(mockRepository), reviews)

	_, err := svc.AddReview(context.Background(), 1, 2, 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	reviews.On("Create", mock.Anything, mock.AnythingOfType("*book.Review")).Return(nil)
	r, err := svc.AddReview(context.Background(), 1, 2, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
}

func TestService_RankRejectsInvalidQuery(t *testing.T) {
	books := new(mockRepository)
	svc := NewService(books, new(mockReviewRepository))

	_, err := svc.Rank(context.Background(), NewQuery().MinReviews(1), Page{})

	assert.ErrorIs(t, err, ErrMissingReviewsCount)
	books.AssertNotCalled(t, "Rank", mock.Anything, mock.Anything, mock.Anything)
}
