package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

type reviewRepository struct {
	store *Store
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(store *Store) book.ReviewRepository {
	return &reviewRepository{store: store}
}

// Create 保留调用方设置的CreatedAt(便于构造历史数据),为零值时取当前时间
func (r *reviewRepository) Create(ctx context.Context, rv *book.Review) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alive(rv.BookID); !ok {
		return book.ErrBookNotFound
	}

	s.nextReviewID++
	rv.ID = s.nextReviewID
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now()
	}
	cp := *rv
	s.reviews = append(s.reviews, &cp)
	return nil
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint, limit int) ([]*book.Review, error) {
	s := r.store
	s.mu.RLock()
	var list []*book.Review
	for _, rv := range s.reviews {
		if rv.BookID == bookID {
			cp := *rv
			list = append(list, &cp)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *reviewRepository) Stats(ctx context.Context, bookID uint) (*book.Stats, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &book.Stats{
		ReviewsCount: s.countReviews(bookID, book.AnyTime()),
		AvgRating:    s.avgRating(bookID, book.AnyTime()),
	}, nil
}
