// Package memory 内存仓储实现
// 用于本地开发(database.driver=memory)和测试,语义与MySQL实现一致:
// 软删除、相关统计、按派生列过滤和排序
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// Store 图书与书评的内存存储,两个仓储共享同一把锁
type Store struct {
	mu      sync.RWMutex
	books   map[uint]*book.Book
	deleted map[uint]time.Time
	reviews []*book.Review

	nextBookID   uint
	nextReviewID uint
}

// NewStore 创建内存存储
func NewStore() *Store {
	return &Store{
		books:   make(map[uint]*book.Book),
		deleted: make(map[uint]time.Time),
	}
}

// alive 图书存在且未删除(调用方持有锁)
func (s *Store) alive(id uint) (*book.Book, bool) {
	b, ok := s.books[id]
	if !ok {
		return nil, false
	}
	if _, gone := s.deleted[id]; gone {
		return nil, false
	}
	return b, true
}

type bookRepository struct {
	store  *Store
	events *book.Dispatcher
}

// NewBookRepository 创建图书仓储
func NewBookRepository(store *Store, events *book.Dispatcher) book.Repository {
	return &bookRepository{store: store, events: events}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBookID++
	now := time.Now()
	b.ID = s.nextBookID
	b.CreatedAt = now
	b.UpdatedAt = now

	cp := *b
	s.books[b.ID] = &cp
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.alive(id)
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	s := r.store
	s.mu.Lock()
	stored, ok := s.alive(b.ID)
	if !ok {
		s.mu.Unlock()
		return book.ErrBookNotFound
	}
	stored.Title = b.Title
	stored.Author = b.Author
	stored.Description = b.Description
	stored.UpdatedAt = time.Now()
	b.UpdatedAt = stored.UpdatedAt
	s.mu.Unlock()

	// 释放锁后再发布,订阅者可以回读仓储
	r.events.Publish(ctx, book.NewEvent(book.EventUpdated, b.ID))
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	if _, ok := s.alive(id); !ok {
		s.mu.Unlock()
		return book.ErrBookNotFound
	}
	s.deleted[id] = time.Now()
	s.mu.Unlock()

	r.events.Publish(ctx, book.NewEvent(book.EventDeleted, id))
	return nil
}

// Rank 在内存中解释Query
func (r *bookRepository) Rank(ctx context.Context, q book.Query, page book.Page) ([]*book.RankedBook, error) {
	if err := q.Err(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.RLock()
	countRange, withCount := q.ReviewsCountRange()
	avgRange, withAvg := q.AvgRatingRange()

	result := make([]*book.RankedBook, 0, len(s.books))
	for id, b := range s.books {
		if _, gone := s.deleted[id]; gone || !q.MatchesTitle(b.Title) {
			continue
		}

		rb := &book.RankedBook{Book: *b}
		if withCount {
			n := s.countReviews(id, countRange)
			rb.ReviewsCount = &n
		}
		if withAvg {
			rb.AvgRating = s.avgRating(id, avgRange)
		}
		if q.PassesThreshold(rb) {
			result = append(result, rb)
		}
	}
	s.mu.RUnlock()

	q.Sort(result)
	return paginate(result, page), nil
}

func (s *Store) countReviews(bookID uint, rng book.DateRange) int {
	n := 0
	for _, rv := range s.reviews {
		if rv.BookID == bookID && rng.Contains(rv.CreatedAt) {
			n++
		}
	}
	return n
}

// avgRating 窗口内没有书评时返回nil
func (s *Store) avgRating(bookID uint, rng book.DateRange) *float64 {
	sum, n := 0, 0
	for _, rv := range s.reviews {
		if rv.BookID == bookID && rng.Contains(rv.CreatedAt) {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

func paginate(books []*book.RankedBook, page book.Page) []*book.RankedBook {
	if page.Limit <= 0 {
		return books
	}
	if page.Offset >= len(books) {
		return []*book.RankedBook{}
	}
	end := page.Offset + page.Limit
	if end > len(books) {
		end = len(books)
	}
	return books[page.Offset:end]
}
