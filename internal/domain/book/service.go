package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体(Book、Review)的业务规则
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// CreateBook 创建图书,书名不能为空
	CreateBook(ctx context.Context, title, author, description string) (*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 更新图书信息(空字段不修改)
	UpdateBook(ctx context.Context, id uint, title, author, description string) (*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, id uint) error

	// AddReview 发表书评,评分1-5
	AddReview(ctx context.Context, bookID, reviewerID uint, rating int, content string) (*Review, error)

	// Rank 执行排行查询
	Rank(ctx context.Context, q Query, page Page) ([]*RankedBook, error)

	// Stats 单本图书的书评统计
	Stats(ctx context.Context, bookID uint) (*Stats, error)

	// RecentReviews 图书最新的书评
	RecentReviews(ctx context.Context, bookID uint, limit int) ([]*Review, error)
}

type service struct {
	books   Repository
	reviews ReviewRepository
}

// NewService 创建图书领域服务
func NewService(books Repository, reviews ReviewRepository) Service {
	return &service{books: books, reviews: reviews}
}

func (s *service) CreateBook(ctx context.Context, title, author, description string) (*Book, error) {
	b, err := NewBook(title, author, description)
	if err != nil {
		return nil, err
	}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *service) UpdateBook(ctx context.Context, id uint, title, author, description string) (*Book, error) {
	b, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.UpdateInfo(title, author, description)

	if err := s.books.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	return s.books.Delete(ctx, id)
}

func (s *service) AddReview(ctx context.Context, bookID, reviewerID uint, rating int, content string) (*Review, error) {
	r, err := NewReview(bookID, reviewerID, rating, content)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Rank(ctx context.Context, q Query, page Page) ([]*RankedBook, error) {
	if err := q.Err(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.books.Rank(ctx, q, page)
}

func (s *service) Stats(ctx context.Context, bookID uint) (*Stats, error) {
	return s.reviews.Stats(ctx, bookID)
}

func (s *service) RecentReviews(ctx context.Context, bookID uint, limit int) ([]*Review, error) {
	return s.reviews.ListByBook(ctx, bookID, limit)
}
