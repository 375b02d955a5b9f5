package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/pkg/logger"
)

// recentReviewsLimit 详情页展示的最新书评条数
const recentReviewsLimit = 10

// BookCache 图书缓存(infrastructure/persistence/redis.BookCache实现)
// GetBook未命中返回(nil, nil)
type BookCache interface {
	GetBook(ctx context.Context, id uint) (*book.Book, error)
	SetBook(ctx context.Context, b *book.Book) error
}

// GetBookUseCase 图书详情用例
// 设计说明:
// 1. Cache-Aside:先读book:{id},未命中读数据库后回填
// 2. 缓存只保存图书实体,书评统计与最新书评每次实时查询,
//    因此新增书评不需要删除缓存;更新/删除图书由CacheInvalidator删除缓存
// 3. 缓存故障降级为直接读数据库
// 4. 已知窗口:未命中的请求读库之后、回填之前,如果另一个请求完成了更新并删除了缓存,
//    回填写入的是旧数据。旧数据最多保留cache.book_ttl,或到下一次更新/删除为止
type GetBookUseCase struct {
	bookService book.Service
	cache       BookCache // 为nil时不使用缓存
}

// NewGetBookUseCase 创建图书详情用例
func NewGetBookUseCase(bookService book.Service, cache BookCache) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// GetBookResponse 图书详情响应DTO
type GetBookResponse struct {
	BookResponse
	ReviewsCount  int              `json:"reviews_count"`
	AvgRating     *float64         `json:"avg_rating"`
	RecentReviews []ReviewResponse `json:"recent_reviews"`
}

// Execute 执行详情查询
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*GetBookResponse, error) {
	b, err := uc.loadBook(ctx, id)
	if err != nil {
		return nil, err
	}

	stats, err := uc.bookService.Stats(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := uc.bookService.RecentReviews(ctx, id, recentReviewsLimit)
	if err != nil {
		return nil, err
	}

	resp := &GetBookResponse{
		BookResponse:  toBookResponse(b),
		ReviewsCount:  stats.ReviewsCount,
		AvgRating:     stats.AvgRating,
		RecentReviews: make([]ReviewResponse, len(reviews)),
	}
	for i, r := range reviews {
		resp.RecentReviews[i] = toReviewResponse(r)
	}
	return resp, nil
}

func (uc *GetBookUseCase) loadBook(ctx context.Context, id uint) (*book.Book, error) {
	if uc.cache == nil {
		return uc.bookService.GetBook(ctx, id)
	}

	log := logger.FromContext(ctx)
	cached, err := uc.cache.GetBook(ctx, id)
	if err != nil {
		log.Warn().Err(err).Uint("book_id", id).Msg("读取图书缓存失败,降级读数据库")
	}
	if cached != nil {
		return cached, nil
	}

	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetBook(ctx, b); err != nil {
		log.Warn().Err(err).Uint("book_id", id).Msg("回填图书缓存失败")
	}
	return b, nil
}
