package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookreview/internal/domain/book"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

const tracerName = "bookreview/application/book"

// 排序方式
const (
	SortPopular      = "popular"
	SortHighestRated = "highest_rated"
)

// kindCustom 非预置排行榜的指标label
const kindCustom = "custom"

// 分页限制
const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 1000 // 偏移量最多(maxPage-1)*maxPageSize,更深的翻页没有排行意义
)

var (
	// ErrUnknownSort 不支持的排序方式
	ErrUnknownSort = apperrors.New(apperrors.ErrCodeInvalidParams, "排序方式只支持popular或highest_rated")

	// ErrPageTooLarge 页码超出上限
	ErrPageTooLarge = apperrors.New(apperrors.ErrCodeInvalidParams, "页码不能超过1000")
)

// RankBooksUseCase 图书排行查询用例
// 设计说明:
// 1. 把HTTP参数翻译为book.Query,查询本身由仓储解释
// 2. 指定Preset时使用预置排行榜(时间窗口、排序、最少书评数都由Preset决定),
//    忽略Sort/From/To/MinReviews
// 3. 自定义查询总是同时统计数量与平均分(同一时间窗口),便于页面展示
type RankBooksUseCase struct {
	bookService book.Service
	now         func() time.Time
}

// NewRankBooksUseCase 创建排行查询用例
func NewRankBooksUseCase(bookService book.Service) *RankBooksUseCase {
	return &RankBooksUseCase{
		bookService: bookService,
		now:         time.Now,
	}
}

// RankBooksRequest 排行查询请求DTO
type RankBooksRequest struct {
	Title      string // 书名关键词(不区分大小写)
	Sort       string // popular | highest_rated | 空(按ID)
	Preset     string // 预置排行榜名称
	From       string // 书评时间窗口开始(RFC3339或YYYY-MM-DD)
	To         string // 书评时间窗口结束
	MinReviews *int   // 最少书评数
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
}

// RankedBookItem 排行列表项
type RankedBookItem struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	ReviewsCount *int     `json:"reviews_count"`
	AvgRating    *float64 `json:"avg_rating"`
}

// RankBooksResponse 排行查询响应DTO
type RankBooksResponse struct {
	Title    string           `json:"title,omitempty"` // 预置排行榜标题
	List     []RankedBookItem `json:"list"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	HasMore  bool             `json:"has_more"`
}

// Execute 执行排行查询
func (uc *RankBooksUseCase) Execute(ctx context.Context, req RankBooksRequest) (resp *RankBooksResponse, err error) {
	if err := normalizePage(&req); err != nil {
		return nil, err
	}

	kind := kindCustom
	if req.Preset != "" {
		kind = req.Preset
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "RankBooks")
	span.SetAttributes(
		attribute.String("rank.kind", kind),
		attribute.Int("rank.page", req.Page),
		attribute.Int("rank.page_size", req.PageSize),
	)
	start := time.Now()
	defer func() {
		result := metrics.ResultOK
		if err != nil {
			result = metrics.ResultError
			tracing.RecordError(span, err)
		}
		metrics.IncCounterVec(metrics.RankQueriesTotal, map[string]string{"kind": kind, "result": result})
		metrics.ObserveHistogramVec(metrics.RankQueryDuration, map[string]string{"kind": kind}, time.Since(start).Seconds())
		span.End()
	}()

	q, title, err := uc.buildQuery(req)
	if err != nil {
		return nil, err
	}

	// 多查一条判断是否还有下一页
	page := book.Page{Offset: (req.Page - 1) * req.PageSize, Limit: req.PageSize + 1}
	books, err := uc.bookService.Rank(ctx, q, page)
	if err != nil {
		return nil, err
	}

	hasMore := len(books) > req.PageSize
	if hasMore {
		books = books[:req.PageSize]
	}

	list := make([]RankedBookItem, len(books))
	for i, b := range books {
		list[i] = RankedBookItem{
			ID:           b.ID,
			Title:        b.Title,
			Author:       b.Author,
			ReviewsCount: b.ReviewsCount,
			AvgRating:    b.AvgRating,
		}
	}
	span.SetAttributes(attribute.Int("rank.results", len(list)))

	return &RankBooksResponse{
		Title:    title,
		List:     list,
		Page:     req.Page,
		PageSize: req.PageSize,
		HasMore:  hasMore,
	}, nil
}

// buildQuery 请求参数 → book.Query
func (uc *RankBooksUseCase) buildQuery(req RankBooksRequest) (book.Query, string, error) {
	q := book.NewQuery().TitleLike(req.Title)

	if req.Preset != "" {
		p, err := book.ParsePreset(req.Preset)
		if err != nil {
			return book.Query{}, "", err
		}
		q = q.ApplyPreset(p, uc.now())
		return q, p.Title(), q.Err()
	}

	window, err := book.ParseDateRange(req.From, req.To)
	if err != nil {
		return book.Query{}, "", err
	}

	switch req.Sort {
	case SortPopular:
		q = q.WithAvgRating(window).Popular(window)
	case SortHighestRated:
		q = q.WithReviewsCount(window).HighestRated(window)
	case "":
		q = q.WithReviewsCount(window).WithAvgRating(window)
	default:
		return book.Query{}, "", ErrUnknownSort
	}

	if req.MinReviews != nil {
		q = q.MinReviews(*req.MinReviews)
	}
	return q, "", q.Err()
}

// normalizePage 分页默认值与范围限制
// 页码有上限,(Page-1)*PageSize不会溢出
func normalizePage(req *RankBooksRequest) error {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Page > maxPage {
		return ErrPageTooLarge
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}
	return nil
}
