package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// AddReviewUseCase 发表书评用例
type AddReviewUseCase struct {
	bookService book.Service
}

// NewAddReviewUseCase 创建发表书评用例
func NewAddReviewUseCase(bookService book.Service) *AddReviewUseCase {
	return &AddReviewUseCase{bookService: bookService}
}

// AddReviewRequest 发表书评请求DTO
type AddReviewRequest struct {
	BookID     uint
	ReviewerID uint // 从JWT中提取
	Rating     int  // 1-5
	Content    string
}

// Execute 执行发表书评
// 评分校验由领域实体负责,图书不存在返回ErrBookNotFound
func (uc *AddReviewUseCase) Execute(ctx context.Context, req AddReviewRequest) (*ReviewResponse, error) {
	r, err := uc.bookService.AddReview(ctx, req.BookID, req.ReviewerID, req.Rating, req.Content)
	if err != nil {
		return nil, err
	}
	resp := toReviewResponse(r)
	return &resp, nil
}
