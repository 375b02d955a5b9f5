package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/internal/interface/http/view"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	rankBooks  *appbook.RankBooksUseCase
	getBook    *appbook.GetBookUseCase
	manageBook *appbook.ManageBookUseCase
	addReview  *appbook.AddReviewUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	rankBooks *appbook.RankBooksUseCase,
	getBook *appbook.GetBookUseCase,
	manageBook *appbook.ManageBookUseCase,
	addReview *appbook.AddReviewUseCase,
) *BookHandler {
	return &BookHandler{
		rankBooks:  rankBooks,
		getBook:    getBook,
		manageBook: manageBook,
		addReview:  addReview,
	}
}

// ListBooks 图书列表与排行
// @Summary      图书列表/排行
// @Description  按书名过滤,按时间窗口内的书评数量或平均分排序;preset使用预置排行榜
// @Tags         图书
// @Produce      json
// @Param        title        query string false "书名关键词(不区分大小写)"
// @Param        sort         query string false "排序方式" Enums(popular, highest_rated)
// @Param        preset       query string false "预置排行榜" Enums(popular_last_month, popular_last_6_months, highest_rated_last_month, highest_rated_last_6_months)
// @Param        from         query string false "书评时间窗口开始(RFC3339或YYYY-MM-DD)"
// @Param        to           query string false "书评时间窗口结束(RFC3339或YYYY-MM-DD)"
// @Param        min_reviews  query int    false "最少书评数"
// @Param        page         query int    false "页码" default(1) maximum(1000)
// @Param        page_size    query int    false "每页数量" default(20)
// @Success      200 {object} response.Response{data=dto.RankedBookList}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.rankBooks.Execute(c.Request.Context(), appbook.RankBooksRequest{
		Title:      req.Title,
		Sort:       req.Sort,
		Preset:     req.Preset,
		From:       req.From,
		To:         req.To,
		MinReviews: req.MinReviews,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.RankedBookItem, len(result.List))
	for i, item := range result.List {
		list[i] = dto.RankedBookItem{
			ID:           item.ID,
			Title:        item.Title,
			Author:       item.Author,
			ReviewsCount: item.ReviewsCount,
			AvgRating:    item.AvgRating,
			Stars:        view.StarRating(item.AvgRating),
		}
	}

	response.Success(c, &dto.RankedBookList{
		Title:    result.Title,
		List:     list,
		Page:     result.Page,
		PageSize: result.PageSize,
		HasMore:  result.HasMore,
	})
}

// GetBook 图书详情
// @Summary      图书详情
// @Description  图书信息、全时段书评统计与最新书评
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookDetailResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	result, err := h.getBook.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	reviews := make([]dto.ReviewResponse, len(result.RecentReviews))
	for i, r := range result.RecentReviews {
		reviews[i] = toReviewDTO(&r)
	}

	response.Success(c, &dto.BookDetailResponse{
		BookResponse:  toBookDTO(&result.BookResponse),
		ReviewsCount:  result.ReviewsCount,
		AvgRating:     result.AvgRating,
		Stars:         view.StarRating(result.AvgRating),
		RecentReviews: reviews,
	})
}

// CreateBook 创建图书
// @Summary      创建图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageBook.Create(c.Request.Context(), appbook.CreateBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookDTO(result))
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  空字段不修改;更新后图书缓存失效
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageBook.Update(c.Request.Context(), appbook.UpdateBookRequest{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookDTO(result))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	if err := h.manageBook.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// AddReview 发表书评
// @Summary      发表书评
// @Tags         书评
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                  true "图书ID"
// @Param        request body dto.AddReviewRequest true "书评"
// @Success      200 {object} response.Response{data=dto.ReviewResponse}
// @Failure      400 {object} response.Response "评分必须在1-5之间"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/reviews [post]
func (h *BookHandler) AddReview(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req dto.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.addReview.Execute(c.Request.Context(), appbook.AddReviewRequest{
		BookID:     id,
		ReviewerID: middleware.MustGetUserID(c),
		Rating:     req.Rating,
		Content:    req.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toReviewDTO(result))
}

// bookID 解析路径参数:id,失败时已写入错误响应
func bookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return 0, false
	}
	return uint(id), true
}

func toBookDTO(b *appbook.BookResponse) dto.BookResponse {
	return dto.BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toReviewDTO(r *appbook.ReviewResponse) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
	}
}
