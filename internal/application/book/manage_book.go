package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// ManageBookUseCase 图书维护用例(创建、更新、删除)
// 更新/删除成功后仓储发布图书事件,缓存失效由订阅者完成,这里不直接操作缓存
type ManageBookUseCase struct {
	bookService book.Service
}

// NewManageBookUseCase 创建图书维护用例
func NewManageBookUseCase(bookService book.Service) *ManageBookUseCase {
	return &ManageBookUseCase{bookService: bookService}
}

// CreateBookRequest 创建图书请求DTO
type CreateBookRequest struct {
	Title       string
	Author      string
	Description string
}

// UpdateBookRequest 更新图书请求DTO,空字段不修改
type UpdateBookRequest struct {
	ID          uint
	Title       string
	Author      string
	Description string
}

// Create 创建图书
func (uc *ManageBookUseCase) Create(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.CreateBook(ctx, req.Title, req.Author, req.Description)
	if err != nil {
		return nil, err
	}
	resp := toBookResponse(b)
	return &resp, nil
}

// Update 更新图书
func (uc *ManageBookUseCase) Update(ctx context.Context, req UpdateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.UpdateBook(ctx, req.ID, req.Title, req.Author, req.Description)
	if err != nil {
		return nil, err
	}
	resp := toBookResponse(b)
	return &resp, nil
}

// Delete 删除图书
func (uc *ManageBookUseCase) Delete(ctx context.Context, id uint) error {
	return uc.bookService.DeleteBook(ctx, id)
}
