package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(MySQL、内存)
// 2. Rank负责解释Query:过滤、派生列统计、按派生列过滤与排序
// 3. Update/Delete成功后由实现方发布图书事件(见Dispatcher)
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息,成功后发布EventUpdated
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除),成功后发布EventDeleted
	Delete(ctx context.Context, id uint) error

	// Rank 执行排行查询
	// q.Err()不为nil时直接返回该错误
	Rank(ctx context.Context, q Query, page Page) ([]*RankedBook, error)
}

// ReviewRepository 书评仓储接口
type ReviewRepository interface {
	// Create 创建书评,图书不存在返回ErrBookNotFound
	Create(ctx context.Context, review *Review) error

	// ListByBook 查询图书最新的书评
	ListByBook(ctx context.Context, bookID uint, limit int) ([]*Review, error)

	// Stats 图书的全时段书评统计
	Stats(ctx context.Context, bookID uint) (*Stats, error)
}

// Page 分页参数
// Limit为0表示不限制条数
type Page struct {
	Offset int
	Limit  int
}

// Validate Offset和Limit都不能为负数
func (p Page) Validate() error {
	if p.Offset < 0 || p.Limit < 0 {
		return ErrInvalidPage
	}
	return nil
}
