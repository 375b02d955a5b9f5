package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/book"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. Update/Delete成功后通过Dispatcher发布图书事件
type bookRepository struct {
	db     *gorm.DB
	events *book.Dispatcher
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB, events *book.Dispatcher) book.Repository {
	return &bookRepository{db: db, events: events}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFrom(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书信息
// 连接开启了clientFoundRows(见DatabaseConfig.DSN),RowsAffected是匹配行数:
// 同一毫秒内的两次相同更新也返回1,为0只可能是图书不存在(或已删除)
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := dbFrom(ctx, r.db).
		Model(&BookModel{ID: b.ID}).
		Updates(map[string]interface{}{
			"title":       b.Title,
			"author":      b.Author,
			"description": b.Description,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	r.events.Publish(ctx, book.NewEvent(book.EventUpdated, b.ID))
	return nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	r.events.Publish(ctx, book.NewEvent(book.EventDeleted, id))
	return nil
}

// Rank 执行排行查询
func (r *bookRepository) Rank(ctx context.Context, q book.Query, page book.Page) ([]*book.RankedBook, error) {
	if err := q.Err(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var rows []rankedRow
	if err := r.rankStatement(dbFrom(ctx, r.db), q, page).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书排行失败")
	}

	books := make([]*book.RankedBook, len(rows))
	for i := range rows {
		books[i] = rows[i].toEntity()
	}
	return books, nil
}

// rankStatement 把Query翻译为SQL
//
//	SELECT * FROM (
//	    SELECT books.*,
//	           (SELECT COUNT(*) FROM reviews WHERE reviews.book_id = books.id AND ...) AS reviews_count,
//	           (SELECT AVG(rating) FROM reviews WHERE reviews.book_id = books.id AND ...) AS reviews_avg_rating
//	    FROM books WHERE LOWER(books.title) LIKE ? AND books.deleted_at IS NULL
//	) AS ranked
//	WHERE ranked.reviews_count >= ?
//	ORDER BY ranked.reviews_avg_rating DESC, ranked.reviews_count DESC, ranked.id ASC
//
// 派生列放在子表ranked中,外层才能对它们过滤(相当于HAVING)和排序;
// 相关子查询保证没有书评的图书也会出现(数量为0,平均分为NULL)
func (r *bookRepository) rankStatement(db *gorm.DB, q book.Query, page book.Page) *gorm.DB {
	selects := []string{"books.*"}
	var args []interface{}

	if rng, ok := q.ReviewsCountRange(); ok {
		selects = append(selects, "(?) AS "+string(book.SortReviewsCount))
		args = append(args, reviewAggregate(db, "COUNT(*)", rng))
	}
	if rng, ok := q.AvgRatingRange(); ok {
		selects = append(selects, "(?) AS "+string(book.SortAvgRating))
		args = append(args, reviewAggregate(db, "AVG(reviews.rating)", rng))
	}

	inner := db.Session(&gorm.Session{NewDB: true}).Model(&BookModel{})
	if len(args) > 0 {
		inner = inner.Select(strings.Join(selects, ", "), args...)
	} else {
		inner = inner.Select("books.*")
	}
	if title, ok := q.Title(); ok {
		inner = inner.Where("LOWER(books.title) LIKE ?", containsPattern(strings.ToLower(title)))
	}

	stmt := db.Table("(?) AS ranked", inner)
	if n, ok := q.ReviewsThreshold(); ok {
		stmt = stmt.Where("ranked."+string(book.SortReviewsCount)+" >= ?", n)
	}
	for _, key := range q.OrderBy() {
		stmt = stmt.Order("ranked." + string(key) + " DESC")
	}
	stmt = stmt.Order("ranked.id ASC")

	// MySQL的OFFSET必须和LIMIT一起使用
	if page.Limit > 0 {
		stmt = stmt.Limit(page.Limit).Offset(page.Offset)
	}
	return stmt
}

// reviewAggregate 某本图书在时间窗口内的书评聚合(相关子查询)
func reviewAggregate(db *gorm.DB, expr string, rng book.DateRange) *gorm.DB {
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&ReviewModel{}).
		Select(expr).
		Where("reviews.book_id = books.id")
	return whereCreatedIn(sub, "reviews.created_at", rng)
}

// rankedRow 排行查询的扫描目标
// 不含DeletedAt字段,GORM不会对外层的ranked表追加软删除条件
type rankedRow struct {
	ID               uint
	Title            string
	Author           string
	Description      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ReviewsCount     *int     `gorm:"column:reviews_count"`
	ReviewsAvgRating *float64 `gorm:"column:reviews_avg_rating"`
}

func (row *rankedRow) toEntity() *book.RankedBook {
	return &book.RankedBook{
		Book: book.Book{
			ID:          row.ID,
			Title:       row.Title,
			Author:      row.Author,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		},
		ReviewsCount: row.ReviewsCount,
		AvgRating:    row.ReviewsAvgRating,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:          model.ID,
		Title:       model.Title,
		Author:      model.Author,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
