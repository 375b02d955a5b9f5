package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookreview/internal/domain/book"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// reviewRepository 书评仓储实现(MySQL)
type reviewRepository struct {
	db        *gorm.DB
	txManager *TxManager
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *gorm.DB, txManager *TxManager) book.ReviewRepository {
	return &reviewRepository{db: db, txManager: txManager}
}

// Create 创建书评
// 事务内先对图书行加共享锁,保证插入书评时图书不会被并发删除
func (r *reviewRepository) Create(ctx context.Context, rv *book.Review) error {
	return r.txManager.Transaction(ctx, func(ctx context.Context) error {
		db := dbFrom(ctx, r.db)

		var b BookModel
		err := db.Clauses(clause.Locking{Strength: "SHARE"}).Select("id").First(&b, rv.BookID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return apperrors.Wrap(err, "查询图书失败")
		}

		model := &ReviewModel{
			BookID:     rv.BookID,
			ReviewerID: rv.ReviewerID,
			Rating:     rv.Rating,
			Content:    rv.Content,
			CreatedAt:  rv.CreatedAt,
		}
		if err := db.Create(model).Error; err != nil {
			return apperrors.Wrap(err, "创建书评失败")
		}

		rv.ID = model.ID
		rv.CreatedAt = model.CreatedAt
		return nil
	})
}

// ListByBook 按创建时间倒序查询书评
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint, limit int) ([]*book.Review, error) {
	var models []ReviewModel
	query := dbFrom(ctx, r.db).
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询书评失败")
	}

	reviews := make([]*book.Review, len(models))
	for i := range models {
		reviews[i] = toReviewEntity(&models[i])
	}
	return reviews, nil
}

// Stats 全时段书评统计
func (r *reviewRepository) Stats(ctx context.Context, bookID uint) (*book.Stats, error) {
	var row struct {
		ReviewsCount int
		AvgRating    *float64
	}
	err := dbFrom(ctx, r.db).
		Model(&ReviewModel{}).
		Select("COUNT(*) AS reviews_count, AVG(rating) AS avg_rating").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计书评失败")
	}

	return &book.Stats{ReviewsCount: row.ReviewsCount, AvgRating: row.AvgRating}, nil
}

func toReviewEntity(model *ReviewModel) *book.Review {
	return &book.Review{
		ID:         model.ID,
		BookID:     model.BookID,
		ReviewerID: model.ReviewerID,
		Rating:     model.Rating,
		Content:    model.Content,
		CreatedAt:  model.CreatedAt,
	}
}
