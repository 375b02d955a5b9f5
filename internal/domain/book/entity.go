package book

import (
	"strings"
	"time"
)

// 评分取值范围(闭区间)
const (
	MinRating = 1
	MaxRating = 5
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. Book与Review是一对多关系,Review通过BookID关联
// 2. 一本书可以没有任何书评
// 3. 排行榜相关的派生数据(书评数、平均分)不属于实体本身,见RankedBook
type Book struct {
	ID          uint
	Title       string // 书名
	Author      string // 作者
	Description string // 图书描述
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(title, author, description string) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	now := time.Now()
	return &Book{
		Title:       title,
		Author:      strings.TrimSpace(author),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateInfo 更新图书基本信息
// 空字符串表示不修改该字段
func (b *Book) UpdateInfo(title, author, description string) {
	if t := strings.TrimSpace(title); t != "" {
		b.Title = t
	}
	if a := strings.TrimSpace(author); a != "" {
		b.Author = a
	}
	if description != "" {
		b.Description = description
	}
	b.UpdatedAt = time.Now()
}

// Review 书评实体
// 业务规则:
// - 必须属于一本存在的图书
// - 评分范围1-5
type Review struct {
	ID         uint
	BookID     uint   // 所属图书ID
	ReviewerID uint   // 书评作者(来自JWT)
	Rating     int    // 评分(1-5)
	Content    string // 书评内容
	CreatedAt  time.Time
}

// NewReview 创建书评
func NewReview(bookID, reviewerID uint, rating int, content string) (*Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}
	return &Review{
		BookID:     bookID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Content:    content,
		CreatedAt:  time.Now(),
	}, nil
}

// RankedBook 排行查询结果
// ReviewsCount/AvgRating为派生列:
// - 查询未要求统计时为nil
// - AvgRating在时间窗口内没有书评时同样为nil(不是0)
type RankedBook struct {
	Book
	ReviewsCount *int
	AvgRating    *float64
}

// Stats 单本图书的书评统计(全时段)
type Stats struct {
	ReviewsCount int
	AvgRating    *float64
}
