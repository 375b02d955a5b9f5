package book

import (
	"time"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// timeLayout 响应中的时间格式
const timeLayout = "2006-01-02 15:04:05"

// BookResponse 图书响应DTO
type BookResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ReviewResponse 书评响应DTO
type ReviewResponse struct {
	ID         uint   `json:"id"`
	BookID     uint   `json:"book_id"`
	ReviewerID uint   `json:"reviewer_id"`
	Rating     int    `json:"rating"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

func toBookResponse(b *book.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		CreatedAt:   formatTime(b.CreatedAt),
		UpdatedAt:   formatTime(b.UpdatedAt),
	}
}

func toReviewResponse(r *book.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Content:    r.Content,
		CreatedAt:  formatTime(r.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
