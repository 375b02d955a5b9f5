package dto

// CreateBookRequest HTTP创建图书请求
type CreateBookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author      string `json:"author" binding:"max=100" example:"威廉·肯尼迪"`
	Description string `json:"description" binding:"max=5000" example:"这是一本关于Go语言的实战书籍"`
}

// UpdateBookRequest HTTP更新图书请求(空字段不修改)
type UpdateBookRequest struct {
	Title       string `json:"title" binding:"max=200" example:"Go语言实战(第2版)"`
	Author      string `json:"author" binding:"max=100"`
	Description string `json:"description" binding:"max=5000"`
}

// AddReviewRequest HTTP发表书评请求
type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required" example:"5"` // 1-5,范围由领域层校验
	Content string `json:"content" binding:"max=5000" example:"非常实用"`
}

// ListBooksRequest HTTP图书排行查询参数
// preset与sort/from/to/min_reviews互斥,同时传入时以preset为准
type ListBooksRequest struct {
	Title      string `form:"title" binding:"omitempty,max=100" example:"go"`
	Sort       string `form:"sort" binding:"omitempty,oneof=popular highest_rated" example:"popular"`
	Preset     string `form:"preset" example:"popular_last_month"`
	From       string `form:"from" example:"2024-04-01"`
	To         string `form:"to" example:"2024-05-01T23:59:59+08:00"`
	MinReviews *int   `form:"min_reviews" example:"2"`
	Page       int    `form:"page" binding:"omitempty,min=1,max=1000" example:"1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// RankedBookItem HTTP排行列表项
type RankedBookItem struct {
	ID           uint     `json:"id" example:"1"`
	Title        string   `json:"title" example:"Go语言实战"`
	Author       string   `json:"author" example:"威廉·肯尼迪"`
	ReviewsCount *int     `json:"reviews_count" example:"12"`
	AvgRating    *float64 `json:"avg_rating" example:"4.25"`
	Stars        string   `json:"stars" example:"★★★★☆"`
}

// RankedBookList HTTP排行列表
type RankedBookList struct {
	Title    string           `json:"title,omitempty" example:"上月最热门"`
	List     []RankedBookItem `json:"list"`
	Page     int              `json:"page" example:"1"`
	PageSize int              `json:"page_size" example:"20"`
	HasMore  bool             `json:"has_more" example:"false"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID          uint   `json:"id" example:"1"`
	Title       string `json:"title" example:"Go语言实战"`
	Author      string `json:"author" example:"威廉·肯尼迪"`
	Description string `json:"description" example:"这是一本关于Go语言的实战书籍"`
	CreatedAt   string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt   string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// ReviewResponse HTTP书评响应
type ReviewResponse struct {
	ID         uint   `json:"id" example:"1"`
	BookID     uint   `json:"book_id" example:"1"`
	ReviewerID uint   `json:"reviewer_id" example:"42"`
	Rating     int    `json:"rating" example:"5"`
	Content    string `json:"content" example:"非常实用"`
	CreatedAt  string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// BookDetailResponse HTTP图书详情(全时段书评统计+最新书评)
type BookDetailResponse struct {
	BookResponse
	ReviewsCount  int              `json:"reviews_count" example:"12"`
	AvgRating     *float64         `json:"avg_rating" example:"4.25"`
	Stars         string           `json:"stars" example:"★★★★☆"`
	RecentReviews []ReviewResponse `json:"recent_reviews"`
}
