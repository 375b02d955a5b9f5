package book

import (
	"sort"
	"strings"
)

// SortKey 排行使用的派生列
type SortKey string

const (
	// SortReviewsCount 按书评数量排序
	SortReviewsCount SortKey = "reviews_count"
	// SortAvgRating 按平均评分排序
	SortAvgRating SortKey = "reviews_avg_rating"
)

// Query 图书排行查询条件
// 设计说明:
//  1. 值类型+写时复制:每个方法返回新的Query,接收者本身不会被修改,
//     因此同一个基础Query可以安全地派生出多个查询
//  2. 派生列依赖显式化:MinReviews要求之前已经有书评数量统计,
//     否则在组合阶段就记录ErrMissingReviewsCount,而不是交给数据库报错
//  3. 错误延迟返回(与gorm的链式调用一致):第一个错误保存在Query中,
//     之后的操作全部忽略,由Err()统一取出;仓储拒绝执行带错误的Query
//  4. 排序规则:最后一次应用的排序为主排序键,之前的排序依次作为次级排序,
//     重复应用同一个键会把它移到最前;仓储最后追加id ASC保证结果稳定
type Query struct {
	title    string
	hasTitle bool

	countRange DateRange
	hasCount   bool

	avgRange DateRange
	hasAvg   bool

	orderBy []SortKey // orderBy[0]为主排序键

	minReviews int
	hasMin     bool

	err error
}

// NewQuery 创建空查询(返回全部图书,不统计、不排序)
func NewQuery() Query {
	return Query{}
}

// clone 复制Query(orderBy需要深拷贝,避免两个Query共享底层数组)
func (q Query) clone() Query {
	c := q
	if q.orderBy != nil {
		c.orderBy = append([]SortKey(nil), q.orderBy...)
	}
	return c
}

func (q Query) withErr(err error) Query {
	c := q.clone()
	c.err = err
	return c
}

// TitleLike 书名包含title(不区分大小写);空字符串匹配全部
func (q Query) TitleLike(title string) Query {
	if q.err != nil {
		return q
	}
	c := q.clone()
	c.title = title
	c.hasTitle = title != ""
	return c
}

// WithReviewsCount 统计时间窗口内的书评数量(reviews_count)
// 没有匹配书评的图书数量为0,不会被过滤掉
func (q Query) WithReviewsCount(r DateRange) Query {
	if q.err != nil {
		return q
	}
	if err := r.Validate(); err != nil {
		return q.withErr(err)
	}
	c := q.clone()
	c.countRange = r
	c.hasCount = true
	return c
}

// WithAvgRating 统计时间窗口内的平均评分(reviews_avg_rating)
// 没有匹配书评时平均分为NULL
func (q Query) WithAvgRating(r DateRange) Query {
	if q.err != nil {
		return q
	}
	if err := r.Validate(); err != nil {
		return q.withErr(err)
	}
	c := q.clone()
	c.avgRange = r
	c.hasAvg = true
	return c
}

// Popular 按书评数量降序
func (q Query) Popular(r DateRange) Query {
	return q.WithReviewsCount(r).orderDesc(SortReviewsCount)
}

// HighestRated 按平均评分降序
func (q Query) HighestRated(r DateRange) Query {
	return q.WithAvgRating(r).orderDesc(SortAvgRating)
}

// MinReviews 只保留书评数量>=minReviews的图书(对派生列过滤,相当于HAVING)
func (q Query) MinReviews(minReviews int) Query {
	if q.err != nil {
		return q
	}
	if minReviews < 0 {
		return q.withErr(ErrInvalidMinReviews)
	}
	if !q.hasCount {
		return q.withErr(ErrMissingReviewsCount)
	}
	c := q.clone()
	c.minReviews = minReviews
	c.hasMin = true
	return c
}

// orderDesc 把key设为主排序键
func (q Query) orderDesc(key SortKey) Query {
	if q.err != nil {
		return q
	}
	c := q.clone()
	keys := make([]SortKey, 0, len(q.orderBy)+1)
	keys = append(keys, key)
	for _, k := range q.orderBy {
		if k != key {
			keys = append(keys, k)
		}
	}
	c.orderBy = keys
	return c
}

// =========================================
// 只读访问(供仓储解释查询)
// =========================================

// Err 返回组合过程中的第一个错误
func (q Query) Err() error {
	return q.err
}

// Title 返回书名过滤条件
func (q Query) Title() (string, bool) {
	return q.title, q.hasTitle
}

// ReviewsCountRange 返回书评数量统计窗口
func (q Query) ReviewsCountRange() (DateRange, bool) {
	return q.countRange, q.hasCount
}

// AvgRatingRange 返回平均评分统计窗口
func (q Query) AvgRatingRange() (DateRange, bool) {
	return q.avgRange, q.hasAvg
}

// OrderBy 返回排序键(第一个为主排序键)
func (q Query) OrderBy() []SortKey {
	return append([]SortKey(nil), q.orderBy...)
}

// ReviewsThreshold 返回MinReviews的阈值
func (q Query) ReviewsThreshold() (int, bool) {
	return q.minReviews, q.hasMin
}

// =========================================
// 内存求值辅助(与SQL解释保持同一语义)
// =========================================

// MatchesTitle 书名是否满足TitleLike条件
func (q Query) MatchesTitle(title string) bool {
	if !q.hasTitle {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(q.title))
}

// PassesThreshold 是否满足MinReviews条件
func (q Query) PassesThreshold(b *RankedBook) bool {
	if !q.hasMin {
		return true
	}
	return b.ReviewsCount != nil && *b.ReviewsCount >= q.minReviews
}

// Sort 按Query的排序规则原地排序
// 降序排序时NULL排在最后,与MySQL的DESC行为一致;最终按ID升序
func (q Query) Sort(books []*RankedBook) {
	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]
		for _, key := range q.orderBy {
			if c := compareDesc(a, b, key); c != 0 {
				return c < 0
			}
		}
		return a.ID < b.ID
	})
}

// compareDesc 降序比较:a应排在b之前返回-1
func compareDesc(a, b *RankedBook, key SortKey) int {
	switch key {
	case SortReviewsCount:
		return compareFloatPtrDesc(intToFloat(a.ReviewsCount), intToFloat(b.ReviewsCount))
	case SortAvgRating:
		return compareFloatPtrDesc(a.AvgRating, b.AvgRating)
	}
	return 0
}

func intToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func compareFloatPtrDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	}
	return 0
}
