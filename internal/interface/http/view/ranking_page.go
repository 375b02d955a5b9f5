package view

// PresetLink 排行榜导航链接
type PresetLink struct {
	Name  string
	Title string
}

// RankingItem 排行榜页面的一行
type RankingItem struct {
	ID           uint
	Title        string
	Author       string
	ReviewsCount int
	AvgRating    *float64
}

// RankingPage rankings.html的数据
type RankingPage struct {
	Title   string
	Presets []PresetLink
	Books   []RankingItem
}
