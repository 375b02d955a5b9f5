package book

import (
	"time"
)

// Preset 预置排行榜名称
type Preset string

const (
	PresetPopularLastMonth          Preset = "popular_last_month"
	PresetPopularLastSixMonths      Preset = "popular_last_6_months"
	PresetHighestRatedLastMonth     Preset = "highest_rated_last_month"
	PresetHighestRatedLastSixMonths Preset = "highest_rated_last_6_months"
)

// presetDef 排行榜定义
type presetDef struct {
	title        string // 页面标题
	months       int    // 时间窗口(月)
	minReviews   int    // 最少书评数
	popularFirst bool   // true: Popular→HighestRated; false: HighestRated→Popular
}

var presets = map[Preset]presetDef{
	PresetPopularLastMonth:          {title: "上月最热门", months: 1, minReviews: 2, popularFirst: true},
	PresetPopularLastSixMonths:      {title: "近半年最热门", months: 6, minReviews: 5, popularFirst: true},
	PresetHighestRatedLastMonth:     {title: "上月最高分", months: 1, minReviews: 2, popularFirst: false},
	PresetHighestRatedLastSixMonths: {title: "近半年最高分", months: 6, minReviews: 5, popularFirst: false},
}

// Presets 返回全部排行榜(顺序固定)
func Presets() []Preset {
	return []Preset{
		PresetPopularLastMonth,
		PresetPopularLastSixMonths,
		PresetHighestRatedLastMonth,
		PresetHighestRatedLastSixMonths,
	}
}

// ParsePreset 校验排行榜名称
func ParsePreset(name string) (Preset, error) {
	p := Preset(name)
	if _, ok := presets[p]; !ok {
		return "", ErrUnknownPreset
	}
	return p, nil
}

// Title 排行榜标题
func (p Preset) Title() string {
	return presets[p].title
}

// Window 计算排行榜的时间窗口[now-N月, now]
// 月份减法沿用time.AddDate的进位规则(3月31日减1个月为3月3日)
func (p Preset) Window(now time.Time) (DateRange, error) {
	def, ok := presets[p]
	if !ok {
		return DateRange{}, ErrUnknownPreset
	}
	return Between(now.AddDate(0, -def.months, 0), now), nil
}

// ApplyPreset 应用预置排行榜
// 时间窗口只计算一次,两个排序使用完全相同的(from, to);
// 后应用的排序为主排序键(见Query的排序规则)
func (q Query) ApplyPreset(p Preset, now time.Time) Query {
	if q.err != nil {
		return q
	}
	window, err := p.Window(now)
	if err != nil {
		return q.withErr(err)
	}

	def := presets[p]
	if def.popularFirst {
		q = q.Popular(window).HighestRated(window)
	} else {
		q = q.HighestRated(window).Popular(window)
	}
	return q.MinReviews(def.minReviews)
}

// PopularLastMonth 上月最热门:Popular→HighestRated→MinReviews(2)
func (q Query) PopularLastMonth(now time.Time) Query {
	return q.ApplyPreset(PresetPopularLastMonth, now)
}

// PopularLastSixMonths 近半年最热门:Popular→HighestRated→MinReviews(5)
func (q Query) PopularLastSixMonths(now time.Time) Query {
	return q.ApplyPreset(PresetPopularLastSixMonths, now)
}

// HighestRatedLastMonth 上月最高分:HighestRated→Popular→MinReviews(2)
func (q Query) HighestRatedLastMonth(now time.Time) Query {
	return q.ApplyPreset(PresetHighestRatedLastMonth, now)
}

// HighestRatedLastSixMonths 近半年最高分:HighestRated→Popular→MinReviews(5)
func (q Query) HighestRatedLastSixMonths(now time.Time) Query {
	return q.ApplyPreset(PresetHighestRatedLastSixMonths, now)
}
