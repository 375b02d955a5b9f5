// Package view HTML页面渲染
package view

import (
	"math"
	"strings"
)

// NoRating 没有评分时的占位文本
const NoRating = "No rating yet"

const (
	starFilled = "★"
	starEmpty  = "☆"
	starCount  = 5
)

// StarRating 把平均分渲染为5颗星
// 评分先截断到[0,5],四舍五入(.5进位)得到实心星数量,其余为空心星,
// 所以输出总是5个字符:3.4 → ★★★☆☆,2.5 → ★★★☆☆
func StarRating(rating *float64) string {
	if rating == nil {
		return NoRating
	}

	r := math.Max(0, math.Min(starCount, *rating))
	if math.IsNaN(r) {
		r = 0
	}
	filled := int(math.Round(r))

	return strings.Repeat(starFilled, filled) + strings.Repeat(starEmpty, starCount-filled)
}
