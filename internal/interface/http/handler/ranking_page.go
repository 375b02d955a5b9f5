package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/interface/http/view"
	"github.com/xiebiao/bookreview/pkg/response"
)

// rankingPageSize 排行榜页面展示的图书数量
const rankingPageSize = 50

// RankingPageHandler 预置排行榜HTML页面
type RankingPageHandler struct {
	rankBooks *appbook.RankBooksUseCase
}

// NewRankingPageHandler 创建排行榜页面处理器
func NewRankingPageHandler(rankBooks *appbook.RankBooksUseCase) *RankingPageHandler {
	return &RankingPageHandler{rankBooks: rankBooks}
}

// Show 渲染排行榜页面
// 路由:GET /rankings/:preset,需要引擎已设置view.Templates()
func (h *RankingPageHandler) Show(c *gin.Context) {
	result, err := h.rankBooks.Execute(c.Request.Context(), appbook.RankBooksRequest{
		Preset:   c.Param("preset"),
		PageSize: rankingPageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	page := view.RankingPage{
		Title:   result.Title,
		Presets: presetLinks(),
		Books:   make([]view.RankingItem, len(result.List)),
	}
	for i, item := range result.List {
		page.Books[i] = view.RankingItem{
			ID:        item.ID,
			Title:     item.Title,
			Author:    item.Author,
			AvgRating: item.AvgRating,
		}
		if item.ReviewsCount != nil {
			page.Books[i].ReviewsCount = *item.ReviewsCount
		}
	}

	c.HTML(http.StatusOK, "rankings.html", page)
}

func presetLinks() []view.PresetLink {
	presets := book.Presets()
	links := make([]view.PresetLink, len(presets))
	for i, p := range presets {
		links[i] = view.PresetLink{Name: string(p), Title: p.Title()}
	}
	return links
}
