package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_RenderRankingPage(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	avg := 3.4
	page := RankingPage{
		Title:   "上月最热门",
		Presets: []PresetLink{{Name: "popular_last_month", Title: "上月最热门"}},
		Books: []RankingItem{
			{ID: 1, Title: "Dune", ReviewsCount: 3, AvgRating: &avg},
			{ID: 2, Title: "Empty", ReviewsCount: 0},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "rankings.html", page))

	html := buf.String()
	assert.Contains(t, html, "<h1>上月最热门</h1>")
	assert.Contains(t, html, "★★★☆☆")
	assert.Contains(t, html, "No rating yet")
	assert.Contains(t, html, `href="/rankings/popular_last_month"`)
}

func TestTemplates_EmptyPage(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "rankings.html", RankingPage{Title: "x"}))
	assert.Contains(t, buf.String(), "暂无上榜图书")
}
