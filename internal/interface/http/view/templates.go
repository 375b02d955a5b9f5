package view

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap 页面模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"stars": StarRating,
	}
}

// Templates 解析全部页面模板,用于gin.Engine.SetHTMLTemplate
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
