package mysql

import (
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// likeEscaper 转义LIKE通配符(MySQL默认转义符为反斜杠)
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 生成"包含"匹配模式:%keyword%
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// whereCreatedIn 把时间窗口翻译为created_at条件
// - 只有from: >=
// - 只有to:   <=
// - 两者都有: BETWEEN(闭区间)
func whereCreatedIn(db *gorm.DB, column string, r book.DateRange) *gorm.DB {
	from, hasFrom := r.From()
	to, hasTo := r.To()
	switch {
	case hasFrom && hasTo:
		return db.Where(column+" BETWEEN ? AND ?", from, to)
	case hasFrom:
		return db.Where(column+" >= ?", from)
	case hasTo:
		return db.Where(column+" <= ?", to)
	}
	return db
}
