package mysql

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

// slowQueryThreshold 慢查询阈值(排行榜的相关子查询最容易超过)
const slowQueryThreshold = 200 * time.Millisecond

// NewDB 创建数据库连接
// 设计说明：
// 1. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 2. SQL日志统一输出到zerolog：开发环境打印全部SQL，其他环境只打印慢查询和错误
// 3. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.New(sqlLogWriter{log: log.Logger.With().Str("component", "gorm").Logger()}, logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Str("db", cfg.Database.DBName).
		Msg("数据库连接成功")

	// 注意：生产环境应使用版本化的迁移脚本
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// sqlLogWriter 把GORM日志转发到zerolog
type sqlLogWriter struct {
	log zerolog.Logger
}

// Printf 实现logger.Writer
func (w sqlLogWriter) Printf(format string, args ...interface{}) {
	w.log.Info().Msgf(format, args...)
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&ReviewModel{},
	)
}

// BookModel GORM图书模型
// domain/book/entity.go是领域实体，不依赖GORM，Repository负责两者之间的转换
type BookModel struct {
	ID          uint           `gorm:"primaryKey"`
	Title       string         `gorm:"index;size:200;not null;comment:书名"`
	Author      string         `gorm:"size:100;not null;default:'';comment:作者"`
	Description string         `gorm:"type:text;comment:图书描述"`
	CreatedAt   time.Time      `gorm:"comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// ReviewModel GORM书评模型
// 排行榜的相关子查询按(book_id, created_at)过滤，使用复合索引
type ReviewModel struct {
	ID         uint      `gorm:"primaryKey"`
	BookID     uint      `gorm:"index:idx_book_created,priority:1;not null;comment:图书ID"`
	ReviewerID uint      `gorm:"index;not null;comment:书评作者ID"`
	Rating     int       `gorm:"type:tinyint;not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5;comment:评分(1-5)"`
	Content    string    `gorm:"type:text;comment:书评内容"`
	CreatedAt  time.Time `gorm:"index:idx_book_created,priority:2;comment:创建时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}
