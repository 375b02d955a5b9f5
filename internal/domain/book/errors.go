package book

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrEmptyTitle 书名为空
	ErrEmptyTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrInvalidRating 评分超出范围
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidRating, "评分必须在1-5之间")

	// ErrInvalidTimestamp 时间格式错误
	ErrInvalidTimestamp = apperrors.New(apperrors.ErrCodeInvalidTimestamp, "时间格式错误,应为RFC3339或YYYY-MM-DD")

	// ErrInvalidDateRange 开始时间晚于结束时间
	ErrInvalidDateRange = apperrors.New(apperrors.ErrCodeInvalidDateRange, "开始时间不能晚于结束时间")

	// ErrInvalidMinReviews 最少书评数为负数
	ErrInvalidMinReviews = apperrors.New(apperrors.ErrCodeInvalidParams, "最少书评数不能为负数")

	// ErrMissingReviewsCount MinReviews之前没有书评数量统计
	ErrMissingReviewsCount = apperrors.New(apperrors.ErrCodeMissingReviewsCount, "按书评数过滤前必须先统计书评数量")

	// ErrInvalidPage 分页参数为负数(通常是页码过大导致偏移量溢出)
	ErrInvalidPage = apperrors.New(apperrors.ErrCodeInvalidParams, "分页参数错误")

	// ErrUnknownPreset 未知的排行榜名称
	ErrUnknownPreset = apperrors.New(apperrors.ErrCodeUnknownPreset, "未知的排行榜")
)
