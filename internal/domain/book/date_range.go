package book

import (
	"strings"
	"time"
)

// dateLayout 仅日期格式(YYYY-MM-DD)
const dateLayout = "2006-01-02"

// DateRange 书评创建时间过滤窗口
// 过滤规则(所有接受from/to的地方统一使用):
// - 只有from: created_at >= from
// - 只有to:   created_at <= to
// - 两者都有: from <= created_at <= to(闭区间)
// - 两者都无: 不过滤
type DateRange struct {
	from *time.Time
	to   *time.Time
}

// AnyTime 不限时间
func AnyTime() DateRange {
	return DateRange{}
}

// Since 从from开始(含)
func Since(from time.Time) DateRange {
	return DateRange{from: &from}
}

// Until 截止到to(含)
func Until(to time.Time) DateRange {
	return DateRange{to: &to}
}

// Between 闭区间[from, to]
func Between(from, to time.Time) DateRange {
	return DateRange{from: &from, to: &to}
}

// NewDateRange 由可选的起止时间构造窗口(nil表示不限)
func NewDateRange(from, to *time.Time) DateRange {
	var r DateRange
	if from != nil {
		f := *from
		r.from = &f
	}
	if to != nil {
		t := *to
		r.to = &t
	}
	return r
}

// From 返回开始时间
func (r DateRange) From() (time.Time, bool) {
	if r.from == nil {
		return time.Time{}, false
	}
	return *r.from, true
}

// To 返回结束时间
func (r DateRange) To() (time.Time, bool) {
	if r.to == nil {
		return time.Time{}, false
	}
	return *r.to, true
}

// IsUnbounded 是否不限时间
func (r DateRange) IsUnbounded() bool {
	return r.from == nil && r.to == nil
}

// Validate 校验窗口:开始时间不能晚于结束时间
func (r DateRange) Validate() error {
	if r.from != nil && r.to != nil && r.from.After(*r.to) {
		return ErrInvalidDateRange
	}
	return nil
}

// Contains 判断时间点是否落在窗口内(边界包含)
func (r DateRange) Contains(t time.Time) bool {
	if r.from != nil && t.Before(*r.from) {
		return false
	}
	if r.to != nil && t.After(*r.to) {
		return false
	}
	return true
}

// Equal 比较两个窗口是否相同
func (r DateRange) Equal(other DateRange) bool {
	return timePtrEqual(r.from, other.from) && timePtrEqual(r.to, other.to)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// ParseDateRange 解析HTTP查询参数中的时间窗口
// 支持格式:
// - RFC3339: 2024-05-01T10:00:00+08:00
// - 仅日期: 2024-05-01(to为仅日期时表示当天结束)
// 空字符串表示该端不限
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange

	if s := strings.TrimSpace(from); s != "" {
		t, err := parseTimestamp(s, false)
		if err != nil {
			return DateRange{}, err
		}
		r.from = &t
	}

	if s := strings.TrimSpace(to); s != "" {
		t, err := parseTimestamp(s, true)
		if err != nil {
			return DateRange{}, err
		}
		r.to = &t
	}

	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// parseTimestamp 解析单个时间
// endOfDay为true时,仅日期格式取当天最后一刻
func parseTimestamp(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
