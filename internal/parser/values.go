package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"costlens/internal/model"
)

// 年份合法范围（闭区间）
const (
	MinYear = 1900
	MaxYear = 2100
)

// ErrInvalidYear 年份无法解析或超出范围；该行必须被丢弃
var ErrInvalidYear = errors.New("invalid year")

var (
	reNonNumeric   = regexp.MustCompile(`[^0-9.\-]`)
	reNumberPrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	reIntPrefix    = regexp.MustCompile(`^[+-]?\d+`)
	reFourDigits   = regexp.MustCompile(`^\d{4}$`)
	reTwoDigits    = regexp.MustCompile(`^\d{2}$`)
	reYearInText   = regexp.MustCompile(`(?:^|\D)(\d{4})(?:\D|$)`)
	reQuarterExact = regexp.MustCompile(`^Q[1-4]$`)
	reQuarterTag   = regexp.MustCompile(`Q([1-4])`)
	reQuarterDigit = regexp.MustCompile(`[1-4]`)
	reWhitespace   = regexp.MustCompile(`\s+`)
)

// ParseNumber 解析金额：去掉千分位和非数字字符，无法解析时返回 0
func ParseNumber(v any) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(t)
	case float32:
		return ParseNumber(float64(t))
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case int32:
		return decimal.NewFromInt(int64(t))
	case bool:
		return decimal.Zero
	}

	s := strings.ReplaceAll(toString(v), ",", "")
	s = reNonNumeric.ReplaceAllString(s, "")
	m := reNumberPrefix.FindString(s)
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParsePercentage 解析百分比，规则同 ParseNumber 并额外去掉 %
func ParsePercentage(v any) decimal.Decimal {
	if s, ok := v.(string); ok {
		return ParseNumber(strings.ReplaceAll(s, "%", ""))
	}
	return ParseNumber(v)
}

// ParseYear 解析年份
//   - 数值：向下取整
//   - 含 "," 或 "."：去掉千分位与小数部分（兼容 "2,025.00"）
//   - 4 位数字：直接解析
//   - 2 位数字：<50 视为 20xx，否则 19xx
//   - 其他：取文本中第一段恰好 4 位的数字，找不到则按整数前缀解析
//
// 结果必须落在 [1900, 2100]，否则返回 ErrInvalidYear。
func ParseYear(v any) (int, error) {
	year, ok := parseYearValue(v)
	if !ok || year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("%w: %v", ErrInvalidYear, v)
	}
	return year, nil
}

func parseYearValue(v any) (int, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(math.Floor(t)), true
	case float32:
		return parseYearValue(float64(t))
	case int:
		return t, true
	case int64:
		return int(t), true
	case int32:
		return int(t), true
	case decimal.Decimal:
		return int(t.Floor().IntPart()), true
	}

	s := strings.TrimSpace(toString(v))
	if s == "" {
		return 0, false
	}

	if strings.ContainsAny(s, ",.") {
		s = strings.ReplaceAll(s, ",", "")
		if idx := strings.Index(s, "."); idx >= 0 {
			s = s[:idx]
		}
		return parseLeadingInt(s)
	}

	if reFourDigits.MatchString(s) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	}

	if reTwoDigits.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		if n < 50 {
			return 2000 + n, true
		}
		return 1900 + n, true
	}

	if m := reYearInText.FindStringSubmatch(s); len(m) == 2 {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}

	return parseLeadingInt(s)
}

// parseLeadingInt 解析字符串开头的整数部分（"2025abc" -> 2025）
func parseLeadingInt(s string) (int, bool) {
	m := reIntPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

// ParseQuarter 解析季度，总是返回 Q1-Q4 之一
// 第二个返回值为 false 表示无法识别、已回退为 Q1。
func ParseQuarter(v any) (model.Quarter, bool) {
	s := strings.ToUpper(reWhitespace.ReplaceAllString(toString(v), ""))
	if reQuarterExact.MatchString(s) {
		return model.Quarter(s), true
	}
	if m := reQuarterTag.FindStringSubmatch(s); len(m) == 2 {
		return model.Quarter("Q" + m[1]), true
	}
	if d := reQuarterDigit.FindString(s); d != "" {
		return model.Quarter("Q" + d), true
	}
	return model.Q1, false
}

// ParseText 转为去除首尾空白的字符串
func ParseText(v any) string {
	return strings.TrimSpace(toString(v))
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case decimal.Decimal:
		return t.String()
	}
	return fmt.Sprint(v)
}

// isBlank 单元格是否为空（nil 或全空白字符串）
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
