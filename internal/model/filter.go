package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RecordFilter 记录等值查询条件，nil 字段表示不过滤
type RecordFilter struct {
	Year          *int    `json:"year,omitempty"`
	Quarter       *string `json:"quarter,omitempty"`       // 大小写不敏感
	Warehouse     *string `json:"warehouse,omitempty"`     // 精确匹配
	Type          *string `json:"type,omitempty"`          // 精确匹配
	CostType      *string `json:"costType,omitempty"`      // 精确匹配
	OpexCapex     *string `json:"opexCapex,omitempty"`     // 精确匹配
	Category      *string `json:"category,omitempty"`      // TCO 分类，精确匹配
	GLAccountNo   *string `json:"glAccountNo,omitempty"`   // 精确匹配
	GLAccountName *string `json:"glAccountName,omitempty"` // 大小写不敏感子串
}

// Empty 是否没有任何条件
func (f RecordFilter) Empty() bool {
	return f.Year == nil && f.Quarter == nil && f.Warehouse == nil && f.Type == nil &&
		f.CostType == nil && f.OpexCapex == nil && f.Category == nil &&
		f.GLAccountNo == nil && f.GLAccountName == nil
}

// Match 判断记录是否满足全部条件
func (f RecordFilter) Match(r CostRecord) bool {
	if f.Year != nil && r.Year != *f.Year {
		return false
	}
	if f.Quarter != nil && !strings.EqualFold(string(r.Quarter), *f.Quarter) {
		return false
	}
	if f.Warehouse != nil && r.Warehouse != *f.Warehouse {
		return false
	}
	if f.Type != nil && r.Type != *f.Type {
		return false
	}
	if f.CostType != nil && r.CostType != *f.CostType {
		return false
	}
	if f.OpexCapex != nil && r.OpexCapex != *f.OpexCapex {
		return false
	}
	if f.Category != nil && r.TCOModelCategories != *f.Category {
		return false
	}
	if f.GLAccountNo != nil && r.GLAccountNo != *f.GLAccountNo {
		return false
	}
	if f.GLAccountName != nil &&
		!strings.Contains(strings.ToLower(r.GLAccountName), strings.ToLower(*f.GLAccountName)) {
		return false
	}
	return true
}

// Apply 返回满足条件的记录（保持原顺序）
func (f RecordFilter) Apply(records []CostRecord) []CostRecord {
	out := make([]CostRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterFromMap 从前端传入的条件映射构建过滤器
// year 同时接受数字与数字字符串；空值与 "all" 视为不过滤。
func FilterFromMap(m map[string]any) (RecordFilter, error) {
	var f RecordFilter
	for key, raw := range m {
		if isAll(raw) {
			continue
		}
		if key == "year" {
			year, err := filterYear(raw)
			if err != nil {
				return RecordFilter{}, err
			}
			f.Year = &year
			continue
		}

		s := strings.TrimSpace(fmt.Sprint(raw))
		switch key {
		case "quarter":
			f.Quarter = &s
		case "warehouse":
			f.Warehouse = &s
		case "type":
			f.Type = &s
		case "costType":
			f.CostType = &s
		case "opexCapex":
			f.OpexCapex = &s
		case "category":
			f.Category = &s
		case "glAccountNo":
			f.GLAccountNo = &s
		case "glAccountName":
			f.GLAccountName = &s
		default:
			return RecordFilter{}, fmt.Errorf("unknown filter field: %s", key)
		}
	}
	return f, nil
}

func isAll(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "all")
}

func filterYear(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("invalid year filter: %v", t)
		}
		return int(t), nil
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.Atoi(s); err == nil {
			return i, nil
		}
		if fl, err := strconv.ParseFloat(s, 64); err == nil && fl == math.Trunc(fl) {
			return int(fl), nil
		}
		return 0, fmt.Errorf("invalid year filter: %q", t)
	}
	return 0, fmt.Errorf("invalid year filter: %v", v)
}
