package parser

import (
	"github.com/agnivade/levenshtein"

	"costlens/internal/model"
)

// HeaderHint 表头诊断：某规范字段未匹配到任何列时给出最接近的表头
type HeaderHint struct {
	Field      string `json:"field"`
	Required   bool   `json:"required"`
	Suggestion string `json:"suggestion,omitempty"`
	Distance   int    `json:"distance,omitempty"`
}

// DiagnoseHeaders 检查表头能否覆盖全部规范字段
// 只做提示，不影响 Lookup 的匹配结果。
func DiagnoseHeaders(headers []string) []HeaderHint {
	hdr := headerRow(headers)

	hints := make([]HeaderHint, 0)
	for _, f := range CanonicalFields {
		if _, ok := Lookup(hdr, f.Aliases); ok {
			continue
		}
		hint := HeaderHint{Field: f.Name, Required: f.Required}
		if best, dist, ok := closestHeader(headers, f.Aliases); ok {
			hint.Suggestion = best
			hint.Distance = dist
		}
		hints = append(hints, hint)
	}
	return hints
}

func closestHeader(headers, aliases []string) (string, int, bool) {
	best := ""
	bestDist := -1
	for _, h := range headers {
		nh := NormalizeColumnName(h)
		if nh == "" {
			continue
		}
		for _, a := range aliases {
			na := NormalizeColumnName(a)
			d := levenshtein.ComputeDistance(nh, na)
			if bestDist < 0 || d < bestDist {
				best, bestDist = h, d
			}
		}
	}
	if bestDist < 0 || bestDist > maxHintDistance(best) {
		return "", 0, false
	}
	return best, bestDist, true
}

// maxHintDistance 允许的最大编辑距离：约为表头长度的三分之一，至少 2
func maxHintDistance(header string) int {
	limit := len([]rune(NormalizeColumnName(header))) / 3
	if limit < 2 {
		return 2
	}
	return limit
}

// HeaderFor 返回规范字段在给定表头中匹配到的列名
func HeaderFor(headers []string, field string) (string, bool) {
	for _, f := range CanonicalFields {
		if f.Name != field {
			continue
		}
		key, _, ok := LookupKey(headerRow(headers), f.Aliases)
		return key, ok
	}
	return "", false
}

// headerRow 以表头自身作为取值构造查找行
func headerRow(headers []string) model.RawRow {
	hdr := model.NewRawRow()
	for _, h := range headers {
		hdr.Set(h, h)
	}
	return hdr
}
