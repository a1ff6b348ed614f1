package importer

import (
	"sort"
	"strings"

	"costlens/internal/model"
	"costlens/internal/parser"
	"costlens/internal/service/excel"
)

// previewRows 检查报告中预览的行数
const previewRows = 3

// InspectReport 文件检查报告（不写入存储）
type InspectReport struct {
	SheetName   string              `json:"sheetName"`
	Columns     []string            `json:"columns"`
	TotalRows   int                 `json:"totalRows"`
	YearColumn  string              `json:"yearColumn,omitempty"`
	Years       []int               `json:"years"`
	NullYears   int                 `json:"nullYears"`   // 年份列为空的行数
	InvalidYear int                 `json:"invalidYear"` // 年份有值但无法解析的行数
	Hints       []parser.HeaderHint `json:"hints"`
	Preview     []map[string]any    `json:"preview"`
}

// Inspect 检查已读取的工作表：列名、年份分布与表头诊断
func Inspect(sheet *excel.Sheet) InspectReport {
	report := InspectReport{
		SheetName: sheet.Name,
		Columns:   sheet.Headers,
		TotalRows: len(sheet.Rows),
		Years:     []int{},
		Hints:     parser.DiagnoseHeaders(sheet.Headers),
		Preview:   []map[string]any{},
	}

	yearCol, ok := parser.HeaderFor(sheet.Headers, "year")
	if ok {
		report.YearColumn = yearCol
	}

	seen := make(map[int]bool)
	for i, row := range sheet.Rows {
		if i < previewRows {
			report.Preview = append(report.Preview, previewOf(row))
		}
		if !ok {
			continue
		}
		v, present := row.Get(yearCol)
		if !present || v == nil || isBlankCell(v) {
			report.NullYears++
			continue
		}
		year, err := parser.ParseYear(v)
		if err != nil {
			report.InvalidYear++
			continue
		}
		if !seen[year] {
			seen[year] = true
			report.Years = append(report.Years, year)
		}
	}
	sort.Ints(report.Years)
	return report
}

func previewOf(row model.RawRow) map[string]any {
	out := make(map[string]any, row.Len())
	for _, k := range row.Keys() {
		v, _ := row.Get(k)
		out[k] = v
	}
	return out
}

func isBlankCell(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
