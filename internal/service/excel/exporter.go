package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"costlens/internal/model"
)

// 导出工作表名称
const (
	SheetRecords     = "Records"
	SheetSummary     = "Summary"
	SheetByQuarter   = "By Quarter"
	SheetByWarehouse = "By Warehouse"
	SheetByCategory  = "By Category"
	SheetByType      = "By Type"
	SheetByGLAccount = "By GL Account"
	SheetTopExpenses = "Top Expenses"
)

// RecordHeaders 记录导出表头（与 JSON 字段名一致）
var RecordHeaders = []string{
	"year", "quarter", "warehouse", "type", "glAccountNo", "glAccountName", "glAccountsGroup",
	"costType", "tcoModelCategories", "opexCapex", "totalIncurredCost",
	"shareDmsco", "share3PL", "shareAlFaris", "shareJaleel", "shareOther",
	"valueDmsco", "value3PL", "valueAlFaris", "valueJaleel", "valueOther",
	"pharmaciesCost", "distributionCost", "lastMileCost", "proceed3PLWHCost",
	"proceed3PLTRSCost", "warehouseCost", "transportationCost",
}

// Exporter Excel导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportRecords 导出成本记录，缺省的部门成本留空
func (e *Exporter) ExportRecords(records []model.CostRecord) (*excelize.File, error) {
	return build(func(f *excelize.File) error {
		f.SetSheetName("Sheet1", SheetRecords)

		w := newSheetWriter(f, SheetRecords)
		if err := w.header(RecordHeaders); err != nil {
			return err
		}
		for _, r := range records {
			if err := w.row(recordRow(r)); err != nil {
				return err
			}
		}
		f.SetColWidth(SheetRecords, "A", "AB", 16)
		return nil
	})
}

// ExportDashboard 导出看板汇总，每张汇总表一个工作表
func (e *Exporter) ExportDashboard(m model.DashboardMetrics) (*excelize.File, error) {
	return build(func(f *excelize.File) error {
		f.SetSheetName("Sheet1", SheetSummary)

		summary := newSheetWriter(f, SheetSummary)
		if err := summary.header([]string{"metric", "value"}); err != nil {
			return err
		}
		if err := summary.row([]interface{}{"recordCount", m.RecordCount}); err != nil {
			return err
		}
		for _, metric := range model.HeadlineMetrics {
			if err := summary.row([]interface{}{string(metric), money(m.Headline(metric))}); err != nil {
				return err
			}
		}

		quarter, err := addSheet(f, SheetByQuarter)
		if err != nil {
			return err
		}
		if err := quarter.header([]string{
			"key", "year", "quarter", "totalCost", "pharmaciesCost", "distributionCost", "lastMileCost",
			"proceed3PLWHCost", "proceed3PLTRSCost", "warehouseCost", "transportationCost",
		}); err != nil {
			return err
		}
		for _, q := range m.CostByQuarter {
			if err := quarter.row([]interface{}{
				q.Key, q.Year, string(q.Quarter), money(q.TotalCost), money(q.PharmaciesCost),
				money(q.DistributionCost), money(q.LastMileCost), money(q.Proceed3PLWHCost),
				money(q.Proceed3PLTRSCost), money(q.WarehouseCost), money(q.TransportationCost),
			}); err != nil {
				return err
			}
		}

		rollups := []struct {
			sheet string
			items []model.KeyCost
		}{
			{SheetByWarehouse, m.CostByWarehouse},
			{SheetByCategory, m.CostByCategory},
			{SheetByType, m.CostByType},
			{SheetByGLAccount, m.CostByGLAccount},
		}
		for _, ru := range rollups {
			w, err := addSheet(f, ru.sheet)
			if err != nil {
				return err
			}
			if err := w.header([]string{"key", "cost"}); err != nil {
				return err
			}
			for _, kc := range ru.items {
				if err := w.row([]interface{}{kc.Key, money(kc.Cost)}); err != nil {
					return err
				}
			}
		}

		top, err := addSheet(f, SheetTopExpenses)
		if err != nil {
			return err
		}
		if err := top.header(append([]string{"cost"}, RecordHeaders...)); err != nil {
			return err
		}
		for _, t := range m.TopExpenses {
			if err := top.row(append([]interface{}{money(t.Cost)}, recordRow(t.CostRecord)...)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExportDimension 导出自定义分析结果
func (e *Exporter) ExportDimension(dim model.Dimension, measures []model.Measure, rows []model.DimensionRow) (*excelize.File, error) {
	return build(func(f *excelize.File) error {
		sheet := string(dim)
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
		}

		w := newSheetWriter(f, sheet)
		headers := []string{"name"}
		for _, m := range measures {
			headers = append(headers, string(m))
		}
		if err := w.header(headers); err != nil {
			return err
		}
		for _, r := range rows {
			vals := []interface{}{r.Name}
			for _, m := range measures {
				vals = append(vals, money(r.Value(m)))
			}
			if err := w.row(vals); err != nil {
				return err
			}
		}
		return nil
	})
}

// build 创建工作簿并填充，填充失败时关闭工作簿
func build(fill func(f *excelize.File) error) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fill(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
}

func newSheetWriter(f *excelize.File, sheet string) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet, next: 1}
}

func addSheet(f *excelize.File, sheet string) (*sheetWriter, error) {
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	return newSheetWriter(f, sheet), nil
}

func (w *sheetWriter) header(headers []string) error {
	vals := make([]interface{}, len(headers))
	for i, h := range headers {
		vals[i] = h
	}
	if err := w.row(vals); err != nil {
		return err
	}

	// 设置表头样式
	style, err := w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	return w.f.SetRowStyle(w.sheet, 1, 1, style)
}

func (w *sheetWriter) row(vals []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &vals); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", w.next, w.sheet, err)
	}
	w.next++
	return nil
}

func recordRow(r model.CostRecord) []interface{} {
	return []interface{}{
		r.Year, string(r.Quarter), r.Warehouse, r.Type, r.GLAccountNo, r.GLAccountName, r.GLAccountsGroup,
		r.CostType, r.TCOModelCategories, r.OpexCapex, money(r.TotalIncurredCost),
		money(r.ShareDmsco), money(r.Share3PL), money(r.ShareAlFaris), money(r.ShareJaleel), money(r.ShareOther),
		money(r.ValueDmsco), money(r.Value3PL), money(r.ValueAlFaris), money(r.ValueJaleel), money(r.ValueOther),
		optional(r.PharmaciesCost), optional(r.DistributionCost), optional(r.LastMileCost),
		optional(r.Proceed3PLWHCost), optional(r.Proceed3PLTRSCost), optional(r.WarehouseCost),
		optional(r.TransportationCost),
	}
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optional(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
