package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"costlens/internal/log"
	"costlens/internal/model"
)

// Normalizer 行归一化器：把原始表格行转换为 model.CostRecord
// 除注入的日志器外不持有任何状态，可并发使用。
type Normalizer struct {
	log *log.Logger
}

// NewNormalizer 创建归一化器，logger 为 nil 时丢弃日志
func NewNormalizer(logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Normalizer{log: logger.WithComponent("normalizer")}
}

// NormalizeResult 批量归一化结果
type NormalizeResult struct {
	Records          []model.CostRecord
	DroppedRows      []int // 年份无效被丢弃的行号
	DefaultedQuarter []int // 季度无法识别、回退为 Q1 的行号
}

// NormalizeAll 归一化全部行，丢弃年份无效的行
func (n *Normalizer) NormalizeAll(rows []model.RawRow) NormalizeResult {
	result := NormalizeResult{
		Records:          make([]model.CostRecord, 0, len(rows)),
		DroppedRows:      []int{},
		DefaultedQuarter: []int{},
	}
	for i, row := range rows {
		rowNo := row.RowNo
		if rowNo <= 0 {
			rowNo = i + 2
		}
		rec, ok, quarterKnown := n.normalize(row, rowNo)
		if !ok {
			result.DroppedRows = append(result.DroppedRows, rowNo)
			continue
		}
		if !quarterKnown {
			result.DefaultedQuarter = append(result.DefaultedQuarter, rowNo)
		}
		result.Records = append(result.Records, rec)
	}
	return result
}

// Normalize 归一化单行
// 年份无效（无法解析、为 0 或超出 [1900, 2100]）时返回 false，该行必须丢弃；
// 其余字段解析失败一律取默认值。
func (n *Normalizer) Normalize(row model.RawRow, rowNo int) (model.CostRecord, bool) {
	rec, ok, _ := n.normalize(row, rowNo)
	return rec, ok
}

func (n *Normalizer) normalize(row model.RawRow, rowNo int) (model.CostRecord, bool, bool) {
	rawYear := Resolve(row, yearAliases, nil)
	year, err := ParseYear(rawYear)
	if err != nil {
		n.log.Warn("年份无效，丢弃该行", "row", rowNo, "value", rawYear)
		return model.CostRecord{}, false, false
	}

	rawQuarter := Resolve(row, quarterAliases, nil)
	quarter, quarterKnown := ParseQuarter(rawQuarter)
	if !quarterKnown {
		n.log.Warn("季度无法识别，默认 Q1", "row", rowNo, "value", rawQuarter)
	}

	rec := model.CostRecord{
		RowNo:   rowNo,
		Year:    year,
		Quarter: quarter,

		Warehouse:          n.text(row, rowNo, "warehouse", warehouseAliases),
		Type:               n.text(row, rowNo, "type", typeAliases),
		GLAccountNo:        n.text(row, rowNo, "glAccountNo", glAccountNoAliases),
		GLAccountName:      n.text(row, rowNo, "glAccountName", glAccountNameAliases),
		GLAccountsGroup:    n.text(row, rowNo, "glAccountsGroup", glAccountsGroupAliases),
		CostType:           n.text(row, rowNo, "costType", costTypeAliases),
		TCOModelCategories: n.text(row, rowNo, "tcoModelCategories", tcoAliases),
		OpexCapex:          strings.ToLower(n.text(row, rowNo, "opexCapex", opexCapexAliases)),

		TotalIncurredCost: ParseNumber(Resolve(row, totalCostAliases, 0)),

		ShareDmsco:   ParsePercentage(Resolve(row, shareDmscoAliases, 0)),
		Share3PL:     ParsePercentage(Resolve(row, share3PLAliases, 0)),
		ShareAlFaris: ParsePercentage(Resolve(row, shareAlFarisAliases, 0)),
		ShareJaleel:  ParsePercentage(Resolve(row, shareJaleelAliases, 0)),
		ShareOther:   ParsePercentage(Resolve(row, shareOtherAliases, 0)),

		ValueDmsco:   ParseNumber(Resolve(row, valueDmscoAliases, 0)),
		Value3PL:     ParseNumber(Resolve(row, value3PLAliases, 0)),
		ValueAlFaris: ParseNumber(Resolve(row, valueAlFarisAliases, 0)),
		ValueJaleel:  ParseNumber(Resolve(row, valueJaleelAliases, 0)),
		ValueOther:   ParseNumber(Resolve(row, valueOtherAliases, 0)),

		PharmaciesCost:     derivedCost(row, pharmaciesCostAliases, valueDmscoAliases),
		DistributionCost:   derivedCost(row, distributionCostAliases, valueAlFarisAliases),
		LastMileCost:       derivedCost(row, lastMileCostAliases, valueJaleelAliases),
		Proceed3PLWHCost:   derivedCost(row, proceed3PLWHCostAliases, nil),
		Proceed3PLTRSCost:  derivedCost(row, proceed3PLTRSCostAliases, nil),
		WarehouseCost:      derivedCost(row, warehouseCostAliases, valueDmscoAliases),
		TransportationCost: derivedCost(row, transportationCostAliases, valueOtherAliases),
	}

	return rec, true, quarterKnown
}

func (n *Normalizer) text(row model.RawRow, rowNo int, field string, aliases []string) string {
	v, ok := Lookup(row, aliases)
	if !ok {
		n.log.Debug("字段未匹配，取默认值", "row", rowNo, "field", field)
		return ""
	}
	return ParseText(v)
}

// derivedCost 部门成本：优先取自身列，其次取对应的分摊金额列；都不存在时为缺省
func derivedCost(row model.RawRow, own, sibling []string) decimal.NullDecimal {
	if v, ok := Lookup(row, own); ok && !isBlank(v) {
		return decimal.NullDecimal{Decimal: ParseNumber(v), Valid: true}
	}
	if len(sibling) == 0 {
		return decimal.NullDecimal{}
	}
	if v, ok := Lookup(row, sibling); ok && !isBlank(v) {
		return decimal.NullDecimal{Decimal: ParseNumber(v), Valid: true}
	}
	return decimal.NullDecimal{}
}
