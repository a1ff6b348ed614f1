package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"costlens/internal/model"
)

var (
	// ErrUnknownDimension 不支持的分组维度
	ErrUnknownDimension = errors.New("unknown dimension")
	// ErrUnknownMeasure 不支持的度量
	ErrUnknownMeasure = errors.New("unknown measure")
)

var dimensionAccessors = map[model.Dimension]func(model.CostRecord) string{
	model.DimType:               func(r model.CostRecord) string { return r.Type },
	model.DimYear:               func(r model.CostRecord) string { return strconv.Itoa(r.Year) },
	model.DimQuarter:            func(r model.CostRecord) string { return string(r.Quarter) },
	model.DimWarehouse:          func(r model.CostRecord) string { return r.Warehouse },
	model.DimGLAccountNo:        func(r model.CostRecord) string { return r.GLAccountNo },
	model.DimGLAccountName:      func(r model.CostRecord) string { return r.GLAccountName },
	model.DimGLAccountsGroup:    func(r model.CostRecord) string { return r.GLAccountsGroup },
	model.DimCostType:           func(r model.CostRecord) string { return r.CostType },
	model.DimTCOModelCategories: func(r model.CostRecord) string { return r.TCOModelCategories },
	model.DimOpexCapex:          func(r model.CostRecord) string { return r.OpexCapex },
}

var measureAccessors = map[model.Measure]func(model.CostRecord) decimal.Decimal{
	model.MeasureTotalCost:           func(r model.CostRecord) decimal.Decimal { return r.TotalIncurredCost },
	model.MeasureWarehouseValue:      func(r model.CostRecord) decimal.Decimal { return r.ValueDmsco },
	model.MeasureTransportationValue: func(r model.CostRecord) decimal.Decimal { return r.ValueOther },
	model.MeasureDistributionValue:   func(r model.CostRecord) decimal.Decimal { return r.ValueAlFaris },
	model.MeasureLastMileValue:       func(r model.CostRecord) decimal.Decimal { return r.ValueJaleel },
	model.MeasureProceed3PLWHValue:   func(r model.CostRecord) decimal.Decimal { return r.Proceed3PLWH() },
	model.MeasureProceed3PLTRSValue:  func(r model.CostRecord) decimal.Decimal { return r.Proceed3PLTRS() },
}

// Dimensions 支持的分组维度（前端下拉顺序）
var Dimensions = []model.Dimension{
	model.DimType,
	model.DimYear,
	model.DimQuarter,
	model.DimWarehouse,
	model.DimGLAccountNo,
	model.DimGLAccountName,
	model.DimGLAccountsGroup,
	model.DimCostType,
	model.DimTCOModelCategories,
	model.DimOpexCapex,
}

// Measures 支持的度量
var Measures = []model.Measure{
	model.MeasureTotalCost,
	model.MeasureWarehouseValue,
	model.MeasureTransportationValue,
	model.MeasureDistributionValue,
	model.MeasureLastMileValue,
	model.MeasureProceed3PLWHValue,
	model.MeasureProceed3PLTRSValue,
}

// AggregateByDimension 按维度分组并对多个度量求和，结果按第一个度量降序
// 维度取值为空的记录归入 "Unknown"；重复的度量只计一次。
func AggregateByDimension(records []model.CostRecord, dim model.Dimension, measures []model.Measure) ([]model.DimensionRow, error) {
	keyOf, ok := dimensionAccessors[dim]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, dim)
	}
	measures = UniqueMeasures(measures)
	if len(measures) == 0 {
		return nil, fmt.Errorf("%w: no measures requested", ErrUnknownMeasure)
	}
	values := make([]func(model.CostRecord) decimal.Decimal, len(measures))
	for i, m := range measures {
		fn, ok := measureAccessors[m]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMeasure, m)
		}
		values[i] = fn
	}

	index := make(map[string]int)
	rows := make([]model.DimensionRow, 0)
	for _, r := range records {
		key := keyOf(r)
		if key == "" {
			key = model.UnknownKey
		}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			row := model.DimensionRow{
				Name:     key,
				Measures: measures,
				Values:   make(map[model.Measure]decimal.Decimal, len(measures)),
			}
			for _, m := range measures {
				row.Values[m] = decimal.Zero
			}
			rows = append(rows, row)
		}
		for j, m := range measures {
			rows[i].Values[m] = rows[i].Values[m].Add(values[j](r))
		}
	}

	first := measures[0]
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Values[first].GreaterThan(rows[j].Values[first])
	})
	return rows, nil
}

// UniqueMeasures 去除重复度量，保持首次出现顺序
func UniqueMeasures(measures []model.Measure) []model.Measure {
	seen := make(map[model.Measure]bool, len(measures))
	out := make([]model.Measure, 0, len(measures))
	for _, m := range measures {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
