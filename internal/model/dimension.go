package model

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Dimension 自定义分析可选的分组维度
type Dimension string

const (
	DimType               Dimension = "type"
	DimYear               Dimension = "year"
	DimQuarter            Dimension = "quarter"
	DimWarehouse          Dimension = "warehouse"
	DimGLAccountNo        Dimension = "glAccountNo"
	DimGLAccountName      Dimension = "glAccountName"
	DimGLAccountsGroup    Dimension = "glAccountsGroup"
	DimCostType           Dimension = "costType"
	DimTCOModelCategories Dimension = "tcoModelCategories"
	DimOpexCapex          Dimension = "opexCapex"
)

// Measure 自定义分析可选的度量
type Measure string

const (
	MeasureTotalCost           Measure = "totalIncurredCost"
	MeasureWarehouseValue      Measure = "warehouseValue"
	MeasureTransportationValue Measure = "transportationValue"
	MeasureDistributionValue   Measure = "distributionValue"
	MeasureLastMileValue       Measure = "lastMileValue"
	MeasureProceed3PLWHValue   Measure = "proceed3PLWHValue"
	MeasureProceed3PLTRSValue  Measure = "proceed3PLTRSValue"
)

// DimensionRow 分组结果：name + 各度量合计
type DimensionRow struct {
	Name     string
	Measures []Measure
	Values   map[Measure]decimal.Decimal
}

// Value 读取度量值
func (r DimensionRow) Value(m Measure) decimal.Decimal {
	return r.Values[m]
}

// MarshalJSON 输出为 {"name": ..., "<measure>": ...}，度量按请求顺序
func (r DimensionRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	name, err := json.Marshal(r.Name)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"name":`)
	buf.Write(name)
	for _, m := range r.Measures {
		key, err := json.Marshal(string(m))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[m])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
