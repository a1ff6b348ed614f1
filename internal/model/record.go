package model

import (
	"github.com/shopspring/decimal"
)

// Quarter 季度标签
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Quarters 全部合法季度（按顺序）
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

// Valid 是否为四个标准季度之一
func (q Quarter) Valid() bool {
	switch q {
	case Q1, Q2, Q3, Q4:
		return true
	}
	return false
}

// Opex/Capex 分类取值（小写）
const (
	Opex  = "opex"
	Capex = "capex"
)

// CostRecord 规范化后的一行成本数据
// 归一化时一次性创建，之后不再修改；7 个部门成本字段允许缺省（Valid=false），
// 调用方需回退到对应的 Value* 字段。
type CostRecord struct {
	ID    int64 `json:"id"`
	RowNo int   `json:"rowNo"`

	Year    int     `json:"year"`
	Quarter Quarter `json:"quarter"`

	Warehouse          string `json:"warehouse"`
	Type               string `json:"type"`
	GLAccountNo        string `json:"glAccountNo"`
	GLAccountName      string `json:"glAccountName"`
	GLAccountsGroup    string `json:"glAccountsGroup"`
	CostType           string `json:"costType"`
	TCOModelCategories string `json:"tcoModelCategories"`
	OpexCapex          string `json:"opexCapex"`

	TotalIncurredCost decimal.Decimal `json:"totalIncurredCost"`

	// 人工分摊比例（百分数）
	ShareDmsco   decimal.Decimal `json:"shareDmsco"`
	Share3PL     decimal.Decimal `json:"share3PL"`
	ShareAlFaris decimal.Decimal `json:"shareAlFaris"`
	ShareJaleel  decimal.Decimal `json:"shareJaleel"`
	ShareOther   decimal.Decimal `json:"shareOther"`

	// 人工分摊金额
	ValueDmsco   decimal.Decimal `json:"valueDmsco"`
	Value3PL     decimal.Decimal `json:"value3PL"`
	ValueAlFaris decimal.Decimal `json:"valueAlFaris"`
	ValueJaleel  decimal.Decimal `json:"valueJaleel"`
	ValueOther   decimal.Decimal `json:"valueOther"`

	// 部门成本（可缺省）
	PharmaciesCost     decimal.NullDecimal `json:"pharmaciesCost"`
	DistributionCost   decimal.NullDecimal `json:"distributionCost"`
	LastMileCost       decimal.NullDecimal `json:"lastMileCost"`
	Proceed3PLWHCost   decimal.NullDecimal `json:"proceed3PLWHCost"`
	Proceed3PLTRSCost  decimal.NullDecimal `json:"proceed3PLTRSCost"`
	WarehouseCost      decimal.NullDecimal `json:"warehouseCost"`
	TransportationCost decimal.NullDecimal `json:"transportationCost"`
}

var half = decimal.NewFromFloat(0.5)

func orElse(v decimal.NullDecimal, fallback decimal.Decimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return fallback
}

// Pharmacies 药房成本，缺省时回退 ValueDmsco
func (r CostRecord) Pharmacies() decimal.Decimal {
	return orElse(r.PharmaciesCost, r.ValueDmsco)
}

// Distribution 配送成本，缺省时回退 ValueAlFaris
func (r CostRecord) Distribution() decimal.Decimal {
	return orElse(r.DistributionCost, r.ValueAlFaris)
}

// LastMile 末端配送成本，缺省时回退 ValueJaleel
func (r CostRecord) LastMile() decimal.Decimal {
	return orElse(r.LastMileCost, r.ValueJaleel)
}

// Proceed3PLWH 3PL 仓储成本，缺省时取 Value3PL 的一半
func (r CostRecord) Proceed3PLWH() decimal.Decimal {
	return orElse(r.Proceed3PLWHCost, r.Value3PL.Mul(half))
}

// Proceed3PLTRS 3PL 运输成本，缺省时取 Value3PL 的一半
func (r CostRecord) Proceed3PLTRS() decimal.Decimal {
	return orElse(r.Proceed3PLTRSCost, r.Value3PL.Mul(half))
}

// WarehouseDept 仓储部门成本，缺省时回退 ValueDmsco
func (r CostRecord) WarehouseDept() decimal.Decimal {
	return orElse(r.WarehouseCost, r.ValueDmsco)
}

// Transportation 运输成本，缺省时回退 ValueOther
func (r CostRecord) Transportation() decimal.Decimal {
	return orElse(r.TransportationCost, r.ValueOther)
}

// GLAccountKey GL 科目汇总键：名称 > 编号 > "Unknown"
func (r CostRecord) GLAccountKey() string {
	if r.GLAccountName != "" {
		return r.GLAccountName
	}
	if r.GLAccountNo != "" {
		return r.GLAccountNo
	}
	return UnknownKey
}

// UnknownKey 维度取值为空时的占位键
const UnknownKey = "Unknown"
