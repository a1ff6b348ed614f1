package model

import "github.com/shopspring/decimal"

// KeyCost 单维度汇总项
type KeyCost struct {
	Key  string          `json:"key"`
	Cost decimal.Decimal `json:"cost"`
}

// QuarterCost 季度汇总（键为 "2025 Q1"）
type QuarterCost struct {
	Key     string  `json:"key"`
	Year    int     `json:"year"`
	Quarter Quarter `json:"quarter"`

	TotalCost          decimal.Decimal `json:"totalCost"`
	PharmaciesCost     decimal.Decimal `json:"pharmaciesCost"`
	DistributionCost   decimal.Decimal `json:"distributionCost"`
	LastMileCost       decimal.Decimal `json:"lastMileCost"`
	Proceed3PLWHCost   decimal.Decimal `json:"proceed3PLWHCost"`
	Proceed3PLTRSCost  decimal.Decimal `json:"proceed3PLTRSCost"`
	WarehouseCost      decimal.Decimal `json:"warehouseCost"`
	TransportationCost decimal.Decimal `json:"transportationCost"`
}

// TopExpense 费用排行项：原始记录 + 展示用的 cost 别名
type TopExpense struct {
	CostRecord
	Cost decimal.Decimal `json:"cost"`
}

// DashboardMetrics 看板指标（按需计算，不持久化）
type DashboardMetrics struct {
	RecordCount int `json:"recordCount"`

	TotalCost       decimal.Decimal `json:"totalCost"`
	TotalOpex       decimal.Decimal `json:"totalOpex"`
	TotalCapex      decimal.Decimal `json:"totalCapex"`
	DmscoTotal      decimal.Decimal `json:"dmscoTotal"`
	Proceed3PLTotal decimal.Decimal `json:"proceed3PLTotal"`

	CostByQuarter   []QuarterCost `json:"costByQuarter"`
	CostByWarehouse []KeyCost     `json:"costByWarehouse"`
	CostByCategory  []KeyCost     `json:"costByCategory"`
	CostByType      []KeyCost     `json:"costByType"`
	CostByGLAccount []KeyCost     `json:"costByGLAccount"`
	TopExpenses     []TopExpense  `json:"topExpenses"`
}

// HeadlineMetric 参与环比对比的五个核心指标
type HeadlineMetric string

const (
	MetricTotalCost       HeadlineMetric = "totalCost"
	MetricTotalOpex       HeadlineMetric = "totalOpex"
	MetricTotalCapex      HeadlineMetric = "totalCapex"
	MetricDmscoTotal      HeadlineMetric = "dmscoTotal"
	MetricProceed3PLTotal HeadlineMetric = "proceed3PLTotal"
)

// HeadlineMetrics 核心指标（固定顺序）
var HeadlineMetrics = []HeadlineMetric{
	MetricTotalCost,
	MetricTotalOpex,
	MetricTotalCapex,
	MetricDmscoTotal,
	MetricProceed3PLTotal,
}

// Headline 读取指标值
func (m DashboardMetrics) Headline(metric HeadlineMetric) decimal.Decimal {
	switch metric {
	case MetricTotalCost:
		return m.TotalCost
	case MetricTotalOpex:
		return m.TotalOpex
	case MetricTotalCapex:
		return m.TotalCapex
	case MetricDmscoTotal:
		return m.DmscoTotal
	case MetricProceed3PLTotal:
		return m.Proceed3PLTotal
	}
	return decimal.Zero
}

// Delta 差值与增长率（百分数）
type Delta struct {
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ComparisonMetrics 两期对比结果
type ComparisonMetrics struct {
	Current  DashboardMetrics         `json:"current"`
	Previous DashboardMetrics         `json:"previous"`
	Deltas   map[HeadlineMetric]Delta `json:"deltas"`
}
