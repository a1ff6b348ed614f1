package metrics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"costlens/internal/model"
)

// DefaultTopExpenses 默认费用排行条数
const DefaultTopExpenses = 100

// Aggregate 计算看板指标（费用排行取前 100 条）
func Aggregate(records []model.CostRecord) model.DashboardMetrics {
	return AggregateN(records, DefaultTopExpenses)
}

// AggregateN 计算看板指标，topN <= 0 时使用默认值
// 纯函数：相同输入总是得到相同输出，排序稳定（并列时保持首次出现顺序）。
func AggregateN(records []model.CostRecord, topN int) model.DashboardMetrics {
	if topN <= 0 {
		topN = DefaultTopExpenses
	}

	m := model.DashboardMetrics{
		RecordCount:     len(records),
		TotalCost:       decimal.Zero,
		TotalOpex:       decimal.Zero,
		TotalCapex:      decimal.Zero,
		DmscoTotal:      decimal.Zero,
		Proceed3PLTotal: decimal.Zero,
	}

	quarters := newQuarterRollup()
	warehouses := newRollup()
	categories := newRollup()
	types := newRollup()
	glAccounts := newRollup()

	for _, r := range records {
		cost := r.TotalIncurredCost
		m.TotalCost = m.TotalCost.Add(cost)

		switch strings.ToLower(r.OpexCapex) {
		case model.Opex:
			m.TotalOpex = m.TotalOpex.Add(cost)
		case model.Capex:
			m.TotalCapex = m.TotalCapex.Add(cost)
		}

		m.DmscoTotal = m.DmscoTotal.Add(r.Pharmacies()).Add(r.Distribution()).Add(r.LastMile())
		m.Proceed3PLTotal = m.Proceed3PLTotal.Add(r.Value3PL)

		quarters.add(r)
		warehouses.add(r.Warehouse, cost)
		categories.add(r.TCOModelCategories, cost)
		types.add(r.Type, cost)
		glAccounts.add(r.GLAccountKey(), cost)
	}

	m.CostByQuarter = quarters.sorted()
	m.CostByWarehouse = warehouses.sorted()
	m.CostByCategory = categories.sorted()
	m.CostByType = types.sorted()
	m.CostByGLAccount = glAccounts.sorted()
	m.TopExpenses = topExpenses(records, topN)

	return m
}

// rollup 单维度求和，保持键的首次出现顺序
type rollup struct {
	index map[string]int
	items []model.KeyCost
}

func newRollup() *rollup {
	return &rollup{index: make(map[string]int), items: []model.KeyCost{}}
}

// add 累加；空键跳过
func (r *rollup) add(key string, cost decimal.Decimal) {
	if key == "" {
		return
	}
	if i, ok := r.index[key]; ok {
		r.items[i].Cost = r.items[i].Cost.Add(cost)
		return
	}
	r.index[key] = len(r.items)
	r.items = append(r.items, model.KeyCost{Key: key, Cost: cost})
}

// sorted 按金额降序
func (r *rollup) sorted() []model.KeyCost {
	out := make([]model.KeyCost, len(r.items))
	copy(out, r.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cost.GreaterThan(out[j].Cost)
	})
	return out
}

type quarterRollup struct {
	index map[string]int
	items []model.QuarterCost
}

func newQuarterRollup() *quarterRollup {
	return &quarterRollup{index: make(map[string]int), items: []model.QuarterCost{}}
}

func (q *quarterRollup) add(r model.CostRecord) {
	key := QuarterKey(r.Year, r.Quarter)
	i, ok := q.index[key]
	if !ok {
		i = len(q.items)
		q.index[key] = i
		q.items = append(q.items, model.QuarterCost{
			Key:                key,
			Year:               r.Year,
			Quarter:            r.Quarter,
			TotalCost:          decimal.Zero,
			PharmaciesCost:     decimal.Zero,
			DistributionCost:   decimal.Zero,
			LastMileCost:       decimal.Zero,
			Proceed3PLWHCost:   decimal.Zero,
			Proceed3PLTRSCost:  decimal.Zero,
			WarehouseCost:      decimal.Zero,
			TransportationCost: decimal.Zero,
		})
	}

	item := &q.items[i]
	item.TotalCost = item.TotalCost.Add(r.TotalIncurredCost)
	item.PharmaciesCost = item.PharmaciesCost.Add(r.Pharmacies())
	item.DistributionCost = item.DistributionCost.Add(r.Distribution())
	item.LastMileCost = item.LastMileCost.Add(r.LastMile())
	item.Proceed3PLWHCost = item.Proceed3PLWHCost.Add(r.Proceed3PLWH())
	item.Proceed3PLTRSCost = item.Proceed3PLTRSCost.Add(r.Proceed3PLTRS())
	item.WarehouseCost = item.WarehouseCost.Add(r.WarehouseDept())
	item.TransportationCost = item.TransportationCost.Add(r.Transportation())
}

// sorted 按键字符串升序（"2024 Q4" < "2025 Q1"）
func (q *quarterRollup) sorted() []model.QuarterCost {
	out := make([]model.QuarterCost, len(q.items))
	copy(out, q.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// QuarterKey 季度汇总键
func QuarterKey(year int, quarter model.Quarter) string {
	return strconv.Itoa(year) + " " + string(quarter)
}

// topExpenses 取金额大于 0 的前 n 条，按金额降序
func topExpenses(records []model.CostRecord, n int) []model.TopExpense {
	out := make([]model.TopExpense, 0)
	for _, r := range records {
		if !r.TotalIncurredCost.IsPositive() {
			continue
		}
		r.Quarter = model.Quarter(strings.ToUpper(string(r.Quarter)))
		out = append(out, model.TopExpense{CostRecord: r, Cost: r.TotalIncurredCost})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cost.GreaterThan(out[j].Cost)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
