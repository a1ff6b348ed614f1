package metrics

import (
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"costlens/internal/model"
)

// PercentagePlaces 增长率保留的小数位
const PercentagePlaces = 4

var hundred = decimal.NewFromInt(100)

// Compare 对比两组记录：current 为本期，previous 为基期
// 两边并发聚合，互不影响。
func Compare(current, previous []model.CostRecord) model.ComparisonMetrics {
	return CompareN(current, previous, DefaultTopExpenses)
}

// CompareN 同 Compare，可指定费用排行条数
func CompareN(current, previous []model.CostRecord, topN int) model.ComparisonMetrics {
	var cur, prev model.DashboardMetrics

	// 聚合不会失败，Group 只用于等待两边完成
	var g errgroup.Group
	g.Go(func() error {
		cur = AggregateN(current, topN)
		return nil
	})
	g.Go(func() error {
		prev = AggregateN(previous, topN)
		return nil
	})
	_ = g.Wait()

	return CompareMetrics(cur, prev)
}

// CompareMetrics 基于已聚合的指标计算五个核心指标的差值
func CompareMetrics(current, previous model.DashboardMetrics) model.ComparisonMetrics {
	deltas := make(map[model.HeadlineMetric]model.Delta, len(model.HeadlineMetrics))
	for _, metric := range model.HeadlineMetrics {
		deltas[metric] = ComputeDelta(current.Headline(metric), previous.Headline(metric))
	}
	return model.ComparisonMetrics{
		Current:  current,
		Previous: previous,
		Deltas:   deltas,
	}
}

// ComputeDelta 差值 = 本期 - 基期；增长率 = 差值 / 基期 × 100，基期 <= 0 时为 0
func ComputeDelta(current, previous decimal.Decimal) model.Delta {
	value := current.Sub(previous)
	if !previous.IsPositive() {
		return model.Delta{Value: value, Percentage: decimal.Zero}
	}
	pct := value.Mul(hundred).DivRound(previous, PercentagePlaces)
	return model.Delta{Value: value, Percentage: pct}
}
