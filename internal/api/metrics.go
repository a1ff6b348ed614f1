package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"costlens/internal/format"
	"costlens/internal/model"
	"costlens/internal/service/metrics"
)

// 非过滤条件的查询参数
var reservedParams = map[string]bool{
	"kind":      true,
	"dimension": true,
	"measures":  true,
	"limit":     true,
}

// DashboardResponse 看板响应
type DashboardResponse struct {
	Currency  string                          `json:"currency"`
	Metrics   model.DashboardMetrics          `json:"metrics"`
	Formatted map[model.HeadlineMetric]string `json:"formatted"` // 核心指标展示值
}

// CompareRequest 两期对比请求
type CompareRequest struct {
	Current  map[string]any `json:"current"`
	Previous map[string]any `json:"previous"`
}

// FormattedDelta 差值展示值
type FormattedDelta struct {
	Value      string `json:"value"`
	Percentage string `json:"percentage"`
}

// CompareResponse 两期对比响应
type CompareResponse struct {
	model.ComparisonMetrics
	Currency  string                                  `json:"currency"`
	Formatted map[model.HeadlineMetric]FormattedDelta `json:"formatted"`
}

// PlaygroundRequest 自定义分组请求
type PlaygroundRequest struct {
	Filter    map[string]any `json:"filter"`
	Dimension string         `json:"dimension"`
	Measures  []string       `json:"measures"`
}

// PlaygroundResponse 自定义分组响应
type PlaygroundResponse struct {
	Dimension model.Dimension      `json:"dimension"`
	Measures  []model.Measure      `json:"measures"`
	Rows      []model.DimensionRow `json:"rows"`
}

// ListRecords 按条件查询记录
// GET /api/records?year=2025&quarter=Q1
func (h *Handler) ListRecords(c *gin.Context) {
	records, ok := h.queryRecords(c, queryFilterMap(c))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(records), "records": records})
}

// GetDashboard 看板指标
// GET /api/dashboard?year=2025
func (h *Handler) GetDashboard(c *gin.Context) {
	records, ok := h.queryRecords(c, queryFilterMap(c))
	if !ok {
		return
	}

	m := metrics.AggregateN(records, h.topN)
	formatted := make(map[model.HeadlineMetric]string, len(model.HeadlineMetrics))
	for _, metric := range model.HeadlineMetrics {
		formatted[metric] = h.currency.Format(m.Headline(metric))
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Currency:  h.currency.Code(),
		Metrics:   m,
		Formatted: formatted,
	})
}

// Compare 两期对比
// POST /api/compare
func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	current, ok := h.queryRecords(c, req.Current)
	if !ok {
		return
	}
	previous, ok := h.queryRecords(c, req.Previous)
	if !ok {
		return
	}

	cmp := metrics.CompareN(current, previous, h.topN)
	formatted := make(map[model.HeadlineMetric]FormattedDelta, len(cmp.Deltas))
	for metric, delta := range cmp.Deltas {
		formatted[metric] = FormattedDelta{
			Value:      h.currency.Format(delta.Value),
			Percentage: format.Percent(delta.Percentage),
		}
	}

	c.JSON(http.StatusOK, CompareResponse{
		ComparisonMetrics: cmp,
		Currency:          h.currency.Code(),
		Formatted:         formatted,
	})
}

// ListDimensions 可选维度与度量
// GET /api/dimensions
func (h *Handler) ListDimensions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"dimensions": metrics.Dimensions,
		"measures":   metrics.Measures,
	})
}

// Playground 按维度分组汇总
// POST /api/playground
func (h *Handler) Playground(c *gin.Context) {
	var req PlaygroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	records, ok := h.queryRecords(c, req.Filter)
	if !ok {
		return
	}

	dim := model.Dimension(req.Dimension)
	measures := metrics.UniqueMeasures(toMeasures(req.Measures))
	rows, err := metrics.AggregateByDimension(records, dim, measures)
	if err != nil {
		// 未知维度、未知度量或缺少度量
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, PlaygroundResponse{
		Dimension: dim,
		Measures:  measures,
		Rows:      rows,
	})
}

// queryRecords 构建过滤器并查询，失败时已写入响应
func (h *Handler) queryRecords(c *gin.Context, conditions map[string]any) ([]model.CostRecord, bool) {
	filter, err := model.FilterFromMap(conditions)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	records, err := h.store.Query(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("查询记录失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询记录失败"})
		return nil, false
	}
	return records, true
}

// queryFilterMap 查询参数转为过滤条件（每个参数取第一个值）
func queryFilterMap(c *gin.Context) map[string]any {
	out := make(map[string]any)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		out[key] = values[0]
	}
	return out
}

func toMeasures(names []string) []model.Measure {
	measures := make([]model.Measure, 0, len(names))
	for _, n := range names {
		measures = append(measures, model.Measure(n))
	}
	return measures
}
