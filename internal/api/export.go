package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"costlens/internal/model"
	"costlens/internal/service/excel"
	"costlens/internal/service/metrics"
)

// 导出类型
const (
	ExportRecords    = "records"
	ExportDashboard  = "dashboard"
	ExportPlayground = "playground"
)

// Export 导出 Excel
// GET /api/export?kind=records|dashboard|playground&year=2025
// playground 需要 dimension 与逗号分隔的 measures 参数。
func (h *Handler) Export(c *gin.Context) {
	kind := c.DefaultQuery("kind", ExportRecords)

	records, ok := h.queryRecords(c, queryFilterMap(c))
	if !ok {
		return
	}

	exp := excel.NewExporter()
	var (
		file *excelize.File
		err  error
	)
	switch kind {
	case ExportRecords:
		file, err = exp.ExportRecords(records)
	case ExportDashboard:
		file, err = exp.ExportDashboard(metrics.AggregateN(records, h.topN))
	case ExportPlayground:
		dim := model.Dimension(c.Query("dimension"))
		measures := metrics.UniqueMeasures(toMeasures(splitList(c.Query("measures"))))
		var rows []model.DimensionRow
		rows, err = metrics.AggregateByDimension(records, dim, measures)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		file, err = exp.ExportDimension(dim, measures, rows)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的导出类型: " + kind})
		return
	}
	if err != nil {
		h.log.Error("导出失败", "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer file.Close()

	// 设置响应头
	filename := fmt.Sprintf("costlens-%s-%s.xlsx", kind, time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	// 写入文件
	if err := file.Write(c.Writer); err != nil {
		h.log.Error("写入导出文件失败", "error", err)
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
