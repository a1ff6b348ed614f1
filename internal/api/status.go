package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"costlens/internal/model"
	svcstore "costlens/internal/service/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool             `json:"initialized"` // 是否已有数据
	RecordCount int              `json:"recordCount"`
	Years       []int            `json:"years"`
	Currency    string           `json:"currency"`
	LastImport  *model.ImportLog `json:"lastImport,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.store.Count(ctx)
	if err != nil {
		h.log.Error("统计记录失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "统计记录失败"})
		return
	}

	years, err := h.store.Years(ctx)
	if err != nil {
		h.log.Warn("读取年份失败", "error", err)
		years = []int{}
	}

	resp := StatusResponse{
		Initialized: count > 0,
		RecordCount: count,
		Years:       years,
		Currency:    h.currency.Code(),
	}

	last, err := h.store.LastImport(ctx)
	switch {
	case err == nil:
		resp.LastImport = &last
	case errors.Is(err, svcstore.ErrNotFound):
	default:
		h.log.Warn("读取最近导入失败", "error", err)
	}

	c.JSON(http.StatusOK, resp)
}

// ListImports 导入历史
// GET /api/imports?limit=20
func (h *Handler) ListImports(c *gin.Context) {
	limit := parseIntWithDefault(c.Query("limit"), 20)
	logs, err := h.store.ListImports(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("读取导入历史失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取导入历史失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": logs})
}

func parseIntWithDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
