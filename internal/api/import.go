package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"costlens/internal/importer"
	"costlens/internal/service/excel"
)

// Import 导入成本表 (SSE 流式响应)
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	if !excel.IsSupported(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的文件类型: " + fileHeader.Filename})
		return
	}

	// 上传文件保留在 uploads 目录
	dir := h.uploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	savedPath := filepath.Join(dir, fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(fileHeader.Filename)))
	if err := c.SaveUploadedFile(fileHeader, savedPath); err != nil {
		h.log.Error("保存上传文件失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}

	clearExisting := c.DefaultPostForm("clearExisting", "true") == "true"

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	progressChan := h.coordinator.Import(c.Request.Context(), importer.ImportOptions{
		FilePath:      savedPath,
		Filename:      fileHeader.Filename,
		ClearExisting: clearExisting,
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// Inspect 检查上传文件的列与年份分布，不写入存储
// POST /api/inspect
func (h *Handler) Inspect(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取上传文件"})
		return
	}
	defer f.Close()

	sheet, err := excel.ReadSheet(f, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取文件失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, importer.Inspect(sheet))
}
