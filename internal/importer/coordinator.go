package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"costlens/internal/log"
	"costlens/internal/model"
	"costlens/internal/parser"
	"costlens/internal/service/excel"
	svcstore "costlens/internal/service/store"
)

// MaxWarnings 单次导入保留的警告条数上限
const MaxWarnings = 200

// 进度事件类型
const (
	EventStart      = "start"
	EventInfo       = "info"
	EventHint       = "hint"
	EventNormalized = "normalized"
	EventDone       = "done"
	EventError      = "error"
)

// Coordinator 导入协调器
type Coordinator struct {
	store      svcstore.RecordStore
	normalizer *parser.Normalizer
	log        *log.Logger
}

// NewCoordinator 创建导入协调器
func NewCoordinator(store svcstore.RecordStore, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Coordinator{
		store:      store,
		normalizer: parser.NewNormalizer(logger),
		log:        logger.WithComponent("importer"),
	}
}

// ImportOptions 导入选项
// Reader 非空时从 Reader 读取（Filename 用于判断文件类型），否则打开 FilePath。
type ImportOptions struct {
	FilePath      string
	Reader        io.Reader
	Filename      string
	ClearExisting bool // 是否清空现有数据
}

func (o ImportOptions) filename() string {
	if o.Filename != "" {
		return filepath.Base(o.Filename)
	}
	return filepath.Base(o.FilePath)
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/hint/normalized/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// Import 执行导入，返回进度通道
// 通道在导入结束（done 或 error）后关闭。
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(ctx, opts, progressChan)
	}()

	return progressChan
}

// ImportSync 同步执行导入，返回导入报告
func (c *Coordinator) ImportSync(ctx context.Context, opts ImportOptions) (*model.ImportReport, error) {
	var (
		report *model.ImportReport
		err    error
	)
	for evt := range c.Import(ctx, opts) {
		switch evt.Type {
		case EventDone:
			report, _ = evt.Data.(*model.ImportReport)
		case EventError:
			err = fmt.Errorf("failed to import %s: %s", opts.filename(), evt.Message)
		}
	}
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("failed to import %s: no report", opts.filename())
	}
	return report, nil
}

// doImport 执行导入逻辑
func (c *Coordinator) doImport(ctx context.Context, opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()
	filename := opts.filename()

	importLog := model.ImportLog{
		ID:        uuid.New().String(),
		Filename:  filename,
		Status:    model.ImportProcessing,
		Warnings:  []string{},
		StartedAt: startTime,
	}
	logger := c.log.With("import_id", importLog.ID, "file", filename)

	// 发送开始事件
	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventStart,
		Message: "开始导入文件",
		Data: map[string]string{
			"import_id": importLog.ID,
			"filename":  filename,
		},
		Timestamp: time.Now(),
	})
	c.saveLog(ctx, logger, importLog)

	fail := func(msg string, err error) {
		logger.Error(msg, "error", err)
		importLog.Status = model.ImportFailed
		importLog.ErrorMessage = err.Error()
		importLog.CompletedAt = time.Now()
		c.saveLog(context.WithoutCancel(ctx), logger, importLog)
		c.finish(ctx, progressChan, ProgressEvent{
			Type:      EventError,
			Message:   fmt.Sprintf("%s: %v", msg, err),
			Timestamp: time.Now(),
		})
	}

	// 读取文件
	sheet, err := c.readSheet(opts)
	if err != nil {
		fail("读取文件失败", err)
		return
	}
	importLog.TotalRows = len(sheet.Rows)

	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventInfo,
		Message: fmt.Sprintf("读取到 %d 行数据", len(sheet.Rows)),
		Data: map[string]interface{}{
			"sheet_name": sheet.Name,
			"total_rows": len(sheet.Rows),
			"headers":    sheet.Headers,
		},
		Timestamp: time.Now(),
	})

	// 表头诊断
	warnings := newWarnings()
	hints := parser.DiagnoseHeaders(sheet.Headers)
	for _, h := range hints {
		if !h.Required && h.Suggestion == "" {
			continue
		}
		if h.Suggestion != "" {
			warnings.add(fmt.Sprintf("未匹配字段 %s，最接近的表头为 %q", h.Field, h.Suggestion))
		} else {
			warnings.add(fmt.Sprintf("缺少必需字段 %s", h.Field))
		}
	}
	if len(hints) > 0 {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      EventHint,
			Message:   fmt.Sprintf("%d 个字段未匹配到表头", len(hints)),
			Data:      hints,
			Timestamp: time.Now(),
		})
	}

	if err := ctx.Err(); err != nil {
		fail("导入已取消", err)
		return
	}

	// 归一化
	result := c.normalizer.NormalizeAll(sheet.Rows)
	for _, rowNo := range result.DroppedRows {
		warnings.add(fmt.Sprintf("第 %d 行年份无效，已丢弃", rowNo))
	}
	for _, rowNo := range result.DefaultedQuarter {
		warnings.add(fmt.Sprintf("第 %d 行季度无法识别，默认 Q1", rowNo))
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventNormalized,
		Message: fmt.Sprintf("有效 %d 行，丢弃 %d 行", len(result.Records), len(result.DroppedRows)),
		Data: map[string]interface{}{
			"imported_rows": len(result.Records),
			"dropped_rows":  result.DroppedRows,
		},
		Timestamp: time.Now(),
	})

	if err := ctx.Err(); err != nil {
		fail("导入已取消", err)
		return
	}

	// 保存
	if err := c.store.SaveAll(ctx, result.Records, opts.ClearExisting); err != nil {
		fail("保存数据失败", err)
		return
	}

	importLog.ImportedRows = len(result.Records)
	importLog.DroppedRows = len(result.DroppedRows)
	importLog.Warnings = warnings.list()
	importLog.Status = model.ImportCompleted
	importLog.CompletedAt = time.Now()
	c.saveLog(ctx, logger, importLog)

	report := &model.ImportReport{
		ImportID:     importLog.ID,
		Filename:     filename,
		TotalRows:    importLog.TotalRows,
		ImportedRows: importLog.ImportedRows,
		DroppedRows:  result.DroppedRows,
		Warnings:     importLog.Warnings,
		Duration:     time.Since(startTime),
	}
	logger.Info("导入完成",
		"total_rows", report.TotalRows,
		"imported_rows", report.ImportedRows,
		"dropped_rows", len(report.DroppedRows),
		"duration", report.Duration,
	)

	// 发送完成事件
	c.finish(ctx, progressChan, ProgressEvent{
		Type:      EventDone,
		Message:   "导入完成",
		Data:      report,
		Timestamp: time.Now(),
	})
}

func (c *Coordinator) readSheet(opts ImportOptions) (*excel.Sheet, error) {
	if opts.Reader != nil {
		return excel.ReadSheet(opts.Reader, opts.filename())
	}
	f, err := os.Open(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return excel.ReadSheet(f, opts.FilePath)
}

func (c *Coordinator) saveLog(ctx context.Context, logger *log.Logger, l model.ImportLog) {
	if err := c.store.RecordImport(ctx, l); err != nil {
		logger.Warn("保存导入日志失败", "error", err)
	}
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

// finish 发送结束事件，不丢弃；调用方已放弃时随 ctx 退出
func (c *Coordinator) finish(ctx context.Context, ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	case <-ctx.Done():
	}
}

type warningList struct {
	items   []string
	dropped int
}

func newWarnings() *warningList {
	return &warningList{items: []string{}}
}

func (w *warningList) add(msg string) {
	if len(w.items) >= MaxWarnings {
		w.dropped++
		return
	}
	w.items = append(w.items, msg)
}

func (w *warningList) list() []string {
	if w.dropped == 0 {
		return w.items
	}
	return append(w.items, fmt.Sprintf("另有 %d 条警告未显示", w.dropped))
}
