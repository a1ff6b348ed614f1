package store

import (
	"context"
	"errors"

	"costlens/internal/model"
)

// ErrNotFound 查询对象不存在
var ErrNotFound = errors.New("not found")

// RecordStore 成本记录存储
// 实现：MemoryStore（测试、无持久化）与 internal/store 的 SQLite 存储。
type RecordStore interface {
	// SaveAll 追加保存记录；clearExisting 为 true 时先清空已有记录
	SaveAll(ctx context.Context, records []model.CostRecord, clearExisting bool) error
	// LoadAll 按保存顺序返回全部记录
	LoadAll(ctx context.Context) ([]model.CostRecord, error)
	// Query 返回满足过滤条件的记录（保持保存顺序）
	Query(ctx context.Context, filter model.RecordFilter) ([]model.CostRecord, error)
	// Count 记录总数
	Count(ctx context.Context) (int, error)
	// Years 已存在的年份（升序）
	Years(ctx context.Context) ([]int, error)

	// RecordImport 新增或更新一条导入记录（按 ID）
	RecordImport(ctx context.Context, log model.ImportLog) error
	// LastImport 最近一次导入，不存在时返回 ErrNotFound
	LastImport(ctx context.Context) (model.ImportLog, error)
	// ListImports 按开始时间倒序列出导入记录，limit <= 0 表示全部
	ListImports(ctx context.Context, limit int) ([]model.ImportLog, error)
}
