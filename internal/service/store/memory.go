package store

import (
	"context"
	"sort"
	"sync"

	"costlens/internal/model"
)

// MemoryStore 内存数据存储
type MemoryStore struct {
	records []model.CostRecord
	imports map[string]model.ImportLog
	nextID  int64
	mu      sync.RWMutex
}

var _ RecordStore = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make([]model.CostRecord, 0),
		imports: make(map[string]model.ImportLog),
		nextID:  1,
	}
}

// SaveAll 保存记录并分配自增 ID
func (s *MemoryStore) SaveAll(ctx context.Context, records []model.CostRecord, clearExisting bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if clearExisting {
		s.records = make([]model.CostRecord, 0, len(records))
	}
	for _, r := range records {
		r.ID = s.nextID
		s.nextID++
		s.records = append(s.records, r)
	}
	return nil
}

// LoadAll 获取全部记录
func (s *MemoryStore) LoadAll(ctx context.Context) ([]model.CostRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.CostRecord, len(s.records))
	copy(result, s.records)
	return result, nil
}

// Query 按条件过滤记录
func (s *MemoryStore) Query(ctx context.Context, filter model.RecordFilter) ([]model.CostRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter.Apply(s.records), nil
}

// Count 获取记录数量
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Years 已存在的年份（升序）
func (s *MemoryStore) Years(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, r := range s.records {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years, nil
}

// RecordImport 保存导入记录
func (s *MemoryStore) RecordImport(ctx context.Context, log model.ImportLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Warnings = append([]string(nil), log.Warnings...)
	s.imports[log.ID] = log
	return nil
}

// LastImport 获取最近一次导入
func (s *MemoryStore) LastImport(ctx context.Context) (model.ImportLog, error) {
	logs, _ := s.ListImports(ctx, 1)
	if len(logs) == 0 {
		return model.ImportLog{}, ErrNotFound
	}
	return logs[0], nil
}

// ListImports 列出导入记录
func (s *MemoryStore) ListImports(ctx context.Context, limit int) ([]model.ImportLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.ImportLog, 0, len(s.imports))
	for _, l := range s.imports {
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Clear 清空所有数据
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]model.CostRecord, 0)
	s.imports = make(map[string]model.ImportLog)
}
