package model

// RawRow 原始表格行：保留表头顺序的 key→标量 映射
// 值可能是 nil、string、float64、int/int64 或 bool，列名不做任何规范化。
type RawRow struct {
	RowNo int // 表格中的行号（表头为第 1 行），0 表示未知

	keys   []string
	values map[string]any
}

// NewRawRow 创建空的原始行
func NewRawRow() RawRow {
	return RawRow{values: make(map[string]any)}
}

// RawRowFrom 按 keys 顺序从 map 构建原始行（测试与 CSV 读取使用）
func RawRowFrom(keys []string, values map[string]any) RawRow {
	row := NewRawRow()
	for _, k := range keys {
		row.Set(k, values[k])
	}
	return row
}

// Set 设置列值；重复列名保留首次出现的位置，值以最后一次为准
func (r *RawRow) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get 获取列值，第二个返回值表示列是否存在
func (r RawRow) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys 按表头顺序返回列名
func (r RawRow) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len 列数
func (r RawRow) Len() int {
	return len(r.keys)
}
