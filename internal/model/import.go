package model

import "time"

// ImportStatus 导入状态
type ImportStatus string

const (
	ImportProcessing ImportStatus = "processing"
	ImportCompleted  ImportStatus = "completed"
	ImportFailed     ImportStatus = "failed"
)

// ImportLog 导入记录
type ImportLog struct {
	ID           string       `json:"id"`
	Filename     string       `json:"filename"`
	TotalRows    int          `json:"totalRows"`
	ImportedRows int          `json:"importedRows"`
	DroppedRows  int          `json:"droppedRows"`
	Warnings     []string     `json:"warnings"`
	Status       ImportStatus `json:"status"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	StartedAt    time.Time    `json:"startedAt"`
	CompletedAt  time.Time    `json:"completedAt"`
}

// ImportReport 单次导入报告
type ImportReport struct {
	ImportID     string        `json:"importId"`
	Filename     string        `json:"filename"`
	TotalRows    int           `json:"totalRows"`
	ImportedRows int           `json:"importedRows"`
	DroppedRows  []int         `json:"droppedRows"` // 被丢弃的表格行号
	Warnings     []string      `json:"warnings"`
	Duration     time.Duration `json:"duration"`
}
