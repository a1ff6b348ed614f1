package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger slog 封装，统一附带 component 字段
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config 日志配置
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
}

// DefaultConfig 默认配置：info 级别，输出到 stdout
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: "costlens",
		Output:    os.Stdout,
	}
}

// New 创建日志器
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	base := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level}))
	return &Logger{
		Logger:    base.With("component", cfg.Component),
		base:      base,
		component: cfg.Component,
	}
}

// Discard 丢弃全部输出的日志器（测试与未注入时使用）
func Discard() *Logger {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Logger{
		Logger:    base,
		base:      base,
		component: "discard",
	}
}

// WithComponent 派生指定组件名的日志器
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.base.With("component", component),
		base:      l.base,
		component: component,
	}
}

// With 派生附带额外字段的日志器
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		base:      l.base.With(args...),
		component: l.component,
	}
}

// Component 组件名
func (l *Logger) Component() string {
	return l.component
}

// SetDefault 设为全局默认日志器
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}

// ParseLevel 解析配置中的日志级别，未知值回退 info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
