package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	mu       sync.Mutex
	loggers  = map[string]*slog.Logger{}
	handlers = map[string]*levelHandler{}
)

// Logger 获取指定子系统的 Logger
//
// 同一子系统多次调用返回同一个实例，级别来自 PCLINK_LOG_LEVEL。
//
//	var log = logger.Logger("reconciler")
//	log.Info("state changed", "from", from, "to", to)
func Logger(subsystem string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[subsystem]; ok {
		return l
	}
	h := newLevelHandler(subsystem, ConfigFromEnv())
	l := slog.New(h)
	loggers[subsystem] = l
	handlers[subsystem] = h
	return l
}

// SetLevel 运行时调整子系统的日志级别
func SetLevel(subsystem string, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	if h, ok := handlers[subsystem]; ok {
		h.level.Set(level)
	}
}

// SetGlobalLevel 调整所有已创建子系统的日志级别
func SetGlobalLevel(level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	for _, h := range handlers {
		h.level.Set(level)
	}
}

// SetOutput 设置全局日志输出目标，已创建的 Logger 也会切换
func SetOutput(w io.Writer) {
	outputMu.Lock()
	output = w
	outputMu.Unlock()
}

// Discard 返回一个丢弃所有日志的 Logger
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}
