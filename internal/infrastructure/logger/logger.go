// Package logger 基于log/slog的结构化日志
//
// 输出格式由配置决定(text/json)，所有记录自动附带当前Span的trace_id/span_id，
// 便于在日志系统与链路追踪之间跳转。
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// New 按配置创建Logger
// 返回的cleanup用于关闭日志文件(输出到stdout/stderr时为空操作)
func New(cfg config.LogConfig) (*slog.Logger, func(), error) {
	w, cleanup, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	default:
		cleanup()
		return nil, nil, fmt.Errorf("unsupported log format: %q", cfg.Format)
	}

	return slog.New(NewTraceHandler(h)), cleanup, nil
}

// ParseLevel 解析日志级别(大小写不敏感)
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func openOutput(output string) (io.Writer, func(), error) {
	switch output {
	case "", "stdout":
		return os.Stdout, func() {}, nil
	case "stderr":
		return os.Stderr, func() {}, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
}

// TraceHandler 为日志记录附加trace_id/span_id
type TraceHandler struct {
	slog.Handler
}

// NewTraceHandler 包装任意slog.Handler
func NewTraceHandler(h slog.Handler) *TraceHandler {
	return &TraceHandler{Handler: h}
}

func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithGroup(name)}
}

// Nop 丢弃所有输出，测试使用
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
