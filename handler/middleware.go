package handler

import (
	"log/slog"
	"time"

	"github.com/miyamo2/amap-flomo-mcp/internal/mcp"
	"github.com/miyamo2/amap-flomo-mcp/internal/metrics"
)

// ToolLogger logs every tool call with its outcome and duration. The error itself is logged by the server.
func ToolLogger(logger *slog.Logger) mcp.ToolMiddlewareFunc {
	return func(next mcp.ToolHandlerFunc) mcp.ToolHandlerFunc {
		return func(c mcp.ToolContext) error {
			t0 := time.Now()
			err := next(c)
			attrs := []any{
				"tool", c.ToolName(),
				"session", c.SessionID(),
				"duration_ms", time.Since(t0).Milliseconds(),
			}
			if err != nil {
				logger.Warn("tool_call", append(attrs, "status", "error")...)
				return err
			}
			logger.Info("tool_call", append(attrs, "status", "ok")...)
			return nil
		}
	}
}

// ToolMetrics counts tool calls by outcome.
func ToolMetrics() mcp.ToolMiddlewareFunc {
	return func(next mcp.ToolHandlerFunc) mcp.ToolHandlerFunc {
		return func(c mcp.ToolContext) error {
			err := next(c)
			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.ToolCallsTotal.WithLabelValues(c.ToolName(), status).Inc()
			return err
		}
	}
}
