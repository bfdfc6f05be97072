package mcpservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ggoodman/dnd-sheet-mcp/mcp"
)

// NewSlogLevelVarLogging answers logging/setLevel by moving lv. Every
// handler built with lv as its level follows.
func NewSlogLevelVarLogging(lv *slog.LevelVar) LoggingCapability {
	return levelVarLogging{lv}
}

type levelVarLogging struct{ lv *slog.LevelVar }

func (l levelVarLogging) SetLevel(_ context.Context, level mcp.LoggingLevel) error {
	lvl, err := SlogLevel(level)
	if err != nil {
		return err
	}
	if l.lv != nil {
		l.lv.Set(lvl)
	}
	return nil
}

// SlogLevel maps an MCP logging level onto slog. Notice maps to info and
// everything above error maps to error.
func SlogLevel(level mcp.LoggingLevel) (slog.Level, error) {
	if !mcp.IsValidLoggingLevel(level) {
		return 0, ErrInvalidLoggingLevel
	}
	switch level {
	case mcp.LoggingLevelDebug:
		return slog.LevelDebug, nil
	case mcp.LoggingLevelInfo, mcp.LoggingLevelNotice:
		return slog.LevelInfo, nil
	case mcp.LoggingLevelWarning:
		return slog.LevelWarn, nil
	default:
		return slog.LevelError, nil
	}
}

var ErrInvalidLoggingLevel = errors.New("invalid logging level")
