// Package logctx carries per-request logging attributes in a context and
// attaches them to records through a slog.Handler.
package logctx

import (
	"context"
	"log/slog"
)

// Handler adds a group for each decoration found in the record's context:
// sess for the session, rpc for the message being handled and tool for a
// tool invocation. Empty members are left out.
type Handler struct {
	slog.Handler
}

// NewLogger wraps base in a Handler.
func NewLogger(base slog.Handler) *slog.Logger {
	return slog.New(Handler{Handler: base})
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	for _, k := range groups {
		if v, ok := ctx.Value(k).(slog.LogValuer); ok {
			r.AddAttrs(slog.Attr{Key: string(k), Value: v.LogValue()})
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(name)}
}

type groupKey string

const (
	sessKey groupKey = "sess"
	rpcKey  groupKey = "rpc"
	toolKey groupKey = "tool"
)

// groups is the order in which decorations appear on a record.
var groups = []groupKey{sessKey, rpcKey, toolKey}

func nonEmpty(attrs ...slog.Attr) slog.Value {
	out := attrs[:0]
	for _, a := range attrs {
		if a.Value.String() != "" {
			out = append(out, a)
		}
	}
	return slog.GroupValue(out...)
}

// RPCMessage identifies the JSON-RPC message being handled. Type is
// "request" or "notification".
type RPCMessage struct {
	Method string
	ID     string
	Type   string
}

func (m *RPCMessage) LogValue() slog.Value {
	return nonEmpty(
		slog.String("method", m.Method),
		slog.String("id", m.ID),
		slog.String("type", m.Type),
	)
}

func WithRPCMessage(ctx context.Context, msg *RPCMessage) context.Context {
	return context.WithValue(ctx, rpcKey, msg)
}

// SessionData is a snapshot of the stdio session taken when the context
// was derived.
type SessionData struct {
	State           string
	ProtocolVersion string
	ClientName      string
}

func (d *SessionData) LogValue() slog.Value {
	return nonEmpty(
		slog.String("state", d.State),
		slog.String("protocol_version", d.ProtocolVersion),
		slog.String("client", d.ClientName),
	)
}

func WithSessionData(ctx context.Context, data *SessionData) context.Context {
	return context.WithValue(ctx, sessKey, data)
}

type ToolCallData struct {
	ToolName string
}

func (d *ToolCallData) LogValue() slog.Value {
	return nonEmpty(slog.String("name", d.ToolName))
}

func WithToolCallData(ctx context.Context, data *ToolCallData) context.Context {
	return context.WithValue(ctx, toolKey, data)
}
