package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ggoodman/dnd-sheet-mcp/internal/jsonrpc"
	"github.com/ggoodman/dnd-sheet-mcp/internal/logctx"
	"github.com/ggoodman/dnd-sheet-mcp/mcp"
	"github.com/ggoodman/dnd-sheet-mcp/mcpservice"
)

// State is the lifecycle position of the single session served by an Engine.
type State int32

const (
	// StateUninitialized is the state before a successful initialize.
	StateUninitialized State = iota
	// StateInitialized follows initialize and lasts until the client sends
	// its initialized notification.
	StateInitialized
	// StateReady is entered once the handshake is complete.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// ErrNilRequest is returned by HandleNotification when given a nil message.
var ErrNilRequest = errors.New("nil request")

// Engine is the protocol core of the server. It tracks the lifecycle state
// of the session, checks every message against it and dispatches legal
// requests to the server capabilities. It is transport-agnostic: the stdio
// handler feeds it decoded envelopes and writes back whatever it returns.
//
// Messages are expected one at a time; the state is nevertheless guarded so
// that State may be observed from other goroutines.
type Engine struct {
	srv mcpservice.ServerCapabilities
	log *slog.Logger

	mu              sync.Mutex
	state           State
	protocolVersion string
	client          mcp.ImplementationInfo
}

func NewEngine(srv mcpservice.ServerCapabilities, opts ...EngineOption) *Engine {
	e := &Engine{
		srv: srv,
		log: slog.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger for the Engine.
func WithLogger(l *slog.Logger) EngineOption {
	return func(m *Engine) {
		if l != nil {
			m.log = l
		}
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ProtocolVersion returns the negotiated protocol version, or "" before
// initialize.
func (e *Engine) ProtocolVersion() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.protocolVersion
}

func (e *Engine) sessionContext(ctx context.Context) context.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return logctx.WithSessionData(ctx, &logctx.SessionData{
		State:           e.state.String(),
		ProtocolVersion: e.protocolVersion,
		ClientName:      e.client.Name,
	})
}

// HandleRequest processes a request that expects a response. The returned
// response always carries req.ID. Handler failures, including panics, are
// reported in the response rather than returned.
func (e *Engine) HandleRequest(ctx context.Context, req *jsonrpc.Request) (res *jsonrpc.Response) {
	if req == nil {
		return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeInvalidRequest, "invalid request", nil)
	}
	start := time.Now()
	ctx = logctx.WithRPCMessage(e.sessionContext(ctx), &logctx.RPCMessage{
		Method: req.Method,
		ID:     req.ID.String(),
		Type:   "request",
	})

	defer func() {
		if r := recover(); r != nil {
			e.log.ErrorContext(ctx, "engine.handle_request.panic",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
				slog.Int64("dur_ms", time.Since(start).Milliseconds()),
			)
			res = errorResponse(req.ID, mcpservice.Errorf(mcpservice.KindInternal, "internal error"))
		}
	}()

	result, err := e.dispatch(ctx, req)
	if err != nil {
		me := mcpservice.AsError(err)
		if me.Kind == mcpservice.KindInternal {
			e.log.ErrorContext(ctx, "engine.handle_request.fail", slog.String("err", err.Error()), slog.Int64("dur_ms", time.Since(start).Milliseconds()))
		} else {
			e.log.InfoContext(ctx, "engine.handle_request.error",
				slog.String("kind", string(me.Kind)),
				slog.String("err", me.Error()),
				slog.Int64("dur_ms", time.Since(start).Milliseconds()),
			)
		}
		return errorResponse(req.ID, me)
	}

	res, err = jsonrpc.NewResultResponse(req.ID, result)
	if err != nil {
		e.log.ErrorContext(ctx, "engine.handle_request.fail", slog.String("err", err.Error()))
		return errorResponse(req.ID, mcpservice.Errorf(mcpservice.KindInternal, "internal error"))
	}
	e.log.InfoContext(ctx, "engine.handle_request.ok", slog.Int64("dur_ms", time.Since(start).Milliseconds()))
	return res
}

func errorResponse(id *jsonrpc.RequestID, e *mcpservice.Error) *jsonrpc.Response {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	return jsonrpc.NewErrorResponse(id, e.Kind.Code(), msg, e.Data())
}

func (e *Engine) dispatch(ctx context.Context, req *jsonrpc.Request) (any, error) {
	method := mcp.Method(req.Method)
	switch method {
	case mcp.InitializeMethod:
		return e.handleInitialize(ctx, req)
	case mcp.PingMethod:
		return &mcp.EmptyResult{}, nil
	case mcp.ToolsListMethod, mcp.ToolsCallMethod, mcp.LoggingSetLevelMethod:
	default:
		return nil, mcpservice.Errorf(mcpservice.KindUnknownMethod, "method not found: %s", req.Method)
	}

	if st := e.State(); st == StateUninitialized {
		return nil, mcpservice.Errorf(mcpservice.KindStateError, "%s is not allowed before initialize", req.Method)
	}

	switch method {
	case mcp.ToolsListMethod:
		return e.handleToolsList(ctx, req)
	case mcp.ToolsCallMethod:
		return e.handleToolCall(ctx, req)
	default:
		return e.handleSetLoggingLevel(ctx, req)
	}
}

func (e *Engine) handleInitialize(ctx context.Context, req *jsonrpc.Request) (*mcp.InitializeResult, error) {
	if st := e.State(); st != StateUninitialized {
		return nil, mcpservice.Errorf(mcpservice.KindStateError, "session is already %s", st)
	}

	var params mcp.InitializeRequest
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, mcpservice.InvalidArgument("", "invalid initialize params")
		}
	}

	negotiatedVersion := params.ProtocolVersion
	if !mcp.IsSupportedProtocolVersion(negotiatedVersion) {
		negotiatedVersion = mcp.DefaultProtocolVersion
		if v, ok, err := e.srv.GetPreferredProtocolVersion(ctx); err != nil {
			return nil, fmt.Errorf("get preferred protocol version: %w", err)
		} else if ok && v != "" {
			negotiatedVersion = v
		}
	}

	serverInfo, err := e.srv.GetServerInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("get server info: %w", err)
	}

	initRes := &mcp.InitializeResult{
		ProtocolVersion: negotiatedVersion,
		Capabilities:    mcp.ServerCapabilities{},
		ServerInfo:      serverInfo,
	}

	if instr, ok, err := e.srv.GetInstructions(ctx); err != nil {
		return nil, fmt.Errorf("get instructions: %w", err)
	} else if ok {
		initRes.Instructions = instr
	}

	if toolsCap, ok, err := e.srv.GetToolsCapability(ctx); err != nil {
		return nil, fmt.Errorf("get tools capability: %w", err)
	} else if ok && toolsCap != nil {
		initRes.Capabilities.Tools = &mcp.ToolsCapability{ListChanged: false}
	}

	if _, ok, err := e.srv.GetLoggingCapability(ctx); err != nil {
		return nil, fmt.Errorf("get logging capability: %w", err)
	} else if ok {
		initRes.Capabilities.Logging = &struct{}{}
	}

	e.mu.Lock()
	e.state = StateInitialized
	e.protocolVersion = negotiatedVersion
	e.client = params.ClientInfo
	e.mu.Unlock()

	e.log.InfoContext(ctx, "engine.session.initialize",
		slog.String("client", params.ClientInfo.Name),
		slog.String("client_version", params.ClientInfo.Version),
		slog.String("requested_version", params.ProtocolVersion),
		slog.String("protocol_version", negotiatedVersion),
		slog.Bool("client_roots", params.Capabilities.Roots != nil),
		slog.Bool("client_sampling", params.Capabilities.Sampling != nil),
	)
	return initRes, nil
}

func (e *Engine) handleSetLoggingLevel(ctx context.Context, req *jsonrpc.Request) (*mcp.EmptyResult, error) {
	var params mcp.SetLevelRequest
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, mcpservice.InvalidArgument("level", "invalid params")
	}

	cap, ok, err := e.srv.GetLoggingCapability(ctx)
	if err != nil {
		return nil, fmt.Errorf("get logging capability: %w", err)
	}
	if !ok || cap == nil {
		return nil, mcpservice.Errorf(mcpservice.KindUnknownMethod, "logging level not supported")
	}

	if err := cap.SetLevel(ctx, params.Level); err != nil {
		if errors.Is(err, mcpservice.ErrInvalidLoggingLevel) {
			return nil, mcpservice.InvalidArgument("level", "invalid logging level %q", params.Level)
		}
		return nil, err
	}
	return &mcp.EmptyResult{}, nil
}

func (e *Engine) handleToolsList(ctx context.Context, req *jsonrpc.Request) (*mcp.ListToolsResult, error) {
	var params mcp.ListToolsRequest
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, mcpservice.InvalidArgument("cursor", "invalid params")
		}
	}

	cap, ok, err := e.srv.GetToolsCapability(ctx)
	if err != nil {
		return nil, fmt.Errorf("get tools capability: %w", err)
	}
	if !ok || cap == nil {
		return nil, mcpservice.Errorf(mcpservice.KindUnknownMethod, "tools capability not supported")
	}

	var cursor *string
	if params.Cursor != "" {
		s := params.Cursor
		cursor = &s
	}

	page, err := cap.ListTools(ctx, cursor)
	if err != nil {
		return nil, err
	}

	result := &mcp.ListToolsResult{
		Tools: page.Items,
	}
	if result.Tools == nil {
		result.Tools = []mcp.Tool{}
	}
	if page.NextCursor != nil {
		result.NextCursor = *page.NextCursor
	}
	return result, nil
}

func (e *Engine) handleToolCall(ctx context.Context, req *jsonrpc.Request) (json.RawMessage, error) {
	var params mcp.CallToolRequestReceived
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, mcpservice.InvalidArgument("", "invalid params")
	}
	if params.Name == "" {
		return nil, mcpservice.InvalidArgument("name", "missing tool name")
	}

	ctx = logctx.WithToolCallData(ctx, &logctx.ToolCallData{ToolName: params.Name})

	cap, ok, err := e.srv.GetToolsCapability(ctx)
	if err != nil {
		return nil, fmt.Errorf("get tools capability: %w", err)
	}
	if !ok || cap == nil {
		return nil, mcpservice.Errorf(mcpservice.KindUnknownMethod, "tools capability not supported")
	}

	return cap.CallTool(ctx, &params)
}

// HandleNotification processes a message without an id. Notifications never
// produce a response; unknown ones are ignored.
func (e *Engine) HandleNotification(ctx context.Context, note *jsonrpc.Request) error {
	if note == nil {
		return ErrNilRequest
	}
	ctx = logctx.WithRPCMessage(e.sessionContext(ctx), &logctx.RPCMessage{
		Method: note.Method,
		Type:   "notification",
	})

	switch method := mcp.Method(note.Method); {
	case method.IsInitialized():
		e.mu.Lock()
		prev := e.state
		if prev == StateInitialized {
			e.state = StateReady
		}
		e.mu.Unlock()

		switch prev {
		case StateUninitialized:
			e.log.WarnContext(ctx, "engine.session.initialized.early")
		case StateInitialized:
			e.log.InfoContext(ctx, "engine.session.initialized")
		}
		return nil

	case method == mcp.CancelledNotificationMethod:
		// Requests are handled to completion before the next line is read,
		// so a cancellation always refers to a request that already finished.
		var params mcp.CancelledNotification
		_ = json.Unmarshal(note.Params, &params)
		e.log.DebugContext(ctx, "engine.handle_notification.cancel_ignored", slog.String("request_id", string(params.RequestID)))
		return nil
	}

	e.log.DebugContext(ctx, "engine.handle_notification.ignored")
	return nil
}
