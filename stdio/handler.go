package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ggoodman/dnd-sheet-mcp/internal/engine"
	"github.com/ggoodman/dnd-sheet-mcp/internal/jsonrpc"
	"github.com/ggoodman/dnd-sheet-mcp/mcpservice"
)

// ErrAlreadyServing is returned by a second call to Serve on the same Handler.
var ErrAlreadyServing = errors.New("stdio: Serve called more than once")

// Handler is a single-connection stdio transport that reads JSON-RPC messages
// from an io.Reader and writes responses to an io.Writer. By default, it uses
// os.Stdin and os.Stdout.
//
// The handler is transport-only; it delegates all MCP semantics to an
// engine built over the provided mcpservice.ServerCapabilities.
type Handler struct {
	r io.Reader
	l *slog.Logger

	eng     *engine.Engine
	serving atomic.Bool

	wmu sync.Mutex
	bw  *bufio.Writer
}

// NewHandler constructs a stdio Handler with defaults and applies options.
func NewHandler(srv mcpservice.ServerCapabilities, opts ...Option) *Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Handler{
		r:   cfg.in,
		l:   cfg.log,
		eng: engine.NewEngine(srv, engine.WithLogger(cfg.log)),
		bw:  bufio.NewWriter(cfg.out),
	}
}

// Engine exposes the protocol engine, mostly for inspecting its state.
func (h *Handler) Engine() *engine.Engine { return h.eng }

type readResult struct {
	line []byte
	err  error
}

// Serve runs the stdio event loop until EOF on the reader or the context is
// canceled. It is safe to call at most once per Handler. Serve is
// responsible for:
//   - JSON-RPC message framing (newline-delimited, no line length limit)
//   - feeding requests and notifications to the engine one at a time
//   - writing one response line per request, flushed immediately
//
// EOF ends the loop with a nil error. A read or write failure is returned,
// as is ctx.Err() on cancellation.
func (h *Handler) Serve(ctx context.Context) error {
	if !h.serving.CompareAndSwap(false, true) {
		return ErrAlreadyServing
	}

	lines := make(chan readResult)
	done := make(chan struct{})
	defer close(done)

	go func() {
		br := bufio.NewReader(h.r)
		for {
			line, err := br.ReadBytes('\n')
			if len(line) > 0 {
				select {
				case lines <- readResult{line: line}:
				case <-done:
					return
				}
			}
			if err != nil {
				select {
				case lines <- readResult{err: err}:
				case <-done:
				}
				return
			}
		}
	}()

	h.l.DebugContext(ctx, "stdio.serve.start")
	for {
		select {
		case <-ctx.Done():
			h.l.DebugContext(ctx, "stdio.serve.cancelled")
			return ctx.Err()
		case rr := <-lines:
			if rr.err != nil {
				if errors.Is(rr.err, io.EOF) {
					h.l.DebugContext(ctx, "stdio.serve.eof")
					return nil
				}
				h.l.ErrorContext(ctx, "stdio.read.fail", slog.String("err", rr.err.Error()))
				return fmt.Errorf("stdio: read: %w", rr.err)
			}
			if err := h.handleLine(ctx, rr.line); err != nil {
				h.l.ErrorContext(ctx, "stdio.write.fail", slog.String("err", err.Error()))
				return err
			}
		}
	}
}

// handleLine processes one framed message. Only write failures are
// returned; everything else becomes a response or a log record.
func (h *Handler) handleLine(ctx context.Context, line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	msg, err := jsonrpc.Decode(line)
	if err != nil {
		kind, message := mcpservice.KindInvalidRequest, "invalid request"
		if errors.Is(err, jsonrpc.ErrParse) {
			kind, message = mcpservice.KindParseError, "parse error"
		}
		id := jsonrpc.RecoverID(line)
		if id == nil {
			h.l.WarnContext(ctx, "stdio."+string(kind)+".drop", slog.Int("bytes", len(line)), slog.String("err", err.Error()))
			return nil
		}
		h.l.WarnContext(ctx, "stdio."+string(kind), slog.String("id", id.String()), slog.String("err", err.Error()))
		return h.write(jsonrpc.NewErrorResponse(id, kind.Code(), message, mcpservice.ErrorData{Kind: kind}))
	}

	switch msg.Kind() {
	case jsonrpc.KindRequest:
		return h.write(h.eng.HandleRequest(ctx, msg.AsRequest()))
	case jsonrpc.KindNotification:
		if err := h.eng.HandleNotification(ctx, msg.AsRequest()); err != nil {
			h.l.WarnContext(ctx, "stdio.notification.fail", slog.String("method", msg.Method), slog.String("err", err.Error()))
		}
		return nil
	default:
		// The server never issues requests, so any response is unsolicited.
		h.l.DebugContext(ctx, "stdio.response.ignored", slog.String("id", msg.ID.String()))
		return nil
	}
}

func (h *Handler) write(res *jsonrpc.Response) error {
	b, err := json.Marshal(res)
	if err != nil {
		// Only the result payload can fail to encode; it was marshalled once
		// already, so this is reported as an internal error.
		b, err = json.Marshal(jsonrpc.NewErrorResponse(res.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil))
		if err != nil {
			return fmt.Errorf("stdio: encode response: %w", err)
		}
	}

	h.wmu.Lock()
	defer h.wmu.Unlock()
	if _, err := h.bw.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("stdio: write: %w", err)
	}
	if err := h.bw.Flush(); err != nil {
		return fmt.Errorf("stdio: flush: %w", err)
	}
	return nil
}
