package mcpservice

import (
	"context"
	"encoding/json"

	"github.com/ggoodman/dnd-sheet-mcp/mcp"
)

// ServerCapabilities is what the protocol engine asks of a server. The
// stdio transport serves a single client, so nothing here is scoped to a
// session.
type ServerCapabilities interface {
	// GetServerInfo returns the implementation information surfaced in
	// initialize results.
	GetServerInfo(ctx context.Context) (mcp.ImplementationInfo, error)

	// GetPreferredProtocolVersion returns the version answered when the
	// client requests one the server does not support. If ok is false the
	// engine falls back to mcp.DefaultProtocolVersion.
	GetPreferredProtocolVersion(ctx context.Context) (version string, ok bool, err error)

	// GetInstructions returns optional instructions included in the
	// initialize result.
	GetInstructions(ctx context.Context) (instructions string, ok bool, err error)

	// GetToolsCapability returns the tools capability. If ok is false tools
	// are not advertised and tools/* requests fail with an unknown method.
	GetToolsCapability(ctx context.Context) (cap ToolsCapability, ok bool, err error)

	// GetLoggingCapability returns the logging capability. If ok is false
	// logging is not advertised and logging/setLevel fails with an unknown
	// method.
	GetLoggingCapability(ctx context.Context) (cap LoggingCapability, ok bool, err error)
}

// ToolsCapability lists and invokes tools. Implementations MUST be safe for
// concurrent use.
type ToolsCapability interface {
	// ListTools returns a page of tools. A nil cursor requests the first
	// page; Page.NextCursor is set when more are available.
	ListTools(ctx context.Context, cursor *string) (Page[mcp.Tool], error)

	// CallTool invokes the named tool and returns its JSON result payload.
	// Failures meant for the client are returned as *Error.
	CallTool(ctx context.Context, req *mcp.CallToolRequestReceived) (json.RawMessage, error)
}

// LoggingCapability lets the client adjust the server's log level.
type LoggingCapability interface {
	SetLevel(ctx context.Context, level mcp.LoggingLevel) error
}
