package mcpservice

import (
	"context"

	"github.com/ggoodman/dnd-sheet-mcp/mcp"
)

// ServerOption configures the server returned by NewServer.
type ServerOption func(*server)

// server is a fixed ServerCapabilities: everything is decided at
// construction and never changes for the life of the process.
type server struct {
	info         mcp.ImplementationInfo
	preferred    string
	instructions string

	tools   ToolsCapability
	logging LoggingCapability
}

// NewServer returns a ServerCapabilities built from opts. Capabilities that
// are not supplied are reported as absent during initialize.
func NewServer(opts ...ServerOption) ServerCapabilities {
	s := new(server)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithServerInfo(info mcp.ImplementationInfo) ServerOption {
	return func(s *server) { s.info = info }
}

// WithPreferredProtocolVersion sets the version answered when the client
// asks for one the server does not know.
func WithPreferredProtocolVersion(version string) ServerOption {
	return func(s *server) { s.preferred = version }
}

// WithInstructions sets the instructions member of the initialize result.
func WithInstructions(instr string) ServerOption {
	return func(s *server) { s.instructions = instr }
}

func WithToolsCapability(cap ToolsCapability) ServerOption {
	return func(s *server) { s.tools = cap }
}

func WithLoggingCapability(cap LoggingCapability) ServerOption {
	return func(s *server) { s.logging = cap }
}

func present[T comparable](v T) (T, bool, error) {
	var zero T
	return v, v != zero, nil
}

func (s *server) GetServerInfo(context.Context) (mcp.ImplementationInfo, error) {
	return s.info, nil
}

func (s *server) GetPreferredProtocolVersion(context.Context) (string, bool, error) {
	return present(s.preferred)
}

func (s *server) GetInstructions(context.Context) (string, bool, error) {
	return present(s.instructions)
}

func (s *server) GetToolsCapability(context.Context) (ToolsCapability, bool, error) {
	return present(s.tools)
}

func (s *server) GetLoggingCapability(context.Context) (LoggingCapability, bool, error) {
	return present(s.logging)
}
