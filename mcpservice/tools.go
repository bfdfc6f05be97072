package mcpservice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ggoodman/dnd-sheet-mcp/mcp"
)

// ToolsContainer is an immutable registry of tools. Listing order is
// registration order.
type ToolsContainer struct {
	tools    []mcp.Tool             // descriptors for listing
	handlers map[string]ToolHandler // name -> handler

	pageSize int // pagination size for ListTools; 0 lists everything at once
}

// ContainerOption configures a ToolsContainer.
type ContainerOption func(*ToolsContainer)

// WithPageSize sets the pagination size used by ListTools. A non-positive
// value lists every tool in one page.
func WithPageSize(n int) ContainerOption {
	return func(st *ToolsContainer) { st.pageSize = n }
}

// NewToolsContainer constructs a ToolsContainer from the given tool
// definitions. Duplicate or empty names and missing handlers are errors.
func NewToolsContainer(defs []StaticTool, opts ...ContainerOption) (*ToolsContainer, error) {
	st := &ToolsContainer{
		tools:    make([]mcp.Tool, 0, len(defs)),
		handlers: make(map[string]ToolHandler, len(defs)),
	}
	for _, opt := range opts {
		opt(st)
	}
	for _, d := range defs {
		name := d.Descriptor.Name
		if name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if d.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", name)
		}
		if _, exists := st.handlers[name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		st.tools = append(st.tools, d.Descriptor)
		st.handlers[name] = d.Handler
	}
	return st, nil
}

// Snapshot returns a copy of the tool descriptors.
func (st *ToolsContainer) Snapshot() []mcp.Tool {
	out := make([]mcp.Tool, len(st.tools))
	copy(out, st.tools)
	return out
}

// ListTools implements ToolsCapability.
func (st *ToolsContainer) ListTools(ctx context.Context, cursor *string) (Page[mcp.Tool], error) {
	return pageOf(st.tools, st.pageSize, cursor), nil
}

// CallTool implements ToolsCapability. Unknown names fail with
// KindUnknownTool; otherwise the handler's outcome is returned unchanged.
func (st *ToolsContainer) CallTool(ctx context.Context, req *mcp.CallToolRequestReceived) (json.RawMessage, error) {
	if req == nil || req.Name == "" {
		return nil, InvalidArgument("name", "tool name is required")
	}
	h := st.handlers[req.Name]
	if h == nil {
		return nil, Errorf(KindUnknownTool, "unknown tool %q", req.Name)
	}
	return h(ctx, req)
}
