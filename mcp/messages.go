package mcp

import "encoding/json"

// Method names a request or notification on the wire.
type Method string

const (
	InitializeMethod      Method = "initialize"
	PingMethod            Method = "ping"
	ToolsListMethod       Method = "tools/list"
	ToolsCallMethod       Method = "tools/call"
	LoggingSetLevelMethod Method = "logging/setLevel"

	InitializedNotificationMethod Method = "notifications/initialized"
	// Some older clients send the bare name.
	LegacyInitializedNotificationMethod Method = "initialized"
	CancelledNotificationMethod         Method = "notifications/cancelled"
)

// IsInitialized reports whether m is either spelling of the initialized
// notification.
func (m Method) IsInitialized() bool {
	return m == InitializedNotificationMethod || m == LegacyInitializedNotificationMethod
}

// InitializeRequest opens a session. Every member is optional on input.
type InitializeRequest struct {
	ProtocolVersion string             `json:"protocolVersion,omitzero"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      ImplementationInfo `json:"clientInfo"`
}

// InitializeResult is the server half of the handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ImplementationInfo `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitzero"`
	Meta            map[string]any     `json:"_meta,omitempty"`
}

// ListToolsRequest asks for one page of tools. An empty cursor means the
// first page.
type ListToolsRequest struct {
	Cursor string `json:"cursor,omitzero"`
}

// ListToolsResult is one page of tools. NextCursor is empty on the last page.
type ListToolsResult struct {
	Tools      []Tool         `json:"tools"`
	NextCursor string         `json:"nextCursor,omitzero"`
	Meta       map[string]any `json:"_meta,omitempty"`
}

// CallToolRequestReceived is a tools/call request as decoded by the server.
// Arguments are left raw for the tool to validate.
type CallToolRequestReceived struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CancelledNotification names a request the client no longer wants.
type CancelledNotification struct {
	RequestID json.RawMessage `json:"requestId"`
	Reason    string          `json:"reason,omitzero"`
}

type SetLevelRequest struct {
	Level LoggingLevel `json:"level"`
}

// EmptyResult encodes as {}.
type EmptyResult struct {
	Meta map[string]any `json:"_meta,omitempty"`
}
