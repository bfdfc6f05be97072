// Package mcp contains the protocol data types and constants spoken by the
// character sheet server. It mirrors the wire representation of the Model
// Context Protocol while keeping the surface Go-friendly (exported structs
// with json tags, string constants for method names and enumerations, helper
// validation functions).
//
// The package is free of transport logic: the stdio transport imports these
// types but implements its own framing, and the mcpservice package constructs
// tool descriptors from them.
//
// # Method Names
//
// JSON-RPC method and notification names are enumerated as Method constants
// (e.g. ToolsListMethod). Older clients send the bare "initialized"
// notification; LegacyInitializedNotificationMethod names that spelling so the
// engine can accept both.
//
// # Protocol Versions
//
// SupportedProtocolVersions lists every protocol date the server accepts
// during negotiation. DefaultProtocolVersion is answered when a client asks
// for anything else.
//
// # Logging Levels
//
// LoggingLevel values mirror syslog severities. Use IsValidLoggingLevel to
// validate user-provided values in capability code.
package mcp
