package jsonrpc

// ErrorCode is a JSON-RPC 2.0 error code.
type ErrorCode int

const (
	// ErrorCodeParseError indicates invalid JSON was received by the server.
	ErrorCodeParseError ErrorCode = -32700
	// ErrorCodeInvalidRequest indicates the JSON sent is not a valid Request object.
	ErrorCodeInvalidRequest ErrorCode = -32600
	// ErrorCodeMethodNotFound indicates the method does not exist / is not available.
	ErrorCodeMethodNotFound ErrorCode = -32601
	// ErrorCodeInvalidParams indicates invalid method parameters.
	ErrorCodeInvalidParams ErrorCode = -32602
	// ErrorCodeInternalError indicates an internal JSON-RPC error.
	ErrorCodeInternalError ErrorCode = -32603
)

// Server-defined codes live in the -32000 to -32099 range reserved by
// JSON-RPC 2.0 for implementation errors.
const (
	// ErrorCodeStateError indicates a method was invoked out of lifecycle order.
	ErrorCodeStateError ErrorCode = -32002
	// ErrorCodeUnknownTool indicates tools/call named a tool that is not registered.
	ErrorCodeUnknownTool ErrorCode = -32010
	// ErrorCodeTemplateUnavailable indicates the form template is missing or corrupt.
	ErrorCodeTemplateUnavailable ErrorCode = -32020
	// ErrorCodeOutputWriteFailed indicates the output document could not be written.
	ErrorCodeOutputWriteFailed ErrorCode = -32021
	// ErrorCodeEncodingFailed indicates the output document could not be serialized
	// or encoded for inline transport.
	ErrorCodeEncodingFailed ErrorCode = -32022
)
