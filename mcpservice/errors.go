package mcpservice

import (
	"errors"
	"fmt"

	"github.com/ggoodman/dnd-sheet-mcp/internal/jsonrpc"
)

// Kind classifies a failure for the client. Each kind maps to one JSON-RPC
// error code.
type Kind string

const (
	KindParseError          Kind = "parse_error"
	KindInvalidRequest      Kind = "invalid_request"
	KindUnknownMethod       Kind = "unknown_method"
	KindInvalidArguments    Kind = "invalid_arguments"
	KindInternal            Kind = "internal"
	KindStateError          Kind = "state_error"
	KindUnknownTool         Kind = "unknown_tool"
	KindTemplateUnavailable Kind = "template_unavailable"
	KindOutputWriteFailed   Kind = "output_write_failed"
	KindEncodingFailed      Kind = "encoding_failed"
)

// Code returns the JSON-RPC error code for k. Unknown kinds map to the
// internal error code.
func (k Kind) Code() jsonrpc.ErrorCode {
	switch k {
	case KindParseError:
		return jsonrpc.ErrorCodeParseError
	case KindInvalidRequest:
		return jsonrpc.ErrorCodeInvalidRequest
	case KindUnknownMethod:
		return jsonrpc.ErrorCodeMethodNotFound
	case KindInvalidArguments:
		return jsonrpc.ErrorCodeInvalidParams
	case KindStateError:
		return jsonrpc.ErrorCodeStateError
	case KindUnknownTool:
		return jsonrpc.ErrorCodeUnknownTool
	case KindTemplateUnavailable:
		return jsonrpc.ErrorCodeTemplateUnavailable
	case KindOutputWriteFailed:
		return jsonrpc.ErrorCodeOutputWriteFailed
	case KindEncodingFailed:
		return jsonrpc.ErrorCodeEncodingFailed
	}
	return jsonrpc.ErrorCodeInternalError
}

// Error is the error type surfaced to clients. Handlers return it to control
// the code and data of the error response; any other error is reported as
// KindInternal.
type Error struct {
	Kind Kind
	// Field is the dotted path of the offending argument, if any.
	Field string
	// File is the template base name or the caller-supplied output path.
	File    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorData is the data member of error responses built from an Error.
type ErrorData struct {
	Kind  Kind   `json:"kind"`
	Field string `json:"field,omitempty"`
	File  string `json:"file,omitempty"`
}

// Data returns the error data payload.
func (e *Error) Data() ErrorData {
	return ErrorData{Kind: e.Kind, Field: e.Field, File: e.File}
}

// Errorf builds an Error of kind k.
func Errorf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument builds a KindInvalidArguments error naming field.
func InvalidArgument(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArguments, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsError returns err as an *Error, wrapping untyped errors as KindInternal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}
