package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ProtocolVersion is the supported JSON-RPC protocol version.
const ProtocolVersion = "2.0"

var (
	// ErrParse reports input that is not a single well-formed JSON value.
	ErrParse = errors.New("jsonrpc: parse error")
	// ErrInvalidEnvelope reports well-formed JSON that is not a valid
	// request, notification or response object.
	ErrInvalidEnvelope = errors.New("jsonrpc: invalid envelope")
)

// MessageKind classifies a decoded envelope.
type MessageKind string

const (
	KindRequest      MessageKind = "request"
	KindNotification MessageKind = "notification"
	KindResponse     MessageKind = "response"
)

// AnyMessage is a decoded envelope of any kind. Use Kind to tell them apart.
type AnyMessage struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	Method         string          `json:"method,omitempty"`
	Params         json.RawMessage `json:"params,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *Error          `json:"error,omitempty"`
	ID             *RequestID      `json:"id,omitempty"`
}

// Request is a request (ID set) or a notification (ID nil).
type Request struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	Method         string          `json:"method"`
	Params         json.RawMessage `json:"params,omitempty"`
	ID             *RequestID      `json:"id,omitempty"`
}

// Response is a reply to a request. The id member is always written, as
// null when the originating request id is unknown.
type Response struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *Error          `json:"error,omitempty"`
	ID             *RequestID      `json:"id"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewResultResponse marshals result into a success response.
func NewResultResponse(id *RequestID, result any) (*Response, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &Response{JSONRPCVersion: ProtocolVersion, Result: b, ID: id}, nil
}

// NewErrorResponse builds an error response with the given code.
func NewErrorResponse(id *RequestID, code ErrorCode, message string, data any) *Response {
	return &Response{
		JSONRPCVersion: ProtocolVersion,
		Error:          &Error{Code: code, Message: message, Data: data},
		ID:             id,
	}
}

// Decode parses one framed message. Failures wrap ErrParse when line is not
// JSON at all and ErrInvalidEnvelope when it is JSON of the wrong shape.
func Decode(line []byte) (*AnyMessage, error) {
	line = bytes.TrimSpace(line)
	if !json.Valid(line) {
		return nil, ErrParse
	}
	var m AnyMessage
	if err := json.Unmarshal(line, &m); err != nil {
		if errors.Is(err, ErrInvalidEnvelope) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	return &m, nil
}

// UnmarshalJSON decodes and checks an envelope. The version tag may be
// omitted, since several stdio clients leave it out; when present it must
// be "2.0". A null id is the same as no id.
func (m *AnyMessage) UnmarshalJSON(data []byte) error {
	type envelope AnyMessage
	var raw envelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}

	if raw.JSONRPCVersion != "" && raw.JSONRPCVersion != ProtocolVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidEnvelope, raw.JSONRPCVersion)
	}

	hasResult, hasError := len(raw.Result) > 0, raw.Error != nil
	switch {
	case raw.Method != "" && (hasResult || hasError):
		return fmt.Errorf("%w: a request cannot carry result or error", ErrInvalidEnvelope)
	case raw.Method == "" && hasResult && hasError:
		return fmt.Errorf("%w: a response cannot carry both result and error", ErrInvalidEnvelope)
	case raw.Method == "" && !hasResult && !hasError:
		return fmt.Errorf("%w: message has no method, result or error", ErrInvalidEnvelope)
	}

	*m = AnyMessage(raw)
	m.JSONRPCVersion = ProtocolVersion
	return nil
}

// Kind reports whether m is a request, a notification or a response.
func (m *AnyMessage) Kind() MessageKind {
	switch {
	case m.Method == "":
		return KindResponse
	case m.ID.IsNil():
		return KindNotification
	default:
		return KindRequest
	}
}

// AsRequest returns m as a Request, or nil for responses.
func (m *AnyMessage) AsRequest() *Request {
	if m.Method == "" {
		return nil
	}
	return &Request{JSONRPCVersion: m.JSONRPCVersion, Method: m.Method, Params: m.Params, ID: m.ID}
}

// AsResponse returns m as a Response, or nil for requests and notifications.
func (m *AnyMessage) AsResponse() *Response {
	if m.Method != "" {
		return nil
	}
	return &Response{JSONRPCVersion: m.JSONRPCVersion, Result: m.Result, Error: m.Error, ID: m.ID}
}
