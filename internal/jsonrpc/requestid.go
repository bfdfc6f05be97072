package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// RequestID represents a JSON-RPC ID that can be either a string or a number.
//
// The raw JSON form is retained so that responses echo the identifier exactly
// as the peer sent it (1.0 stays 1.0, "01" stays "01").
type RequestID struct {
	value interface{}
	raw   json.RawMessage
}

// NewRequestID creates a new RequestID from a string or number.
func NewRequestID(value interface{}) *RequestID {
	switch v := value.(type) {
	case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return &RequestID{value: v}
	default:
		return &RequestID{value: nil}
	}
}

// String returns the string representation of the ID.
func (id *RequestID) String() string {
	if id == nil || id.value == nil {
		return ""
	}
	if len(id.raw) > 0 {
		if s, ok := id.value.(string); ok {
			return s
		}
		return string(id.raw)
	}

	switch v := id.value.(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Value returns the underlying value.
func (id *RequestID) Value() interface{} {
	if id == nil {
		return nil
	}
	return id.value
}

// IsNil returns true if the ID is nil/empty.
func (id *RequestID) IsNil() bool {
	if id == nil {
		return true
	}

	return id.value == nil
}

// MarshalJSON implements json.Marshaler. A nil ID marshals as null.
func (id *RequestID) MarshalJSON() ([]byte, error) {
	if id == nil || id.value == nil {
		return []byte("null"), nil
	}
	if len(id.raw) > 0 {
		return id.raw, nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null leaves the ID nil.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		id.value = nil
		id.raw = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("JSON-RPC ID must be a string or number, got: %s", string(data))
	}

	switch tv := v.(type) {
	case json.Number:
		if i, err := tv.Int64(); err == nil {
			id.value = i
		} else if f, err := tv.Float64(); err == nil {
			id.value = f
		} else {
			return fmt.Errorf("JSON-RPC ID is not a representable number: %s", string(data))
		}
	case string:
		id.value = tv
	default:
		return fmt.Errorf("JSON-RPC ID must be a string or number, got: %s", string(data))
	}

	id.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// RecoverID attempts to extract the top-level "id" member from a line that
// failed to parse as JSON. Only string and number ids are recovered; the
// result is nil when no usable id can be found.
func RecoverID(line []byte) *RequestID {
	res := gjson.GetBytes(line, "id")
	if !res.Exists() {
		return nil
	}

	var id RequestID
	switch res.Type {
	case gjson.Number, gjson.String:
		if err := id.UnmarshalJSON([]byte(res.Raw)); err != nil {
			return nil
		}
	default:
		return nil
	}
	if id.IsNil() {
		return nil
	}
	return &id
}
