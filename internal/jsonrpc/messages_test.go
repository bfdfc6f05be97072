package jsonrpc

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAnyMessageUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind MessageKind
		wantErr  bool
	}{
		{name: "request", input: `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`, wantKind: KindRequest},
		{name: "request without version", input: `{"id":1,"method":"initialize","params":{}}`, wantKind: KindRequest},
		{name: "notification", input: `{"jsonrpc":"2.0","method":"notifications/initialized"}`, wantKind: KindNotification},
		{name: "null id is a notification", input: `{"jsonrpc":"2.0","id":null,"method":"initialized"}`, wantKind: KindNotification},
		{name: "response", input: `{"jsonrpc":"2.0","id":"a","result":{}}`, wantKind: KindResponse},
		{name: "wrong version", input: `{"jsonrpc":"1.0","id":1,"method":"x"}`, wantErr: true},
		{name: "request with result", input: `{"id":1,"method":"x","result":{}}`, wantErr: true},
		{name: "empty object", input: `{}`, wantErr: true},
		{name: "object id", input: `{"id":{"a":1},"method":"x"}`, wantErr: true},
		{name: "numeric method", input: `{"id":1,"method":5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg AnyMessage
			err := json.Unmarshal([]byte(tt.input), &msg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got message %+v", msg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := msg.Kind(); got != tt.wantKind {
				t.Fatalf("Kind() = %q, want %q", got, tt.wantKind)
			}
		})
	}
}

func TestDecodeClassifiesFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "truncated", input: `{"id":1,"method":`, want: ErrParse},
		{name: "garbage", input: `hello`, want: ErrParse},
		{name: "array", input: `[1,2]`, want: ErrInvalidEnvelope},
		{name: "wrong version", input: `{"jsonrpc":"1.0","id":1,"method":"x"}`, want: ErrInvalidEnvelope},
		{name: "no method or result", input: `{"id":1}`, want: ErrInvalidEnvelope},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode error = %v, want %v", err, tt.want)
			}
		})
	}

	msg, err := Decode([]byte("  {\"id\":2,\"method\":\"ping\"}\r\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.Kind() != KindRequest || msg.ID.String() != "2" || msg.JSONRPCVersion != ProtocolVersion {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestResponseEchoesRawID(t *testing.T) {
	for _, raw := range []string{`1`, `1.0`, `"01"`, `-7`, `12345678901234`} {
		var msg AnyMessage
		if err := json.Unmarshal([]byte(`{"id":`+raw+`,"method":"ping"}`), &msg); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		resp, err := NewResultResponse(msg.ID, struct{}{})
		if err != nil {
			t.Fatalf("NewResultResponse: %v", err)
		}
		b, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"jsonrpc":"2.0","result":{},"id":` + raw + `}`
		if string(b) != want {
			t.Fatalf("got %s, want %s", b, want)
		}
	}
}

func TestErrorResponseWithNilID(t *testing.T) {
	resp := NewErrorResponse(nil, ErrorCodeParseError, "parse error", nil)
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"jsonrpc":"2.0","error":{"code":-32700,"message":"parse error"},"id":null}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestRecoverID(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "truncated request", line: `{"jsonrpc":"2.0","id":7,"method":`, want: "7"},
		{name: "string id", line: `{"id":"abc","method":"tools/call","params":{`, want: "abc"},
		{name: "trailing garbage", line: `{"id":3,"method":"ping"}}}`, want: "3"},
		{name: "no id", line: `{"method":"ping",`, want: ""},
		{name: "not json", line: `this is not json`, want: ""},
		{name: "null id", line: `{"id":null,`, want: ""},
		{name: "object id", line: `{"id":{"x":1},`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := RecoverID([]byte(tt.line))
			if tt.want == "" {
				if id != nil {
					t.Fatalf("expected no id, got %q", id.String())
				}
				return
			}
			if id == nil {
				t.Fatalf("expected id %q, got nil", tt.want)
			}
			if got := id.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
