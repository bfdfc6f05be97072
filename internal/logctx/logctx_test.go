package logctx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestHandlerAddsContextGroups(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(slog.NewJSONHandler(&buf, nil)).With(slog.String("component", "test"))

	ctx := WithSessionData(context.Background(), &SessionData{State: "ready", ProtocolVersion: "2024-11-05"})
	ctx = WithRPCMessage(ctx, &RPCMessage{Method: "tools/call", ID: "7", Type: "request"})
	ctx = WithToolCallData(ctx, &ToolCallData{ToolName: "fill"})
	log.InfoContext(ctx, "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec["component"] != "test" {
		t.Fatalf("expected With attrs to survive, got %v", rec)
	}
	rpc, _ := rec["rpc"].(map[string]any)
	if rpc["method"] != "tools/call" || rpc["id"] != "7" {
		t.Fatalf("unexpected rpc group: %v", rec["rpc"])
	}
	sess, _ := rec["sess"].(map[string]any)
	if sess["state"] != "ready" {
		t.Fatalf("unexpected sess group: %v", rec["sess"])
	}
	if _, ok := sess["client"]; ok {
		t.Fatalf("empty members must be omitted: %v", rec["sess"])
	}
	tool, _ := rec["tool"].(map[string]any)
	if tool["name"] != "fill" {
		t.Fatalf("unexpected tool group: %v", rec["tool"])
	}
}

func TestHandlerWithoutContext(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(slog.NewJSONHandler(&buf, nil)).Info("plain")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	for _, g := range []string{"rpc", "sess", "tool"} {
		if _, ok := rec[g]; ok {
			t.Fatalf("unexpected %s group in %v", g, rec)
		}
	}
}
