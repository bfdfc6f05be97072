package mcpservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/ggoodman/dnd-sheet-mcp/internal/jsonrpc"
	"github.com/ggoodman/dnd-sheet-mcp/mcp"
)

type innerArgs struct {
	Name  string   `json:"name"`
	Level int      `json:"level"`
	Tags  []string `json:"tags,omitempty"`
}

type outerArgs struct {
	Data  innerArgs `json:"data" jsonschema:"description=The payload"`
	Path  string    `json:"path,omitempty"`
	Flag  bool      `json:"flag,omitempty"`
	Count *int      `json:"count,omitempty"`
}

type outerResult struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

func newEchoTool() StaticTool {
	return NewTool("echo", func(ctx context.Context, a outerArgs) (outerResult, error) {
		if a.Data.Name == "boom" {
			return outerResult{}, errors.New("exploded")
		}
		if a.Data.Name == "typed" {
			return outerResult{}, InvalidArgument("data.name", "typed failure")
		}
		return outerResult{Name: a.Data.Name, Level: a.Data.Level}, nil
	}, WithToolDescription("echo tool"))
}

func mustContainer(t *testing.T, defs ...StaticTool) *ToolsContainer {
	t.Helper()
	c, err := NewToolsContainer(defs)
	if err != nil {
		t.Fatalf("NewToolsContainer: %v", err)
	}
	return c
}

func call(t *testing.T, c *ToolsContainer, name, args string) (json.RawMessage, *Error) {
	t.Helper()
	out, err := c.CallTool(context.Background(), &mcp.CallToolRequestReceived{Name: name, Arguments: json.RawMessage(args)})
	if err == nil {
		return out, nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return nil, AsError(err)
	}
	return nil, e
}

func TestNewTool_ReflectsNestedRequired(t *testing.T) {
	tool := newEchoTool()
	s := tool.Descriptor.InputSchema

	if s.Type != "object" {
		t.Fatalf("expected object schema, got %q", s.Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "data" {
		t.Fatalf("expected required [data], got %v", s.Required)
	}
	if s.AdditionalProperties == nil || *s.AdditionalProperties {
		t.Fatalf("expected additionalProperties=false")
	}
	data := s.Properties["data"]
	if data.Type != "object" || data.Description != "The payload" {
		t.Fatalf("unexpected data property: %+v", data)
	}
	if len(data.Required) != 2 || data.Required[0] != "name" || data.Required[1] != "level" {
		t.Fatalf("expected nested required [name level], got %v", data.Required)
	}
	if data.Properties["tags"].Type != "array" || data.Properties["tags"].Items.Type != "string" {
		t.Fatalf("unexpected tags property: %+v", data.Properties["tags"])
	}
	if s.Properties["count"].Type != "integer" {
		t.Fatalf("expected integer count, got %q", s.Properties["count"].Type)
	}
}

func TestCallTool_Success(t *testing.T) {
	c := mustContainer(t, newEchoTool())
	out, e := call(t, c, "echo", `{"data":{"name":"Thorin","level":3.0,"extra":true}}`)
	if e != nil {
		t.Fatalf("unexpected error: %v", e)
	}
	if string(out) != `{"name":"Thorin","level":3}` {
		t.Fatalf("unexpected result %s", out)
	}
}

func TestCallTool_Validation(t *testing.T) {
	c := mustContainer(t, newEchoTool())
	cases := []struct {
		name  string
		args  string
		field string
	}{
		{"missing nested", `{"data":{"level":1}}`, "data.name"},
		{"null required", `{"data":{"name":null,"level":1}}`, "data.name"},
		{"missing root", `{}`, "data"},
		{"empty arguments", ``, "data"},
		{"wrong type", `{"data":{"name":"x","level":"one"}}`, "data.level"},
		{"fractional integer", `{"data":{"name":"x","level":1.5}}`, "data.level"},
		{"array item", `{"data":{"name":"x","level":1,"tags":["a",2]}}`, "data.tags[1]"},
		{"unknown top-level", `{"data":{"name":"x","level":1},"bogus":1}`, "bogus"},
		{"bool type", `{"data":{"name":"x","level":1},"flag":"yes"}`, "flag"},
		{"not an object", `[1,2]`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, e := call(t, c, "echo", tc.args)
			if e == nil {
				t.Fatalf("expected error")
			}
			if e.Kind != KindInvalidArguments {
				t.Fatalf("expected invalid arguments, got %s", e.Kind)
			}
			if e.Field != tc.field {
				t.Fatalf("expected field %q, got %q (%v)", tc.field, e.Field, e)
			}
		})
	}
}

func TestCallTool_Errors(t *testing.T) {
	c := mustContainer(t, newEchoTool())

	if _, e := call(t, c, "nope", `{}`); e == nil || e.Kind != KindUnknownTool {
		t.Fatalf("expected unknown tool, got %v", e)
	}
	if _, e := call(t, c, "echo", `{"data":{"name":"boom","level":1}}`); e == nil || e.Kind != KindInternal {
		t.Fatalf("expected internal error, got %v", e)
	}
	if _, e := call(t, c, "echo", `{"data":{"name":"typed","level":1}}`); e == nil || e.Field != "data.name" {
		t.Fatalf("expected handler error passed through, got %v", e)
	}
}

func TestNewToolsContainer_RejectsDuplicates(t *testing.T) {
	if _, err := NewToolsContainer([]StaticTool{newEchoTool(), newEchoTool()}); err == nil {
		t.Fatalf("expected duplicate name error")
	}
	if _, err := NewToolsContainer([]StaticTool{{Descriptor: mcp.Tool{Name: "x"}}}); err == nil {
		t.Fatalf("expected missing handler error")
	}
}

func TestListTools_Pagination(t *testing.T) {
	mk := func(name string) StaticTool {
		return NewTool(name, func(ctx context.Context, a innerArgs) (outerResult, error) { return outerResult{}, nil })
	}
	defs := []StaticTool{mk("a"), mk("b"), mk("c")}

	all, err := NewToolsContainer(defs)
	if err != nil {
		t.Fatal(err)
	}
	page, _ := all.ListTools(context.Background(), nil)
	if len(page.Items) != 3 || page.NextCursor != nil {
		t.Fatalf("expected one page of 3, got %d items cursor=%v", len(page.Items), page.NextCursor)
	}

	paged, err := NewToolsContainer(defs, WithPageSize(2))
	if err != nil {
		t.Fatal(err)
	}
	first, _ := paged.ListTools(context.Background(), nil)
	if len(first.Items) != 2 || first.Items[0].Name != "a" || first.NextCursor == nil {
		t.Fatalf("unexpected first page: %+v", first)
	}
	second, _ := paged.ListTools(context.Background(), first.NextCursor)
	if len(second.Items) != 1 || second.Items[0].Name != "c" || second.NextCursor != nil {
		t.Fatalf("unexpected second page: %+v", second)
	}
	if snap := paged.Snapshot(); len(snap) != 3 || snap[2].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestKindCodes(t *testing.T) {
	cases := map[Kind]jsonrpc.ErrorCode{
		KindParseError:          -32700,
		KindInvalidRequest:      -32600,
		KindUnknownMethod:       -32601,
		KindInvalidArguments:    -32602,
		KindInternal:            -32603,
		KindStateError:          -32002,
		KindUnknownTool:         -32010,
		KindTemplateUnavailable: -32020,
		KindOutputWriteFailed:   -32021,
		KindEncodingFailed:      -32022,
		Kind("other"):           -32603,
	}
	for k, want := range cases {
		if got := k.Code(); got != want {
			t.Errorf("%s: expected %d, got %d", k, want, got)
		}
	}
}

func TestSlogLevelVarLogging(t *testing.T) {
	var lv slog.LevelVar
	l := NewSlogLevelVarLogging(&lv)
	ctx := context.Background()

	steps := []struct {
		level mcp.LoggingLevel
		want  slog.Level
	}{
		{mcp.LoggingLevelDebug, slog.LevelDebug},
		{mcp.LoggingLevelNotice, slog.LevelInfo},
		{mcp.LoggingLevelWarning, slog.LevelWarn},
		{mcp.LoggingLevelCritical, slog.LevelError},
	}
	for _, s := range steps {
		if err := l.SetLevel(ctx, s.level); err != nil {
			t.Fatalf("SetLevel(%s): %v", s.level, err)
		}
		if lv.Level() != s.want {
			t.Fatalf("SetLevel(%s): expected %v, got %v", s.level, s.want, lv.Level())
		}
	}
	if err := l.SetLevel(ctx, "loud"); !errors.Is(err, ErrInvalidLoggingLevel) {
		t.Fatalf("expected ErrInvalidLoggingLevel, got %v", err)
	}
	if lv.Level() != slog.LevelError {
		t.Fatalf("invalid level must not change the level")
	}
}
