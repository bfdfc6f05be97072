package mcpservice

import (
	"context"
	"encoding/json"

	"github.com/ggoodman/dnd-sheet-mcp/mcp"
	"github.com/invopop/jsonschema"
)

// ToolHandler runs one tools/call invocation and returns the raw result
// payload.
type ToolHandler func(ctx context.Context, req *mcp.CallToolRequestReceived) (json.RawMessage, error)

// StaticTool is a tool descriptor bound to its handler.
type StaticTool struct {
	Descriptor mcp.Tool
	Handler    ToolHandler
}

// ToolOption configures NewTool.
type ToolOption func(*toolConfig)

type toolConfig struct {
	description string
	open        bool
}

// WithToolDescription sets the description shown in tools/list.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) { c.description = desc }
}

// WithToolAllowAdditionalProperties lets calls carry top-level arguments the
// schema does not declare. Tools are closed unless this is set.
func WithToolAllowAdditionalProperties(allow bool) ToolOption {
	return func(c *toolConfig) { c.open = allow }
}

// NewTool builds a StaticTool whose input schema is reflected from A. Calls
// are checked against that schema, decoded into A, passed to fn, and the O
// it returns is marshalled as the result. A schema violation is reported as
// a KindInvalidArguments error naming the dotted path of the bad field.
func NewTool[A, O any](name string, fn func(ctx context.Context, args A) (O, error), opts ...ToolOption) StaticTool {
	var cfg toolConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	t := typedTool[A, O]{
		schema: inputSchemaFor[A](cfg.open),
		fn:     fn,
	}
	return StaticTool{
		Descriptor: mcp.Tool{Name: name, Description: cfg.description, InputSchema: t.schema},
		Handler:    t.call,
	}
}

type typedTool[A, O any] struct {
	schema mcp.ToolInputSchema
	fn     func(ctx context.Context, args A) (O, error)
}

func (t typedTool[A, O]) call(ctx context.Context, req *mcp.CallToolRequestReceived) (json.RawMessage, error) {
	normalized, verr := validateArguments(t.schema, req.Arguments)
	if verr != nil {
		return nil, verr
	}

	var args A
	if err := json.Unmarshal(normalized, &args); err != nil {
		return nil, &Error{Kind: KindInvalidArguments, Message: "invalid arguments", Err: err}
	}
	out, err := t.fn(ctx, args)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: "failed to marshal tool result", Err: err}
	}
	return b, nil
}

// inputSchemaFor reflects A with every definition inlined. A non-object A
// yields an empty object schema.
func inputSchemaFor[A any](open bool) mcp.ToolInputSchema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: open,
	}
	root := schemaNode(r.Reflect(new(A)))

	if root.Type != "object" {
		root = mcp.SchemaProperty{}
	}
	if root.Properties == nil {
		root.Properties = map[string]mcp.SchemaProperty{}
	}
	return mcp.ToolInputSchema{
		Type:                 "object",
		Properties:           root.Properties,
		Required:             root.Required,
		AdditionalProperties: &open,
	}
}

func schemaNode(s *jsonschema.Schema) mcp.SchemaProperty {
	if s == nil {
		return mcp.SchemaProperty{}
	}
	p := mcp.SchemaProperty{Type: s.Type, Description: s.Description, Enum: s.Enum}

	switch s.Type {
	case "array":
		if s.Items != nil {
			items := schemaNode(s.Items)
			p.Items = &items
		}
	case "object":
		if s.Properties != nil {
			p.Properties = make(map[string]mcp.SchemaProperty, s.Properties.Len())
			for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
				p.Properties[pair.Key] = schemaNode(pair.Value)
			}
		}
		if len(s.Required) > 0 {
			p.Required = append([]string(nil), s.Required...)
		}
	}
	return p
}
