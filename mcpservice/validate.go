package mcpservice

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/ggoodman/dnd-sheet-mcp/mcp"
)

// validateArguments checks raw tool arguments against schema and returns
// them re-encoded so that they decode cleanly into the reflected Go type:
// integral numbers given for integer properties (1.0, 1e1) are rewritten as
// integer literals.
//
// Required members must be present and not null. Unknown top-level members
// are rejected when the schema closes additionalProperties; unknown nested
// members are kept.
func validateArguments(schema mcp.ToolInputSchema, raw json.RawMessage) (json.RawMessage, *Error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &Error{Kind: KindInvalidArguments, Message: "arguments are not valid JSON", Err: err}
	}
	args, ok := v.(map[string]any)
	if !ok {
		return nil, InvalidArgument("", "arguments must be an object")
	}

	root := mcp.SchemaProperty{Type: "object", Properties: schema.Properties, Required: schema.Required}
	if schema.AdditionalProperties != nil && !*schema.AdditionalProperties {
		for _, k := range sortedKeys(args) {
			if _, known := schema.Properties[k]; !known {
				return nil, InvalidArgument(k, "unknown argument %q", k)
			}
		}
	}

	out, verr := checkValue(root, args, "")
	if verr != nil {
		return nil, verr
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: "failed to re-encode arguments", Err: err}
	}
	return b, nil
}

func checkValue(p mcp.SchemaProperty, v any, path string) (any, *Error) {
	if v == nil {
		return nil, nil
	}
	switch p.Type {
	case "integer":
		n, ok := v.(json.Number)
		if !ok {
			return nil, InvalidArgument(path, "%s must be an integer", path)
		}
		if _, err := n.Int64(); err == nil {
			return n, nil
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return nil, InvalidArgument(path, "%s must be an integer", path)
		}
		return json.Number(strconv.FormatInt(int64(f), 10)), nil
	case "number":
		if _, ok := v.(json.Number); !ok {
			return nil, InvalidArgument(path, "%s must be a number", path)
		}
	case "string":
		if _, ok := v.(string); !ok {
			return nil, InvalidArgument(path, "%s must be a string", path)
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return nil, InvalidArgument(path, "%s must be a boolean", path)
		}
	case "array":
		list, ok := v.([]any)
		if !ok {
			return nil, InvalidArgument(path, "%s must be an array", path)
		}
		if p.Items == nil {
			return list, nil
		}
		for i, item := range list {
			got, err := checkValue(*p.Items, item, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			list[i] = got
		}
		return list, nil
	case "object":
		m, ok := v.(map[string]any)
		if !ok {
			return nil, InvalidArgument(path, "%s must be an object", path)
		}
		for _, r := range p.Required {
			if val, present := m[r]; !present || val == nil {
				field := join(path, r)
				return nil, InvalidArgument(field, "%s is required", field)
			}
		}
		for _, k := range sortedKeys(m) {
			prop, known := p.Properties[k]
			if !known {
				continue
			}
			got, err := checkValue(prop, m[k], join(path, k))
			if err != nil {
				return nil, err
			}
			m[k] = got
		}
		return m, nil
	}
	return v, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
