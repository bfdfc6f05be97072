package pdfform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType classifies a form field.
type FieldType int

const (
	FieldUnknown FieldType = iota
	FieldText
	FieldDate
	FieldCheckBox
	FieldRadio
	FieldChoice
)

func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldDate:
		return "date"
	case FieldCheckBox:
		return "checkbox"
	case FieldRadio:
		return "radio"
	case FieldChoice:
		return "choice"
	}
	return "unknown"
}

// Field is one field of the document's interactive form.
type Field struct {
	// Name is the fully qualified field name, partial names joined by '.'.
	Name string
	Type FieldType
	// Value is the current value. Check boxes read "Yes" or "Off"; list
	// boxes join their selection with ", ".
	Value  string
	Locked bool
}

// Fields returns the fields of the form, grouped by type in the order pdfcpu
// exports them.
func (d *Document) Fields() ([]Field, error) {
	return append([]Field(nil), d.fields...), nil
}

// FieldValues returns the current value of every field by name.
func (d *Document) FieldValues() (map[string]string, error) {
	out := make(map[string]string, len(d.fields))
	for _, f := range d.fields {
		out[f.Name] = f.Value
	}
	return out, nil
}

// The keys pdfcpu uses for each kind of field in a form export.
var fieldKinds = []struct {
	key string
	typ FieldType
}{
	{"textfield", FieldText},
	{"datefield", FieldDate},
	{"checkbox", FieldCheckBox},
	{"radiobuttongroup", FieldRadio},
	{"combobox", FieldChoice},
	{"listbox", FieldChoice},
}

// formGroup mirrors pdfcpu's form export. Field entries stay generic so
// that members this package does not touch survive a fill unchanged.
type formGroup struct {
	Header json.RawMessage  `json:"header,omitempty"`
	Forms  []map[string]any `json:"forms"`
}

func decodeForm(b []byte) (*formGroup, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var g formGroup
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("decode form export: %w", err)
	}
	return &g, nil
}

// each calls fn for every field entry, with the export key of its kind.
func (g *formGroup) each(fn func(key string, typ FieldType, entry map[string]any)) {
	for _, form := range g.Forms {
		for _, k := range fieldKinds {
			list, _ := form[k.key].([]any)
			for _, e := range list {
				if entry, ok := e.(map[string]any); ok {
					fn(k.key, k.typ, entry)
				}
			}
		}
	}
}

func (g *formGroup) fields() []Field {
	var out []Field
	g.each(func(key string, typ FieldType, e map[string]any) {
		f := Field{Name: entryName(e), Type: typ, Locked: e["locked"] == true}
		switch key {
		case "checkbox":
			f.Value = "Off"
			if e["value"] == true {
				f.Value = "Yes"
			}
		case "listbox":
			f.Value = strings.Join(stringList(e["values"]), ", ")
		default:
			f.Value, _ = e["value"].(string)
		}
		if f.Name != "" {
			out = append(out, f)
		}
	})
	return out
}

func entryName(e map[string]any) string {
	if name, _ := e["name"].(string); name != "" {
		return name
	}
	id, _ := e["id"].(string)
	return id
}

func stringList(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
