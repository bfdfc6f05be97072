package pdfform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Fill returns a copy of d with the given values applied to the form
// fields named by the map keys. It reports the keys that matched no
// fillable field; they are otherwise ignored.
//
// Text, date and combo box fields take the value verbatim. Check boxes are
// selected by one of "yes", "on", "true", "1", "x" or "checked" (any case)
// and cleared otherwise. Radio groups and list boxes only accept one of
// their options. Locked fields are never changed.
func (d *Document) Fill(values map[string]string) (*Document, []string, error) {
	g, err := decodeForm(d.form)
	if err != nil {
		return nil, nil, err
	}

	matched := make(map[string]bool, len(values))
	changed := false
	g.each(func(key string, _ FieldType, e map[string]any) {
		name := entryName(e)
		v, ok := values[name]
		if !ok || e["locked"] == true {
			return
		}

		member, next := "value", any(v)
		switch key {
		case "checkbox":
			next = isChecked(v)
		case "radiobuttongroup":
			if !slices.Contains(stringList(e["options"]), v) {
				return
			}
		case "listbox":
			if !slices.Contains(stringList(e["options"]), v) {
				return
			}
			member, next = "values", []any{v}
		}
		matched[name] = true
		if !sameValue(e[member], next) {
			e[member] = next
			changed = true
		}
	})

	var unmatched []string
	for k := range values {
		if !matched[k] {
			unmatched = append(unmatched, k)
		}
	}
	sort.Strings(unmatched)

	if !changed {
		return d, unmatched, nil
	}

	form, err := json.Marshal(g)
	if err != nil {
		return nil, nil, fmt.Errorf("pdfform: encode form values: %w", err)
	}
	var out bytes.Buffer
	err = guard("fill form", func() error {
		return api.FillForm(bytes.NewReader(d.data), bytes.NewReader(form), &out, newConfig())
	})
	if err != nil {
		return nil, nil, fmt.Errorf("pdfform: fill: %w", err)
	}

	filled, err := newDocument(out.Bytes(), form)
	if err != nil {
		return nil, nil, err
	}
	return filled, unmatched, nil
}

// sameValue compares an exported member with its replacement. Exports omit
// empty values, so a missing member equals the zero value.
func sameValue(cur, next any) bool {
	if cur == nil {
		switch n := next.(type) {
		case string:
			return n == ""
		case bool:
			return !n
		}
		return false
	}
	return fmt.Sprint(cur) == fmt.Sprint(next)
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "on", "true", "1", "x", "checked":
		return true
	}
	return false
}
