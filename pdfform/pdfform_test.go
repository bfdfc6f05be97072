package pdfform

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample(t *testing.T) *Document {
	t.Helper()
	b := NewBuilder()
	b.AddPage().
		Label(40, 750, 10, "Character Name").
		TextField("CharacterName", Rect{X: 40, Y: 720, W: 200, H: 20}).
		MultilineTextField("Personality", Rect{X: 40, Y: 600, W: 200, H: 100}).
		CheckBox("Check Box 11", Rect{X: 260, Y: 720, W: 12, H: 12})
	doc, err := b.Build()
	require.NoError(t, err)
	return doc
}

func reparse(t *testing.T, d *Document) *Document {
	t.Helper()
	data, err := d.Bytes()
	require.NoError(t, err)
	out, err := Parse(data)
	require.NoError(t, err)
	return out
}

func fieldsByName(t *testing.T, d *Document) map[string]Field {
	t.Helper()
	fields, err := d.Fields()
	require.NoError(t, err)
	out := make(map[string]Field, len(fields))
	for _, f := range fields {
		out[f.Name] = f
	}
	return out
}

func TestBuilderRoundTrip(t *testing.T) {
	fields := fieldsByName(t, reparse(t, buildSample(t)))
	require.Len(t, fields, 3)

	assert.Equal(t, FieldText, fields["CharacterName"].Type)
	assert.Equal(t, FieldText, fields["Personality"].Type)
	assert.Equal(t, FieldCheckBox, fields["Check Box 11"].Type)
	assert.Equal(t, "Off", fields["Check Box 11"].Value)
	assert.Equal(t, "", fields["CharacterName"].Value)
}

func TestBuilderRejectsDuplicateNames(t *testing.T) {
	b := NewBuilder()
	b.AddPage().
		TextField("AC", Rect{W: 10, H: 10}).
		CheckBox("AC", Rect{W: 10, H: 10})
	_, err := b.Build()
	require.Error(t, err)
}

func TestFillLeavesTemplateUntouched(t *testing.T) {
	tmpl := buildSample(t)
	before, err := tmpl.Bytes()
	require.NoError(t, err)

	filled, unmatched, err := tmpl.Fill(map[string]string{
		"CharacterName": "Elminster",
		"Personality":   "Curious\nPatient",
		"Check Box 11":  "Yes",
		"NoSuchField":   "x",
		"AnotherGhost":  "y",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AnotherGhost", "NoSuchField"}, unmatched)

	after, err := tmpl.Bytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, "", fieldsByName(t, tmpl)["CharacterName"].Value)

	got := fieldsByName(t, reparse(t, filled))
	assert.Equal(t, "Elminster", got["CharacterName"].Value)
	assert.Equal(t, "Curious\nPatient", got["Personality"].Value)
	assert.Equal(t, "Yes", got["Check Box 11"].Value)
}

func TestFillCheckBoxValues(t *testing.T) {
	tmpl := buildSample(t)
	for v, want := range map[string]string{"yes": "Yes", "X": "Yes", "true": "Yes", "Off": "Off", "": "Off", "no": "Off"} {
		filled, _, err := tmpl.Fill(map[string]string{"Check Box 11": v})
		require.NoError(t, err)
		assert.Equal(t, want, fieldsByName(t, reparse(t, filled))["Check Box 11"].Value, "value %q", v)
	}
}

func TestFillWithoutChangesSharesDocument(t *testing.T) {
	tmpl := buildSample(t)
	same, unmatched, err := tmpl.Fill(map[string]string{"CharacterName": "", "Ghost": "x"})
	require.NoError(t, err)
	assert.Same(t, tmpl, same)
	assert.Equal(t, []string{"Ghost"}, unmatched)
}

func TestFillConcurrent(t *testing.T) {
	tmpl := buildSample(t)
	var wg sync.WaitGroup
	for _, name := range []string{"Ada", "Brom", "Cyra", "Dain"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			filled, _, err := tmpl.Fill(map[string]string{"CharacterName": name})
			if assert.NoError(t, err) {
				assert.Equal(t, name, fieldsByName(t, filled)["CharacterName"].Value)
			}
		}()
	}
	wg.Wait()
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: ErrNotPDF},
		{name: "text", data: []byte("hello world"), want: ErrNotPDF},
		{name: "truncated", data: []byte("%PDF-1.7\n1 0 obj\n<</Type"), want: nil},
		{name: "huge length", data: []byte("%PDF-1.7\n1 0 obj\n<</Length 9223372036854775800>>\nstream\nx\nendstream\nendobj\ntrailer\n<</Root 1 0 R>>\n%%EOF\n"), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = Parse(tt.data) })
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestParseFormless(t *testing.T) {
	b := NewBuilder()
	b.AddPage().Label(40, 700, 12, "no fields here")
	data, err := b.Render()
	require.NoError(t, err)

	_, err = Parse(data)
	assert.ErrorIs(t, err, ErrNoAcroForm)
}

func TestFieldTypeString(t *testing.T) {
	assert.Equal(t, "checkbox", FieldCheckBox.String())
	assert.Equal(t, "unknown", FieldType(42).String())
}
