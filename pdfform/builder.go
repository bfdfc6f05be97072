package pdfform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Rect is a rectangle in default user space: origin at the lower left
// corner, units of 1/72 inch.
type Rect struct {
	X, Y, W, H float64
}

// US Letter page size in points.
const (
	LetterWidth  = 612
	LetterHeight = 792
)

// Field and label fonts. Sizes are in points.
const (
	fieldFont     = "Helvetica"
	fieldFontSize = 8
	labelFont     = "Helvetica"
)

// Builder assembles a fillable US Letter document out of pages, text
// fields, check boxes and static labels. The layout is rendered by pdfcpu's
// create command.
type Builder struct {
	pages []*PageBuilder
}

// PageBuilder collects the content of one page.
type PageBuilder struct {
	content pageContent
}

// The JSON accepted by pdfcpu's create command, restricted to the
// primitives used here.
type (
	createDoc struct {
		Paper  string                `json:"paper"`
		Origin string                `json:"origin"`
		Pages  map[string]createPage `json:"pages"`
	}
	createPage struct {
		Content pageContent `json:"content"`
	}
	pageContent struct {
		Text       []textBox   `json:"text,omitempty"`
		TextFields []textField `json:"textfield,omitempty"`
		CheckBoxes []checkBox  `json:"checkbox,omitempty"`
	}
	fontSpec struct {
		Name string `json:"name"`
		Size int    `json:"size"`
	}
	textBox struct {
		Value string     `json:"value"`
		Pos   [2]float64 `json:"pos"`
		Font  fontSpec   `json:"font"`
	}
	textField struct {
		ID        string     `json:"id"`
		Pos       [2]float64 `json:"pos"`
		Width     float64    `json:"width"`
		Height    float64    `json:"height"`
		Multiline bool       `json:"multiline,omitempty"`
		Font      fontSpec   `json:"font"`
	}
	checkBox struct {
		ID    string     `json:"id"`
		Pos   [2]float64 `json:"pos"`
		Width float64    `json:"width"`
	}
)

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// AddPage appends a US Letter page.
func (b *Builder) AddPage() *PageBuilder {
	p := &PageBuilder{}
	b.pages = append(b.pages, p)
	return p
}

// TextField adds a single-line text field.
func (p *PageBuilder) TextField(name string, r Rect) *PageBuilder {
	p.content.TextFields = append(p.content.TextFields, textField{
		ID: name, Pos: [2]float64{r.X, r.Y}, Width: r.W, Height: r.H,
		Font: fontSpec{Name: fieldFont, Size: fieldFontSize},
	})
	return p
}

// MultilineTextField adds a text field that wraps its content.
func (p *PageBuilder) MultilineTextField(name string, r Rect) *PageBuilder {
	p.TextField(name, r)
	p.content.TextFields[len(p.content.TextFields)-1].Multiline = true
	return p
}

// CheckBox adds a check box. Only the width of r is used; boxes are square.
func (p *PageBuilder) CheckBox(name string, r Rect) *PageBuilder {
	p.content.CheckBoxes = append(p.content.CheckBoxes, checkBox{
		ID: name, Pos: [2]float64{r.X, r.Y}, Width: r.W,
	})
	return p
}

// Label draws static text with its baseline starting at (x, y).
func (p *PageBuilder) Label(x, y float64, size int, text string) *PageBuilder {
	p.content.Text = append(p.content.Text, textBox{
		Value: text, Pos: [2]float64{x, y}, Font: fontSpec{Name: labelFont, Size: size},
	})
	return p
}

// Build renders the document and parses the result. A document without
// fields fails with ErrNoAcroForm.
func (b *Builder) Build() (*Document, error) {
	data, err := b.Render()
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Render returns the serialized document. Field names must be unique.
func (b *Builder) Render() ([]byte, error) {
	cd := createDoc{Paper: "Letter", Origin: "LowerLeft", Pages: make(map[string]createPage, len(b.pages))}
	seen := make(map[string]bool)
	for i, p := range b.pages {
		for _, f := range p.content.TextFields {
			if seen[f.ID] {
				return nil, fmt.Errorf("pdfform: duplicate field name %q", f.ID)
			}
			seen[f.ID] = true
		}
		for _, c := range p.content.CheckBoxes {
			if seen[c.ID] {
				return nil, fmt.Errorf("pdfform: duplicate field name %q", c.ID)
			}
			seen[c.ID] = true
		}
		cd.Pages[fmt.Sprint(i+1)] = createPage{Content: p.content}
	}

	js, err := json.Marshal(cd)
	if err != nil {
		return nil, fmt.Errorf("pdfform: encode layout: %w", err)
	}
	var out bytes.Buffer
	err = guard("create", func() error {
		return api.Create(nil, bytes.NewReader(js), &out, newConfig())
	})
	if err != nil {
		return nil, fmt.Errorf("pdfform: create: %w", err)
	}
	return out.Bytes(), nil
}
