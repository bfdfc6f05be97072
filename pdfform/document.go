package pdfform

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrNotPDF is returned by Parse for data without a PDF header.
	ErrNotPDF = errors.New("pdfform: not a PDF document")
	// ErrMalformed is returned for documents pdfcpu cannot read.
	ErrMalformed = errors.New("pdfform: malformed document")
	// ErrEncrypted is returned for encrypted documents that cannot be opened
	// without a password.
	ErrEncrypted = errors.New("pdfform: encrypted documents are not supported")
	// ErrNoAcroForm is returned when a document declares no form fields.
	ErrNoAcroForm = errors.New("pdfform: document has no form fields")
)

func init() {
	api.DisableConfigDir()
}

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// guard runs fn and turns a panic inside pdfcpu into ErrMalformed.
func guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrMalformed, op, r)
		}
	}()
	return fn()
}

// Document is a parsed PDF together with its form. A Document is immutable
// and safe for concurrent use.
type Document struct {
	data   []byte
	form   []byte // pdfcpu form export, as JSON
	fields []Field
}

// headerWindow is how far into the file the %PDF- marker may start.
const headerWindow = 1024

// Parse reads a PDF document. The document must carry an interactive form.
func Parse(data []byte) (*Document, error) {
	if !bytes.Contains(data[:min(len(data), headerWindow)], []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	err := guard("validate", func() error {
		return api.Validate(bytes.NewReader(data), newConfig())
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrMalformed):
		return nil, err
	case bytes.Contains(data, []byte("/Encrypt")):
		return nil, fmt.Errorf("%w: %w", ErrEncrypted, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var form bytes.Buffer
	err = guard("export form", func() error {
		return api.ExportFormJSON(bytes.NewReader(data), &form, "template", newConfig())
	})
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrNoAcroForm, err)
	}
	return newDocument(data, form.Bytes())
}

func newDocument(data, form []byte) (*Document, error) {
	g, err := decodeForm(form)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	fields := g.fields()
	if len(fields) == 0 {
		return nil, ErrNoAcroForm
	}
	return &Document{data: data, form: form, fields: fields}, nil
}

// Bytes returns a copy of the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	return bytes.Clone(d.data), nil
}

// Len returns the size of the serialized document in bytes.
func (d *Document) Len() int { return len(d.data) }
