// Package sheet fills the D&D 5e character sheet form from a
// charsheet.CharacterData record and delivers the result as a file, as
// bytes, or both.
package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ggoodman/dnd-sheet-mcp/charsheet"
)

const (
	// DefaultOutputPath is written when a caller asks for neither a file
	// nor inline content.
	DefaultOutputPath = "filled_character_sheet.pdf"
	// DefaultMaxInlineBytes bounds documents returned inline.
	DefaultMaxInlineBytes = 5 << 20
)

// Filler runs fills against a cached template.
type Filler struct {
	templates       *TemplateCache
	outputDir       string
	defaultOutput   string
	maxInline       int
	allowViolations bool
	log             *slog.Logger
}

// Option configures a Filler.
type Option func(*Filler)

// WithOutputDir resolves relative output paths against dir instead of the
// working directory.
func WithOutputDir(dir string) Option {
	return func(f *Filler) { f.outputDir = dir }
}

// WithDefaultOutput sets the path written when the caller names none and
// does not ask for inline content.
func WithDefaultOutput(path string) Option {
	return func(f *Filler) {
		if path != "" {
			f.defaultOutput = path
		}
	}
}

// WithMaxInlineBytes bounds inline content. A non-positive n removes the
// bound.
func WithMaxInlineBytes(n int) Option {
	return func(f *Filler) { f.maxInline = n }
}

// WithRuleViolations controls whether rule violations found by
// charsheet.Check are reported as warnings (true, the default) or fail the
// fill.
func WithRuleViolations(allow bool) Option {
	return func(f *Filler) { f.allowViolations = allow }
}

// WithLogger sets the logger used for fill events.
func WithLogger(log *slog.Logger) Option {
	return func(f *Filler) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFiller returns a Filler reading templates from cache.
func NewFiller(cache *TemplateCache, opts ...Option) *Filler {
	f := &Filler{
		templates:       cache,
		defaultOutput:   DefaultOutputPath,
		maxInline:       DefaultMaxInlineBytes,
		allowViolations: true,
		log:             slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TemplateName returns the base name of the template.
func (f *Filler) TemplateName() string { return f.templates.Name() }

// DefaultOutput returns the path written when a request names none.
func (f *Filler) DefaultOutput() string { return f.defaultOutput }

// Request describes one fill.
type Request struct {
	Character *charsheet.CharacterData
	// OutputPath is where the document is written. When empty the document
	// is written to the default path unless ReturnContent is set.
	OutputPath    string
	ReturnContent bool
	// AllowRuleViolations overrides the filler's policy when set.
	AllowRuleViolations *bool
}

// Result describes the produced artifact. OutputPath is set when a file was
// written, Content when inline bytes were requested.
type Result struct {
	OutputPath string
	Content    []byte
	Warnings   []charsheet.Warning
	// Unmatched counts mapped values for which the template has no field.
	Unmatched int
}

// Fill renders req.Character into a copy of the template.
func (f *Filler) Fill(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if req.Character == nil {
		return nil, &ArgumentError{Field: "character_data", Message: "is required"}
	}
	if req.OutputPath != "" {
		if err := ValidateOutputPath(req.OutputPath); err != nil {
			return nil, err
		}
	}

	allow := f.allowViolations
	if req.AllowRuleViolations != nil {
		allow = *req.AllowRuleViolations
	}
	warnings := charsheet.Check(req.Character)
	if !allow && len(warnings) > 0 {
		w := warnings[0]
		return nil, &ArgumentError{Field: "character_data." + w.Field, Message: w.Message}
	}

	tmpl, err := f.templates.Get()
	if err != nil {
		return nil, err
	}
	filled, unmatched, err := tmpl.Fill(FieldValues(req.Character))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateUnavailable, f.templates.Name(), err)
	}
	data, err := filled.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	if req.ReturnContent && f.maxInline > 0 && len(data) > f.maxInline {
		return nil, fmt.Errorf("%w: document is %d bytes, inline limit is %d", ErrEncodingFailed, len(data), f.maxInline)
	}

	res := &Result{Warnings: warnings, Unmatched: len(unmatched)}
	out := req.OutputPath
	if out == "" && !req.ReturnContent {
		out = f.defaultOutput
	}
	if out != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := writeAtomic(f.resolve(out), data); err != nil {
			return nil, err
		}
		res.OutputPath = out
	}
	if req.ReturnContent {
		res.Content = data
	}

	f.log.InfoContext(ctx, "sheet.fill.ok",
		slog.String("template", f.templates.Name()),
		slog.Int("bytes", len(data)),
		slog.Int("warnings", len(warnings)),
		slog.Int("unmatched", len(unmatched)),
		slog.Bool("file", res.OutputPath != ""),
		slog.Bool("inline", req.ReturnContent),
		slog.Int64("dur_ms", time.Since(start).Milliseconds()),
	)
	return res, nil
}

func (f *Filler) resolve(p string) string {
	if f.outputDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(f.outputDir, p)
}
