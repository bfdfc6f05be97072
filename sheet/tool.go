package sheet

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/ggoodman/dnd-sheet-mcp/charsheet"
	"github.com/ggoodman/dnd-sheet-mcp/mcpservice"
)

// ToolName is the name the fill tool is registered under.
const ToolName = "fill_dnd_character_sheet"

const toolDescription = "Fill a D&D 5th edition character sheet PDF from character data. " +
	"The sheet is written to output_path, returned inline as base64 when return_pdf_content is true, or both. " +
	"Ability modifiers, saving throws, skills, spellcasting statistics and spell slots are computed from the record."

// FillArguments are the arguments of the fill tool.
type FillArguments struct {
	CharacterData    charsheet.CharacterData `json:"character_data" jsonschema:"description=The character to render"`
	OutputPath       string                  `json:"output_path,omitempty" jsonschema:"description=Where to write the filled PDF; must end in .pdf"`
	ReturnPDFContent bool                    `json:"return_pdf_content,omitempty" jsonschema:"description=Return the filled PDF inline as base64"`

	// AllowRuleViolations overrides the server's rule-violation policy for
	// this call. When absent the DND_ALLOW_RULE_VIOLATIONS setting applies.
	AllowRuleViolations *bool `json:"allow_rule_violations,omitempty" jsonschema:"description=Report rule violations as warnings instead of rejecting the call"`
}

// PDFContent is the inline form of a filled document.
type PDFContent struct {
	Data string `json:"data"`
	Size int    `json:"size"`
}

// FillResult is the payload returned by the fill tool.
type FillResult struct {
	OutputPath string      `json:"output_path,omitempty"`
	PDFContent *PDFContent `json:"pdf_content,omitempty"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// NewFillTool binds f to the fill tool.
func NewFillTool(f *Filler) mcpservice.StaticTool {
	return mcpservice.NewTool(ToolName, func(ctx context.Context, args FillArguments) (FillResult, error) {
		res, err := f.Fill(ctx, Request{
			Character:           &args.CharacterData,
			OutputPath:          args.OutputPath,
			ReturnContent:       args.ReturnPDFContent,
			AllowRuleViolations: args.AllowRuleViolations,
		})
		if err != nil {
			return FillResult{}, toolError(err, f, args)
		}

		out := FillResult{OutputPath: res.OutputPath}
		if res.Content != nil {
			out.PDFContent = &PDFContent{
				Data: base64.StdEncoding.EncodeToString(res.Content),
				Size: len(res.Content),
			}
		}
		for _, w := range res.Warnings {
			out.Warnings = append(out.Warnings, "character_data."+w.String())
		}
		return out, nil
	}, mcpservice.WithToolDescription(toolDescription))
}

// toolError translates fill failures into the client-facing taxonomy.
func toolError(err error, f *Filler, args FillArguments) error {
	var ae *ArgumentError
	switch {
	case errors.As(err, &ae):
		return &mcpservice.Error{Kind: mcpservice.KindInvalidArguments, Field: ae.Field, Message: ae.Error()}
	case errors.Is(err, ErrTemplateUnavailable):
		return &mcpservice.Error{Kind: mcpservice.KindTemplateUnavailable, File: f.TemplateName(), Message: err.Error()}
	case errors.Is(err, ErrOutputWriteFailed):
		file := args.OutputPath
		if file == "" {
			file = f.DefaultOutput()
		}
		return &mcpservice.Error{Kind: mcpservice.KindOutputWriteFailed, File: file, Message: err.Error()}
	case errors.Is(err, ErrEncodingFailed):
		return &mcpservice.Error{Kind: mcpservice.KindEncodingFailed, Message: err.Error()}
	}
	return err
}
