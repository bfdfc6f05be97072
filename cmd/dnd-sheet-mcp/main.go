// Command dnd-sheet-mcp serves the character sheet filler over stdio and
// offers a few offline helpers for working with sheet templates.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/ggoodman/dnd-sheet-mcp/internal/config"
	"github.com/ggoodman/dnd-sheet-mcp/internal/logctx"
	"github.com/ggoodman/dnd-sheet-mcp/mcp"
	"github.com/ggoodman/dnd-sheet-mcp/mcpservice"
	"github.com/ggoodman/dnd-sheet-mcp/pdfform"
	"github.com/ggoodman/dnd-sheet-mcp/sheet"
	"github.com/ggoodman/dnd-sheet-mcp/stdio"
	"github.com/spf13/cobra"
)

const serverName = "dnd-character-sheet-filler"

var version = "dev"

const instructions = "Use fill_dnd_character_sheet to render a D&D 5e character into a fillable PDF sheet. " +
	"Derived values such as modifiers, saving throws and spell save DC are computed for you."

type app struct {
	cfg config.Config
	lv  *slog.LevelVar
	log *slog.Logger

	// flag overrides
	templatePath string
	outputDir    string
	logLevel     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{lv: new(slog.LevelVar)}

	root := &cobra.Command{
		Use:           "dnd-sheet-mcp",
		Short:         "Fill D&D 5e character sheet PDFs over the Model Context Protocol",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.PersistentFlags().StringVar(&a.templatePath, "template", "", "fillable PDF template (overrides DND_TEMPLATE_PATH)")
	root.PersistentFlags().StringVar(&a.outputDir, "output-dir", "", "directory for relative output paths (overrides DND_OUTPUT_DIR)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "protocol logging level name (overrides DND_LOG_LEVEL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the stdio server until EOF or a termination signal",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "fields <pdf>",
			Short: "List the form fields of a PDF with their type and current value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return listFields(cmd.OutOrStdout(), args[0])
			},
		},
		a.newFillCommand(),
		newTemplateCommand(),
	)
	return root
}

// setup resolves configuration and installs the process logger. The logger
// writes JSON to stderr; stdout is the protocol channel.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.templatePath != "" {
		cfg.TemplatePath = a.templatePath
	}
	if a.outputDir != "" {
		cfg.OutputDir = a.outputDir
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.lv.Set(level)
	a.cfg = cfg

	a.log = logctx.NewLogger(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: a.lv}))
	slog.SetDefault(a.log)
	return nil
}

func (a *app) filler() (*sheet.Filler, *sheet.TemplateCache) {
	cache := sheet.NewTemplateCache(sheet.ConfiguredSource(a.cfg.TemplatePath, a.log), a.log)
	f := sheet.NewFiller(cache,
		sheet.WithOutputDir(a.cfg.OutputDir),
		sheet.WithDefaultOutput(a.cfg.DefaultOutput),
		sheet.WithMaxInlineBytes(a.cfg.MaxInlineBytes),
		sheet.WithRuleViolations(a.cfg.AllowRuleViolations),
		sheet.WithLogger(a.log),
	)
	return f, cache
}

func (a *app) tools() (*mcpservice.ToolsContainer, *sheet.TemplateCache, error) {
	f, cache := a.filler()
	tools, err := mcpservice.NewToolsContainer([]mcpservice.StaticTool{sheet.NewFillTool(f)})
	if err != nil {
		return nil, nil, err
	}
	return tools, cache, nil
}

func (a *app) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	tools, cache, err := a.tools()
	if err != nil {
		return err
	}

	if a.cfg.WatchTemplate {
		go func() {
			if err := cache.Watch(ctx); err != nil {
				a.log.WarnContext(ctx, "sheet.template.watch_disabled", slog.String("err", err.Error()))
			}
		}()
	}

	srv := mcpservice.NewServer(
		mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: serverName, Version: version}),
		mcpservice.WithPreferredProtocolVersion(mcp.DefaultProtocolVersion),
		mcpservice.WithInstructions(instructions),
		mcpservice.WithToolsCapability(tools),
		mcpservice.WithLoggingCapability(mcpservice.NewSlogLevelVarLogging(a.lv)),
	)

	a.log.InfoContext(ctx, "server.start",
		slog.String("version", version),
		slog.String("template", cache.Name()),
		slog.Bool("watch_template", a.cfg.WatchTemplate),
	)
	h := stdio.NewHandler(srv, stdio.WithIO(in, out), stdio.WithLogger(a.log))
	err = h.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	a.log.InfoContext(context.Background(), "server.stop")
	return err
}

func listFields(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := pdfform.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fields, err := doc.Fields()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tVALUE")
	for _, f := range fields {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Type, f.Value)
	}
	return tw.Flush()
}

func (a *app) newFillCommand() *cobra.Command {
	var (
		dataPath string
		outPath  string
		inline   bool
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the template offline from a character JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(dataPath)
			if err != nil {
				return err
			}
			args := map[string]any{"character_data": json.RawMessage(raw)}
			if outPath != "" {
				args["output_path"] = outPath
			}
			if inline {
				args["return_pdf_content"] = true
			}
			b, err := json.Marshal(args)
			if err != nil {
				return fmt.Errorf("%s: %w", dataPath, err)
			}

			tools, _, err := a.tools()
			if err != nil {
				return err
			}
			res, err := tools.CallTool(cmd.Context(), &mcp.CallToolRequestReceived{Name: sheet.ToolName, Arguments: b})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(res))
			return err
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "character data JSON file")
	cmd.Flags().StringVar(&outPath, "out", "", "output PDF path")
	cmd.Flags().BoolVar(&inline, "inline", false, "print the filled PDF as base64 in the result")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newTemplateCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a blank fillable sheet carrying every mapped field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := sheet.ValidateOutputPath(outPath); err != nil {
				return err
			}
			doc, err := sheet.BlankTemplate()
			if err != nil {
				return err
			}
			data, err := doc.Bytes()
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(data))
			return err
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "blank_character_sheet.pdf", "output PDF path")
	return cmd
}
