// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ggoodman/dnd-sheet-mcp/mcp"
	"github.com/ggoodman/dnd-sheet-mcp/mcpservice"
	"github.com/ggoodman/dnd-sheet-mcp/sheet"
	"github.com/joeshaw/envdecode"
)

// Config holds every setting the server reads at startup. Defaults are
// provided via struct tags.
type Config struct {
	// TemplatePath is the fillable PDF used as the template. ENV: DND_TEMPLATE_PATH
	TemplatePath string `env:"DND_TEMPLATE_PATH,default=docs/5E_CharacterSheet_Fillable.pdf"`
	// OutputDir anchors relative output paths; empty means the working
	// directory. ENV: DND_OUTPUT_DIR
	OutputDir string `env:"DND_OUTPUT_DIR"`
	// DefaultOutput is written when a call asks for neither a path nor
	// inline content. ENV: DND_DEFAULT_OUTPUT
	DefaultOutput string `env:"DND_DEFAULT_OUTPUT,default=filled_character_sheet.pdf"`
	// MaxInlineBytes caps inline document size; 0 disables the cap.
	// ENV: DND_MAX_INLINE_BYTES
	MaxInlineBytes int `env:"DND_MAX_INLINE_BYTES,default=5242880"`
	// AllowRuleViolations keeps rule violations as warnings instead of
	// rejecting the call. ENV: DND_ALLOW_RULE_VIOLATIONS
	AllowRuleViolations bool `env:"DND_ALLOW_RULE_VIOLATIONS,default=true"`
	// WatchTemplate reloads the template when it changes on disk.
	// ENV: DND_WATCH_TEMPLATE
	WatchTemplate bool `env:"DND_WATCH_TEMPLATE,default=true"`
	// LogLevel is a protocol logging level name. ENV: DND_LOG_LEVEL
	LogLevel string `env:"DND_LOG_LEVEL,default=info"`
}

// Load decodes the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.TemplatePath == "" {
		return errors.New("config: DND_TEMPLATE_PATH must not be empty")
	}
	if c.MaxInlineBytes < 0 {
		return fmt.Errorf("config: DND_MAX_INLINE_BYTES must not be negative, got %d", c.MaxInlineBytes)
	}
	if err := sheet.ValidateOutputPath(c.DefaultOutput); err != nil {
		return fmt.Errorf("config: DND_DEFAULT_OUTPUT: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("config: DND_LOG_LEVEL: %w", err)
	}
	return nil
}

// SlogLevel converts LogLevel to a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	return mcpservice.SlogLevel(mcp.LoggingLevel(c.LogLevel))
}
