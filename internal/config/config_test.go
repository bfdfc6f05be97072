package config

import (
	"log/slog"
	"testing"

	"github.com/ggoodman/dnd-sheet-mcp/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, sheet.DefaultTemplatePath, cfg.TemplatePath)
	assert.Empty(t, cfg.OutputDir)
	assert.Equal(t, "filled_character_sheet.pdf", cfg.DefaultOutput)
	assert.Equal(t, 5<<20, cfg.MaxInlineBytes)
	assert.True(t, cfg.AllowRuleViolations)
	assert.True(t, cfg.WatchTemplate)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DND_TEMPLATE_PATH", "/srv/sheet.pdf")
	t.Setenv("DND_OUTPUT_DIR", "/tmp/out")
	t.Setenv("DND_DEFAULT_OUTPUT", "sheet.PDF")
	t.Setenv("DND_MAX_INLINE_BYTES", "1024")
	t.Setenv("DND_ALLOW_RULE_VIOLATIONS", "false")
	t.Setenv("DND_WATCH_TEMPLATE", "false")
	t.Setenv("DND_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		TemplatePath:        "/srv/sheet.pdf",
		OutputDir:           "/tmp/out",
		DefaultOutput:       "sheet.PDF",
		MaxInlineBytes:      1024,
		AllowRuleViolations: false,
		WatchTemplate:       false,
		LogLevel:            "debug",
	}, cfg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string][2]string{
		"negative inline": {"DND_MAX_INLINE_BYTES", "-1"},
		"not a number":    {"DND_MAX_INLINE_BYTES", "lots"},
		"bad level":       {"DND_LOG_LEVEL", "chatty"},
		"bad default":     {"DND_DEFAULT_OUTPUT", "sheet.txt"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
